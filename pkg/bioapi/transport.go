// Package bioapi holds thin JSON-over-HTTP wrappers for the prediction service and
// the public biological databases.
package bioapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bioez-be/internal/pkg/apperror"
)

const maxErrorBody = 512

// Transport issues requests to one remote service. It never retries.
type Transport struct {
	Service string
	BaseURL string
	Headers map[string]string
	Client  *http.Client
}

func NewTransport(service, baseURL string, timeout time.Duration) *Transport {
	return &Transport{
		Service: service,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Headers: map[string]string{},
		Client:  &http.Client{Timeout: timeout},
	}
}

func (t *Transport) WithHeader(key, value string) *Transport {
	if value != "" {
		t.Headers[key] = value
	}
	return t
}

// URL joins path segments onto the base URL, escaping each segment.
func (t *Transport) URL(query url.Values, segments ...string) string {
	u := t.BaseURL
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// GetJSON decodes the response of a GET into out. The returned status is set
// whenever a response was received, including on HttpStatusError.
func (t *Transport) GetJSON(ctx context.Context, rawURL string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	return t.do(req, out)
}

func (t *Transport) PostJSON(ctx context.Context, rawURL string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, out)
}

// GetText returns the raw body of a GET.
func (t *Transport) GetText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	body, _, err := t.send(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (t *Transport) do(req *http.Request, out interface{}) (int, error) {
	body, status, err := t.send(req)
	if err != nil {
		return status, err
	}
	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return status, apperror.Network(t.Service, fmt.Errorf("decode response: %w", err))
	}
	return status, nil
}

func (t *Transport) send(req *http.Request) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, 0, apperror.FromTransport(t.Service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperror.FromTransport(t.Service, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, resp.StatusCode, apperror.HTTPStatus(t.Service, resp.StatusCode, snippet)
	}
	return body, resp.StatusCode, nil
}
