package uniprot

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"bioez-be/pkg/bioapi"
)

type Client struct {
	transport *bioapi.Transport
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{transport: bioapi.NewTransport("UniProt", baseURL, timeout)}
}

type fullName struct {
	Value string `json:"value"`
}

type named struct {
	FullName fullName `json:"fullName"`
}

type Entry struct {
	PrimaryAccession   string `json:"primaryAccession"`
	ProteinDescription struct {
		RecommendedName *named  `json:"recommendedName"`
		SubmissionNames []named `json:"submissionNames"`
	} `json:"proteinDescription"`
	Organism struct {
		ScientificName string `json:"scientificName"`
	} `json:"organism"`
}

// Name prefers the recommended name and falls back to the first submitted one.
func (e Entry) Name() string {
	if rn := e.ProteinDescription.RecommendedName; rn != nil && rn.FullName.Value != "" {
		return rn.FullName.Value
	}
	if len(e.ProteinDescription.SubmissionNames) > 0 {
		return e.ProteinDescription.SubmissionNames[0].FullName.Value
	}
	return ""
}

type searchResponse struct {
	Results []Entry `json:"results"`
}

func (c *Client) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	q := url.Values{}
	q.Set("query", term)
	q.Set("format", "json")
	q.Set("size", strconv.Itoa(limit))

	var resp searchResponse
	if _, err := c.transport.GetJSON(ctx, c.transport.URL(q, "search"), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Fetch returns the raw UniProtKB entry for an accession.
func (c *Client) Fetch(ctx context.Context, accession string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("format", "json")

	var raw json.RawMessage
	if _, err := c.transport.GetJSON(ctx, c.transport.URL(q, accession), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
