package rcsb

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"bioez-be/pkg/bioapi"
)

const serviceName = "RCSB PDB"

type Client struct {
	searchURL string
	search    *bioapi.Transport
	data      *bioapi.Transport
	files     *bioapi.Transport
}

func NewClient(searchURL, dataURL, filesURL string, timeout time.Duration) *Client {
	return &Client{
		searchURL: searchURL,
		search:    bioapi.NewTransport(serviceName, searchURL, timeout),
		data:      bioapi.NewTransport(serviceName, dataURL, timeout),
		files:     bioapi.NewTransport(serviceName, filesURL, timeout),
	}
}

type searchQuery struct {
	Query          terminalNode   `json:"query"`
	ReturnType     string         `json:"return_type"`
	RequestOptions requestOptions `json:"request_options"`
}

type terminalNode struct {
	Type       string            `json:"type"`
	Service    string            `json:"service"`
	Parameters map[string]string `json:"parameters"`
}

type requestOptions struct {
	Paginate paginate `json:"paginate"`
}

type paginate struct {
	Start int `json:"start"`
	Rows  int `json:"rows"`
}

type Hit struct {
	Identifier string  `json:"identifier"`
	Score      float64 `json:"score"`
	Title      string  `json:"title,omitempty"`
}

type searchResponse struct {
	TotalCount int   `json:"total_count"`
	ResultSet  []Hit `json:"result_set"`
}

// Search runs a full-text entry search. The service answers 204 when nothing matches.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	body := searchQuery{
		Query: terminalNode{
			Type:       "terminal",
			Service:    "full_text",
			Parameters: map[string]string{"value": term},
		},
		ReturnType:     "entry",
		RequestOptions: requestOptions{Paginate: paginate{Start: 0, Rows: limit}},
	}

	var resp searchResponse
	if _, err := c.search.PostJSON(ctx, c.searchURL, body, &resp); err != nil {
		return nil, err
	}
	return resp.ResultSet, nil
}

// Entry returns the raw core entry document for a PDB id.
func (c *Client) Entry(ctx context.Context, pdbID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if _, err := c.data.GetJSON(ctx, c.data.URL(nil, "entry", strings.ToUpper(pdbID)), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// StructureFile downloads the PDB-format coordinates for the structure viewer.
func (c *Client) StructureFile(ctx context.Context, pdbID string) (string, error) {
	return c.files.GetText(ctx, c.files.URL(nil, strings.ToUpper(pdbID)+".pdb"))
}
