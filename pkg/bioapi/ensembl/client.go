package ensembl

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"bioez-be/internal/pkg/apperror"
	"bioez-be/pkg/bioapi"
)

const DefaultSpecies = "homo_sapiens"

type Client struct {
	transport *bioapi.Transport
	species   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{transport: bioapi.NewTransport("Ensembl", baseURL, timeout), species: DefaultSpecies}
}

type Gene struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Biotype     string `json:"biotype"`
	Species     string `json:"species"`
}

// LookupSymbol resolves a gene symbol. Ensembl answers 400 for unknown symbols,
// which is reported as (nil, nil).
func (c *Client) LookupSymbol(ctx context.Context, symbol string) (*Gene, error) {
	q := url.Values{}
	q.Set("content-type", "application/json")

	var gene Gene
	_, err := c.transport.GetJSON(ctx, c.transport.URL(q, "lookup", "symbol", c.species, symbol), &gene)
	if err != nil {
		if s := apperror.UpstreamStatus(err); s == http.StatusBadRequest || s == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if gene.Id == "" {
		return nil, nil
	}
	return &gene, nil
}
