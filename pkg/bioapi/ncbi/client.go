package ncbi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bioez-be/pkg/bioapi"
)

type Client struct {
	transport *bioapi.Transport
	database  string
	apiKey    string
}

func NewClient(baseURL, database, apiKey string, timeout time.Duration) *Client {
	if database == "" {
		database = "pubmed"
	}
	return &Client{
		transport: bioapi.NewTransport("NCBI", baseURL, timeout),
		database:  database,
		apiKey:    apiKey,
	}
}

// Article is one summarised record. Found is false when esummary had no entry for the id.
type Article struct {
	Id      string
	Title   string
	PubDate string
	Found   bool
}

type esearchResponse struct {
	ESearchResult struct {
		IdList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type summaryRecord struct {
	Title   string `json:"title"`
	PubDate string `json:"pubdate"`
}

func (c *Client) params(extra map[string]string) url.Values {
	q := url.Values{}
	q.Set("db", c.database)
	q.Set("retmode", "json")
	for k, v := range extra {
		q.Set(k, v)
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	return q
}

// Search looks ids up with esearch and, only when there is at least one, fetches
// their summaries. Articles keep the esearch order.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Article, error) {
	ids, err := c.searchIds(ctx, term, limit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	var summary esummaryResponse
	q := c.params(map[string]string{"id": strings.Join(ids, ",")})
	if _, err := c.transport.GetJSON(ctx, c.transport.URL(q, "esummary.fcgi"), &summary); err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(ids))
	for _, id := range ids {
		a := Article{Id: id}
		if raw, ok := summary.Result[id]; ok {
			var rec summaryRecord
			if json.Unmarshal(raw, &rec) == nil {
				a.Title = rec.Title
				a.PubDate = rec.PubDate
				a.Found = true
			}
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (c *Client) searchIds(ctx context.Context, term string, limit int) ([]string, error) {
	var resp esearchResponse
	q := c.params(map[string]string{"term": term, "retmax": strconv.Itoa(limit)})
	if _, err := c.transport.GetJSON(ctx, c.transport.URL(q, "esearch.fcgi"), &resp); err != nil {
		return nil, err
	}
	return resp.ESearchResult.IdList, nil
}
