package entity

type SearchResult struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Url         string `json:"url"`
}

// DatabaseState is the per-database outcome of the current search.
type DatabaseState struct {
	Database  string         `json:"database"`
	Results   []SearchResult `json:"results"`
	IsLoading bool           `json:"isLoading"`
	Error     *string        `json:"error"`
}
