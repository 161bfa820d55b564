package client

import "encoding/json"

// Pagination is the metadata block every list response carries.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Page is one fetched page of a resource listing. Items stay raw so the
// query machinery is resource-agnostic; callers decode them into their own
// types with DecodeItems.
type Page struct {
	Items      []json.RawMessage `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// DecodeItems unmarshals every item of a page into T.
func DecodeItems[T any](p *Page) ([]T, error) {
	out := make([]T, 0, len(p.Items))
	for _, raw := range p.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
