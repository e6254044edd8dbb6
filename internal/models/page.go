package models

// Pagination is the list metadata of the API envelope.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages,omitempty"`
}

// TotalPages returns the page count, deriving it from Total and Limit when
// the API leaves it out.
func (p *Pagination) TotalPages() int {
	if p == nil {
		return 0
	}
	if p.Pages > 0 {
		return p.Pages
	}
	if p.Limit <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// HasNext reports whether a later page exists. Without pagination metadata
// a full page is taken to mean there may be more.
func (p Page[T]) HasNext(page, limit int) bool {
	if p.Pagination != nil {
		return page < p.Pagination.TotalPages()
	}
	return limit > 0 && len(p.Items) >= limit
}
