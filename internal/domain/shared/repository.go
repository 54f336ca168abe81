package shared

// Default and maximum page sizes for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter represents query filter options
type Filter struct {
	Page   int
	Limit  int
	Search string
	Name   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{Page: DefaultPage, Limit: DefaultLimit}
}

// Normalize fills in defaults for non-positive page and limit and caps the limit.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Offset is the number of rows to skip for the filter's page.
func (f Filter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.Limit
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, limit int) Paginated[T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    int64(page*limit) < total,
	}
}

// MapPaginated converts the items of a page while keeping its counters.
func MapPaginated[T, U any](p Paginated[T], fn func(T) U) Paginated[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Paginated[U]{
		Items:      out,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
		HasMore:    p.HasMore,
	}
}
