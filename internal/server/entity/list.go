package entity

import (
	"context"
	"sort"
	"time"
)

// ListOptions controls filtering, ordering and pagination of List.
type ListOptions struct {
	// Filter keeps only matching records; nil keeps everything.
	Filter func(Document) bool

	// SortAsc orders by the entity's sort field ascending instead of the
	// default descending-by-recency.
	SortAsc bool

	// Page and Limit enable offset pagination. Limit 0 returns the full
	// filtered set with no pagination info.
	Page  int
	Limit int
}

// Pagination describes the window a paginated List call returned.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// Page is the result of a List call.
type Page struct {
	Items      []Document
	Pagination *Pagination
}

// List loads all records, filters, sorts by the definition's sort field and
// applies offset pagination. The scan is a full-table read; a record written
// just before the call may not be visible yet.
func (r *Repository) List(ctx context.Context, opts ListOptions) (*Page, error) {
	docs, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if opts.Filter == nil || opts.Filter(doc) {
			filtered = append(filtered, doc)
		}
	}

	field := r.def.SortField
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := sortValue(filtered[i][field]), sortValue(filtered[j][field])
		if opts.SortAsc {
			return a < b
		}
		return a > b
	})

	if opts.Limit <= 0 {
		return &Page{Items: filtered}, nil
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	total := len(filtered)
	start := (page - 1) * opts.Limit
	end := start + opts.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &Page{
		Items: filtered[start:end],
		Pagination: &Pagination{
			CurrentPage:  page,
			TotalPages:   (total + opts.Limit - 1) / opts.Limit,
			TotalItems:   total,
			ItemsPerPage: opts.Limit,
			HasNext:      (page-1)*opts.Limit+opts.Limit < total,
			HasPrev:      page > 1,
		},
	}, nil
}

// sortValue maps a recency field value onto a comparable scale. Numeric
// timestamps are used as-is; RFC 3339 strings become Unix milliseconds.
func sortValue(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, value); err == nil {
				return float64(t.UnixMilli())
			}
		}
		return 0
	default:
		return 0
	}
}
