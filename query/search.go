// Package query filters and paginates an item collection.
package query

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-itemstore/item"
)

// Params describes a list request. Zero values mean "not provided".
type Params struct {
	Term  string
	Page  int
	Limit int
}

// ParseParams converts raw request values into Params. Values that are not
// base-10 integers are treated as absent.
func ParseParams(term, page, limit string) Params {
	return Params{
		Term:  term,
		Page:  parseInt(page),
		Limit: parseInt(limit),
	}
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// Paginated reports whether Limit selects a page.
func (p Params) Paginated() bool {
	return p.Limit > 0
}

// EffectivePage returns Page, or 1 when Page is not a positive integer.
func (p Params) EffectivePage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// Search applies the name filter and then the page window. The input slice is
// never modified.
func Search(items []item.Item, p Params) []item.Item {
	results := Filter(items, p.Term)
	if results == nil {
		results = []item.Item{}
	}
	if !p.Paginated() {
		return results
	}
	return paginate(results, p.EffectivePage(), p.Limit)
}

// Filter keeps items whose name contains term, ignoring case. An empty term
// keeps everything.
func Filter(items []item.Item, term string) []item.Item {
	if term == "" {
		return items
	}

	needle := strings.ToLower(term)
	results := make([]item.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			results = append(results, it)
		}
	}
	return results
}

func paginate(items []item.Item, page, limit int) []item.Item {
	start := (page - 1) * limit
	// guards against overflow on very large page numbers
	if start < 0 || start >= len(items) || page-1 > len(items)/limit {
		return []item.Item{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
