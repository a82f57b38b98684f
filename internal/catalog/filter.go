// Package catalog derives what the storefront lists from the full product set
// and the user's filter state. Everything here is pure.
package catalog

import (
	"sort"
	"strings"

	"megastore/internal/domain"
)

type Result struct {
	Products []domain.Product
	Title    string
}

// Filter applies search or category, then brand, then sort. The input slice is
// never reordered or modified.
func Filter(products []domain.Product, s FilterState) Result {
	out := make([]domain.Product, 0, len(products))
	term := strings.ToLower(s.Term())

	for _, p := range products {
		switch {
		case term != "":
			if !strings.Contains(strings.ToLower(p.Name), term) {
				continue
			}
		case s.Category != "" && s.Category != CategoryAll:
			if p.Category != s.Category {
				continue
			}
		}
		if s.Brand != "" && s.Brand != BrandAll && p.Brand != s.Brand {
			continue
		}
		out = append(out, p)
	}

	Sort(out, s.Sort)
	return Result{Products: out, Title: Title(s)}
}

// Sort orders ps in place, stably. Products without a price sort last in both
// price directions.
func Sort(ps []domain.Product, o SortOption) {
	switch o {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool {
			return priceLess(ps[i], ps[j], func(a, b float64) bool { return a < b })
		})
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool {
			return priceLess(ps[i], ps[j], func(a, b float64) bool { return a > b })
		})
	case SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	}
}

func priceLess(a, b domain.Product, cmp func(a, b float64) bool) bool {
	switch {
	case a.Price == nil:
		return false
	case b.Price == nil:
		return true
	}
	return cmp(*a.Price, *b.Price)
}

// Title is the heading shown above a listing.
func Title(s FilterState) string {
	if s.Searching() {
		return `Search results: "` + s.Term() + `"`
	}
	if c, ok := LookupCategory(s.Category); ok {
		return c.Name
	}
	return "Catalog"
}

// Brands lists distinct non-empty brands across the whole, unfiltered set,
// sorted for stable display.
func Brands(products []domain.Product) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		if p.Brand == "" {
			continue
		}
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		out = append(out, p.Brand)
	}
	sort.Strings(out)
	return out
}

// MinPreviewTerm is how many characters the search-as-you-type preview waits for.
const MinPreviewTerm = 2

// Preview returns quick search matches for a partially typed term.
func Preview(products []domain.Product, term string) []domain.Product {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < MinPreviewTerm {
		return nil
	}
	return Filter(products, DefaultState().WithSearch(term)).Products
}

// CategoryPreview returns up to n products of a category in catalog order.
func CategoryPreview(products []domain.Product, categoryID string, n int) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if len(out) == n {
			break
		}
		if p.Category == categoryID {
			out = append(out, p)
		}
	}
	return out
}
