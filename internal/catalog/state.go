package catalog

import (
	"net/url"
	"strings"
)

type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortRating    SortOption = "rating"
)

// ParseSortOption maps unknown values to SortDefault and reports whether s was known.
func ParseSortOption(s string) (SortOption, bool) {
	switch o := SortOption(strings.TrimSpace(s)); o {
	case SortDefault, SortPriceAsc, SortPriceDesc, SortRating:
		return o, true
	}
	return SortDefault, false
}

const (
	CategoryAll           = "all"
	CategorySearchResults = "search_results"
	BrandAll              = "all"
)

// FilterState is the user's current browse selection. Transitions return a
// new state; the receiver is never mutated.
type FilterState struct {
	SearchTerm string
	Category   string
	Brand      string
	Sort       SortOption
}

func DefaultState() FilterState {
	return FilterState{Category: CategoryAll, Brand: BrandAll, Sort: SortDefault}
}

// Term is the trimmed search term.
func (s FilterState) Term() string { return strings.TrimSpace(s.SearchTerm) }

// Searching reports whether free-text search overrides the category.
func (s FilterState) Searching() bool { return s.Term() != "" }

// WithCategory selects a category, clearing search and resetting brand and sort.
func (s FilterState) WithCategory(id string) FilterState {
	if id == "" {
		id = CategoryAll
	}
	return FilterState{Category: id, Brand: BrandAll, Sort: SortDefault}
}

// WithSearch issues a search: category moves to the search sentinel and brand resets.
func (s FilterState) WithSearch(term string) FilterState {
	s.SearchTerm = term
	s.Category = CategorySearchResults
	s.Brand = BrandAll
	return s
}

func (s FilterState) WithBrand(brand string) FilterState {
	if brand == "" {
		brand = BrandAll
	}
	s.Brand = brand
	return s
}

func (s FilterState) WithSort(o SortOption) FilterState {
	s.Sort = o
	return s
}

// ResetFacets clears brand and sort, leaving search and category alone.
func (s FilterState) ResetFacets() FilterState {
	s.Brand = BrandAll
	s.Sort = SortDefault
	return s
}

// Values encodes the state as query parameters, omitting defaults.
func (s FilterState) Values() url.Values {
	v := url.Values{}
	if s.SearchTerm != "" {
		v.Set("q", s.SearchTerm)
	}
	if s.Category != "" && s.Category != CategoryAll {
		v.Set("category", s.Category)
	}
	if s.Brand != "" && s.Brand != BrandAll {
		v.Set("brand", s.Brand)
	}
	if s.Sort != "" && s.Sort != SortDefault {
		v.Set("sort", string(s.Sort))
	}
	return v
}

// URL renders the state as a link to path.
func (s FilterState) URL(path string) string {
	if q := s.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// StateFromQuery rebuilds a state from query parameters read through get.
func StateFromQuery(get func(key string) string) FilterState {
	s := DefaultState()
	s.SearchTerm = get("q")
	if c := strings.TrimSpace(get("category")); c != "" {
		s.Category = c
	}
	if b := strings.TrimSpace(get("brand")); b != "" {
		s.Brand = b
	}
	s.Sort, _ = ParseSortOption(get("sort"))
	return s
}
