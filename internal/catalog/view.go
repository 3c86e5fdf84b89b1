package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects how products are ordered by price.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

// ErrUnknownSortOrder is returned by ParseSortOrder for unrecognised input.
var ErrUnknownSortOrder = errors.New("unknown sort order")

// String returns the persisted name of the order.
func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Label returns the display label for the order.
func (o SortOrder) Label() string {
	switch o {
	case SortAsc:
		return "Price: Low→High"
	case SortDesc:
		return "Price: High→Low"
	default:
		return "Default"
	}
}

// Next cycles none → asc → desc → none.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// ParseSortOrder parses "none", "asc" or "desc". Empty input means SortNone.
func ParseSortOrder(value string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "default":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortOrder, value)
	}
}

// FilterByName keeps products whose name contains text, ignoring case.
func FilterByName(products []Product, text string) []Product {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategory keeps products in the given category. The empty category
// keeps everything.
func FilterByCategory(products []Product, category Category) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// SortByPrice returns a sorted copy. Equal prices keep their catalog order.
func SortByPrice(products []Product, order SortOrder) []Product {
	out := cloneProducts(products)
	switch order {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// View is the set of list controls a presentation layer applies to the catalog.
type View struct {
	Text          string
	Category      Category
	Order         SortOrder
	FavoritesOnly bool
	IsFavorite    func(id string) bool
}

// Apply filters by name, category and favorites, then sorts.
func (v View) Apply(products []Product) []Product {
	out := FilterByName(products, v.Text)
	out = FilterByCategory(out, v.Category)
	if v.FavoritesOnly && v.IsFavorite != nil {
		kept := out[:0]
		for _, p := range out {
			if v.IsFavorite(p.ID) {
				kept = append(kept, p)
			}
		}
		out = kept
	}
	return SortByPrice(out, v.Order)
}
