package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Category is the closed set of product categories.
type Category string

const (
	CategoryBooks       Category = "Books"
	CategoryGames       Category = "Games"
	CategoryElectronics Category = "Electronics"
)

// CategoryAll is the filter choice that keeps every category.
const CategoryAll = "All"

// ErrUnknownCategory is returned when a category name is not recognised.
var ErrUnknownCategory = errors.New("unknown category")

var knownCategories = []Category{CategoryBooks, CategoryGames, CategoryElectronics}

// Categories returns the filter choices shown to users, "All" first.
func Categories() []string {
	out := make([]string, 0, len(knownCategories)+1)
	out = append(out, CategoryAll)
	for _, c := range knownCategories {
		out = append(out, string(c))
	}
	return out
}

// ParseCategory resolves a category name case-insensitively. "All" and the
// empty string resolve to the empty Category, meaning no category filter.
func ParseCategory(name string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, CategoryAll) {
		return "", nil
	}
	for _, c := range knownCategories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Product mirrors a single catalog record.
type Product struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Category Category `json:"category" validate:"oneof=Books Games Electronics"`
	Price    float64  `json:"price" validate:"gte=0"`
	InStock  bool     `json:"inStock"`
}

var validate = validator.New()

// Validate checks every record and rejects duplicate ids.
func Validate(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	var errs []error
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			errs = append(errs, fmt.Errorf("product %d (%q): %w", i, p.ID, err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("product %d: duplicate id %q", i, p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
	}
	return errors.Join(errs...)
}

// Find returns the product with the given id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// sampleProducts is the read-only reference catalog.
var sampleProducts = []Product{
	{ID: "p1", Name: "Kind Vue Guide", Category: CategoryBooks, Price: 29.99, InStock: true},
	{ID: "p2", Name: "Vue Racer", Category: CategoryGames, Price: 59.0, InStock: false},
	{ID: "p3", Name: "Noise-Cancel Buds", Category: CategoryElectronics, Price: 99.5, InStock: true},
	{ID: "p4", Name: "TypeScript Tactics", Category: CategoryBooks, Price: 45.0, InStock: true},
	{ID: "p5", Name: "Indie Platformer", Category: CategoryGames, Price: 14.99, InStock: true},
}

// SampleProducts returns a copy of the built-in catalog in its fixed order.
func SampleProducts() []Product {
	return cloneProducts(sampleProducts)
}

func cloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	dup := make([]Product, len(products))
	copy(dup, products)
	return dup
}
