// Package seed expands catalog definitions into a relational seed dataset
// and renders it as a SQL script.
package seed

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/utafrali/perfume-seed/internal/domain"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	"github.com/utafrali/perfume-seed/pkg/slug"
)

// DefaultSKULength is the number of name characters kept in a product SKU.
const DefaultSKULength = 6

// Generator builds seed datasets. A Generator holds no per-run state and
// can be reused.
type Generator struct {
	newID     func() string
	skuLength int
	templates []domain.VariantTemplate
}

// Option configures a Generator.
type Option func(*Generator)

// WithIDFunc replaces the random UUID source.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) { g.newID = fn }
}

// WithSKULength sets how many name characters a product SKU keeps.
func WithSKULength(n int) Option {
	return func(g *Generator) { g.skuLength = n }
}

// WithVariantTemplates replaces the variants emitted for each product.
func WithVariantTemplates(templates []domain.VariantTemplate) Option {
	return func(g *Generator) { g.templates = templates }
}

// NewGenerator creates a Generator with random UUIDs, six-character SKUs
// and the default 50ml/100ml variants.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newID:     uuid.NewString,
		skuLength: DefaultSKULength,
		templates: domain.DefaultVariantTemplates(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate expands the category and product specs, in order, into a
// dataset. Nothing is returned on error.
func (g *Generator) Generate(categories []domain.CategorySpec, products []domain.ProductSpec) (*domain.Dataset, error) {
	if g.skuLength < 1 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sku length must be positive, got %d", g.skuLength))
	}

	ids := newIDSet(g.newID)
	ds := &domain.Dataset{
		Categories: make([]domain.Category, 0, len(categories)),
		Products:   make([]domain.Product, 0, len(products)),
		Variants:   make([]domain.ProductVariant, 0, len(products)*len(g.templates)),
	}

	runID, err := ids.next()
	if err != nil {
		return nil, err
	}
	ds.RunID = runID

	bySlug := make(map[string]string, len(categories))
	for _, spec := range categories {
		if _, dup := bySlug[spec.Slug]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("category slug %q is defined more than once", spec.Slug))
		}
		id, err := ids.next()
		if err != nil {
			return nil, err
		}
		bySlug[spec.Slug] = id
		ds.Categories = append(ds.Categories, domain.Category{
			ID:       id,
			Slug:     spec.Slug,
			Name:     spec.Name,
			IsActive: true,
		})
	}

	skuOwner := make(map[string]string, len(products))
	slugOwner := make(map[string]string, len(products))
	for i, spec := range products {
		categoryID, ok := bySlug[spec.CategorySlug]
		if !ok {
			return nil, unknownCategory(spec)
		}

		productSlug := slug.FromName(spec.Name.EN)
		if productSlug == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product %d has a blank English name %q", i, spec.Name.EN))
		}
		if owner, dup := slugOwner[productSlug]; dup {
			return nil, apperrors.Conflict(fmt.Sprintf("products %q and %q share slug %q", owner, spec.Name.EN, productSlug))
		}
		slugOwner[productSlug] = spec.Name.EN

		sku := DeriveSKU(spec.Name.EN, g.skuLength)
		if owner, dup := skuOwner[sku]; dup {
			return nil, apperrors.Conflict(fmt.Sprintf("products %q and %q share sku %q", owner, spec.Name.EN, sku))
		}
		skuOwner[sku] = spec.Name.EN

		productID, err := ids.next()
		if err != nil {
			return nil, err
		}
		ds.Products = append(ds.Products, domain.Product{
			ID:         productID,
			CategoryID: categoryID,
			Slug:       productSlug,
			SKU:        sku,
			Name:       spec.Name,
			BasePrice:  spec.BasePrice,
			IsActive:   true,
		})

		for _, tpl := range g.templates {
			variantID, err := ids.next()
			if err != nil {
				return nil, err
			}
			ds.Variants = append(ds.Variants, domain.ProductVariant{
				ID:              variantID,
				ProductID:       productID,
				SKU:             sku + tpl.SKUSuffix,
				SizeML:          tpl.SizeML,
				Concentration:   tpl.Concentration,
				PriceAdjustment: spec.BasePrice.Mul(tpl.PriceFactor),
				StockQuantity:   tpl.StockQuantity,
			})
		}
	}

	return ds, nil
}

// DeriveSKU removes all whitespace from name, uppercases it and keeps the
// first length runes.
func DeriveSKU(name string, length int) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)

	runes := []rune(strings.ToUpper(compact))
	if len(runes) > length {
		runes = runes[:length]
	}
	return string(runes)
}

func unknownCategory(spec domain.ProductSpec) error {
	return &apperrors.AppError{
		Code:    "UNKNOWN_CATEGORY",
		Message: fmt.Sprintf("product %q references category %q which is not defined", spec.Name.EN, spec.CategorySlug),
		Err:     apperrors.ErrNotFound,
	}
}

// idSet hands out identifiers and rejects repeats.
type idSet struct {
	newID func() string
	seen  map[string]struct{}
}

func newIDSet(fn func() string) *idSet {
	return &idSet{newID: fn, seen: make(map[string]struct{})}
}

func (s *idSet) next() (string, error) {
	id := s.newID()
	if id == "" {
		return "", apperrors.Internal(fmt.Errorf("id source returned an empty identifier"))
	}
	if _, dup := s.seen[id]; dup {
		return "", apperrors.Conflict(fmt.Sprintf("identifier %s generated twice", id))
	}
	s.seen[id] = struct{}{}
	return id, nil
}
