// Package catalog loads the hand-authored category and product
// definitions that seed generation expands.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/utafrali/perfume-seed/internal/domain"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	"github.com/utafrali/perfume-seed/pkg/slug"
	"github.com/utafrali/perfume-seed/pkg/validator"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is an ordered set of category and product definitions.
type Catalog struct {
	Categories []domain.CategorySpec `yaml:"categories" validate:"required,dive"`
	Products   []domain.ProductSpec  `yaml:"products" validate:"dive"`
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	return c, nil
}

// DefaultSource returns the raw embedded catalog document.
func DefaultSource() []byte {
	return defaultCatalog
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IO(fmt.Sprintf("read catalog %s", path), err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a catalog document. Unknown keys are
// rejected. A category without a slug gets one derived from its English
// name.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.InvalidInput("catalog document is empty")
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	for i := range c.Categories {
		if c.Categories[i].Slug == "" {
			c.Categories[i].Slug = slug.Generate(c.Categories[i].Name.EN)
		}
	}

	if err := validator.Validate(c); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if len(c.Categories) == 0 {
		return nil, apperrors.InvalidInput("catalog defines no categories")
	}
	for i, p := range c.Products {
		if !p.BasePrice.Equal(p.BasePrice.Round(domain.PriceScale)) {
			return nil, apperrors.InvalidInput(fmt.Sprintf(
				"field 'products[%d].base_price' must have at most %d decimal places, got %s",
				i, domain.PriceScale, p.BasePrice.String()))
		}
	}
	return &c, nil
}
