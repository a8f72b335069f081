package seed

import (
	"fmt"

	"github.com/utafrali/perfume-seed/internal/domain"
	"github.com/utafrali/perfume-seed/pkg/sqlscript"
)

// Table names of the seeded schema.
const (
	TableCategories      = "categories"
	TableProducts        = "products"
	TableProductVariants = "product_variants"
)

// DefaultSchema is the schema the seed targets.
const DefaultSchema = "public"

var (
	categoryColumns = []string{"id", "slug", "name_en", "name_ar", "is_active"}
	productColumns  = []string{"id", "category_id", "slug", "sku", "name_en", "name_ar", "base_price", "is_active"}
	variantColumns  = []string{"id", "product_id", "sku", "size_ml", "concentration_en", "concentration_ar", "price_adjustment", "stock_quantity"}
)

// ScriptOptions controls how a dataset is rendered.
type ScriptOptions struct {
	Schema        string
	Transactional bool
}

// BuildScript renders ds as a statement batch: a cascading truncate of the
// categories table, one multi-row category insert, then each product
// followed by its variants.
func BuildScript(ds *domain.Dataset, opts ScriptOptions) (*sqlscript.Script, error) {
	schema := opts.Schema
	if schema == "" {
		schema = DefaultSchema
	}

	script := &sqlscript.Script{Transactional: opts.Transactional}
	script.Add("Clear existing data",
		fmt.Sprintf("TRUNCATE %s CASCADE;", sqlscript.Qualify(schema, TableCategories)))

	if len(ds.Categories) > 0 {
		rows := make([][]any, len(ds.Categories))
		for i, c := range ds.Categories {
			rows[i] = []any{c.ID, c.Slug, c.Name.EN, c.Name.AR, c.IsActive}
		}
		err := script.AddInsert("Insert Categories", sqlscript.Insert{
			Table:   sqlscript.Qualify(schema, TableCategories),
			Columns: categoryColumns,
			Rows:    rows,
		})
		if err != nil {
			return nil, fmt.Errorf("render categories: %w", err)
		}
	}

	variants := make(map[string][]domain.ProductVariant, len(ds.Products))
	for _, v := range ds.Variants {
		variants[v.ProductID] = append(variants[v.ProductID], v)
	}

	for i, p := range ds.Products {
		comment := ""
		if i == 0 {
			comment = "Insert Products and Variants"
		}
		err := script.AddInsert(comment, sqlscript.Insert{
			Table:   sqlscript.Qualify(schema, TableProducts),
			Columns: productColumns,
			Rows:    [][]any{{p.ID, p.CategoryID, p.Slug, p.SKU, p.Name.EN, p.Name.AR, p.BasePrice, p.IsActive}},
		})
		if err != nil {
			return nil, fmt.Errorf("render product %s: %w", p.SKU, err)
		}

		for _, v := range variants[p.ID] {
			err := script.AddInsert("", sqlscript.Insert{
				Table:   sqlscript.Qualify(schema, TableProductVariants),
				Columns: variantColumns,
				Rows: [][]any{{
					v.ID, v.ProductID, v.SKU, v.SizeML,
					v.Concentration.EN, v.Concentration.AR,
					v.PriceAdjustment, v.StockQuantity,
				}},
			})
			if err != nil {
				return nil, fmt.Errorf("render variant %s: %w", v.SKU, err)
			}
		}
	}

	return script, nil
}
