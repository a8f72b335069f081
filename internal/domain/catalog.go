package domain

import (
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits prices are stored with.
const PriceScale = 2

// LocalizedText holds a display string in the storefront's two languages.
type LocalizedText struct {
	EN string `json:"en" yaml:"en" validate:"required,notblank,max=255"`
	AR string `json:"ar" yaml:"ar" validate:"max=255"`
}

// CategorySpec is a hand-authored category definition.
type CategorySpec struct {
	Slug string        `json:"slug" yaml:"slug" validate:"required,slug,max=100"`
	Name LocalizedText `json:"name" yaml:"name"`
}

// ProductSpec is a hand-authored product definition. CategorySlug must
// match the Slug of one CategorySpec in the same run.
type ProductSpec struct {
	Name         LocalizedText   `json:"name" yaml:"name"`
	CategorySlug string          `json:"category" yaml:"category" validate:"required"`
	BasePrice    decimal.Decimal `json:"base_price" yaml:"base_price" validate:"gt=0"`
}

// VariantTemplate describes one purchasable configuration emitted for
// every product.
type VariantTemplate struct {
	SKUSuffix     string
	SizeML        int
	Concentration LocalizedText
	// PriceFactor is multiplied with the product base price to obtain the
	// variant price adjustment.
	PriceFactor   decimal.Decimal
	StockQuantity int
}

// EauDeParfum is the concentration label of the default variants.
var EauDeParfum = LocalizedText{EN: "Eau de Parfum", AR: "ماء عطر"}

// DefaultVariantTemplates returns the 50ml baseline and the 100ml upsell.
func DefaultVariantTemplates() []VariantTemplate {
	return []VariantTemplate{
		{
			SKUSuffix:     "-50",
			SizeML:        50,
			Concentration: EauDeParfum,
			PriceFactor:   decimal.Zero,
			StockQuantity: 100,
		},
		{
			SKUSuffix:     "-100",
			SizeML:        100,
			Concentration: EauDeParfum,
			PriceFactor:   decimal.NewFromFloat(0.5),
			StockQuantity: 50,
		},
	}
}

// Category represents a generated category row.
type Category struct {
	ID       string        `json:"id"`
	Slug     string        `json:"slug"`
	Name     LocalizedText `json:"name"`
	IsActive bool          `json:"is_active"`
}

// Product represents a generated product row.
type Product struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Slug       string          `json:"slug"`
	SKU        string          `json:"sku"`
	Name       LocalizedText   `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	IsActive   bool            `json:"is_active"`
}

// ProductVariant represents a generated product variant row.
type ProductVariant struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	SizeML          int             `json:"size_ml"`
	Concentration   LocalizedText   `json:"concentration"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	StockQuantity   int             `json:"stock_quantity"`
}
