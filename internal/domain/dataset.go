package domain

// Dataset is the complete output of one generation run. Variants are
// ordered product by product, in template order.
type Dataset struct {
	RunID      string           `json:"run_id"`
	Categories []Category       `json:"categories"`
	Products   []Product        `json:"products"`
	Variants   []ProductVariant `json:"variants"`
}

// Counts holds the number of rows per table.
type Counts struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Variants   int `json:"variants"`
}

// Counts returns the number of rows per table.
func (d *Dataset) Counts() Counts {
	return Counts{
		Categories: len(d.Categories),
		Products:   len(d.Products),
		Variants:   len(d.Variants),
	}
}

// VariantsOf returns the variants that reference productID, in order.
func (d *Dataset) VariantsOf(productID string) []ProductVariant {
	var out []ProductVariant
	for _, v := range d.Variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out
}

// CategoryBySlug returns the category with the given slug.
func (d *Dataset) CategoryBySlug(slug string) (Category, bool) {
	for _, c := range d.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// CategorySlugs returns category slugs in generation order.
func (d *Dataset) CategorySlugs() []string {
	slugs := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		slugs[i] = c.Slug
	}
	return slugs
}
