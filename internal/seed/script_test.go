package seed

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/perfume-seed/internal/domain"
)

func TestBuildScript_Golden(t *testing.T) {
	cats := []domain.CategorySpec{{Slug: "men", Name: domain.LocalizedText{EN: "Men", AR: "رجالي"}}}
	prods := []domain.ProductSpec{{
		Name:         domain.LocalizedText{EN: "Royal Musk", AR: "مسك ملكي"},
		CategorySlug: "men",
		BasePrice:    price("150.00"),
	}}
	ds, err := NewGenerator(WithIDFunc(sequentialIDs())).Generate(cats, prods)
	require.NoError(t, err)

	script, err := BuildScript(ds, ScriptOptions{Transactional: true})
	require.NoError(t, err)

	want := `BEGIN;

-- Clear existing data
TRUNCATE public.categories CASCADE;

-- Insert Categories
INSERT INTO public.categories (id, slug, name_en, name_ar, is_active)
VALUES ('id-002', 'men', 'Men', 'رجالي', true);

-- Insert Products and Variants
INSERT INTO public.products (id, category_id, slug, sku, name_en, name_ar, base_price, is_active)
VALUES ('id-003', 'id-002', 'royal-musk', 'ROYALM', 'Royal Musk', 'مسك ملكي', 150.00, true);
INSERT INTO public.product_variants (id, product_id, sku, size_ml, concentration_en, concentration_ar, price_adjustment, stock_quantity)
VALUES ('id-004', 'id-003', 'ROYALM-50', 50, 'Eau de Parfum', 'ماء عطر', 0.00, 100);
INSERT INTO public.product_variants (id, product_id, sku, size_ml, concentration_en, concentration_ar, price_adjustment, stock_quantity)
VALUES ('id-005', 'id-003', 'ROYALM-100', 100, 'Eau de Parfum', 'ماء عطر', 75.00, 50);

COMMIT;
`
	assert.Equal(t, want, script.String())
	assert.Equal(t, 5, script.Len())
}

func TestBuildScript_TruncateComesFirst(t *testing.T) {
	cats, prods := defaultInput(t)
	ds, err := NewGenerator().Generate(cats, prods)
	require.NoError(t, err)

	script, err := BuildScript(ds, ScriptOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, script.Statements)
	assert.Equal(t, "TRUNCATE public.categories CASCADE;", script.Statements[0].SQL)
	assert.False(t, strings.HasPrefix(script.String(), "BEGIN"))

	// truncate + category insert + one product and two variants each
	assert.Equal(t, 2+3*len(prods), script.Len())
}

func TestBuildScript_CustomSchema(t *testing.T) {
	ds, err := NewGenerator().Generate(sampleCategories(), sampleProducts())
	require.NoError(t, err)

	script, err := BuildScript(ds, ScriptOptions{Schema: "staging"})
	require.NoError(t, err)

	out := script.String()
	assert.Contains(t, out, "TRUNCATE staging.categories CASCADE;")
	assert.Contains(t, out, "INSERT INTO staging.products")
	assert.Contains(t, out, "INSERT INTO staging.product_variants")
	assert.NotContains(t, out, "public.")
}

func TestBuildScript_EscapesQuotes(t *testing.T) {
	cats := []domain.CategorySpec{{Slug: "men", Name: domain.LocalizedText{EN: "Men's", AR: "رجالي"}}}
	prods := []domain.ProductSpec{{
		Name:         domain.LocalizedText{EN: "L'Homme Bleu", AR: "لوم"},
		CategorySlug: "men",
		BasePrice:    price("99.90"),
	}}
	ds, err := NewGenerator().Generate(cats, prods)
	require.NoError(t, err)

	script, err := BuildScript(ds, ScriptOptions{})
	require.NoError(t, err)
	out := script.String()

	assert.Contains(t, out, "'Men''s'")
	assert.Contains(t, out, "'L''Homme Bleu'")
	assert.Contains(t, out, "'l''homme-bleu'")
	assert.Contains(t, out, "'L''HOMM'")

	// Every literal in the output must be well formed: stripping doubled
	// quotes leaves an even number of quote characters per line.
	for _, line := range strings.Split(out, "\n") {
		stripped := strings.ReplaceAll(line, "''", "")
		assert.Equal(t, 0, strings.Count(stripped, "'")%2, "unbalanced quotes in %q", line)
	}
}

func TestBuildScript_VariantsFollowTheirProduct(t *testing.T) {
	cats, prods := defaultInput(t)
	ds, err := NewGenerator().Generate(cats, prods)
	require.NoError(t, err)

	script, err := BuildScript(ds, ScriptOptions{})
	require.NoError(t, err)

	productID := regexp.MustCompile(`^INSERT INTO public\.products .*\nVALUES \('([^']+)'`)
	variantOf := regexp.MustCompile(`^INSERT INTO public\.product_variants .*\nVALUES \('[^']+', '([^']+)'`)

	current := ""
	seen := 0
	for _, st := range script.Statements[2:] {
		if m := productID.FindStringSubmatch(st.SQL); m != nil {
			current = m[1]
			continue
		}
		m := variantOf.FindStringSubmatch(st.SQL)
		require.NotNil(t, m, "unexpected statement %q", st.SQL)
		assert.Equal(t, current, m[1])
		seen++
	}
	assert.Equal(t, len(ds.Variants), seen)
}

func TestBuildScript_NoCategories(t *testing.T) {
	script, err := BuildScript(&domain.Dataset{}, ScriptOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, script.Len())
}
