// Package sqlscript renders typed values into PostgreSQL statement text.
// It exists for artifacts that are applied by an external client, where
// bind parameters are not available and every value must be inlined.
package sqlscript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// minDecimalScale is the fewest fractional digits a decimal is rendered with.
const minDecimalScale = 2

// Quote renders s as a SQL string literal, doubling any embedded single
// quote. It is the only place values are escaped.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Literal renders a Go value as a SQL literal.
func Literal(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return Quote(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case decimal.Decimal:
		return formatDecimal(val), nil
	case *string:
		if val == nil {
			return "NULL", nil
		}
		return Quote(*val), nil
	case fmt.Stringer:
		return Quote(val.String()), nil
	default:
		return "", fmt.Errorf("sqlscript: unsupported literal type %T", v)
	}
}

// formatDecimal renders d with at least minDecimalScale fractional digits
// and never drops a significant digit.
func formatDecimal(d decimal.Decimal) string {
	scale := int32(minDecimalScale)
	if s := d.String(); strings.Contains(s, ".") {
		if frac := int32(len(s) - strings.IndexByte(s, '.') - 1); frac > scale {
			scale = frac
		}
	}
	return d.StringFixed(scale)
}
