// Package evaluate implements the accuracy evaluation engine: field
// normalization, master-vs-model comparison, the joined comparison views,
// and the aggregate accuracy metrics.
package evaluate

import (
	"regexp"
	"strings"

	"github.com/sells-group/notice-eval/internal/model"
)

// amountPattern matches the first maximal numeric substring of a
// digits-and-dots value, with an optional decimal part.
var amountPattern = regexp.MustCompile(`\d+\.?\d*`)

// nonAmount matches every character that cannot be part of an amount.
var nonAmount = regexp.MustCompile(`[^0-9.]`)

// Normalize canonicalizes a field value for comparison. Empty input
// normalizes to the empty string.
//
// Impact Amount keeps only its first numeric substring, so "$1,200.00",
// "1200.00" and "USD 1200" all fold to the same leading numeral. Every
// other field is lowercased, whitespace-collapsed, and stripped of commas
// and hyphens. Case, punctuation and spacing differences are never
// mismatches.
func Normalize(value string, field model.Field) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}

	if field == model.FieldImpactAmount {
		return amountPattern.FindString(nonAmount.ReplaceAllString(v, ""))
	}

	v = strings.ToLower(v)
	v = strings.Join(strings.Fields(v), " ")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, "-", "")
	return v
}
