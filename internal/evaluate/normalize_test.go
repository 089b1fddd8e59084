package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/notice-eval/internal/model"
)

func TestNormalize_AmountExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"$1,234.56 due", "1234.56"},
		{"$1,200.00", "1200.00"},
		{"USD 1200", "1200"},
		{"1200.50", "1200.50"},
		{"no amount", ""},
		{"NA", ""},
		{"", ""},
		{"  $99  ", "99"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.in, model.FieldImpactAmount))
		})
	}
}

func TestNormalize_GeneralFold(t *testing.T) {
	t.Parallel()

	// Case, commas, hyphens and spacing never count as differences.
	assert.Equal(t,
		Normalize("123-45, Main St", model.FieldServiceAddress),
		Normalize("12345 main st", model.FieldServiceAddress),
	)
	assert.Equal(t,
		Normalize("123-Main St, Apt 4", model.FieldServiceAddress),
		Normalize("123main st apt 4", model.FieldServiceAddress),
	)
	assert.Equal(t,
		Normalize("  ACME   Power \t Co ", model.FieldVendorName),
		Normalize("acme power co", model.FieldVendorName),
	)
	assert.NotEqual(t,
		Normalize("Acme Power", model.FieldVendorName),
		Normalize("Acme Water", model.FieldVendorName),
	)
}

func TestNormalize_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, f := range model.Fields {
		assert.Equal(t, "", Normalize("", f))
		assert.Equal(t, "", Normalize("   ", f))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"$1,234.56 due",
		"123-45, Main St",
		"ACME Power & Light",
		"2025-03-01",
		"NA",
		"",
	}

	for _, f := range model.Fields {
		for _, in := range inputs {
			once := Normalize(in, f)
			assert.Equal(t, once, Normalize(once, f), "field %s input %q", f, in)
		}
	}
}
