package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnsOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"PDF Name",
		"Vendor Account Number",
		"Vendor Name",
		"Service Address",
		"Notice Category",
		"Notice Date",
		"Impact Date",
		"Impact Amount",
	}, Columns)
}

func TestNoticeValueRoundTrip(t *testing.T) {
	t.Parallel()

	var n Notice
	n.PDFName = "acme_march.pdf"
	for i, f := range Fields {
		n.SetValue(f, string(rune('a'+i)))
	}

	for i, f := range Fields {
		assert.Equal(t, string(rune('a'+i)), n.Value(f))
	}

	row := n.Row()
	assert.Len(t, row, len(Columns))
	assert.Equal(t, "acme_march.pdf", row[0])
	assert.Equal(t, "a", row[1])
	assert.Equal(t, "g", row[7])
}

func TestIsImpactCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, IsImpactCategory("Disconnect Notice"))
	assert.True(t, IsImpactCategory("Late Notice"))
	assert.False(t, IsImpactCategory("Maintenance"))
	assert.False(t, IsImpactCategory(CategoryOthers))
	assert.False(t, IsImpactCategory(""))
}

func TestParseModelID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ModelID
		ok   bool
	}{
		{"haiku", ModelHaiku, true},
		{"sonnet", ModelSonnet, true},
		{"opus", ModelOpus, true},
		{"Haiku 4.5", ModelHaiku, true},
		{"Opus 4.6", ModelOpus, true},
		{"gpt-4", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseModelID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelSheetNames(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, m := range ModelIDs {
		name := m.SheetName()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "sheet name %q reused", name)
		seen[name] = true
	}
}
