package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/notice-eval/internal/evaluate"
	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

func TestWriteReport(t *testing.T) {
	truth := groundTruth()
	path := filepath.Join(t.TempDir(), "notices.xlsx")
	seedWorkbook(t, path, map[string][]model.Notice{
		"Master":                     truth,
		model.ModelHaiku.SheetName(): truth,
	})

	var out bytes.Buffer
	err := writeReport(&out, evaluate.NewAggregator(workbook.New(path)))
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "Overall accuracy")
	assert.Contains(t, report, "Category accuracy")
	assert.Contains(t, report, "Impact amount accuracy")
	assert.Contains(t, report, "Perfect rows")
	assert.Contains(t, report, "Haiku 4.5")
	assert.Contains(t, report, "Opus 4.6")
	assert.Contains(t, report, "100.0%")
	assert.Contains(t, report, "2 of 2")
}

func TestWriteReportEmptyWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	var out bytes.Buffer
	err := writeReport(&out, evaluate.NewAggregator(workbook.New(path)))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "0.0%")
}
