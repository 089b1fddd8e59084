package evaluate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

func TestOverall_ThreeOfFour(t *testing.T) {
	t.Parallel()

	masters := []model.Notice{
		notice("a.pdf", "1", "Acme", "1 St", "Late Notice", "2025-01-01", "2025-01-15", "100"),
		notice("b.pdf", "2", "Beta", "2 St", "Maintenance", "2025-01-02", "NA", "NA"),
		notice("c.pdf", "3", "Gamma", "3 St", "Others", "2025-01-03", "NA", "NA"),
		notice("d.pdf", "4", "Delta", "4 St", "Rate Change", "2025-01-04", "NA", "NA"),
	}

	// Haiku matches identity fields on three of the four documents.
	wrong := masters[3]
	wrong.VendorName = "Not Delta"
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          masters,
		model.ModelHaiku.SheetName(): {masters[0], masters[1], masters[2], wrong},
	})

	scores, err := NewAggregator(store).Overall()
	require.NoError(t, err)
	assert.InDelta(t, 75.0, scores[model.ModelHaiku], 0.001)

	// Models with no sheet at all score zero.
	assert.Zero(t, scores[model.ModelSonnet])
	assert.Zero(t, scores[model.ModelOpus])
}

func TestOverall_EmptyMaster(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(workbook.New(filepath.Join(t.TempDir(), "nope.xlsx")))
	scores, err := agg.Overall()
	require.NoError(t, err)
	for _, id := range model.ModelIDs {
		assert.Zero(t, scores[id])
	}
}

func TestOverall_MissingRowCountsAgainst(t *testing.T) {
	t.Parallel()

	a := notice("a.pdf", "1", "Acme", "1 St", "Others", "NA", "NA", "NA")
	b := notice("b.pdf", "2", "Beta", "2 St", "Others", "NA", "NA", "NA")
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          {a, b},
		model.ModelSonnet.SheetName(): {a},
	})

	scores, err := NewAggregator(store).Overall()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, scores[model.ModelSonnet], 0.001)
}

func TestByCategory_ZeroDenominator(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet: {
			notice("a.pdf", "1", "Acme", "1 St", "Late Notice", "2025-01-01", "2025-01-15", "100"),
		},
	})

	scores, err := NewAggregator(store).ByCategory()
	require.NoError(t, err)
	assert.Equal(t, model.Categories, scores.Categories)

	idx := -1
	for i, c := range scores.Categories {
		if c == "3rd Party Audit" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx)

	// No master document carries the category: 0 for every model, never NaN.
	for _, id := range model.ModelIDs {
		require.Len(t, scores.Scores[id], len(model.Categories))
		assert.Zero(t, scores.Scores[id][idx])
	}
}

func TestByCategory_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	master := notice("a.pdf", "1", "Acme", "1 St", "Late Notice", "2025-01-01", "2025-01-15", "100")
	// Case differences fail the closed-vocabulary check even though the
	// general normalizer would fold them.
	cased := master
	cased.Category = "late notice"
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          {master},
		model.ModelHaiku.SheetName():  {master},
		model.ModelSonnet.SheetName(): {cased},
	})

	scores, err := NewAggregator(store).ByCategory()
	require.NoError(t, err)

	lateIdx := 0 // Late Notice is the first category
	require.Equal(t, "Late Notice", scores.Categories[lateIdx])
	assert.InDelta(t, 100.0, scores.Scores[model.ModelHaiku][lateIdx], 0.001)
	assert.Zero(t, scores.Scores[model.ModelSonnet][lateIdx])
}

func TestByCategory_UnknownMasterCategoryFoldsIntoOthers(t *testing.T) {
	t.Parallel()

	odd := notice("a.pdf", "1", "Acme", "1 St", "Shutoff Warning", "2025-01-01", "NA", "NA")
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:         {odd},
		model.ModelOpus.SheetName(): {odd},
	})

	scores, err := NewAggregator(store).ByCategory()
	require.NoError(t, err)

	othersIdx := len(model.Categories) - 1
	require.Equal(t, model.CategoryOthers, scores.Categories[othersIdx])
	assert.InDelta(t, 100.0, scores.Scores[model.ModelOpus][othersIdx], 0.001)
}

func TestImpactAmount_RawStringEquality(t *testing.T) {
	t.Parallel()

	master := notice("a.pdf", "1", "Acme", "1 St", "Disconnect Notice", "2025-01-01", "2025-01-15", "$1,500.00")
	// Normalized-equal but raw-different: the impact metrics stay strict.
	rawDiff := master
	rawDiff.ImpactAmount = "1500.00"
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          {master},
		model.ModelHaiku.SheetName():  {master},
		model.ModelSonnet.SheetName(): {rawDiff},
	})

	scores, err := NewAggregator(store).ImpactAmount()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, scores[model.ModelHaiku], 0.001)
	assert.Zero(t, scores[model.ModelSonnet])
}

func TestImpactMetrics_RestrictedToImpactCategories(t *testing.T) {
	t.Parallel()

	impact := notice("a.pdf", "1", "Acme", "1 St", "Late Notice", "2025-01-01", "2025-01-15", "100")
	other := notice("b.pdf", "2", "Beta", "2 St", "Maintenance", "2025-01-02", "NA", "NA")

	// The model nails b.pdf but misses a.pdf's impact fields; only a.pdf
	// is eligible.
	miss := impact
	miss.ImpactDate = "2025-02-01"
	miss.ImpactAmount = "999"
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:         {impact, other},
		model.ModelOpus.SheetName(): {miss, other},
	})

	agg := NewAggregator(store)

	amount, err := agg.ImpactAmount()
	require.NoError(t, err)
	assert.Zero(t, amount[model.ModelOpus])

	date, err := agg.ImpactDate()
	require.NoError(t, err)
	assert.Zero(t, date[model.ModelOpus])
}

func TestImpactMetrics_NoEligibleDocuments(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet: {
			notice("a.pdf", "1", "Acme", "1 St", "Maintenance", "2025-01-01", "NA", "NA"),
		},
	})

	scores, err := NewAggregator(store).ImpactDate()
	require.NoError(t, err)
	for _, id := range model.ModelIDs {
		assert.Zero(t, scores[id])
	}
}

func TestNoticeDate_AllCategories(t *testing.T) {
	t.Parallel()

	a := notice("a.pdf", "1", "Acme", "1 St", "Maintenance", "2025-01-01", "NA", "NA")
	b := notice("b.pdf", "2", "Beta", "2 St", "Others", "2025-01-02", "NA", "NA")
	bWrong := b
	bWrong.NoticeDate = "2025-01-03"
	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          {a, b},
		model.ModelHaiku.SheetName(): {a, bWrong},
	})

	scores, err := NewAggregator(store).NoticeDate()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, scores[model.ModelHaiku], 0.001)
}

func TestPerfectRows(t *testing.T) {
	t.Parallel()

	perfect := notice("a.pdf", "1", "Acme", "1 St", "Late Notice", "2025-01-01", "2025-01-15", "100")
	dateOff := notice("b.pdf", "2", "Beta", "2 St", "Maintenance", "2025-01-02", "NA", "NA")
	dateOffModel := dateOff
	dateOffModel.NoticeDate = "2025-01-03"

	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:          {perfect, dateOff},
		model.ModelHaiku.SheetName(): {perfect, dateOffModel},
	})

	counts, err := NewAggregator(store).PerfectRows()
	require.NoError(t, err)

	// b.pdf has a correct verdict but a mismatched date, so only a.pdf is
	// perfect.
	assert.Equal(t, RowCount{Correct: 1, Total: 2}, counts[model.ModelHaiku])

	// Models with no rows still accrue totals from the unified view.
	assert.Equal(t, RowCount{Correct: 0, Total: 2}, counts[model.ModelSonnet])
	assert.Equal(t, RowCount{Correct: 0, Total: 2}, counts[model.ModelOpus])
}

func TestPerfectRows_NormalizedComparison(t *testing.T) {
	t.Parallel()

	master := notice("a.pdf", "123-45", "ACME Power", "1 Main St, Apt 4", "Late Notice", "2025-01-01", "2025-01-15", "$1,500.00")
	folded := notice("a.pdf", "12345", "acme power", "1 main st apt 4", "Late Notice", "2025-01-01", "2025-01-15", "1500.00")

	store := newTestStore(t, map[string][]model.Notice{
		workbook.MasterSheet:         {master},
		model.ModelOpus.SheetName(): {folded},
	})

	counts, err := NewAggregator(store).PerfectRows()
	require.NoError(t, err)
	assert.Equal(t, RowCount{Correct: 1, Total: 1}, counts[model.ModelOpus])
}
