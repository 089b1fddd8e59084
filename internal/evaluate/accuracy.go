package evaluate

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

// Aggregator computes the accuracy metrics over the workbook. Each metric
// reloads the backing tables, reduces in memory, and returns; a missing
// workbook or sheet degrades to zero-valued scores.
//
// The three date/amount metrics compare raw trimmed cell values while the
// verdict and the perfect-row count use the normalized comparator. The
// asymmetry is carried over from the behavior this engine replaces; do
// not unify the two paths.
type Aggregator struct {
	store *workbook.Store
}

// NewAggregator creates an Aggregator over the given workbook store.
func NewAggregator(store *workbook.Store) *Aggregator {
	return &Aggregator{store: store}
}

// CategoryScores holds per-category accuracy percentages for every model,
// index-aligned with Categories.
type CategoryScores struct {
	Categories []string                    `json:"categories"`
	Scores     map[model.ModelID][]float64 `json:"scores"`
}

// RowCount is a perfect-row tally for one model.
type RowCount struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Overall returns the vendor-identification accuracy per model: the share
// of master documents whose three identity fields all match after
// normalization, as a percentage rounded to one decimal. An empty master
// sheet scores every model 0.
func (a *Aggregator) Overall() (map[model.ModelID]float64, error) {
	master, err := a.store.Master()
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: load master sheet")
	}
	if len(master) == 0 {
		return zeroScores(), nil
	}

	scores := make(map[model.ModelID]float64, len(model.ModelIDs))
	for _, id := range model.ModelIDs {
		records, err := a.store.Model(id)
		if err != nil {
			return nil, eris.Wrapf(err, "evaluate: load %s sheet", id)
		}

		correct := 0
		for pdfName, masterRecord := range master {
			record, ok := records[pdfName]
			if !ok {
				continue
			}
			if identityMatch(masterRecord, record) {
				correct++
			}
		}
		scores[id] = percent(correct, len(master))
	}
	return scores, nil
}

// ByCategory returns classification accuracy per category per model.
// Categories are matched by exact string equality, not the normalizer:
// the vocabulary is closed, so any deviation is a real misclassification.
// Master categories outside the closed set count toward Others. A
// category with no master documents scores 0.
func (a *Aggregator) ByCategory() (*CategoryScores, error) {
	master, err := a.store.Master()
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: load master sheet")
	}

	known := make(map[string]bool, len(model.Categories))
	for _, c := range model.Categories {
		known[c] = true
	}
	bucket := func(category string) string {
		if known[category] {
			return category
		}
		return model.CategoryOthers
	}

	totals := make(map[string]int, len(model.Categories))
	for _, masterRecord := range master {
		totals[bucket(masterRecord.Category)]++
	}

	out := &CategoryScores{
		Categories: model.Categories,
		Scores:     make(map[model.ModelID][]float64, len(model.ModelIDs)),
	}

	for _, id := range model.ModelIDs {
		records, err := a.store.Model(id)
		if err != nil {
			return nil, eris.Wrapf(err, "evaluate: load %s sheet", id)
		}

		correct := make(map[string]int, len(model.Categories))
		for pdfName, masterRecord := range master {
			record, ok := records[pdfName]
			if !ok {
				continue
			}
			if masterRecord.Category == record.Category {
				correct[bucket(masterRecord.Category)]++
			}
		}

		scores := make([]float64, len(model.Categories))
		for i, category := range model.Categories {
			if totals[category] > 0 {
				scores[i] = percent(correct[category], totals[category])
			}
		}
		out.Scores[id] = scores
	}

	return out, nil
}

// ImpactAmount returns per-model accuracy of the Impact Amount field over
// master documents in the impact-bearing categories (Disconnect Notice
// and Late Notice), compared as raw strings.
func (a *Aggregator) ImpactAmount() (map[model.ModelID]float64, error) {
	return a.rawFieldAccuracy(model.FieldImpactAmount, true)
}

// ImpactDate returns per-model accuracy of the Impact Date field over
// master documents in the impact-bearing categories, compared as raw
// strings.
func (a *Aggregator) ImpactDate() (map[model.ModelID]float64, error) {
	return a.rawFieldAccuracy(model.FieldImpactDate, true)
}

// NoticeDate returns per-model accuracy of the Notice Date field over
// every master document, compared as raw strings.
func (a *Aggregator) NoticeDate() (map[model.ModelID]float64, error) {
	return a.rawFieldAccuracy(model.FieldNoticeDate, false)
}

func (a *Aggregator) rawFieldAccuracy(field model.Field, impactOnly bool) (map[model.ModelID]float64, error) {
	master, err := a.store.Master()
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: load master sheet")
	}

	eligible := make(map[string]model.Notice, len(master))
	for pdfName, masterRecord := range master {
		if impactOnly && !model.IsImpactCategory(masterRecord.Category) {
			continue
		}
		eligible[pdfName] = masterRecord
	}
	if len(eligible) == 0 {
		return zeroScores(), nil
	}

	scores := make(map[model.ModelID]float64, len(model.ModelIDs))
	for _, id := range model.ModelIDs {
		records, err := a.store.Model(id)
		if err != nil {
			return nil, eris.Wrapf(err, "evaluate: load %s sheet", id)
		}

		correct := 0
		for pdfName, masterRecord := range eligible {
			record, ok := records[pdfName]
			if !ok {
				continue
			}
			if masterRecord.Value(field) == record.Value(field) {
				correct++
			}
		}
		scores[id] = percent(correct, len(eligible))
	}
	return scores, nil
}

// PerfectRows counts, per model, the documents where all seven tracked
// fields match after normalization. Totals cover every master document in
// the unified view, so a missing model row lowers the rate; a document
// with a correct verdict but a mismatched date still does not count.
func (a *Aggregator) PerfectRows() (map[model.ModelID]RowCount, error) {
	entries, err := NewBuilder(a.store).Unified()
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ModelID]RowCount, len(model.ModelIDs))
	for _, id := range model.ModelIDs {
		counts[id] = RowCount{}
	}

	for _, entry := range entries {
		for _, row := range entry.Models {
			count := counts[row.Model]
			count.Total++

			perfect := true
			for _, f := range model.Fields {
				if row.Mismatches[f] {
					perfect = false
					break
				}
			}
			if perfect {
				count.Correct++
			}
			counts[row.Model] = count
		}
	}

	return counts, nil
}

func identityMatch(master, extracted model.Notice) bool {
	for _, f := range model.IdentityFields {
		if Normalize(master.Value(f), f) != Normalize(extracted.Value(f), f) {
			return false
		}
	}
	return true
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}

func zeroScores() map[model.ModelID]float64 {
	scores := make(map[model.ModelID]float64, len(model.ModelIDs))
	for _, id := range model.ModelIDs {
		scores[id] = 0
	}
	return scores
}
