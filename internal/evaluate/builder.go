package evaluate

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

// ModelRow is one model's sub-row inside a comparison entry.
type ModelRow struct {
	Model      model.ModelID `json:"model"`
	Label      string        `json:"label"`
	Notice     model.Notice  `json:"notice"`
	Present    bool          `json:"present"`
	Mismatches MismatchMap   `json:"field_mismatches"`
	Verdict    model.Verdict `json:"details_verified"`
}

// Entry joins one master document with every requested model's output.
type Entry struct {
	SNo     int          `json:"s_no"`
	PDFName string       `json:"pdf_name"`
	Master  model.Notice `json:"master"`
	Models  []ModelRow   `json:"models"`
}

// Builder assembles comparison views from the workbook. Every call
// reloads the backing file; nothing is cached.
type Builder struct {
	store *workbook.Store
}

// NewBuilder creates a Builder over the given workbook store.
func NewBuilder(store *workbook.Store) *Builder {
	return &Builder{store: store}
}

// Unified returns one entry per master document against every evaluated
// model, ordered by PDF name. Documents with no output from a model
// surface that model as a missing row rather than being dropped.
func (b *Builder) Unified() ([]Entry, error) {
	return b.build(model.ModelIDs, false)
}

// SingleModel returns entries against exactly one model. Master documents
// absent from that model's sheet are excluded from the view; this view
// feeds focused review, not metrics.
func (b *Builder) SingleModel(id model.ModelID) ([]Entry, error) {
	return b.build([]model.ModelID{id}, true)
}

func (b *Builder) build(ids []model.ModelID, requireRow bool) ([]Entry, error) {
	master, err := b.store.Master()
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: load master sheet")
	}

	outputs := make(map[model.ModelID]map[string]model.Notice, len(ids))
	for _, id := range ids {
		records, err := b.store.Model(id)
		if err != nil {
			return nil, eris.Wrapf(err, "evaluate: load %s sheet", id)
		}
		outputs[id] = records
	}

	pdfNames := make([]string, 0, len(master))
	for name := range master {
		pdfNames = append(pdfNames, name)
	}
	sort.Strings(pdfNames)

	var entries []Entry
	for _, pdfName := range pdfNames {
		masterRecord := master[pdfName]

		rows := make([]ModelRow, 0, len(ids))
		skip := false
		for _, id := range ids {
			record, present := outputs[id][pdfName]
			if !present && requireRow {
				skip = true
				break
			}

			var extracted *model.Notice
			if present {
				extracted = &record
			}
			mismatches, verdict := Compare(masterRecord, extracted)

			rows = append(rows, ModelRow{
				Model:      id,
				Label:      id.DisplayName(),
				Notice:     record,
				Present:    present,
				Mismatches: mismatches,
				Verdict:    verdict,
			})
		}
		if skip {
			continue
		}

		entries = append(entries, Entry{
			SNo:     len(entries) + 1,
			PDFName: pdfName,
			Master:  masterRecord,
			Models:  rows,
		})
	}

	return entries, nil
}
