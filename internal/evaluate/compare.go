package evaluate

import (
	"github.com/sells-group/notice-eval/internal/model"
)

// MismatchMap records, per tracked field, whether the normalized master
// and model values differ.
type MismatchMap map[model.Field]bool

// Compare compares one master record against one model record and returns
// the per-field mismatch map plus the vendor-identification verdict.
//
// A nil extracted record means the model never produced a row for this
// document: every field is marked mismatched and the verdict is missing.
// Otherwise the verdict is correct exactly when all three identity fields
// match after normalization; category, date and amount mismatches are
// tracked but never change the verdict.
func Compare(master model.Notice, extracted *model.Notice) (MismatchMap, model.Verdict) {
	mismatches := make(MismatchMap, len(model.Fields))

	if extracted == nil {
		for _, f := range model.Fields {
			mismatches[f] = true
		}
		return mismatches, model.VerdictMissing
	}

	for _, f := range model.Fields {
		mismatches[f] = Normalize(master.Value(f), f) != Normalize(extracted.Value(f), f)
	}

	for _, f := range model.IdentityFields {
		if mismatches[f] {
			return mismatches, model.VerdictIncorrect
		}
	}
	return mismatches, model.VerdictCorrect
}
