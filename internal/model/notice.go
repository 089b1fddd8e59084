package model

// Field identifies one tracked attribute extracted from a notice PDF.
// Field values double as the workbook column headers.
type Field string

const (
	FieldAccountNumber  Field = "Vendor Account Number"
	FieldVendorName     Field = "Vendor Name"
	FieldServiceAddress Field = "Service Address"
	FieldCategory       Field = "Notice Category"
	FieldNoticeDate     Field = "Notice Date"
	FieldImpactDate     Field = "Impact Date"
	FieldImpactAmount   Field = "Impact Amount"
)

// KeyColumn is the header of the column that keys every sheet row.
const KeyColumn = "PDF Name"

// Fields lists the tracked fields in canonical column order.
var Fields = []Field{
	FieldAccountNumber,
	FieldVendorName,
	FieldServiceAddress,
	FieldCategory,
	FieldNoticeDate,
	FieldImpactDate,
	FieldImpactAmount,
}

// IdentityFields are the three fields whose joint match defines a correct
// vendor identification.
var IdentityFields = []Field{
	FieldAccountNumber,
	FieldVendorName,
	FieldServiceAddress,
}

// Columns is the canonical sheet header: key column followed by every
// tracked field.
var Columns = func() []string {
	cols := make([]string, 0, len(Fields)+1)
	cols = append(cols, KeyColumn)
	for _, f := range Fields {
		cols = append(cols, string(f))
	}
	return cols
}()

// SentinelNA marks a field the extractor could not populate.
const SentinelNA = "NA"

// CategoryOthers is the catch-all notice category.
const CategoryOthers = "Others"

// Categories is the closed set of notice categories, in display order.
var Categories = []string{
	"Late Notice",
	"Maintenance",
	"Address Change",
	"Cheque Received",
	"Disconnect Notice",
	"Rate Change",
	"Revert to Owner",
	"3rd Party Audit",
	CategoryOthers,
}

// ImpactCategories are the categories for which impact date and impact
// amount carry real values. Every other category holds SentinelNA in both.
var ImpactCategories = []string{"Disconnect Notice", "Late Notice"}

// IsImpactCategory reports whether impact date/amount are meaningful for
// the given category.
func IsImpactCategory(category string) bool {
	for _, c := range ImpactCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Notice is one extracted record for a single PDF. One Notice exists per
// PDF in the Master sheet and at most one per (PDF, model) pair in each
// model sheet.
type Notice struct {
	PDFName        string `json:"pdf_name"`
	AccountNumber  string `json:"vendor_account"`
	VendorName     string `json:"vendor_name"`
	ServiceAddress string `json:"service_address"`
	Category       string `json:"category"`
	NoticeDate     string `json:"notice_date"`
	ImpactDate     string `json:"impact_date"`
	ImpactAmount   string `json:"impact_amount"`
}

// Value returns the notice's value for the given field.
func (n Notice) Value(f Field) string {
	switch f {
	case FieldAccountNumber:
		return n.AccountNumber
	case FieldVendorName:
		return n.VendorName
	case FieldServiceAddress:
		return n.ServiceAddress
	case FieldCategory:
		return n.Category
	case FieldNoticeDate:
		return n.NoticeDate
	case FieldImpactDate:
		return n.ImpactDate
	case FieldImpactAmount:
		return n.ImpactAmount
	}
	return ""
}

// SetValue stores a value into the slot for the given field. Unknown
// fields are ignored.
func (n *Notice) SetValue(f Field, v string) {
	switch f {
	case FieldAccountNumber:
		n.AccountNumber = v
	case FieldVendorName:
		n.VendorName = v
	case FieldServiceAddress:
		n.ServiceAddress = v
	case FieldCategory:
		n.Category = v
	case FieldNoticeDate:
		n.NoticeDate = v
	case FieldImpactDate:
		n.ImpactDate = v
	case FieldImpactAmount:
		n.ImpactAmount = v
	}
}

// Row renders the notice as a sheet row in canonical column order.
func (n Notice) Row() []string {
	row := make([]string, 0, len(Columns))
	row = append(row, n.PDFName)
	for _, f := range Fields {
		row = append(row, n.Value(f))
	}
	return row
}

// Verdict is the per-document vendor-identification outcome for one model.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	VerdictMissing   Verdict = "missing"
)

// ModelID identifies one extraction model variant under evaluation.
type ModelID string

const (
	ModelHaiku  ModelID = "haiku"
	ModelSonnet ModelID = "sonnet"
	ModelOpus   ModelID = "opus"
)

// ModelIDs lists every evaluated model in display order.
var ModelIDs = []ModelID{ModelHaiku, ModelSonnet, ModelOpus}

// modelSheets maps each model to the workbook sheet it owns.
var modelSheets = map[ModelID]string{
	ModelHaiku:  "Haiku 4.5",
	ModelSonnet: "Sonnet 4.5",
	ModelOpus:   "Opus 4.6",
}

// SheetName returns the workbook sheet owned by this model.
func (m ModelID) SheetName() string {
	return modelSheets[m]
}

// DisplayName returns the human-readable model label used in comparison
// views.
func (m ModelID) DisplayName() string {
	return modelSheets[m]
}

// ParseModelID resolves a model selector string to a ModelID.
func ParseModelID(s string) (ModelID, bool) {
	for _, m := range ModelIDs {
		if string(m) == s || m.SheetName() == s {
			return m, true
		}
	}
	return "", false
}
