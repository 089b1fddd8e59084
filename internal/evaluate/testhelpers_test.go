package evaluate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/workbook"
)

// newTestStore builds a workbook on disk from per-sheet notice lists and
// returns a Store over it. Sheets not mentioned are simply absent.
func newTestStore(t *testing.T, sheets map[string][]model.Notice) *workbook.Store {
	t.Helper()

	f := xlsx.NewFile()
	for name, notices := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)

		header := sheet.AddRow()
		for _, col := range model.Columns {
			header.AddCell().SetString(col)
		}
		for _, n := range notices {
			row := sheet.AddRow()
			for _, val := range n.Row() {
				row.AddCell().SetString(val)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "notices.xlsx")
	require.NoError(t, f.Save(path))
	return workbook.New(path)
}

func notice(pdf, account, vendor, address, category, noticeDate, impactDate, impactAmount string) model.Notice {
	return model.Notice{
		PDFName:        pdf,
		AccountNumber:  account,
		VendorName:     vendor,
		ServiceAddress: address,
		Category:       category,
		NoticeDate:     noticeDate,
		ImpactDate:     impactDate,
		ImpactAmount:   impactAmount,
	}
}
