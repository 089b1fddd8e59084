// Package workbook adapts the evaluation workbook: one xlsx file holding
// the Master ground-truth sheet plus one sheet per evaluated model, every
// sheet keyed by PDF name.
package workbook

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/notice-eval/internal/model"
)

// MasterSheet is the ground-truth sheet name.
const MasterSheet = "Master"

// Store reads and writes the evaluation workbook. Every operation reloads
// the file; nothing is cached between calls.
type Store struct {
	path string
}

// New creates a Store over the workbook at path. The file does not need
// to exist yet; reads of a missing file return empty data and the first
// upsert creates it.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing workbook path.
func (s *Store) Path() string {
	return s.path
}

// Master returns the ground-truth records keyed by PDF name. A missing
// workbook or missing Master sheet yields an empty map, not an error.
func (s *Store) Master() (map[string]model.Notice, error) {
	return s.sheetRecords(MasterSheet)
}

// Model returns one model's records keyed by PDF name. A model that has
// not produced any rows yet yields an empty map.
func (s *Store) Model(id model.ModelID) (map[string]model.Notice, error) {
	return s.sheetRecords(id.SheetName())
}

// MasterContains reports whether the Master sheet holds a row for the
// given PDF name.
func (s *Store) MasterContains(pdfName string) (bool, error) {
	records, err := s.Master()
	if err != nil {
		return false, err
	}
	_, ok := records[pdfName]
	return ok, nil
}

// ModelContains reports whether a model's sheet already holds a row for
// the given PDF name.
func (s *Store) ModelContains(id model.ModelID, pdfName string) (bool, error) {
	records, err := s.Model(id)
	if err != nil {
		return false, err
	}
	_, ok := records[pdfName]
	return ok, nil
}

// Upsert writes one model row keyed by the notice's PDF name. An existing
// row for that PDF is overwritten in place; otherwise a new row is
// appended. Repeating the same upsert leaves the sheet unchanged.
func (s *Store) Upsert(id model.ModelID, n model.Notice) error {
	f, err := s.openOrCreate()
	if err != nil {
		return err
	}

	sheet, err := ensureSheet(f, id.SheetName())
	if err != nil {
		return err
	}

	// The key lookup below trusts the header layout, so repair it first.
	if headerDrifted(sheet) {
		zap.L().Warn("workbook: rewriting drifted header",
			zap.String("sheet", id.SheetName()),
		)
		sheet.Rows = nil
		writeHeader(sheet)
	}

	target := -1
	for i := 1; i < len(sheet.Rows); i++ {
		if strings.TrimSpace(cellValue(sheet.Rows[i], 0)) == n.PDFName {
			target = i
			break
		}
	}
	if target == -1 {
		target = len(sheet.Rows)
	}

	for col, val := range n.Row() {
		sheet.Cell(target, col).SetString(val)
	}

	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "workbook: save %s", s.path)
	}
	return nil
}

// openOrCreate loads the workbook, creating it with every expected sheet
// when the file does not exist yet.
func (s *Store) openOrCreate() (*xlsx.File, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		f := xlsx.NewFile()
		for _, name := range expectedSheets() {
			sheet, err := f.AddSheet(name)
			if err != nil {
				return nil, eris.Wrapf(err, "workbook: add sheet %s", name)
			}
			writeHeader(sheet)
		}
		return f, nil
	}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open %s", s.path)
	}
	return f, nil
}

func expectedSheets() []string {
	names := []string{MasterSheet}
	for _, m := range model.ModelIDs {
		names = append(names, m.SheetName())
	}
	return names
}

func ensureSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if sheet, ok := f.Sheet[name]; ok {
		return sheet, nil
	}
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: add sheet %s", name)
	}
	writeHeader(sheet)
	return sheet, nil
}

func writeHeader(sheet *xlsx.Sheet) {
	row := sheet.AddRow()
	for _, col := range model.Columns {
		row.AddCell().SetString(col)
	}
}

func headerDrifted(sheet *xlsx.Sheet) bool {
	if len(sheet.Rows) == 0 {
		return true
	}
	header := sheet.Rows[0]
	if len(header.Cells) != len(model.Columns) {
		return true
	}
	for i, col := range model.Columns {
		if header.Cells[i].String() != col {
			return true
		}
	}
	return false
}

// sheetRecords loads one sheet into a map keyed by trimmed PDF name. Rows
// without a key cell are skipped. Cell values are trimmed the same way the
// curation process enters them.
func (s *Store) sheetRecords(name string) (map[string]model.Notice, error) {
	records := make(map[string]model.Notice)

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return records, nil
	}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "workbook: open %s", s.path)
	}

	sheet, ok := f.Sheet[name]
	if !ok || len(sheet.Rows) == 0 {
		return records, nil
	}

	colIdx := make(map[string]int, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		colIdx[cell.String()] = i
	}
	keyCol, ok := colIdx[model.KeyColumn]
	if !ok {
		return records, nil
	}

	for _, row := range sheet.Rows[1:] {
		pdfName := strings.TrimSpace(cellValue(row, keyCol))
		if pdfName == "" {
			continue
		}

		n := model.Notice{PDFName: pdfName}
		for _, field := range model.Fields {
			idx, ok := colIdx[string(field)]
			if !ok {
				continue
			}
			n.SetValue(field, strings.TrimSpace(cellValue(row, idx)))
		}
		records[pdfName] = n
	}

	return records, nil
}

func cellValue(row *xlsx.Row, col int) string {
	if col >= len(row.Cells) {
		return ""
	}
	return row.Cells[col].String()
}
