package ocr

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Builtin extracts text from PDFs in-process. It only reads the embedded
// text layer; scanned notices need the pdftotext provider with an OCR
// layer already applied.
type Builtin struct{}

// NewBuiltin creates a Builtin extractor.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// ExtractText returns the concatenated plain text of every page.
func (b *Builtin) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "ocr: context cancelled")
	}

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: open %s", pdfPath)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return text.String(), nil
}
