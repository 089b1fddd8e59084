// Package store persists the registry of uploaded testing PDFs. The
// registry only records which files have been uploaded and where they
// live on disk; extraction results go to the workbook, not here.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/notice-eval/internal/config"
)

// Upload is one registered testing PDF.
type Upload struct {
	ID        string    `json:"id"`
	PDFName   string    `json:"pdf_name"`
	PDFPath   string    `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the upload registry persistence interface.
type Store interface {
	CreateUpload(ctx context.Context, pdfName, pdfPath string) (*Upload, error)
	ListUploads(ctx context.Context) ([]Upload, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
