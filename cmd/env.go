package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/notice-eval/internal/config"
	"github.com/sells-group/notice-eval/internal/extract"
	"github.com/sells-group/notice-eval/internal/model"
	"github.com/sells-group/notice-eval/internal/ocr"
	"github.com/sells-group/notice-eval/internal/store"
	"github.com/sells-group/notice-eval/internal/workbook"
	"github.com/sells-group/notice-eval/pkg/anthropic"
)

// fieldExtractor is the per-tier extraction contract.
type fieldExtractor interface {
	Extract(ctx context.Context, pdfName, noticeText string) (model.Notice, error)
}

// appEnv bundles the shared dependencies of the serve and process commands.
type appEnv struct {
	cfg        *config.Config
	book       *workbook.Store
	db         store.Store
	ocr        ocr.Extractor
	extractors map[model.ModelID]fieldExtractor

	// serializes workbook save cycles during bulk extraction
	bookMu sync.Mutex
}

func initEnv(ctx context.Context) (*appEnv, error) {
	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	textExtractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		db.Close()
		return nil, err
	}

	client := anthropic.NewClient(cfg.Anthropic.Key)
	extractors := make(map[model.ModelID]fieldExtractor, len(model.ModelIDs))
	for _, id := range model.ModelIDs {
		extractors[id] = extract.New(
			client,
			cfg.Anthropic.TierModel(string(id)),
			cfg.Anthropic.MaxTokens,
			cfg.Anthropic.RequestsPerSecond,
		)
	}

	return &appEnv{
		cfg:        cfg,
		book:       workbook.New(cfg.Workbook.Path),
		db:         db,
		ocr:        textExtractor,
		extractors: extractors,
	}, nil
}

func (e *appEnv) Close() {
	if err := e.db.Close(); err != nil {
		zap.L().Warn("closing upload registry", zap.Error(err))
	}
}

// bulkResult summarizes one bulk extraction run.
type bulkResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// bulkProcess extracts fields for every registered upload that the given
// model has not answered yet and upserts the answers into that model's
// sheet. Individual document failures are logged and counted, not fatal.
func (e *appEnv) bulkProcess(ctx context.Context, id model.ModelID) (bulkResult, error) {
	uploads, err := e.db.ListUploads(ctx)
	if err != nil {
		return bulkResult{}, err
	}

	answered, err := e.book.Model(id)
	if err != nil {
		return bulkResult{}, err
	}

	var pending []store.Upload
	for _, u := range uploads {
		if _, ok := answered[u.PDFName]; ok {
			continue
		}
		pending = append(pending, u)
	}

	zap.L().Info("bulk extraction starting",
		zap.String("model", string(id)),
		zap.Int("pending", len(pending)),
		zap.Int("skipped", len(uploads)-len(pending)),
	)

	concurrency := e.cfg.Process.MaxConcurrent
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var processed, failed atomic.Int64

	for _, u := range pending {
		g.Go(func() error {
			log := zap.L().With(
				zap.String("model", string(id)),
				zap.String("pdf", u.PDFName),
			)

			text, err := e.ocr.ExtractText(gctx, u.PDFPath)
			if err != nil {
				failed.Add(1)
				log.Error("text extraction failed", zap.Error(err))
				return nil // keep going on individual failures
			}

			notice, err := e.extractors[id].Extract(gctx, u.PDFName, text)
			if err != nil {
				failed.Add(1)
				log.Error("field extraction failed", zap.Error(err))
				return nil
			}

			e.bookMu.Lock()
			err = e.book.Upsert(id, notice)
			e.bookMu.Unlock()
			if err != nil {
				failed.Add(1)
				log.Error("workbook upsert failed", zap.Error(err))
				return nil
			}

			processed.Add(1)
			log.Info("document processed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return bulkResult{}, eris.Wrap(err, "bulk extraction")
	}

	res := bulkResult{
		Processed: int(processed.Load()),
		Skipped:   len(uploads) - len(pending),
		Failed:    int(failed.Load()),
	}
	zap.L().Info("bulk extraction complete",
		zap.String("model", string(id)),
		zap.Int("processed", res.Processed),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
