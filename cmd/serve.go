package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/notice-eval/internal/evaluate"
	"github.com/sells-group/notice-eval/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for uploads, extraction runs and accuracy queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(env *appEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/notices", env.handleUpload)
	r.Post("/notices/bulk-process/{model}", env.handleBulkProcess)

	r.Get("/comparisons", env.handleUnifiedComparison)
	r.Get("/comparisons/{model}", env.handleModelComparison)

	r.Route("/accuracy", func(r chi.Router) {
		r.Get("/overall", env.handleOverall)
		r.Get("/categories", env.handleCategories)
		r.Get("/impact-amount", env.handleImpactAmount)
		r.Get("/impact-date", env.handleImpactDate)
		r.Get("/notice-date", env.handleNoticeDate)
		r.Get("/perfect-rows", env.handlePerfectRows)
	})

	return r
}

// handleUpload registers one testing PDF. The file name must already be
// present in the Master sheet so that every upload has ground truth.
func (e *appEnv) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		respondError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	known, err := e.book.MasterContains(name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !known {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("%s has no ground truth row in the Master sheet", name))
		return
	}

	if err := os.MkdirAll(e.cfg.Uploads.Dir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	dst := filepath.Join(e.cfg.Uploads.Dir, name)
	out, err := os.Create(dst)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := out.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	upload, err := e.db.CreateUpload(r.Context(), name, dst)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	zap.L().Info("notice uploaded", zap.String("pdf", name))
	respondJSON(w, http.StatusCreated, upload)
}

func (e *appEnv) handleBulkProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseModelID(chi.URLParam(r, "model"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown model")
		return
	}

	res, err := e.bulkProcess(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (e *appEnv) handleUnifiedComparison(w http.ResponseWriter, r *http.Request) {
	entries, err := evaluate.NewBuilder(e.book).Unified()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (e *appEnv) handleModelComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := model.ParseModelID(chi.URLParam(r, "model"))
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown model")
		return
	}

	entries, err := evaluate.NewBuilder(e.book).SingleModel(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (e *appEnv) handleOverall(w http.ResponseWriter, r *http.Request) {
	scores, err := evaluate.NewAggregator(e.book).Overall()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

func (e *appEnv) handleCategories(w http.ResponseWriter, r *http.Request) {
	scores, err := evaluate.NewAggregator(e.book).ByCategory()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

func (e *appEnv) handleImpactAmount(w http.ResponseWriter, r *http.Request) {
	scores, err := evaluate.NewAggregator(e.book).ImpactAmount()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

func (e *appEnv) handleImpactDate(w http.ResponseWriter, r *http.Request) {
	scores, err := evaluate.NewAggregator(e.book).ImpactDate()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

func (e *appEnv) handleNoticeDate(w http.ResponseWriter, r *http.Request) {
	scores, err := evaluate.NewAggregator(e.book).NoticeDate()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

func (e *appEnv) handlePerfectRows(w http.ResponseWriter, r *http.Request) {
	counts, err := evaluate.NewAggregator(e.book).PerfectRows()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
