package evidence

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves evidence downloads.
type Handler struct {
	Storage storage.Store
	Log     *zap.Logger
}

func NewHandler(store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, Log: logger}
}

// Download streams one evidence file. Local storage is served straight
// from disk; other backends redirect to a presigned URL. Either way the
// browser gets an attachment, never an inline render.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	path := filepath.ToSlash(filepath.Clean(chi.URLParam(r, "*")))
	if path == "" || path == "." || strings.HasPrefix(path, "..") {
		httpjson.Error(w, http.StatusNotFound, "File not found")
		return
	}

	filename := filepath.Base(path)

	if local, ok := h.Storage.(*storage.Local); ok {
		full, err := local.GetFullPath(path)
		if err != nil {
			h.Log.Warn("evidence: bad path", zap.String("path", path), zap.Error(err))
			httpjson.Error(w, http.StatusNotFound, "File not found")
			return
		}
		if _, err := os.Stat(full); err != nil {
			httpjson.Error(w, http.StatusNotFound, "File not found")
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		http.ServeFile(w, r, full)
		return
	}

	// Config only accepts storage_type "local" today, so this branch
	// is dormant until an S3/GCS/Azure backend is wired into bootstrap.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	url, err := h.Storage.PresignedURL(ctx, path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: `attachment; filename="` + filename + `"`,
	})
	if err != nil {
		h.Log.Warn("evidence: presign failed", zap.String("path", path), zap.Error(err))
		httpjson.Error(w, http.StatusNotFound, "File not found")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// DeleteAll removes the given evidence paths from storage, logging but
// not failing on individual misses. Used when activities are deleted or
// their evidence is replaced.
func (h *Handler) DeleteAll(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := h.Storage.Delete(ctx, p); err != nil {
			h.Log.Warn("evidence: delete failed", zap.String("path", p), zap.Error(err))
		}
	}
}
