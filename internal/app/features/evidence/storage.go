package evidence

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Upload limits for evidence files.
const (
	MaxFiles    = 5
	MaxFileSize = 5 << 20 // 5 MB per file
)

// allowedTypes are the evidence content types the portal accepts.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Allowed reports whether a content type is an acceptable evidence format.
func Allowed(contentType string) bool {
	return allowedTypes[contentType]
}

// Save stores one uploaded evidence file under a unique path and
// returns that path. The path shape is: evidence/YYYY/MM/uuid-filename
func Save(ctx context.Context, store storage.Store, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("file %q exceeds the %d MB limit", fh.Filename, MaxFileSize>>20)
	}
	contentType := fh.Header.Get("Content-Type")
	if !Allowed(contentType) {
		return "", fmt.Errorf("file %q has unsupported type %q", fh.Filename, contentType)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	now := time.Now().UTC()
	dateDir := fmt.Sprintf("evidence/%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(fh.Filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, path, io.LimitReader(f, MaxFileSize), opts); err != nil {
		return "", fmt.Errorf("store evidence: %w", err)
	}
	return path, nil
}

// SaveAll stores every uploaded evidence file, cleaning up already-stored
// files if a later one fails so a rejected upload leaves no orphans.
func SaveAll(ctx context.Context, store storage.Store, files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("at most %d evidence files per activity", MaxFiles)
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := Save(ctx, store, fh)
		if err != nil {
			for _, p := range paths {
				_ = store.Delete(ctx, p)
			}
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// sanitizeFilename strips path components and characters that could be
// problematic in storage paths.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
