package services

import (
	"context"
	"io"
	"net/http"
	"strings"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/storage"

	"go.uber.org/zap"
)

var UploadKinds = map[string]bool{"logo": true, "favicon": true, "image": true}

var allowedImageTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"image/webp":               true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
}

type UploadService struct {
	store    storage.Store
	maxBytes int64
}

func NewUploadService(store storage.Store, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes}
}

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Save stores an image upload of the given kind and returns its public URL.
// declaredType is the client's Content-Type and only counts when sniffing
// cannot tell what the bytes are.
func (s *UploadService) Save(ctx context.Context, kind, filename, declaredType string, r io.Reader, size int64) (string, error) {
	if !UploadKinds[kind] {
		return "", apperr.NotFound("Unknown upload type")
	}
	if size > s.maxBytes {
		return "", apperr.Validation("File too large")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", apperr.Server("Upload failed", err)
	}
	head = head[:n]
	if n == 0 {
		return "", apperr.Validation("No file uploaded")
	}

	// Unrecognised binary falls back to the declared type; recognised
	// non-image content (html, xml, text) does not.
	ct := http.DetectContentType(head)
	if ct == "application/octet-stream" {
		ct = strings.ToLower(strings.TrimSpace(strings.Split(declaredType, ";")[0]))
	}
	if !allowedImageTypes[ct] {
		return "", apperr.Validation("Only image files are allowed")
	}

	body := io.MultiReader(strings.NewReader(string(head)), r)
	url, err := s.store.Put(ctx, storage.ObjectKey(kind, filename), ct, body, size)
	if err != nil {
		return "", apperr.Server("Upload failed", err)
	}

	logger.WithCtx(ctx).Info("file uploaded", zap.String("kind", kind), zap.String("url", url), zap.Int64("size", size))
	return url, nil
}
