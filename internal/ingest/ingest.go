// Package ingest validates and classifies uploaded files and writes them to
// the object store.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/atjgmj/data-intelligence-platform/internal/storage"
)

// Result describes a stored upload. The caller persists the Dataset row from
// it; ingestion itself never touches the database.
type Result struct {
	StorageKey string
	ByteCount  int64
	Category   string
	Metadata   map[string]interface{}
}

// Service writes uploads into the datasets bucket.
type Service struct {
	store  storage.ObjectStore
	bucket string
}

func NewService(store storage.ObjectStore, bucket string) *Service {
	return &Service{store: store, bucket: bucket}
}

// Ingest classifies content by inspecting the bytes themselves, derives a
// collision-free storage key and writes the object. The declared content type
// is recorded in metadata but never trusted for classification. Size limits
// are the caller's responsibility and are enforced before Ingest is invoked.
func (s *Service) Ingest(ctx context.Context, content []byte, filename, declaredType string, ownerID uuid.UUID) (*Result, error) {
	// A missing extension is not an error; the key just ends at the uuid.
	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", ownerID, uuid.New(), ext)

	detected := mimetype.Detect(content)
	// mimetype appends parameters ("; charset=utf-8") to text types.
	detectedType, _, _ := strings.Cut(detected.String(), ";")
	detectedType = strings.TrimSpace(detectedType)

	if err := s.store.Put(ctx, s.bucket, key, content, detectedType); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &Result{
		StorageKey: key,
		ByteCount:  int64(len(content)),
		Category:   Categorize(detectedType),
		Metadata: map[string]interface{}{
			"original_filename": filename,
			"content_type":      declaredType,
			"detected_type":     detectedType,
		},
	}, nil
}

// Categorize maps a MIME type onto the platform's fixed category set. The
// rules form a decision list; first match wins, so text/csv resolves to csv
// before the generic text rule applies.
func Categorize(mimeType string) string {
	switch {
	case mimeType == "text/csv":
		return "csv"
	case strings.HasPrefix(mimeType, "text/"):
		return "text"
	case strings.HasPrefix(mimeType, "application/"):
		switch {
		case strings.Contains(mimeType, "json"):
			return "json"
		case strings.Contains(mimeType, "excel"), strings.Contains(mimeType, "spreadsheet"):
			return "xlsx"
		case strings.Contains(mimeType, "pdf"):
			return "pdf"
		}
	}
	return "unknown"
}
