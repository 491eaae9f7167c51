package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/inquiry-service/internal/config"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// Kind distinguishes the two upload flavors the service accepts.
type Kind string

const (
	KindVoice Kind = "voice"
	KindProof Kind = "proof"
)

// Browser-recorded audio and common raster image formats, matching what the
// intake and release forms produce.
var allowedTypes = map[Kind]map[string]string{
	KindVoice: {
		"audio/webm": ".webm",
		"audio/ogg":  ".ogg",
		"audio/mpeg": ".mp3",
		"audio/mp3":  ".mp3",
		"audio/wav":  ".wav",
	},
	KindProof: {
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/webp": ".webp",
	},
}

// Store persists uploaded media on local disk and hands back public URLs.
// The rest of the system only ever sees the returned reference.
type Store struct {
	dir        string
	publicPath string
	maxSize    int64
}

// NewStore creates the upload directory if needed.
func NewStore(cfg config.MediaConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:        cfg.UploadDir,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
		maxSize:    cfg.MaxSizeBytes,
	}, nil
}

// Dir returns the on-disk upload directory, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and stores one multipart upload, returning its public URL.
func (s *Store) Save(file *multipart.FileHeader, kind Kind) (string, error) {
	if file == nil {
		return "", apperrors.NewValidationError("file is required", nil)
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", apperrors.NewValidationError("file too large",
			map[string]any{"max_size_bytes": s.maxSize})
	}

	contentType := strings.ToLower(strings.TrimSpace(file.Header.Get("Content-Type")))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	ext, ok := allowedTypes[kind][contentType]
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported %s type", kind),
			map[string]any{"content_type": contentType})
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", apperrors.MapError(err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", apperrors.MapError(err)
	}

	return path.Join(s.publicPath, name), nil
}
