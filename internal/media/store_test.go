package media

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spec-kit/inquiry-service/internal/config"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

func newTestStore(t *testing.T, maxSize int64) *Store {
	t.Helper()
	store, err := NewStore(config.MediaConfig{
		UploadDir:    t.TempDir(),
		MaxSizeBytes: maxSize,
		PublicPath:   "/uploads/",
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func buildFileHeader(t *testing.T, field, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File[field]
	if len(files) != 1 {
		t.Fatalf("form files = %d, want 1", len(files))
	}
	return files[0]
}

func TestSaveProofImage(t *testing.T) {
	store := newTestStore(t, 1024)
	payload := []byte("fake-png-bytes")
	file := buildFileHeader(t, "proofImage", "proof.png", "image/png", payload)

	url, err := store.Save(file, KindProof)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want /uploads/<uuid>.png", url)
	}

	stored, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(url)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("stored bytes differ from upload")
	}
}

func TestSaveVoiceRecording(t *testing.T) {
	store := newTestStore(t, 1024)
	// Browsers append codec parameters to the recorded MIME type.
	file := buildFileHeader(t, "voice", "note.webm", "audio/webm; codecs=opus", []byte("opus"))

	url, err := store.Save(file, KindVoice)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(url, ".webm") {
		t.Errorf("url = %q, want .webm extension", url)
	}
}

func TestSaveRejectsWrongKind(t *testing.T) {
	store := newTestStore(t, 1024)

	image := buildFileHeader(t, "voice", "sneaky.png", "image/png", []byte("x"))
	if _, err := store.Save(image, KindVoice); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("image as voice: expected VALIDATION_FAILED, got %v", err)
	}

	audio := buildFileHeader(t, "proofImage", "sneaky.mp3", "audio/mpeg", []byte("x"))
	if _, err := store.Save(audio, KindProof); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("audio as proof: expected VALIDATION_FAILED, got %v", err)
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	store := newTestStore(t, 8)
	file := buildFileHeader(t, "proofImage", "big.png", "image/png", []byte("way more than eight bytes"))

	if _, err := store.Save(file, KindProof); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("oversized: expected VALIDATION_FAILED, got %v", err)
	}
}

func TestSaveRejectsNil(t *testing.T) {
	store := newTestStore(t, 1024)
	if _, err := store.Save(nil, KindProof); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("nil file: expected VALIDATION_FAILED, got %v", err)
	}
}
