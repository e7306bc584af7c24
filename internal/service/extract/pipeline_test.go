package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/queue"
)

type memoryBlobs struct {
	objects map[string][]byte
}

func (b *memoryBlobs) Put(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	b.objects[key] = content
	return nil
}

func (b *memoryBlobs) Get(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (b *memoryBlobs) Stat(_ context.Context, key string) error {
	if _, ok := b.objects[key]; !ok {
		return fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return nil
}

func (b *memoryBlobs) Delete(_ context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

// metadataRecorder implements the repository surface the pipeline touches;
// the rest panics to catch unexpected calls.
type metadataRecorder struct {
	mu       sync.Mutex
	known    map[string]bool
	received map[string]map[string]any
}

func newMetadataRecorder(keys ...string) *metadataRecorder {
	known := make(map[string]bool, len(keys))
	for _, key := range keys {
		known[key] = true
	}
	return &metadataRecorder{known: known, received: make(map[string]map[string]any)}
}

func (r *metadataRecorder) SetMetadata(_ context.Context, objectKey string, metadata map[string]any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[objectKey] {
		return false, nil
	}
	r.received[objectKey] = metadata
	return true, nil
}

func (r *metadataRecorder) Create(context.Context, *models.FileRecord) error { panic("unexpected") }
func (r *metadataRecorder) GetByID(context.Context, int64) (*models.FileRecord, error) {
	panic("unexpected")
}
func (r *metadataRecorder) List(context.Context, repositories.ListScope) ([]models.FileRecord, error) {
	panic("unexpected")
}
func (r *metadataRecorder) ListAll(context.Context) ([]models.FileRecord, error) {
	panic("unexpected")
}
func (r *metadataRecorder) Delete(context.Context, int64) (bool, error) { panic("unexpected") }
func (r *metadataRecorder) IncrementDownloads(context.Context, int64) error {
	panic("unexpected")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipeline_Process_DOCX(t *testing.T) {
	blobs := &memoryBlobs{objects: map[string][]byte{}}
	data := buildDOCX(t, map[string]string{"word/document.xml": docxBody})
	blobs.objects["1/key_a.docx"] = data

	files := newMetadataRecorder("1/key_a.docx")
	pipeline := NewPipeline(files, blobs, discardLogger())

	pipeline.Process(context.Background(), queue.Job{
		ID:          "job-1",
		ObjectKey:   "1/key_a.docx",
		ContentType: models.MIMEDOCX,
	})

	meta := files.received["1/key_a.docx"]
	if meta == nil {
		t.Fatal("no metadata merged")
	}
	if meta["paragraphs"] != 3 {
		t.Errorf("paragraphs = %v, want 3", meta["paragraphs"])
	}
}

func TestPipeline_Process_RecordGone(t *testing.T) {
	blobs := &memoryBlobs{objects: map[string][]byte{}}
	blobs.objects["1/gone"] = buildDOCX(t, map[string]string{"word/document.xml": docxBody})

	// The recorder knows no keys: every merge reports no match.
	files := newMetadataRecorder()
	pipeline := NewPipeline(files, blobs, discardLogger())

	pipeline.Process(context.Background(), queue.Job{
		ID:          "job-2",
		ObjectKey:   "1/gone",
		ContentType: models.MIMEDOCX,
	})

	if len(files.received) != 0 {
		t.Errorf("metadata merged for a deleted record: %v", files.received)
	}
}

func TestPipeline_Process_BlobMissing(t *testing.T) {
	blobs := &memoryBlobs{objects: map[string][]byte{}}
	files := newMetadataRecorder("1/key")
	pipeline := NewPipeline(files, blobs, discardLogger())

	// Must not panic and must not merge anything.
	pipeline.Process(context.Background(), queue.Job{
		ID:          "job-3",
		ObjectKey:   "1/key",
		ContentType: models.MIMEPDF,
	})

	if len(files.received) != 0 {
		t.Errorf("metadata merged without a blob: %v", files.received)
	}
}

func TestPipeline_Process_CorruptDocument(t *testing.T) {
	blobs := &memoryBlobs{objects: map[string][]byte{
		"1/bad.pdf":  []byte("not a pdf at all"),
		"1/bad.docx": []byte("not a zip archive"),
	}}
	files := newMetadataRecorder("1/bad.pdf", "1/bad.docx")
	pipeline := NewPipeline(files, blobs, discardLogger())

	pipeline.Process(context.Background(), queue.Job{ObjectKey: "1/bad.pdf", ContentType: models.MIMEPDF})
	pipeline.Process(context.Background(), queue.Job{ObjectKey: "1/bad.docx", ContentType: models.MIMEDOCX})

	if len(files.received) != 0 {
		t.Errorf("metadata merged from corrupt documents: %v", files.received)
	}
}

func TestPipeline_Process_UnknownContentType(t *testing.T) {
	blobs := &memoryBlobs{objects: map[string][]byte{"1/img": []byte{0x89, 'P', 'N', 'G'}}}
	files := newMetadataRecorder("1/img")
	pipeline := NewPipeline(files, blobs, discardLogger())

	pipeline.Process(context.Background(), queue.Job{ObjectKey: "1/img", ContentType: "image/png"})

	if len(files.received) != 0 {
		t.Errorf("metadata merged for unrecognized content type: %v", files.received)
	}
}
