package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewJob(t *testing.T) {
	before := time.Now().UTC()
	job := NewJob("1/tok_a.pdf", "application/pdf")

	if job.ID == "" {
		t.Error("job id not assigned")
	}
	if job.ObjectKey != "1/tok_a.pdf" {
		t.Errorf("ObjectKey = %q", job.ObjectKey)
	}
	if job.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", job.ContentType)
	}
	if job.EnqueuedAt.Before(before) || job.EnqueuedAt.After(time.Now().UTC()) {
		t.Errorf("EnqueuedAt = %v out of range", job.EnqueuedAt)
	}

	if other := NewJob("1/tok_a.pdf", "application/pdf"); other.ID == job.ID {
		t.Error("job ids must be unique per enqueue")
	}
}

func TestJob_WireFormat(t *testing.T) {
	job := NewJob("2/tok_b.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	payload, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Field names are the wire contract between server and workers; a rename
	// would strand jobs already sitting in the list.
	var wire map[string]any
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "object_key", "content_type", "enqueued_at"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("wire format missing %q: %s", key, payload)
		}
	}

	var decoded Job
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ObjectKey != job.ObjectKey || decoded.ID != job.ID {
		t.Errorf("decoded = %+v, want %+v", decoded, job)
	}
}
