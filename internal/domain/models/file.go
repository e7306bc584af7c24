package models

import "time"

// Visibility is the access tier assigned to a file at upload time.
type Visibility string

const (
	VisibilityPrivate    Visibility = "PRIVATE"
	VisibilityDepartment Visibility = "DEPARTMENT"
	VisibilityPublic     Visibility = "PUBLIC"
)

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityDepartment, VisibilityPublic:
		return true
	}
	return false
}

// Document MIME types recognized by upload validation and metadata extraction.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Column limits, shared by validation and the schema.
const (
	MaxFilenameLength  = 512
	MaxObjectKeyLength = 1024
)

// FileRecord is the stored metadata row for an uploaded file. ObjectKey is
// the opaque locator of the bytes in the blob store; it is globally unique
// and immutable once assigned. DownloadsCount only ever increases.
type FileRecord struct {
	ID             int64          `json:"id"`
	Filename       string         `json:"filename"`
	ObjectKey      string         `json:"object_key"`
	OwnerID        int64          `json:"owner_id"`
	Visibility     Visibility     `json:"visibility"`
	Metadata       map[string]any `json:"metadata"` // nil until extraction completes
	DownloadsCount int64          `json:"downloads_count"`
	CreatedAt      time.Time      `json:"created_at"`

	// Owner is populated on fetch so visibility checks can see the owner's
	// department without a second query.
	Owner *User `json:"-"`
}
