// Package material contains the uploaded-document aggregate and its
// processing lifecycle.
package material

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the unique identifier of a material.
type ID string

// IsValid checks that the ID is not empty.
func (id ID) IsValid() bool {
	return len(id) > 0
}

// String returns the string representation of the ID.
func (id ID) String() string {
	return string(id)
}

// FileType classifies a material by its source file.
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeDoc   FileType = "doc"
	FileTypePPT   FileType = "ppt"
	FileTypeImage FileType = "img"
	FileTypeOther FileType = "other"
)

// IsValid checks that the file type is known.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypePDF, FileTypeDoc, FileTypePPT, FileTypeImage, FileTypeOther:
		return true
	default:
		return false
	}
}

// allowedExtensions is the closed set of accepted upload extensions.
var allowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"doc":  FileTypeDoc,
	"docx": FileTypeDoc,
	"ppt":  FileTypePPT,
	"pptx": FileTypePPT,
	"jpg":  FileTypeImage,
	"jpeg": FileTypeImage,
	"png":  FileTypeImage,
	"heic": FileTypeImage,
}

// ExtensionAllowed reports whether a filename carries an accepted extension.
func ExtensionAllowed(filename string) bool {
	_, ok := allowedExtensions[normalizeExt(filename)]
	return ok
}

// FileTypeFor maps a filename to its FileType. Unknown extensions map to
// FileTypeOther; whether they are accepted at all is ExtensionAllowed's call.
func FileTypeFor(filename string) FileType {
	if t, ok := allowedExtensions[normalizeExt(filename)]; ok {
		return t
	}
	return FileTypeOther
}

func normalizeExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Status is the processing lifecycle state of a material.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsValid checks that the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusCompleted, StatusError:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TAGS
// ══════════════════════════════════════════════════════════════════════════════

// JoinTags serializes a tag list to comma-joined storage form.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

// SplitTags parses comma-joined storage form back to an ordered tag list.
// An empty string yields an empty slice, never [""].
func SplitTags(stored string) []string {
	if strings.TrimSpace(stored) == "" {
		return []string{}
	}
	parts := strings.Split(stored, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// ══════════════════════════════════════════════════════════════════════════════
// MATERIAL ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Material is a user-owned document reference. The backing file lives in
// object storage under StoragePath; ExtractedText is filled by the
// ingestion collaborator.
type Material struct {
	ID            ID
	UserID        user.ID
	Name          string
	StoragePath   string
	FileType      FileType
	Size          int64
	PageCount     int
	Status        Status
	ExtractedText string
	Subject       string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewMaterialParams holds parameters for creating a material.
type NewMaterialParams struct {
	ID          ID
	UserID      user.ID
	Name        string
	StoragePath string
	Size        int64
	Subject     string
	Tags        []string
}

// NewMaterial creates a material in status "new" with validation.
func NewMaterial(params NewMaterialParams) (*Material, error) {
	if !params.ID.IsValid() {
		return nil, shared.NewDomainError("material", "New", shared.ErrInvalidID, "empty material id")
	}
	if !params.UserID.IsValid() {
		return nil, shared.NewDomainError("material", "New", shared.ErrInvalidID, "empty user id")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, shared.NewDomainError("material", "New", shared.ErrEmptyValue, "material name is required")
	}
	if !ExtensionAllowed(params.Name) {
		return nil, shared.ErrDisallowedFileType
	}
	if params.Size < 0 {
		return nil, shared.NewDomainError("material", "New", shared.ErrNegativeValue, "negative file size")
	}

	now := time.Now().UTC()
	return &Material{
		ID:          params.ID,
		UserID:      params.UserID,
		Name:        strings.TrimSpace(params.Name),
		StoragePath: params.StoragePath,
		FileType:    FileTypeFor(params.Name),
		Size:        params.Size,
		Status:      StatusNew,
		Subject:     strings.TrimSpace(params.Subject),
		Tags:        SplitTags(JoinTags(params.Tags)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// StartProcessing moves the material into the processing state.
func (m *Material) StartProcessing() {
	m.Status = StatusProcessing
	m.UpdatedAt = time.Now().UTC()
}

// CompleteProcessing stores extraction results and marks the material done.
func (m *Material) CompleteProcessing(text string, pages int) {
	m.ExtractedText = text
	if pages > 0 {
		m.PageCount = pages
	}
	m.Status = StatusCompleted
	m.UpdatedAt = time.Now().UTC()
}

// FailProcessing marks the material as failed.
func (m *Material) FailProcessing() {
	m.Status = StatusError
	m.UpdatedAt = time.Now().UTC()
}

// HasText reports whether extraction produced usable text content.
func (m *Material) HasText() bool {
	return strings.TrimSpace(m.ExtractedText) != ""
}

// TagsStored returns the comma-joined storage form of the tags.
func (m *Material) TagsStored() string {
	return JoinTags(m.Tags)
}
