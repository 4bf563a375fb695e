package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

func TestExtensionAllowed(t *testing.T) {
	allowed := []string{"notes.pdf", "slides.PPTX", "essay.docx", "photo.HEIC", "scan.jpeg", "a.b.png"}
	for _, name := range allowed {
		assert.True(t, ExtensionAllowed(name), "expected %s to be allowed", name)
	}

	rejected := []string{"archive.zip", "script.exe", "noextension", "weird.pdf.txt", "video.mp4"}
	for _, name := range rejected {
		assert.False(t, ExtensionAllowed(name), "expected %s to be rejected", name)
	}
}

func TestFileTypeFor(t *testing.T) {
	assert.Equal(t, FileTypePDF, FileTypeFor("notes.pdf"))
	assert.Equal(t, FileTypeDoc, FileTypeFor("essay.doc"))
	assert.Equal(t, FileTypeDoc, FileTypeFor("essay.docx"))
	assert.Equal(t, FileTypePPT, FileTypeFor("slides.pptx"))
	assert.Equal(t, FileTypeImage, FileTypeFor("photo.heic"))
	assert.Equal(t, FileTypeImage, FileTypeFor("scan.JPG"))
	assert.Equal(t, FileTypeOther, FileTypeFor("archive.zip"))
}

func TestTagsRoundTrip(t *testing.T) {
	stored := JoinTags([]string{" math ", "", "calculus", "  "})
	assert.Equal(t, "math,calculus", stored)

	tags := SplitTags(stored)
	assert.Equal(t, []string{"math", "calculus"}, tags)

	// Empty storage form yields an empty slice, never [""].
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{}, SplitTags("  "))
	assert.Equal(t, []string{"a"}, SplitTags(",a,,"))
}

func TestNewMaterial(t *testing.T) {
	m, err := NewMaterial(NewMaterialParams{
		ID:      "m1",
		UserID:  "u1",
		Name:    "  Linear Algebra.pdf ",
		Size:    2048,
		Subject: "math",
		Tags:    []string{"algebra", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "Linear Algebra.pdf", m.Name)
	assert.Equal(t, FileTypePDF, m.FileType)
	assert.Equal(t, StatusNew, m.Status)
	assert.Equal(t, []string{"algebra"}, m.Tags)
}

func TestNewMaterial_Validation(t *testing.T) {
	_, err := NewMaterial(NewMaterialParams{ID: "m1", UserID: "u1", Name: "malware.exe"})
	assert.ErrorIs(t, err, shared.ErrDisallowedFileType)

	_, err = NewMaterial(NewMaterialParams{ID: "m1", UserID: "u1", Name: ""})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = NewMaterial(NewMaterialParams{ID: "m1", UserID: "u1", Name: "a.pdf", Size: -1})
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
}

func TestProcessingLifecycle(t *testing.T) {
	m, err := NewMaterial(NewMaterialParams{ID: "m1", UserID: "u1", Name: "a.pdf"})
	require.NoError(t, err)
	assert.False(t, m.HasText())

	m.StartProcessing()
	assert.Equal(t, StatusProcessing, m.Status)

	m.CompleteProcessing("extracted text", 12)
	assert.Equal(t, StatusCompleted, m.Status)
	assert.Equal(t, 12, m.PageCount)
	assert.True(t, m.HasText())

	m.FailProcessing()
	assert.Equal(t, StatusError, m.Status)
}
