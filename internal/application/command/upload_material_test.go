package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
)

func TestUploadMaterial(t *testing.T) {
	repo := newFakeMaterialRepo()
	handler := NewUploadMaterialHandler(repo, nil)

	m, err := handler.Handle(context.Background(), UploadMaterialCommand{
		UserID: "u1",
		Name:   "physics.pdf",
		Size:   1024,
		Tags:   []string{"mechanics", " waves "},
	})
	require.NoError(t, err)

	assert.Equal(t, material.StatusNew, m.Status)
	assert.Equal(t, material.FileTypePDF, m.FileType)
	assert.Equal(t, []string{"mechanics", "waves"}, m.Tags)
	assert.NotEmpty(t, m.ID)
}

func TestUploadMaterial_DisallowedType(t *testing.T) {
	handler := NewUploadMaterialHandler(newFakeMaterialRepo(), nil)

	_, err := handler.Handle(context.Background(), UploadMaterialCommand{
		UserID: "u1",
		Name:   "notes.txt",
	})
	assert.ErrorIs(t, err, shared.ErrDisallowedFileType)
}

func TestDeleteMaterial_UnlinksWeakReferences(t *testing.T) {
	ctx := context.Background()
	materialRepo := newFakeMaterialRepo()
	taskRepo := newFakeTaskRepo()
	sessionRepo := newFakeSessionRepo()
	handler := NewDeleteMaterialHandler(materialRepo, taskRepo, sessionRepo)

	m, err := material.NewMaterial(material.NewMaterialParams{ID: "m1", UserID: "u1", Name: "a.pdf"})
	require.NoError(t, err)
	require.NoError(t, materialRepo.Create(ctx, m))

	mid := m.ID
	tk, err := task.NewTask(task.NewTaskParams{ID: "t1", UserID: "u1", MaterialID: &mid, Title: "x"})
	require.NoError(t, err)
	require.NoError(t, taskRepo.Create(ctx, tk))

	s, err := studysession.NewSession(studysession.NewSessionParams{
		ID: "s1", UserID: "u1", MaterialID: &mid, Activity: studysession.ActivityReading,
	})
	require.NoError(t, err)
	require.NoError(t, sessionRepo.Create(ctx, s))

	require.NoError(t, handler.Handle(ctx, "u1", "m1"))

	// The material is gone; tasks and sessions survive with a nulled link.
	_, err = materialRepo.FindByID(ctx, "u1", "m1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, taskRepo.tasks["t1"].MaterialID)
	assert.Nil(t, sessionRepo.sessions["s1"].MaterialID)
}

func TestDeleteMaterial_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	materialRepo := newFakeMaterialRepo()
	handler := NewDeleteMaterialHandler(materialRepo, newFakeTaskRepo(), newFakeSessionRepo())

	m, err := material.NewMaterial(material.NewMaterialParams{ID: "m1", UserID: "u1", Name: "a.pdf"})
	require.NoError(t, err)
	require.NoError(t, materialRepo.Create(ctx, m))

	err = handler.Handle(ctx, "intruder", "m1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
