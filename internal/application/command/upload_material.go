package command

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPLOAD MATERIAL COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UploadMaterialCommand contains the uploaded file metadata.
type UploadMaterialCommand struct {
	UserID      user.ID
	Name        string
	StoragePath string
	Size        int64
	Subject     string
	Tags        []string
}

// UploadMaterialHandler handles the UploadMaterialCommand.
type UploadMaterialHandler struct {
	materialRepo material.Repository
	log          *logger.Logger
}

// NewUploadMaterialHandler creates a new UploadMaterialHandler.
func NewUploadMaterialHandler(materialRepo material.Repository, log *logger.Logger) *UploadMaterialHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UploadMaterialHandler{
		materialRepo: materialRepo,
		log:          log.With(logger.Component("upload_material")),
	}
}

// Handle registers an uploaded material. The file type is derived from
// the extension; disallowed extensions are rejected before any write.
func (h *UploadMaterialHandler) Handle(ctx context.Context, cmd UploadMaterialCommand) (*material.Material, error) {
	m, err := material.NewMaterial(material.NewMaterialParams{
		ID:          material.ID(newID()),
		UserID:      cmd.UserID,
		Name:        cmd.Name,
		StoragePath: cmd.StoragePath,
		Size:        cmd.Size,
		Subject:     cmd.Subject,
		Tags:        cmd.Tags,
	})
	if err != nil {
		return nil, err
	}

	if err := h.materialRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	h.log.Info("material uploaded",
		logger.UserID(cmd.UserID.String()),
		logger.MaterialID(m.ID.String()),
		logger.String("file_type", string(m.FileType)),
	)

	return m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE MATERIAL COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteMaterialHandler removes a material. Tasks and sessions that
// reference it keep existing with the reference cleared; deleting study
// artifacts must never erase the work done with them.
type DeleteMaterialHandler struct {
	materialRepo material.Repository
	taskRepo     task.Repository
	sessionRepo  studysession.Repository
}

// NewDeleteMaterialHandler creates a new DeleteMaterialHandler.
func NewDeleteMaterialHandler(
	materialRepo material.Repository,
	taskRepo task.Repository,
	sessionRepo studysession.Repository,
) *DeleteMaterialHandler {
	return &DeleteMaterialHandler{
		materialRepo: materialRepo,
		taskRepo:     taskRepo,
		sessionRepo:  sessionRepo,
	}
}

// Handle unlinks referencing tasks and sessions, then deletes the
// material. Ownership is checked first so one user cannot delete
// another's file.
func (h *DeleteMaterialHandler) Handle(ctx context.Context, userID user.ID, materialID material.ID) error {
	m, err := h.materialRepo.FindByID(ctx, userID, materialID)
	if err != nil {
		return err
	}

	if err := h.taskRepo.UnlinkMaterial(ctx, m.ID); err != nil {
		return err
	}
	if err := h.sessionRepo.UnlinkMaterial(ctx, m.ID); err != nil {
		return err
	}

	return h.materialRepo.Delete(ctx, userID, m.ID)
}
