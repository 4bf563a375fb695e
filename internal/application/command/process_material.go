package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROCESS MATERIAL COMMAND
// Turns an uploaded material into study artifacts through the AI
// gateway: always a compendium, plus flashcards for the goals that use
// them. Flashcard failure degrades the result instead of failing it; the
// compendium is the product, the cards are a bonus.
// ══════════════════════════════════════════════════════════════════════════════

// ProcessMaterialCommand selects the material and study goal.
type ProcessMaterialCommand struct {
	UserID     user.ID
	MaterialID material.ID
	Goal       ai.StudyGoal

	// Text overrides the stored extracted text when set. Used when the
	// client extracts text on upload.
	Text string

	// Image carries the raw file bytes for image materials. When the
	// material has no text yet, content is transcribed from the image
	// through the vision model.
	Image     []byte
	ImageMIME string

	// PageCount, when positive, is stored with the extracted text.
	PageCount int
}

// ProcessMaterialResult contains the generated artifacts.
type ProcessMaterialResult struct {
	Material   *material.Material
	Compendium string

	// Flashcards is nil when the goal does not use cards or when card
	// generation failed.
	Flashcards []ai.Flashcard

	// FlashcardsErr carries the card-generation failure on partial
	// success.
	FlashcardsErr error
}

// ProcessMaterialHandler handles the ProcessMaterialCommand.
type ProcessMaterialHandler struct {
	materialRepo material.Repository
	gateway      ai.Gateway
	activity     *RecordActivityHandler
	log          *logger.Logger
}

// NewProcessMaterialHandler creates a new ProcessMaterialHandler.
func NewProcessMaterialHandler(
	materialRepo material.Repository,
	gateway ai.Gateway,
	activity *RecordActivityHandler,
	log *logger.Logger,
) *ProcessMaterialHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ProcessMaterialHandler{
		materialRepo: materialRepo,
		gateway:      gateway,
		activity:     activity,
		log:          log.With(logger.Component("process_material")),
	}
}

// Handle runs the processing pipeline.
func (h *ProcessMaterialHandler) Handle(ctx context.Context, cmd ProcessMaterialCommand) (*ProcessMaterialResult, error) {
	if !cmd.Goal.IsValid() {
		return nil, shared.ErrInvalidMaterialGoal
	}

	m, err := h.materialRepo.FindByID(ctx, cmd.UserID, cmd.MaterialID)
	if err != nil {
		return nil, err
	}

	text := cmd.Text
	if text == "" {
		text = m.ExtractedText
	}
	fromImage := text == "" && m.FileType == material.FileTypeImage && len(cmd.Image) > 0
	if text == "" && !fromImage {
		return nil, shared.ErrMaterialNoText
	}

	m.StartProcessing()
	if err := h.materialRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	if fromImage {
		text, err = h.gateway.ExtractText(ctx, cmd.Image, cmd.ImageMIME)
		if err != nil {
			m.FailProcessing()
			if updateErr := h.materialRepo.Update(ctx, m); updateErr != nil {
				h.log.Error("failed to mark material failed",
					logger.MaterialID(m.ID.String()), logger.Err(updateErr))
			}
			return nil, fmt.Errorf("process material: extract image text: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			m.FailProcessing()
			if updateErr := h.materialRepo.Update(ctx, m); updateErr != nil {
				h.log.Error("failed to mark material failed",
					logger.MaterialID(m.ID.String()), logger.Err(updateErr))
			}
			return nil, shared.ErrMaterialNoText
		}
	}

	compendium, err := h.gateway.GenerateCompendium(ctx, text, cmd.Goal)
	if err != nil {
		m.FailProcessing()
		if updateErr := h.materialRepo.Update(ctx, m); updateErr != nil {
			h.log.Error("failed to mark material failed",
				logger.MaterialID(m.ID.String()), logger.Err(updateErr))
		}
		return nil, fmt.Errorf("process material: %w", err)
	}

	result := &ProcessMaterialResult{Material: m, Compendium: compendium}

	if cmd.Goal.WantsFlashcards() {
		cards, err := h.gateway.GenerateFlashcards(ctx, text)
		if err != nil {
			result.FlashcardsErr = err
			h.log.Warn("flashcard generation failed, keeping compendium",
				logger.MaterialID(m.ID.String()), logger.Err(err))
		} else {
			result.Flashcards = cards
		}
	}

	pages := cmd.PageCount
	if pages <= 0 {
		pages = m.PageCount
	}
	m.CompleteProcessing(text, pages)
	if err := h.materialRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	if h.activity != nil {
		if _, err := h.activity.Handle(ctx, RecordActivityCommand{
			UserID:             cmd.UserID,
			MaterialsProcessed: 1,
		}); err != nil {
			h.log.Warn("failed to record processed material",
				logger.MaterialID(m.ID.String()), logger.Err(err))
		}
	}

	return result, nil
}
