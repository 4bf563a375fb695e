package command

import (
	"context"
	"strings"

	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// AI STUDY TOOLS
// On-demand generation flows next to material processing: quizzes from a
// material's text, grounded question answering, and concept explanations.
// ══════════════════════════════════════════════════════════════════════════════

// GenerateQuizHandler builds a multiple-choice quiz from a material.
type GenerateQuizHandler struct {
	materialRepo material.Repository
	gateway      ai.Gateway
}

// NewGenerateQuizHandler creates a new GenerateQuizHandler.
func NewGenerateQuizHandler(materialRepo material.Repository, gateway ai.Gateway) *GenerateQuizHandler {
	return &GenerateQuizHandler{materialRepo: materialRepo, gateway: gateway}
}

// Handle generates a quiz from the material's extracted text.
func (h *GenerateQuizHandler) Handle(ctx context.Context, userID user.ID, materialID material.ID) (*ai.Quiz, error) {
	m, err := h.materialRepo.FindByID(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}
	if !m.HasText() {
		return nil, shared.ErrMaterialNoText
	}
	return h.gateway.GenerateQuiz(ctx, m.ExtractedText)
}

// ─────────────────────────────────────────────────────────────────────────────
// Ask a question
// ─────────────────────────────────────────────────────────────────────────────

// AskQuestionCommand is a free-form study question, optionally grounded
// in one of the user's materials.
type AskQuestionCommand struct {
	UserID     user.ID
	MaterialID *material.ID
	Question   string
}

// Validate validates the command.
func (c AskQuestionCommand) Validate() error {
	if !c.UserID.IsValid() {
		return shared.NewDomainError("ai", "Ask", shared.ErrInvalidID, "empty user id")
	}
	if strings.TrimSpace(c.Question) == "" {
		return shared.NewDomainError("ai", "Ask", shared.ErrEmptyValue, "question is required")
	}
	return nil
}

// AskQuestionHandler handles the AskQuestionCommand.
type AskQuestionHandler struct {
	materialRepo material.Repository
	gateway      ai.Gateway
}

// NewAskQuestionHandler creates a new AskQuestionHandler.
func NewAskQuestionHandler(materialRepo material.Repository, gateway ai.Gateway) *AskQuestionHandler {
	return &AskQuestionHandler{materialRepo: materialRepo, gateway: gateway}
}

// Handle answers the question. When a material is referenced, its
// extracted text grounds the answer; ownership is checked on lookup.
func (h *AskQuestionHandler) Handle(ctx context.Context, cmd AskQuestionCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	grounding := ""
	if cmd.MaterialID != nil {
		m, err := h.materialRepo.FindByID(ctx, cmd.UserID, *cmd.MaterialID)
		if err != nil {
			return "", err
		}
		grounding = m.ExtractedText
	}

	return h.gateway.Answer(ctx, strings.TrimSpace(cmd.Question), grounding)
}

// ─────────────────────────────────────────────────────────────────────────────
// Explain a concept
// ─────────────────────────────────────────────────────────────────────────────

// ExplainConceptHandler produces a student-level explanation of a concept.
type ExplainConceptHandler struct {
	gateway ai.Gateway
}

// NewExplainConceptHandler creates a new ExplainConceptHandler.
func NewExplainConceptHandler(gateway ai.Gateway) *ExplainConceptHandler {
	return &ExplainConceptHandler{gateway: gateway}
}

// Handle explains the concept.
func (h *ExplainConceptHandler) Handle(ctx context.Context, concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", shared.NewDomainError("ai", "Explain", shared.ErrEmptyValue, "concept is required")
	}
	return h.gateway.Explain(ctx, concept)
}
