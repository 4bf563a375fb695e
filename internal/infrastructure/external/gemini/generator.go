package gemini

import (
	"context"

	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STRUCTURED GENERATION FLOWS
// ══════════════════════════════════════════════════════════════════════════════

// Client implements the ai.Gateway port.
var _ ai.Gateway = (*Client)(nil)

// GenerateCompendium produces a goal-specific study compendium as markdown.
func (c *Client) GenerateCompendium(ctx context.Context, content string, goal ai.StudyGoal) (string, error) {
	if !goal.IsValid() {
		return "", shared.ErrInvalidMaterialGoal
	}
	return c.Complete(ctx, compendiumPrompt(content, goal))
}

// GenerateFlashcards produces front/back cards from the material text.
// The model's reply is free text; the first balanced JSON array in it is
// the payload.
func (c *Client) GenerateFlashcards(ctx context.Context, content string) ([]ai.Flashcard, error) {
	raw, err := c.Complete(ctx, flashcardsPrompt(content))
	if err != nil {
		return nil, err
	}
	return parseFlashcards(raw)
}

// GenerateQuiz produces a multiple-choice quiz from the material text.
func (c *Client) GenerateQuiz(ctx context.Context, content string) (*ai.Quiz, error) {
	raw, err := c.Complete(ctx, quizPrompt(content))
	if err != nil {
		return nil, err
	}
	return parseQuiz(raw)
}

// ExtractText transcribes study content from an image through the
// vision model.
func (c *Client) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	return c.CompleteVision(ctx, extractTextPrompt(), image, mimeType)
}

// Answer responds to a free-form question, optionally grounded in
// material text.
func (c *Client) Answer(ctx context.Context, question, material string) (string, error) {
	return c.Complete(ctx, answerPrompt(question, material))
}

// Explain produces a student-level explanation of a single concept.
func (c *Client) Explain(ctx context.Context, concept string) (string, error) {
	return c.Complete(ctx, explainPrompt(concept))
}
