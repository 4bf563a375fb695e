package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

func seedTextMaterial(t *testing.T, repo *fakeMaterialRepo, id material.ID, text string) {
	t.Helper()

	m, err := material.NewMaterial(material.NewMaterialParams{ID: id, UserID: "u1", Name: "algebra.pdf"})
	require.NoError(t, err)
	m.ExtractedText = text
	require.NoError(t, repo.Create(context.Background(), m))
}

func TestGenerateQuiz(t *testing.T) {
	gateway := &fakeGateway{quiz: &ai.Quiz{Questions: []ai.QuizQuestion{{
		Question: "2+2?",
		Options:  []string{"3", "4", "5", "22"},
		Correct:  1,
	}}}}
	materialRepo := newFakeMaterialRepo()
	seedTextMaterial(t, materialRepo, "m1", "arithmetic basics")
	handler := NewGenerateQuizHandler(materialRepo, gateway)

	quiz, err := handler.Handle(context.Background(), "u1", "m1")
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].Correct)

	// The quiz is built from the material's extracted text.
	assert.Equal(t, "arithmetic basics", gateway.quizContent)
}

func TestGenerateQuiz_NoText(t *testing.T) {
	materialRepo := newFakeMaterialRepo()
	seedTextMaterial(t, materialRepo, "m1", "")
	handler := NewGenerateQuizHandler(materialRepo, &fakeGateway{})

	_, err := handler.Handle(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, shared.ErrMaterialNoText)
}

func TestGenerateQuiz_UnknownMaterial(t *testing.T) {
	handler := NewGenerateQuizHandler(newFakeMaterialRepo(), &fakeGateway{})

	_, err := handler.Handle(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAskQuestion_GroundedInMaterial(t *testing.T) {
	gateway := &fakeGateway{}
	materialRepo := newFakeMaterialRepo()
	seedTextMaterial(t, materialRepo, "m1", "the chain rule in detail")
	handler := NewAskQuestionHandler(materialRepo, gateway)

	mid := material.ID("m1")
	answer, err := handler.Handle(context.Background(), AskQuestionCommand{
		UserID:     "u1",
		MaterialID: &mid,
		Question:   "  What is the chain rule?  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "answer to What is the chain rule?", answer)
	assert.Equal(t, "the chain rule in detail", gateway.answerContext)
}

func TestAskQuestion_WithoutMaterial(t *testing.T) {
	gateway := &fakeGateway{}
	handler := NewAskQuestionHandler(newFakeMaterialRepo(), gateway)

	answer, err := handler.Handle(context.Background(), AskQuestionCommand{
		UserID:   "u1",
		Question: "What is osmosis?",
	})
	require.NoError(t, err)
	assert.Equal(t, "answer to What is osmosis?", answer)
	assert.Empty(t, gateway.answerContext)
}

func TestAskQuestion_EmptyQuestion(t *testing.T) {
	handler := NewAskQuestionHandler(newFakeMaterialRepo(), &fakeGateway{})

	_, err := handler.Handle(context.Background(), AskQuestionCommand{UserID: "u1", Question: "   "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestAskQuestion_OwnershipEnforced(t *testing.T) {
	materialRepo := newFakeMaterialRepo()
	seedTextMaterial(t, materialRepo, "m1", "private notes")
	handler := NewAskQuestionHandler(materialRepo, &fakeGateway{})

	mid := material.ID("m1")
	_, err := handler.Handle(context.Background(), AskQuestionCommand{
		UserID:     "intruder",
		MaterialID: &mid,
		Question:   "what does this say?",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExplainConcept(t *testing.T) {
	handler := NewExplainConceptHandler(&fakeGateway{})

	explanation, err := handler.Handle(context.Background(), " entropy ")
	require.NoError(t, err)
	assert.Equal(t, "explained entropy", explanation)
}

func TestExplainConcept_Empty(t *testing.T) {
	handler := NewExplainConceptHandler(&fakeGateway{})

	_, err := handler.Handle(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
