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

// fakeGateway scripts the structured flows; the rest echoes.
type fakeGateway struct {
	compendium    string
	compendiumErr error
	flashcards    []ai.Flashcard
	flashcardsErr error
	quiz          *ai.Quiz
	quizErr       error
	extracted     string
	extractErr    error

	// Inputs recorded for assertions.
	quizContent   string
	answerContext string
}

func (g *fakeGateway) Complete(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

func (g *fakeGateway) CompleteVision(_ context.Context, prompt string, _ []byte, _ string) (string, error) {
	return prompt, nil
}

func (g *fakeGateway) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	return g.extracted, g.extractErr
}

func (g *fakeGateway) GenerateCompendium(_ context.Context, _ string, _ ai.StudyGoal) (string, error) {
	return g.compendium, g.compendiumErr
}

func (g *fakeGateway) GenerateFlashcards(_ context.Context, _ string) ([]ai.Flashcard, error) {
	return g.flashcards, g.flashcardsErr
}

func (g *fakeGateway) GenerateQuiz(_ context.Context, content string) (*ai.Quiz, error) {
	g.quizContent = content
	return g.quiz, g.quizErr
}

func (g *fakeGateway) Answer(_ context.Context, question, material string) (string, error) {
	g.answerContext = material
	return "answer to " + question, nil
}

func (g *fakeGateway) Explain(_ context.Context, concept string) (string, error) {
	return "explained " + concept, nil
}

func newProcessFixture(t *testing.T, gateway *fakeGateway) (*ProcessMaterialHandler, *fakeMaterialRepo, *fakeProgressRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	progressRepo := newFakeProgressRepo()
	materialRepo := newFakeMaterialRepo()
	seedUser(userRepo, "u1", true)

	m, err := material.NewMaterial(material.NewMaterialParams{
		ID: "m1", UserID: "u1", Name: "calculus.pdf",
	})
	require.NoError(t, err)
	m.ExtractedText = "derivatives and integrals"
	require.NoError(t, materialRepo.Create(context.Background(), m))

	activity := NewRecordActivityHandler(userRepo, progressRepo, nil, nil)
	return NewProcessMaterialHandler(materialRepo, gateway, activity, nil), materialRepo, progressRepo
}

func TestProcessMaterial_Success(t *testing.T) {
	gateway := &fakeGateway{
		compendium: "a compendium",
		flashcards: []ai.Flashcard{{Front: "Q", Back: "A"}},
	}
	handler, materialRepo, progressRepo := newProcessFixture(t, gateway)
	ctx := context.Background()

	res, err := handler.Handle(ctx, ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: ai.GoalUnderstand,
	})
	require.NoError(t, err)

	assert.Equal(t, "a compendium", res.Compendium)
	assert.Len(t, res.Flashcards, 1)
	assert.NoError(t, res.FlashcardsErr)
	assert.Equal(t, material.StatusCompleted, res.Material.Status)

	m, err := materialRepo.FindByID(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, material.StatusCompleted, m.Status)

	// Processing counted one material toward today's progress.
	row, err := progressRepo.FindByDate(ctx, "u1", res.Material.UpdatedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, row.MaterialsProcessed)
}

func TestProcessMaterial_FlashcardFailureIsPartial(t *testing.T) {
	gateway := &fakeGateway{
		compendium:    "a compendium",
		flashcardsErr: shared.ErrAIResponseNotJSON,
	}
	handler, materialRepo, _ := newProcessFixture(t, gateway)
	ctx := context.Background()

	// The compendium survives the flashcard failure.
	res, err := handler.Handle(ctx, ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: ai.GoalExam,
	})
	require.NoError(t, err)
	assert.Equal(t, "a compendium", res.Compendium)
	assert.Empty(t, res.Flashcards)
	assert.ErrorIs(t, res.FlashcardsErr, shared.ErrParseFailure)

	m, err := materialRepo.FindByID(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, material.StatusCompleted, m.Status)
}

func TestProcessMaterial_CompendiumFailureFailsMaterial(t *testing.T) {
	gateway := &fakeGateway{compendiumErr: shared.ErrAIProviderFailed}
	handler, materialRepo, _ := newProcessFixture(t, gateway)
	ctx := context.Background()

	_, err := handler.Handle(ctx, ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: ai.GoalSummary,
	})
	assert.ErrorIs(t, err, shared.ErrExternalService)

	m, findErr := materialRepo.FindByID(ctx, "u1", "m1")
	require.NoError(t, findErr)
	assert.Equal(t, material.StatusError, m.Status)
}

func TestProcessMaterial_SummaryGoalSkipsFlashcards(t *testing.T) {
	gateway := &fakeGateway{
		compendium: "summary",
		flashcards: []ai.Flashcard{{Front: "Q", Back: "A"}},
	}
	handler, _, _ := newProcessFixture(t, gateway)

	res, err := handler.Handle(context.Background(), ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: ai.GoalSummary,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Flashcards)
}

func TestProcessMaterial_InvalidGoal(t *testing.T) {
	handler, _, _ := newProcessFixture(t, &fakeGateway{})

	_, err := handler.Handle(context.Background(), ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: "osmosis",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidMaterialGoal)
}

func TestProcessMaterial_ImageUsesVisionExtraction(t *testing.T) {
	gateway := &fakeGateway{
		extracted:  "mitochondria diagram notes",
		compendium: "a compendium",
	}
	handler, materialRepo, _ := newProcessFixture(t, gateway)
	ctx := context.Background()

	img, err := material.NewMaterial(material.NewMaterialParams{
		ID: "img1", UserID: "u1", Name: "biology-notes.png",
	})
	require.NoError(t, err)
	require.NoError(t, materialRepo.Create(ctx, img))

	res, err := handler.Handle(ctx, ProcessMaterialCommand{
		UserID:     "u1",
		MaterialID: "img1",
		Goal:       ai.GoalSummary,
		Image:      []byte{0x89, 0x50, 0x4e, 0x47},
		ImageMIME:  "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "a compendium", res.Compendium)

	// The transcription is stored like any other extracted text.
	m, err := materialRepo.FindByID(ctx, "u1", "img1")
	require.NoError(t, err)
	assert.Equal(t, material.StatusCompleted, m.Status)
	assert.Equal(t, "mitochondria diagram notes", m.ExtractedText)
}

func TestProcessMaterial_ImageExtractionFailureFailsMaterial(t *testing.T) {
	gateway := &fakeGateway{extractErr: shared.ErrAIProviderFailed}
	handler, materialRepo, _ := newProcessFixture(t, gateway)
	ctx := context.Background()

	img, err := material.NewMaterial(material.NewMaterialParams{
		ID: "img1", UserID: "u1", Name: "slide.jpg",
	})
	require.NoError(t, err)
	require.NoError(t, materialRepo.Create(ctx, img))

	_, err = handler.Handle(ctx, ProcessMaterialCommand{
		UserID:     "u1",
		MaterialID: "img1",
		Goal:       ai.GoalSummary,
		Image:      []byte{0xff, 0xd8},
		ImageMIME:  "image/jpeg",
	})
	assert.ErrorIs(t, err, shared.ErrExternalService)

	m, findErr := materialRepo.FindByID(ctx, "u1", "img1")
	require.NoError(t, findErr)
	assert.Equal(t, material.StatusError, m.Status)
}

func TestProcessMaterial_ImageWithoutBytesNeedsText(t *testing.T) {
	handler, materialRepo, _ := newProcessFixture(t, &fakeGateway{compendium: "x"})
	ctx := context.Background()

	img, err := material.NewMaterial(material.NewMaterialParams{
		ID: "img1", UserID: "u1", Name: "photo.heic",
	})
	require.NoError(t, err)
	require.NoError(t, materialRepo.Create(ctx, img))

	_, err = handler.Handle(ctx, ProcessMaterialCommand{
		UserID: "u1", MaterialID: "img1", Goal: ai.GoalUnderstand,
	})
	assert.ErrorIs(t, err, shared.ErrMaterialNoText)
}

func TestProcessMaterial_NoText(t *testing.T) {
	handler, materialRepo, _ := newProcessFixture(t, &fakeGateway{compendium: "x"})
	ctx := context.Background()

	m, err := materialRepo.FindByID(ctx, "u1", "m1")
	require.NoError(t, err)
	m.ExtractedText = ""

	_, err = handler.Handle(ctx, ProcessMaterialCommand{
		UserID: "u1", MaterialID: "m1", Goal: ai.GoalUnderstand,
	})
	assert.ErrorIs(t, err, shared.ErrMaterialNoText)
}
