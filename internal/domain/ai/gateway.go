// Package ai defines the generative AI port: the completion gateway
// interface and the structured payloads the study flows consume. The
// concrete provider client lives in infrastructure.
package ai

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// STUDY GOALS
// ══════════════════════════════════════════════════════════════════════════════

// StudyGoal selects how a material should be processed into a compendium.
type StudyGoal string

const (
	GoalUnderstand StudyGoal = "understand"
	GoalSummary    StudyGoal = "summary"
	GoalExam       StudyGoal = "exam"
	GoalQuestions  StudyGoal = "questions"
	GoalPlan       StudyGoal = "plan"
	GoalReview     StudyGoal = "review"
)

// IsValid reports whether the goal is one of the known templates.
func (g StudyGoal) IsValid() bool {
	switch g {
	case GoalUnderstand, GoalSummary, GoalExam, GoalQuestions, GoalPlan, GoalReview:
		return true
	}
	return false
}

// WantsFlashcards reports whether processing with this goal also
// generates flashcards.
func (g StudyGoal) WantsFlashcards() bool {
	switch g {
	case GoalUnderstand, GoalExam, GoalReview:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// STRUCTURED PAYLOADS
// ══════════════════════════════════════════════════════════════════════════════

// Flashcard is one generated front/back card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizQuestion is one generated multiple-choice question. Correct is a
// zero-based index into Options.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Quiz is a set of generated questions.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY PORT
// ══════════════════════════════════════════════════════════════════════════════

// Gateway is the completion provider port.
type Gateway interface {
	// Complete sends a text prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteVision sends a prompt with inline image data.
	CompleteVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)

	// ExtractText reads study content out of an image through the vision
	// model. Used for photographed notes and slides.
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)

	// GenerateCompendium produces a goal-specific study compendium.
	GenerateCompendium(ctx context.Context, content string, goal StudyGoal) (string, error)

	// GenerateFlashcards produces front/back cards from material text.
	GenerateFlashcards(ctx context.Context, content string) ([]Flashcard, error)

	// GenerateQuiz produces a multiple-choice quiz from material text.
	GenerateQuiz(ctx context.Context, content string) (*Quiz, error)

	// Answer responds to a question, optionally grounded in material text.
	Answer(ctx context.Context, question, material string) (string, error)

	// Explain produces a student-level explanation of a concept.
	Explain(ctx context.Context, concept string) (string, error)
}
