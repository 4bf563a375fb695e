package gemini

import (
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/ai"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMPT TEMPLATES
// ══════════════════════════════════════════════════════════════════════════════

// Content truncation limits, in characters. Long documents blow past the
// model's useful context and inflate cost, so each flow clips its input.
const (
	maxCompendiumChars = 15000
	maxFlashcardChars  = 10000
	maxQuizChars       = 5000
)

// compendiumIntros maps each study goal to its prompt framing.
var compendiumIntros = map[ai.StudyGoal]string{
	ai.GoalUnderstand: "Create a detailed study compendium that explains every key concept in this material in clear, simple terms. Use analogies and examples where they help.",
	ai.GoalSummary:    "Create a concise summary of this material. Capture the main ideas and essential facts, leave out filler.",
	ai.GoalExam:       "Create an exam preparation guide for this material. Highlight the topics most likely to be tested, list key definitions, formulas and facts to memorize.",
	ai.GoalQuestions:  "Create a list of probing study questions about this material, grouped by topic, each followed by a model answer.",
	ai.GoalPlan:       "Create a structured study plan for mastering this material, broken into ordered sessions with a clear objective for each.",
	ai.GoalReview:     "Create a quick review sheet for this material: the core concepts, key terms and their definitions, and the most important takeaways.",
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func compendiumPrompt(content string, goal ai.StudyGoal) string {
	intro := compendiumIntros[goal]
	return fmt.Sprintf(
		"%s\n\nFormat the output as well-structured markdown with headings.\n\nMaterial:\n%s",
		intro, truncate(content, maxCompendiumChars),
	)
}

func flashcardsPrompt(content string) string {
	return fmt.Sprintf(
		"Generate study flashcards for the material below. "+
			"Respond with ONLY a JSON array, no other text, in this exact shape: "+
			`[{"front": "question or term", "back": "answer or definition"}]. `+
			"Create 10 to 20 cards covering the most important concepts.\n\nMaterial:\n%s",
		truncate(content, maxFlashcardChars),
	)
}

func quizPrompt(content string) string {
	return fmt.Sprintf(
		"Generate a multiple-choice quiz for the material below. "+
			"Respond with ONLY a JSON object, no other text, in this exact shape: "+
			`{"questions": [{"question": "...", "options": ["a", "b", "c", "d"], "correct": 0, "explanation": "..."}]}. `+
			"Each question must have exactly 4 options and a zero-based correct index. "+
			"Create 5 to 10 questions.\n\nMaterial:\n%s",
		truncate(content, maxQuizChars),
	)
}

func answerPrompt(question, context string) string {
	if context == "" {
		return fmt.Sprintf("Answer the following study question clearly and concisely.\n\nQuestion: %s", question)
	}
	return fmt.Sprintf(
		"Using the study material below as context, answer the question clearly and concisely. "+
			"If the material does not cover the question, say so and answer from general knowledge.\n\n"+
			"Material:\n%s\n\nQuestion: %s",
		truncate(context, maxCompendiumChars), question,
	)
}

func extractTextPrompt() string {
	return "Transcribe all study content from this image: text, headings, formulas, " +
		"table contents and diagram labels. Preserve the reading order. " +
		"Respond with the transcribed content only, no commentary."
}

func explainPrompt(concept string) string {
	return fmt.Sprintf(
		"Explain the following concept to a student. Start with a one-sentence definition, "+
			"then a plain-language explanation with an example.\n\nConcept: %s",
		concept,
	)
}
