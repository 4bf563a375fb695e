package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STRUCTURED OUTPUT PARSING
// ══════════════════════════════════════════════════════════════════════════════
//
// Models wrap JSON payloads in prose and markdown fences, so structured
// flows extract the first balanced bracket span and parse only that.
// Parse failures are distinct from provider failures: the completion
// arrived, the payload did not.

// quizOptionCount is the fixed number of options per question.
const quizOptionCount = 4

// extractJSONSpan returns the first balanced span delimited by open/close
// in s. Nesting is tracked; delimiters inside JSON string literals are
// skipped. Returns "" when no balanced span exists.
func extractJSONSpan(s string, open, close byte) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}

	return ""
}

// parseFlashcards extracts and decodes the first `[...]` span.
func parseFlashcards(raw string) ([]ai.Flashcard, error) {
	span := extractJSONSpan(raw, '[', ']')
	if span == "" {
		return nil, shared.ErrAIResponseNotJSON
	}

	var cards []ai.Flashcard
	if err := json.Unmarshal([]byte(span), &cards); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAIResponseBadShape, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: empty flashcard list", shared.ErrAIResponseBadShape)
	}
	for i, card := range cards {
		if card.Front == "" || card.Back == "" {
			return nil, fmt.Errorf("%w: flashcard %d is missing a side", shared.ErrAIResponseBadShape, i)
		}
	}

	return cards, nil
}

// parseQuiz extracts and decodes the first `{...}` span.
func parseQuiz(raw string) (*ai.Quiz, error) {
	span := extractJSONSpan(raw, '{', '}')
	if span == "" {
		return nil, shared.ErrAIResponseNotJSON
	}

	var quiz ai.Quiz
	if err := json.Unmarshal([]byte(span), &quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAIResponseBadShape, err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", shared.ErrAIResponseBadShape)
	}
	for i, q := range quiz.Questions {
		if q.Question == "" {
			return nil, fmt.Errorf("%w: question %d is empty", shared.ErrAIResponseBadShape, i)
		}
		if len(q.Options) != quizOptionCount {
			return nil, fmt.Errorf("%w: question %d has %d options, want %d",
				shared.ErrAIResponseBadShape, i, len(q.Options), quizOptionCount)
		}
		if q.Correct < 0 || q.Correct >= quizOptionCount {
			return nil, fmt.Errorf("%w: question %d has correct index %d out of range",
				shared.ErrAIResponseBadShape, i, q.Correct)
		}
	}

	return &quiz, nil
}
