package gemini

// ══════════════════════════════════════════════════════════════════════════════
// WIRE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// generateRequest is the generateContent request body.
type generateRequest struct {
	Contents         []contentDTO      `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type contentDTO struct {
	Role  string    `json:"role,omitempty"`
	Parts []partDTO `json:"parts"`
}

// partDTO carries either text or inline image data, never both.
type partDTO struct {
	Text       string         `json:"text,omitempty"`
	InlineData *inlineDataDTO `json:"inlineData,omitempty"`
}

type inlineDataDTO struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// generateResponse is the generateContent response body.
type generateResponse struct {
	Candidates []candidateDTO `json:"candidates"`
	Error      *apiErrorDTO   `json:"error,omitempty"`
}

type candidateDTO struct {
	Content      contentDTO `json:"content"`
	FinishReason string     `json:"finishReason,omitempty"`
}

type apiErrorDTO struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// text concatenates all text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}
