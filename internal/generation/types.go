package generation

// Wire types for the Gemini generateContent endpoint.

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *geminiError `json:"error,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Sampling parameters per mode. Deep think trades temperature for a
// wider topK and a larger output budget.
var (
	deepThinkTuning = geminiGenConfig{Temperature: 0.7, TopK: 40, TopP: 0.8, MaxOutputTokens: 2048}
	normalTuning    = geminiGenConfig{Temperature: 0.9, TopK: 20, TopP: 0.95, MaxOutputTokens: 1024}
)

func tuningFor(deepThink bool) geminiGenConfig {
	if deepThink {
		return deepThinkTuning
	}
	return normalTuning
}
