package generation

import (
	"context"

	"heistchat/internal/logging"
)

// Service routes requests to the Gemini client and falls back to the
// canned generator when no key is configured or the API call fails.
type Service struct {
	gemini   *GeminiClient
	fallback *FallbackGenerator
	hasKey   bool
}

// NewService builds the reply pipeline from the generation config.
func NewService(cfg Config) *Service {
	return &Service{
		gemini:   NewGeminiClient(cfg),
		fallback: NewFallbackGenerator(),
		hasKey:   cfg.APIKey != "",
	}
}

// Online reports whether the Gemini API will be attempted.
func (s *Service) Online() bool {
	return s.hasKey
}

// Generate produces a reply, preferring the API.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	if s.hasKey {
		text, err := s.gemini.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logging.GenerationWarn("API call failed, using fallback: %v", err)
	}
	return s.fallback.Generate(ctx, req)
}
