package generation

import (
	"context"
	"fmt"
	"time"

	"heistchat/internal/logging"
)

// Fallback delays mimic the normal and deep think response times.
const (
	fallbackDelay          = 1500 * time.Millisecond
	fallbackDeepThinkDelay = 3 * time.Second
)

// FallbackGenerator produces a canned in-character reply when no API key
// is configured or the API call failed.
type FallbackGenerator struct {
	// delayScale shortens the simulated latency in tests. Zero means full delay.
	delayScale float64
}

// NewFallbackGenerator returns a generator with the standard delays.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Generate waits the simulated thinking time and returns a templated
// reply. The wait aborts on context cancellation.
func (g *FallbackGenerator) Generate(ctx context.Context, req Request) (string, error) {
	delay := fallbackDelay
	if req.DeepThink {
		delay = fallbackDeepThinkDelay
	}
	if g.delayScale > 0 {
		delay = time.Duration(float64(delay) * g.delayScale)
	}

	logging.GenerationDebug("Fallback reply for persona=%s deep_think=%v delay=%v", req.Persona.ID, req.DeepThink, delay)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	name := req.Persona.Name.For(req.Language)
	phrase := req.Persona.Phrase.For(req.Language)

	fileNote := ""
	if req.FileContent != "" {
		fileNote = "I've carefully reviewed the file you provided."
	}
	return fmt.Sprintf("**%s** speaking.\n\nThat's an interesting perspective. %s\n\n*%s*", name, fileNote, phrase), nil
}
