// Package generation produces assistant replies, either through the
// Gemini API or through a local fallback when no key is configured.
package generation

import (
	"context"
	"fmt"
	"strings"

	"heistchat/internal/persona"
)

// Request carries everything needed to produce one reply.
type Request struct {
	Message     string
	Persona     persona.Persona
	DeepThink   bool
	Language    string
	FileContent string
}

// Generator produces a reply for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// BuildSystemPrompt assembles the persona system prompt with the deep
// think, file, and language instructions appended.
func BuildSystemPrompt(req Request) string {
	prompt := req.Persona.SystemPrompt.For(req.Language)

	if req.DeepThink {
		prompt += " You are in deep analysis mode - provide comprehensive, analytical responses with detailed reasoning. Use rich text formatting like **bold**, *italic*, bullet points for better readability."
	}
	if req.FileContent != "" {
		prompt += " The user has provided a file. Please analyze and reference this content in your response as needed. Be clear and informative while staying in character."
	}
	prompt += fmt.Sprintf(" Always respond in %s. Use formatting to make your responses engaging and structured.", persona.LanguageByCode(req.Language).Name)

	return prompt
}

// fullMessage merges the user text with attached file content.
func fullMessage(req Request) string {
	if req.FileContent == "" {
		return req.Message
	}
	return fmt.Sprintf("%s\n\n[FILE CONTENT]:\n%s", req.Message, req.FileContent)
}

// withSignature appends the persona's signature phrase when the reply
// does not already carry it.
func withSignature(text string, req Request) string {
	signature := req.Persona.Phrase.For(req.Language)
	if signature == "" || strings.Contains(text, signature) {
		return text
	}
	return text + "\n\n*" + signature + "*"
}
