package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heistchat/internal/persona"
)

func testRequest(deepThink bool) Request {
	return Request{
		Message:   "how do we get into the vault?",
		Persona:   persona.Default(),
		DeepThink: deepThink,
		Language:  "en",
	}
}

func geminiStub(t *testing.T, reply string, capture *geminiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": reply}}},
					"finishReason": "STOP",
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func clientFor(url string) *GeminiClient {
	return NewGeminiClient(Config{
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
		BaseURL: url,
		Timeout: 5 * time.Second,
	})
}

func TestBuildSystemPrompt(t *testing.T) {
	base := BuildSystemPrompt(testRequest(false))
	assert.Contains(t, base, persona.Default().SystemPrompt.EN)
	assert.Contains(t, base, "Always respond in English.")
	assert.NotContains(t, base, "deep analysis mode")

	deep := BuildSystemPrompt(testRequest(true))
	assert.Contains(t, deep, "deep analysis mode")

	withFile := testRequest(false)
	withFile.FileContent = "quarterly numbers"
	assert.Contains(t, BuildSystemPrompt(withFile), "The user has provided a file.")

	spanish := testRequest(false)
	spanish.Language = "es"
	assert.Contains(t, BuildSystemPrompt(spanish), "Always respond in Spanish.")
}

func TestGenerateTuningPerMode(t *testing.T) {
	var captured geminiRequest
	srv := geminiStub(t, "a plan", &captured)
	defer srv.Close()
	c := clientFor(srv.URL)

	_, err := c.Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	assert.Equal(t, 0.9, captured.GenerationConfig.Temperature)
	assert.Equal(t, 20, captured.GenerationConfig.TopK)
	assert.Equal(t, 0.95, captured.GenerationConfig.TopP)
	assert.Equal(t, 1024, captured.GenerationConfig.MaxOutputTokens)

	_, err = c.Generate(context.Background(), testRequest(true))
	require.NoError(t, err)
	assert.Equal(t, 0.7, captured.GenerationConfig.Temperature)
	assert.Equal(t, 40, captured.GenerationConfig.TopK)
	assert.Equal(t, 0.8, captured.GenerationConfig.TopP)
	assert.Equal(t, 2048, captured.GenerationConfig.MaxOutputTokens)
}

func TestGenerateContentsShape(t *testing.T) {
	var captured geminiRequest
	srv := geminiStub(t, "a plan", &captured)
	defer srv.Close()

	_, err := clientFor(srv.URL).Generate(context.Background(), testRequest(false))
	require.NoError(t, err)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.True(t, strings.HasPrefix(captured.Contents[0].Parts[0].Text, "System: "))
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, "how do we get into the vault?", captured.Contents[2].Parts[0].Text)
}

func TestGenerateMergesFileContent(t *testing.T) {
	var captured geminiRequest
	srv := geminiStub(t, "reviewed", &captured)
	defer srv.Close()

	req := testRequest(false)
	req.FileContent = "the blueprints"
	_, err := clientFor(srv.URL).Generate(context.Background(), req)
	require.NoError(t, err)

	last := captured.Contents[len(captured.Contents)-1].Parts[0].Text
	assert.Contains(t, last, "[FILE CONTENT]:\nthe blueprints")
}

func TestGenerateAppendsSignature(t *testing.T) {
	srv := geminiStub(t, "Here is the plan.", nil)
	defer srv.Close()

	text, err := clientFor(srv.URL).Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	phrase := persona.Default().Phrase.EN
	assert.True(t, strings.HasSuffix(text, "*"+phrase+"*"))

	// already present: must not double up
	srv2 := geminiStub(t, "Remember: "+phrase, nil)
	defer srv2.Close()
	text, err = clientFor(srv2.URL).Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(text, phrase))
}

func TestGenerateRequiresKey(t *testing.T) {
	c := NewGeminiClient(Config{BaseURL: "http://unused", Timeout: time.Second})
	_, err := c.Generate(context.Background(), testRequest(false))
	assert.ErrorContains(t, err, "API key not configured")
}

func TestGenerateAPIErrorNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := clientFor(srv.URL).Generate(context.Background(), testRequest(false))
	assert.ErrorContains(t, err, "status 400")
}

func TestFallbackReply(t *testing.T) {
	g := &FallbackGenerator{delayScale: 0.01}

	text, err := g.Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	p := persona.Default()
	assert.Contains(t, text, "**"+p.Name.EN+"** speaking.")
	assert.Contains(t, text, "*"+p.Phrase.EN+"*")
	assert.NotContains(t, text, "reviewed the file")

	req := testRequest(false)
	req.FileContent = "notes"
	text, err = g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, text, "I've carefully reviewed the file you provided.")
}

func TestFallbackLocalized(t *testing.T) {
	g := &FallbackGenerator{delayScale: 0.01}
	req := testRequest(false)
	req.Language = "es"

	text, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, text, req.Persona.Name.ES)
	assert.Contains(t, text, req.Persona.Phrase.ES)
}

func TestFallbackHonorsCancellation(t *testing.T) {
	g := NewFallbackGenerator()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.Generate(ctx, testRequest(true))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestServiceFallsBackWithoutKey(t *testing.T) {
	s := NewService(Config{Timeout: time.Second})
	s.fallback.delayScale = 0.01
	assert.False(t, s.Online())

	text, err := s.Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	assert.Contains(t, text, "speaking.")
}

func TestServiceFallsBackOnAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(Config{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})
	s.fallback.delayScale = 0.01
	assert.True(t, s.Online())

	text, err := s.Generate(context.Background(), testRequest(false))
	require.NoError(t, err)
	assert.Contains(t, text, "speaking.")
}

func TestTranslateReturnsOriginalOnFailure(t *testing.T) {
	c := NewGeminiClient(Config{BaseURL: "http://unused", Timeout: time.Second})
	got := c.Translate(context.Background(), "hello", "Spanish")
	assert.Equal(t, "hello", got)
}

func TestTranslate(t *testing.T) {
	srv := geminiStub(t, "hola", nil)
	defer srv.Close()

	got := clientFor(srv.URL).Translate(context.Background(), "hello", "Spanish")
	assert.Equal(t, "hola", got)
}
