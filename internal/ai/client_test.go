package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(url string) *GeminiClient {
	c := NewGemini("test-key", "gemini-2.0-flash")
	c.BaseURL = url
	return c
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`))
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	out, err := c.GenerateContent(context.Background(), "say hi")

	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "say hi", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerateContentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	_, err := c.GenerateContent(context.Background(), "say hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateContentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	_, err := c.GenerateContent(context.Background(), "say hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateContentBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	for i := 0; i < 6; i++ {
		_, err := c.GenerateContent(context.Background(), "say hi")
		require.Error(t, err)
	}

	// Trips after more than 3 consecutive failures, so the 4 first calls
	// reach the server and the rest are rejected locally.
	assert.Equal(t, 4, calls)
}
