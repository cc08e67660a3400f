package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripCodeFence("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripCodeFence("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripCodeFence(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, StripCodeFence("  {\"a\": 1}  "))
	assert.Equal(t, "", StripCodeFence("```json\n```"))
}

func modelServer(t *testing.T, responseText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotEmpty(t, req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "application/pdf", req.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": responseText}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *GeminiClient {
	return NewGeminiClient(GeminiConfig{
		BaseURL:     baseURL,
		Model:       "test-model",
		APIKey:      "test-key",
		Temperature: 0.1,
		MaxTokens:   1024,
	}, testLogger())
}

func TestGenerateStructured(t *testing.T) {
	server := modelServer(t, `{"customerName": "John Doe", "loanAmount": "1500000"}`)
	defer server.Close()

	client := newTestClient(server.URL)

	structured, raw, err := client.GenerateStructured(context.Background(), "extract the fields", FilePayload{
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", structured["customerName"])
	assert.Contains(t, raw, "John Doe")
}

func TestGenerateStructuredFencedOutput(t *testing.T) {
	server := modelServer(t, "```json\n{\"customerName\": \"John Doe\"}\n```")
	defer server.Close()

	client := newTestClient(server.URL)

	structured, _, err := client.GenerateStructured(context.Background(), "extract the fields", FilePayload{
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", structured["customerName"])
}

func TestGenerateStructuredInvalidJSON(t *testing.T) {
	server := modelServer(t, "the document appears to be illegible")
	defer server.Close()

	client := newTestClient(server.URL)

	_, raw, err := client.GenerateStructured(context.Background(), "extract the fields", FilePayload{
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.Error(t, err)
	// the raw text survives for auditing
	assert.Equal(t, "the document appears to be illegible", raw)
}

func TestGenerateStructuredServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, _, err := client.GenerateStructured(context.Background(), "extract the fields", FilePayload{
		MimeType: "image/png",
		Data:     []byte{0x89, 0x50},
	})
	assert.Error(t, err)
}

func TestGenerateStructuredNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, _, err := client.GenerateStructured(context.Background(), "extract the fields", FilePayload{
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
