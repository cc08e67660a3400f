package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
)

// FilePayload is one document handed to the model inline.
type FilePayload struct {
	MimeType string
	Data     []byte
}

// ModelClient generates structured JSON from a prompt and a document. The
// raw model text is returned alongside the parsed output for auditing.
type ModelClient interface {
	GenerateStructured(ctx context.Context, prompt string, file FilePayload) (map[string]any, string, error)
}

// GeminiConfig configures the vision-language model HTTP client.
type GeminiConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// GeminiClient calls a Gemini-style generateContent endpoint with the
// prompt and the document as inline data, requesting a JSON response.
type GeminiClient struct {
	cfg    GeminiConfig
	client *http.Client
	logger ectologger.Logger
}

func NewGeminiClient(cfg GeminiConfig, logger ectologger.Logger) *GeminiClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &GeminiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) GenerateStructured(ctx context.Context, prompt string, file FilePayload) (map[string]any, string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{
			Parts: []generatePart{
				{Text: prompt},
				{InlineData: &inlineData{
					MimeType: file.MimeType,
					Data:     base64.StdEncoding.EncodeToString(file.Data),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:      c.cfg.Temperature,
			TopP:             0.95,
			MaxOutputTokens:  c.cfg.MaxTokens,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to marshal generate request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create generate request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "generate request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read generate response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("model returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, "", errors.Wrap(err, "failed to parse generate response")
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, "", errors.New("model returned no candidates")
	}

	raw := parsed.Candidates[0].Content.Parts[0].Text

	c.logger.WithContext(ctx).Debugf("Model call completed in %s", time.Since(start))

	structured := map[string]any{}
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &structured); err != nil {
		// keep the raw text so callers can audit what the model said
		return nil, raw, errors.Wrap(err, "model output is not valid JSON")
	}

	return structured, raw, nil
}

// StripCodeFence removes a surrounding markdown code fence from model
// output. Models sometimes wrap JSON in fences despite being told not to.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	} else {
		return text
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}
