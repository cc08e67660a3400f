package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client scores semantic similarity by embedding both strings through an
// embeddings HTTP endpoint and taking the cosine similarity of the vectors.
// It satisfies the comparison similarity strategy interface.
type Client struct {
	baseURL   string
	model     string
	threshold float64
	client    *http.Client
	logger    ectologger.Logger
}

type Config struct {
	BaseURL   string
	Model     string
	Threshold float64
	Timeout   time.Duration
}

func NewClient(cfg Config, logger ectologger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		threshold: cfg.Threshold,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (c *Client) Name() string {
	return "embedding"
}

func (c *Client) Threshold() float64 {
	return c.threshold
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Similarity embeds both strings in one request and returns their cosine
// similarity.
func (c *Client) Similarity(ctx context.Context, a, b string) (float64, error) {
	vectors, err := c.embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}

	if len(vectors) != 2 {
		return 0, fmt.Errorf("embedding service returned %d vectors, expected 2", len(vectors))
	}

	return Cosine(vectors[0], vectors[1])
}

func (c *Client) embed(ctx context.Context, input []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingRequest{
		Model: c.model,
		Input: input,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "embedding request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedding response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to parse embedding response")
	}

	vectors := make([][]float64, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		vectors = append(vectors, d.Embedding)
	}

	return vectors, nil
}

// Cosine returns the cosine similarity of two equal-length vectors.
func Cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("cannot compare vectors of length %d and %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
