package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type stubStrategy struct {
	similarity float64
	threshold  float64
	err        error
}

func (s *stubStrategy) Name() string       { return "stub" }
func (s *stubStrategy) Threshold() float64 { return s.threshold }

func (s *stubStrategy) Similarity(context.Context, string, string) (float64, error) {
	return s.similarity, s.err
}

func TestCompareNilValues(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	assert.Equal(t, models.ComparisonOutcome{}, c.Compare(context.Background(), nil, "value"))
	assert.Equal(t, models.ComparisonOutcome{}, c.Compare(context.Background(), "value", nil))
	assert.Equal(t, models.ComparisonOutcome{}, c.Compare(context.Background(), nil, nil))
}

func TestCompareExactMatch(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	outcome := c.Compare(context.Background(), "  John DOE ", "john doe")

	assert.True(t, outcome.ExactMatch)
	assert.True(t, outcome.SemanticMatch)
	assert.True(t, outcome.OverallMatch)
	assert.Equal(t, 1.0, outcome.SimilarityScore)
	assert.Equal(t, 1.0, outcome.BestConfidence)
	assert.Empty(t, outcome.Method)
}

func TestCompareMixedTypesExact(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	outcome := c.Compare(context.Background(), 1500000, "1500000")

	assert.True(t, outcome.ExactMatch)
	assert.True(t, outcome.OverallMatch)
}

func TestCompareJSONNumberExact(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	var extracted map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"loanAmount": 1500000, "rate": 9.25}`), &extracted))

	outcome := c.Compare(context.Background(), extracted["loanAmount"], "1500000")
	assert.True(t, outcome.ExactMatch)
	assert.True(t, outcome.OverallMatch)

	outcome = c.Compare(context.Background(), extracted["rate"], "9.25")
	assert.True(t, outcome.ExactMatch)

	outcome = c.Compare(context.Background(), extracted["loanAmount"], "2500000")
	assert.False(t, outcome.ExactMatch)
}

func TestCompareLexicalFallbackTagged(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	outcome := c.Compare(context.Background(), "9876543210", "9876543216")

	assert.False(t, outcome.ExactMatch)
	assert.True(t, outcome.SemanticMatch)
	assert.True(t, outcome.OverallMatch)
	assert.InDelta(t, 0.9, outcome.SimilarityScore, 0.0001)
	assert.Equal(t, "fallback", outcome.Method)
}

func TestCompareLexicalBelowThreshold(t *testing.T) {
	c := NewComparator(testLogger(), nil, 0.80)

	outcome := c.Compare(context.Background(), "abc", "xyz")

	assert.False(t, outcome.OverallMatch)
	assert.Equal(t, 0.0, outcome.SimilarityScore)
	assert.Equal(t, "fallback", outcome.Method)
}

func TestCompareUsesStrategy(t *testing.T) {
	strategy := &stubStrategy{similarity: 0.9, threshold: 0.85}
	c := NewComparator(testLogger(), strategy, 0.80)

	outcome := c.Compare(context.Background(), "chola finance", "cholamandalam finance ltd")

	assert.False(t, outcome.ExactMatch)
	assert.True(t, outcome.SemanticMatch)
	assert.True(t, outcome.OverallMatch)
	assert.Equal(t, 0.9, outcome.SimilarityScore)
	assert.Empty(t, outcome.Method)
}

func TestCompareStrategyBelowThreshold(t *testing.T) {
	strategy := &stubStrategy{similarity: 0.5, threshold: 0.85}
	c := NewComparator(testLogger(), strategy, 0.80)

	outcome := c.Compare(context.Background(), "john doe", "jane smith")

	assert.False(t, outcome.SemanticMatch)
	assert.False(t, outcome.OverallMatch)
	assert.Equal(t, 0.5, outcome.SimilarityScore)
}

func TestCompareStrategyFailureFallsBack(t *testing.T) {
	strategy := &stubStrategy{err: errors.New("connection refused"), threshold: 0.85}
	c := NewComparator(testLogger(), strategy, 0.80)

	outcome := c.Compare(context.Background(), "9876543210", "9876543216")

	assert.True(t, outcome.OverallMatch)
	assert.Equal(t, "fallback", outcome.Method)
}
