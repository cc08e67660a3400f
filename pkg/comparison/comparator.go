package comparison

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
)

// SimilarityStrategy scores how close two normalized strings are in
// meaning. Implementations are selected once at startup.
type SimilarityStrategy interface {
	Name() string
	Threshold() float64
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// LexicalStrategy scores similarity by character sequence overlap. It is
// the fallback when no embedding service is configured or a call to it
// fails, and its outcomes carry Method "fallback".
type LexicalStrategy struct {
	scorer    *matching.Scorer
	threshold float64
}

func NewLexicalStrategy(threshold float64) *LexicalStrategy {
	return &LexicalStrategy{
		scorer:    matching.NewScorer(),
		threshold: threshold,
	}
}

func (l *LexicalStrategy) Name() string {
	return "lexical"
}

func (l *LexicalStrategy) Threshold() float64 {
	return l.threshold
}

func (l *LexicalStrategy) Similarity(_ context.Context, a, b string) (float64, error) {
	return l.scorer.SequenceRatio(a, b), nil
}

// Comparator compares two scalar values. Exact equality after trimming and
// case-folding short-circuits; otherwise the configured strategy scores the
// pair, falling back to lexical scoring when the strategy errors.
type Comparator struct {
	strategy SimilarityStrategy
	fallback *LexicalStrategy
	logger   ectologger.Logger
}

// NewComparator builds a comparator around the given strategy. A nil
// strategy means every non-exact comparison takes the lexical path.
func NewComparator(logger ectologger.Logger, strategy SimilarityStrategy, lexicalThreshold float64) *Comparator {
	return &Comparator{
		strategy: strategy,
		fallback: NewLexicalStrategy(lexicalThreshold),
		logger:   logger,
	}
}

// Compare produces the match verdict for two values. Nil on either side is
// an all-false outcome with zero confidence.
func (c *Comparator) Compare(ctx context.Context, value1, value2 any) models.ComparisonOutcome {
	if value1 == nil || value2 == nil {
		return models.ComparisonOutcome{}
	}

	str1 := normalizeValue(value1)
	str2 := normalizeValue(value2)

	if str1 == str2 {
		return models.ComparisonOutcome{
			ExactMatch:      true,
			SemanticMatch:   true,
			SimilarityScore: 1.0,
			BestConfidence:  1.0,
			OverallMatch:    true,
		}
	}

	if c.strategy != nil {
		similarity, err := c.strategy.Similarity(ctx, str1, str2)
		if err == nil {
			match := similarity >= c.strategy.Threshold()
			return models.ComparisonOutcome{
				SemanticMatch:   match,
				SimilarityScore: similarity,
				BestConfidence:  similarity,
				OverallMatch:    match,
			}
		}
		c.logger.WithContext(ctx).WithError(err).Warnf("Similarity strategy '%s' failed, using lexical fallback", c.strategy.Name())
	}

	similarity, _ := c.fallback.Similarity(ctx, str1, str2)
	match := similarity >= c.fallback.Threshold()
	return models.ComparisonOutcome{
		SemanticMatch:   match,
		SimilarityScore: similarity,
		BestConfidence:  similarity,
		OverallMatch:    match,
		Method:          "fallback",
	}
}

func normalizeValue(value any) string {
	// JSON decoding yields float64 for every number; %v would render large
	// ones in exponent form and break equality against their string form.
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
}
