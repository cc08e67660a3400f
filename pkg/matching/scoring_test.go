package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRatioIdentical(t *testing.T) {
	scorer := NewScorer()

	assert.Equal(t, 1.0, scorer.SequenceRatio("customer name", "customer name"))
	assert.Equal(t, 1.0, scorer.SequenceRatio("", ""))
}

func TestSequenceRatioDisjoint(t *testing.T) {
	scorer := NewScorer()

	assert.Equal(t, 0.0, scorer.SequenceRatio("abc", "xyz"))
	assert.Equal(t, 0.0, scorer.SequenceRatio("abc", ""))
}

func TestSequenceRatioPartialOverlap(t *testing.T) {
	scorer := NewScorer()

	// longest block "bcd" (3), total length 8 -> 2*3/8
	assert.InDelta(t, 0.75, scorer.SequenceRatio("abcd", "bcde"), 0.0001)
}

func TestSequenceRatioSumsMultipleBlocks(t *testing.T) {
	scorer := NewScorer()

	// "customer " and "name" both match against "customer full name"
	score := scorer.SequenceRatio("customer name", "customer full name")
	assert.InDelta(t, 2.0*13.0/31.0, score, 0.0001)
}

func TestSequenceRatioSymmetricEnough(t *testing.T) {
	scorer := NewScorer()

	a := scorer.SequenceRatio("sanction letter", "sanction ltr")
	b := scorer.SequenceRatio("sanction ltr", "sanction letter")
	assert.InDelta(t, a, b, 0.0001)
}
