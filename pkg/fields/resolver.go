package fields

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
)

var scorer = matching.NewScorer()

// Resolve looks up fieldName in data. Resolution order, first hit wins:
// dotted-path traversal, exact key, case-insensitive key, normalized key
// (underscores and spaces stripped, case-folded). Returns nil when nothing
// matches.
func Resolve(data models.ExtractedFieldSet, fieldName string) any {
	if len(data) == 0 {
		return nil
	}

	// Nested fields use dotted paths (e.g. "dpn.borrowersSignatures").
	// A missing segment is a miss, no fallback to the flat lookups.
	if strings.Contains(fieldName, ".") {
		var current any = map[string]any(data)
		for _, part := range strings.Split(fieldName, ".") {
			m, ok := asMap(current)
			if !ok {
				return nil
			}
			current, ok = m[part]
			if !ok {
				return nil
			}
		}
		return current
	}

	if value, ok := data[fieldName]; ok {
		return value
	}

	for key, value := range data {
		if strings.EqualFold(key, fieldName) {
			return value
		}
	}

	normalized := normalizeKey(fieldName)
	for key, value := range data {
		if normalizeKey(key) == normalized {
			return value
		}
	}

	return nil
}

// FindMatch extends Resolve with fuzzy matching: when no structural match
// exists, the key whose normalized name is most similar to fieldName wins,
// provided its similarity ratio exceeds threshold. Rule-table field names
// only approximately match extractor output keys, so structural lookups
// alone miss too often.
func FindMatch(data models.ExtractedFieldSet, fieldName string, threshold float64) any {
	if value := Resolve(data, fieldName); value != nil {
		return value
	}

	target := strings.ReplaceAll(strings.ToLower(fieldName), "_", " ")

	bestKey := ""
	bestScore := 0.0
	found := false

	for key := range data {
		candidate := strings.ReplaceAll(strings.ToLower(key), "_", " ")
		score := scorer.SequenceRatio(target, candidate)
		if score > bestScore && score > threshold {
			bestScore = score
			bestKey = key
			found = true
		}
	}

	if found {
		return data[bestKey]
	}

	return nil
}

func asMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case models.ExtractedFieldSet:
		return m, true
	}
	return nil, false
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, " ", "")
}
