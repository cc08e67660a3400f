package models

import (
	"time"
)

// Field result statuses.
const (
	ComparisonStatusCompared = "compared"
	ComparisonStatusError    = "error"
	ComparisonStatusInfo     = "info"
)

// ComparisonOutcome is the verdict of comparing two values.
type ComparisonOutcome struct {
	ExactMatch      bool    `json:"exact_match"`
	SemanticMatch   bool    `json:"semantic_match"`
	SimilarityScore float64 `json:"similarity_score"`
	BestConfidence  float64 `json:"best_confidence"`
	OverallMatch    bool    `json:"overall_match"`

	// Method is "fallback" when the lexical strategy was used in place of
	// embeddings.
	Method string `json:"method,omitempty"`

	// Error is set when both comparison paths failed; confidence is zero
	// unless the values matched exactly.
	Error string `json:"error,omitempty"`
}

// FieldComparisonResult is one field's row in the result tree. Value and
// Rule are always recorded; the rest depends on the directive and whether
// evaluation succeeded.
type FieldComparisonResult struct {
	Value          any                `json:"value"`
	Rule           string             `json:"rule"`
	Status         string             `json:"status,omitempty"`
	Message        string             `json:"message,omitempty"`
	TargetDocument string             `json:"target_document,omitempty"`
	TargetValue    any                `json:"target_value,omitempty"`
	Result         *ComparisonOutcome `json:"result,omitempty"`
}

// ComparisonResultTree maps document type to field name to result. Built
// fresh per comparison run, never mutated after.
type ComparisonResultTree map[string]map[string]*FieldComparisonResult

// ComparisonRun is the persisted result tree for a case.
type ComparisonRun struct {
	ID        string               `json:"id" db:"id"`
	CaseID    string               `json:"case_id" db:"case_id"`
	Results   ComparisonResultTree `json:"results" db:"results"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" db:"updated_at"`
}

// CompareDocumentsRequest supplies already-extracted documents for a case.
type CompareDocumentsRequest struct {
	CaseID    string     `json:"case_id" validate:"required"`
	Documents []Document `json:"documents" validate:"required,min=1,dive"`
}

// CompareDocumentsResponse returns the stored result tree.
type CompareDocumentsResponse struct {
	CaseID            string               `json:"case_id"`
	ComparisonResults ComparisonResultTree `json:"comparison_results"`

	// Generated is "on-demand" when results were computed from stored
	// documents rather than read back.
	Generated string `json:"generated,omitempty"`
}

// ReferenceEntry is one document type's slice of the external reference
// system's data.
type ReferenceEntry struct {
	Type     string            `json:"type,omitempty"`
	Location string            `json:"location,omitempty"`
	Fields   ExtractedFieldSet `json:"fields"`
}

// ReferenceData maps document type to reference entry.
type ReferenceData map[string]ReferenceEntry

// ReplaceReferenceRequest replaces the reference store contents wholesale.
type ReplaceReferenceRequest struct {
	Data ReferenceData `json:"data" validate:"required"`
}
