package comparison

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reference"
)

type staticRules struct {
	table models.RuleTable
}

func (s staticRules) Load(context.Context) (models.RuleTable, error) {
	return s.table, nil
}

func newTestEngine(table models.RuleTable, refData models.ReferenceData) *Engine {
	store := reference.NewStore()
	if refData != nil {
		store.Replace(refData)
	}

	comparator := NewComparator(testLogger(), nil, 0.80)
	return NewEngine(testLogger(), staticRules{table: table}, store, comparator, 0.70)
}

func TestCompareDocumentsWithReference(t *testing.T) {
	table := models.RuleTable{
		"kyc": {
			"address": models.Directive{
				Kind: models.DirectiveCompareWithReference,
				Rule: "Compare with Rapid System",
			},
		},
	}
	refData := models.ReferenceData{
		"kyc": {Fields: models.ExtractedFieldSet{"address": "12 Main Street, Chennai"}},
	}

	engine := newTestEngine(table, refData)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"kyc": {
			DocumentType:  "kyc",
			ExtractedData: models.ExtractedFieldSet{"address": "12 Main Street, Chennai"},
		},
	})

	result := results["kyc"]["address"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusCompared, result.Status)
	assert.Equal(t, "rapid_system", result.TargetDocument)
	assert.Equal(t, "12 Main Street, Chennai", result.TargetValue)
	require.NotNil(t, result.Result)
	assert.True(t, result.Result.ExactMatch)
	assert.True(t, result.Result.OverallMatch)
}

func TestCompareDocumentsReferenceMissing(t *testing.T) {
	table := models.RuleTable{
		"kyc": {
			"address": models.Directive{
				Kind: models.DirectiveCompareWithReference,
				Rule: "Compare with Rapid System",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"kyc": {
			DocumentType:  "kyc",
			ExtractedData: models.ExtractedFieldSet{"address": "12 Main Street"},
		},
	})

	result := results["kyc"]["address"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusError, result.Status)
	assert.Equal(t, "Reference data not found for 'kyc'", result.Message)
	assert.Equal(t, "12 Main Street", result.Value)
	assert.Nil(t, result.Result)
}

func TestCompareDocumentsCrossDocument(t *testing.T) {
	table := models.RuleTable{
		"legal_report": {
			"customer_name": models.Directive{
				Kind:               models.DirectiveCompareWithDocument,
				Rule:               "Compare with Sanction Letter",
				TargetDocumentType: "sanction_letter",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"legal_report": {
			DocumentType:  "legal_report",
			ExtractedData: models.ExtractedFieldSet{"customerName": "John Doe"},
		},
		"sanction_letter": {
			DocumentType:  "sanction_letter",
			ExtractedData: models.ExtractedFieldSet{"customerName": "JOHN DOE"},
		},
	})

	result := results["legal_report"]["customer_name"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusCompared, result.Status)
	assert.Equal(t, "sanction_letter", result.TargetDocument)
	require.NotNil(t, result.Result)
	assert.True(t, result.Result.ExactMatch)
}

func TestCompareDocumentsTargetMissing(t *testing.T) {
	table := models.RuleTable{
		"legal_report": {
			"customer_name": models.Directive{
				Kind:               models.DirectiveCompareWithDocument,
				Rule:               "Compare with Sanction Letter",
				TargetDocumentType: "sanction_letter",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"legal_report": {
			DocumentType:  "legal_report",
			ExtractedData: models.ExtractedFieldSet{"customerName": "John Doe"},
		},
	})

	result := results["legal_report"]["customer_name"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusError, result.Status)
	assert.Equal(t, "Target document 'sanction_letter' not found", result.Message)
}

func TestCompareDocumentsLiteral(t *testing.T) {
	table := models.RuleTable{
		"repayment_kit": {
			"in_favour": models.Directive{
				Kind:    models.DirectiveCompareWithLiteral,
				Rule:    "Should be Chola",
				Literal: "Chola",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"repayment_kit": {
			DocumentType:  "repayment_kit",
			ExtractedData: models.ExtractedFieldSet{"inFavour": "chola"},
		},
	})

	result := results["repayment_kit"]["in_favour"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusCompared, result.Status)
	assert.Equal(t, "Chola", result.TargetValue)
	require.NotNil(t, result.Result)
	assert.True(t, result.Result.OverallMatch)
}

func TestCompareDocumentsAvailability(t *testing.T) {
	table := models.RuleTable{
		"sanction_letter": {
			"borrowers_signature": models.Directive{
				Kind: models.DirectiveCheckAvailability,
				Rule: "Availability of borrower signature",
			},
			"authorized_signature": models.Directive{
				Kind: models.DirectiveCheckAvailability,
				Rule: "Availability of authorized signature",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"sanction_letter": {
			DocumentType: "sanction_letter",
			ExtractedData: models.ExtractedFieldSet{
				"borrowersSignature":  true,
				"authorizedSignature": "",
			},
		},
	})

	present := results["sanction_letter"]["borrowers_signature"]
	require.NotNil(t, present)
	assert.Equal(t, "Available", present.TargetValue)
	require.NotNil(t, present.Result)
	assert.True(t, present.Result.OverallMatch)
	assert.Equal(t, 1.0, present.Result.BestConfidence)

	// empty string counts as absent
	absent := results["sanction_letter"]["authorized_signature"]
	require.NotNil(t, absent)
	require.NotNil(t, absent.Result)
	assert.False(t, absent.Result.OverallMatch)
	assert.Equal(t, 0.0, absent.Result.BestConfidence)
}

func TestCompareDocumentsDateRelation(t *testing.T) {
	table := models.RuleTable{
		"vetting_report": {
			"date": models.Directive{
				Kind:               models.DirectiveDateRelation,
				Rule:               "The date should be after legal_report",
				Relation:           models.DateRelationAfter,
				TargetDocumentType: "legal_report",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"vetting_report": {
			DocumentType:  "vetting_report",
			ExtractedData: models.ExtractedFieldSet{"date": "20/08/2024"},
		},
		"legal_report": {
			DocumentType:  "legal_report",
			ExtractedData: models.ExtractedFieldSet{"date": "15/08/2024"},
		},
	})

	result := results["vetting_report"]["date"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusCompared, result.Status)
	assert.Equal(t, "15/08/2024", result.TargetValue)
	require.NotNil(t, result.Result)
	assert.True(t, result.Result.OverallMatch)
}

func TestCompareDocumentsDateUnparseable(t *testing.T) {
	table := models.RuleTable{
		"vetting_report": {
			"date": models.Directive{
				Kind:               models.DirectiveDateRelation,
				Rule:               "The date should be after legal_report",
				Relation:           models.DateRelationAfter,
				TargetDocumentType: "legal_report",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"vetting_report": {
			DocumentType:  "vetting_report",
			ExtractedData: models.ExtractedFieldSet{"date": "illegible"},
		},
		"legal_report": {
			DocumentType:  "legal_report",
			ExtractedData: models.ExtractedFieldSet{"date": "15/08/2024"},
		},
	})

	result := results["vetting_report"]["date"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusError, result.Status)
	assert.Equal(t, "Could not parse date from field value", result.Message)
}

func TestCompareDocumentsNoDirective(t *testing.T) {
	table := models.RuleTable{
		"annexure": {
			"four_boundaries": models.Directive{
				Kind: models.DirectiveNone,
				Rule: "Check against site plan",
			},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"annexure": {
			DocumentType:  "annexure",
			ExtractedData: models.ExtractedFieldSet{"fourBoundaries": "N/S/E/W"},
		},
	})

	result := results["annexure"]["four_boundaries"]
	require.NotNil(t, result)
	assert.Equal(t, models.ComparisonStatusInfo, result.Status)
	assert.Equal(t, "No specific comparison performed", result.Message)
	assert.Equal(t, "N/S/E/W", result.Value)
	assert.Equal(t, "Check against site plan", result.Rule)
}

func TestCompareDocumentsSkipsTypesWithoutRules(t *testing.T) {
	table := models.RuleTable{
		"kyc": {
			"name": models.Directive{Kind: models.DirectiveNone, Rule: ""},
		},
	}

	engine := newTestEngine(table, nil)
	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"agreement": {
			DocumentType:  "agreement",
			ExtractedData: models.ExtractedFieldSet{"customerName": "John Doe"},
		},
	})

	assert.Empty(t, results)
}

type countingReference struct {
	data  models.ReferenceData
	calls int
}

func (c *countingReference) Snapshot() models.ReferenceData {
	c.calls++
	return c.data
}

func TestCompareDocumentsSnapshotsReferenceOnce(t *testing.T) {
	table := models.RuleTable{
		"kyc": {
			"address": models.Directive{
				Kind: models.DirectiveCompareWithReference,
				Rule: "Compare with Rapid System",
			},
			"customer_name": models.Directive{
				Kind: models.DirectiveCompareWithReference,
				Rule: "Compare with Rapid System",
			},
		},
	}
	ref := &countingReference{data: models.ReferenceData{
		"kyc": {Fields: models.ExtractedFieldSet{
			"address":      "12 Main Street",
			"customerName": "John Doe",
		}},
	}}

	comparator := NewComparator(testLogger(), nil, 0.80)
	engine := NewEngine(testLogger(), staticRules{table: table}, ref, comparator, 0.70)

	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{
		"kyc": {
			DocumentType: "kyc",
			ExtractedData: models.ExtractedFieldSet{
				"address":      "12 Main Street",
				"customerName": "John Doe",
			},
		},
	})

	require.Len(t, results["kyc"], 2)
	assert.Equal(t, 1, ref.calls)
}

func TestCompareDocumentsEmptyInput(t *testing.T) {
	engine := newTestEngine(models.RuleTable{}, nil)

	results := engine.CompareDocuments(context.Background(), "case-1", map[string]models.Document{})
	assert.Empty(t, results)
}
