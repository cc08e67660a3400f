package comparison

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ReferenceTarget is the rule-table keyword that points a comparison at the
// external reference system instead of another document.
const ReferenceTarget = "rapid_system"

// RuleSource supplies the parsed rule table for a run.
type RuleSource interface {
	Load(ctx context.Context) (models.RuleTable, error)
}

// ReferenceSource supplies a consistent snapshot of the external reference
// system's data.
type ReferenceSource interface {
	Snapshot() models.ReferenceData
}

// Engine evaluates the rule table against a case's documents. Stateless per
// call; the reference store is snapshotted once per run so a concurrent
// replace cannot mix two reference states in one result tree.
type Engine struct {
	rules               RuleSource
	reference           ReferenceSource
	comparator          *Comparator
	fieldMatchThreshold float64
	logger              ectologger.Logger
}

func NewEngine(logger ectologger.Logger, rules RuleSource, reference ReferenceSource, comparator *Comparator, fieldMatchThreshold float64) *Engine {
	return &Engine{
		rules:               rules,
		reference:           reference,
		comparator:          comparator,
		fieldMatchThreshold: fieldMatchThreshold,
		logger:              logger,
	}
}

// CompareDocuments evaluates every rule whose document type is present in
// documentsByType and returns the per-field result tree. A rule that cannot
// be evaluated produces an error row, never a failed call.
func (e *Engine) CompareDocuments(ctx context.Context, caseID string, documentsByType map[string]models.Document) models.ComparisonResultTree {
	ctx, span := tracing.StartSpan(ctx, "comparison.Engine.CompareDocuments")
	defer span.End()

	results := models.ComparisonResultTree{}

	table, err := e.rules.Load(ctx)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("case_id", caseID).Error("Failed to load comparison rules")
		return results
	}

	refData := e.reference.Snapshot()

	for docType, rulesForType := range table {
		doc, ok := documentsByType[docType]
		if !ok {
			continue
		}

		results[docType] = map[string]*models.FieldComparisonResult{}

		for fieldName, directive := range rulesForType {
			value := fields.Resolve(doc.ExtractedData, fieldName)

			result := &models.FieldComparisonResult{
				Value: value,
				Rule:  directive.Rule,
			}
			results[docType][fieldName] = result

			e.evaluate(ctx, directive, docType, fieldName, value, documentsByType, refData, result)
		}
	}

	e.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"case_id":        caseID,
		"document_types": len(results),
	}).Info("Comparison run complete")

	return results
}

func (e *Engine) evaluate(ctx context.Context, directive models.Directive, docType, fieldName string, value any, documentsByType map[string]models.Document, refData models.ReferenceData, result *models.FieldComparisonResult) {
	switch directive.Kind {
	case models.DirectiveCompareWithReference:
		e.compareWithReference(ctx, refData, docType, fieldName, value, result)
	case models.DirectiveCompareWithDocument:
		e.compareWithDocument(ctx, directive.TargetDocumentType, fieldName, value, documentsByType, result)
	case models.DirectiveCompareWithLiteral:
		outcome := e.comparator.Compare(ctx, value, directive.Literal)
		result.Status = models.ComparisonStatusCompared
		result.TargetValue = directive.Literal
		result.Result = &outcome
	case models.DirectiveCheckAvailability:
		available := isTruthy(value)
		confidence := 0.0
		if available {
			confidence = 1.0
		}
		result.Status = models.ComparisonStatusCompared
		result.TargetValue = "Available"
		result.Result = &models.ComparisonOutcome{
			OverallMatch:   available,
			BestConfidence: confidence,
		}
	case models.DirectiveDateRelation:
		e.compareDates(directive, value, documentsByType, result)
	default:
		result.Status = models.ComparisonStatusInfo
		result.Message = "No specific comparison performed"
	}
}

func (e *Engine) compareWithReference(ctx context.Context, refData models.ReferenceData, docType, fieldName string, value any, result *models.FieldComparisonResult) {
	entry, ok := refData[docType]
	if !ok || entry.Fields == nil {
		result.Status = models.ComparisonStatusError
		result.Message = fmt.Sprintf("Reference data not found for '%s'", docType)
		return
	}

	targetValue := fields.FindMatch(entry.Fields, fieldName, e.fieldMatchThreshold)
	outcome := e.comparator.Compare(ctx, value, targetValue)

	result.Status = models.ComparisonStatusCompared
	result.TargetDocument = ReferenceTarget
	result.TargetValue = targetValue
	result.Result = &outcome
}

func (e *Engine) compareWithDocument(ctx context.Context, targetDocType, fieldName string, value any, documentsByType map[string]models.Document, result *models.FieldComparisonResult) {
	targetDoc, ok := documentsByType[targetDocType]
	if !ok {
		result.Status = models.ComparisonStatusError
		result.Message = fmt.Sprintf("Target document '%s' not found", targetDocType)
		return
	}

	targetValue := fields.FindMatch(targetDoc.ExtractedData, fieldName, e.fieldMatchThreshold)
	outcome := e.comparator.Compare(ctx, value, targetValue)

	result.Status = models.ComparisonStatusCompared
	result.TargetDocument = targetDocType
	result.TargetValue = targetValue
	result.Result = &outcome
}

func (e *Engine) compareDates(directive models.Directive, value any, documentsByType map[string]models.Document, result *models.FieldComparisonResult) {
	fieldDate, ok := ParseDate(value)
	if !ok {
		result.Status = models.ComparisonStatusError
		result.Message = "Could not parse date from field value"
		return
	}

	targetDoc, ok := documentsByType[directive.TargetDocumentType]
	if !ok {
		result.Status = models.ComparisonStatusError
		result.Message = fmt.Sprintf("Target document '%s' not found", directive.TargetDocumentType)
		return
	}

	targetValue := findDateField(targetDoc.ExtractedData)
	targetDate, ok := ParseDate(targetValue)
	if !ok {
		result.Status = models.ComparisonStatusError
		result.Message = fmt.Sprintf("Could not parse date from target document '%s'", directive.TargetDocumentType)
		return
	}

	matches := fieldDate.After(targetDate)
	confidence := 0.0
	if matches {
		confidence = 1.0
	}

	result.Status = models.ComparisonStatusCompared
	result.TargetValue = targetValue
	result.Result = &models.ComparisonOutcome{
		OverallMatch:   matches,
		BestConfidence: confidence,
	}
}

var dateKeywords = []string{"date", "created", "updated", "issued"}

// findDateField locates a date-bearing value: keys containing a date
// keyword win, then any string value that parses as a date.
func findDateField(data models.ExtractedFieldSet) any {
	for key, value := range data {
		lower := strings.ToLower(key)
		for _, keyword := range dateKeywords {
			if strings.Contains(lower, keyword) {
				return value
			}
		}
	}

	for _, value := range data {
		if str, ok := value.(string); ok {
			if _, parsed := ParseDate(str); parsed {
				return str
			}
		}
	}

	return nil
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	return true
}
