// Package events handles event emission for document and comparison
// lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes verification lifecycle events. A nil producer disables
// emission so callers never need to branch on whether Kafka is configured.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitDocumentProcessed emits an event after a document's fields are
// extracted and stored.
func (e *Emitter) EmitDocumentProcessed(ctx context.Context, doc *models.CaseDocument) error {
	if e.producer == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDocumentProcessed")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"field_count":    len(doc.ExtractedData),
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.CaseEvent{
		EventType:    "document.processed",
		CaseID:       doc.CaseID,
		DocumentType: doc.DocumentType,
		Data:         dataJSON,
	}

	if err := e.producer.PublishCaseEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit document.processed event")
		return err
	}

	return nil
}

// EmitCaseCompared emits an event after a comparison run is stored.
func (e *Emitter) EmitCaseCompared(ctx context.Context, caseID string, results models.ComparisonResultTree) error {
	if e.producer == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitCaseCompared")
	defer span.End()

	matched, total := 0, 0
	for _, fields := range results {
		for _, result := range fields {
			if result.Result == nil {
				continue
			}
			total++
			if result.Result.OverallMatch {
				matched++
			}
		}
	}

	data := map[string]any{
		"schema_version": SchemaVersion,
		"document_types": len(results),
		"fields_matched": matched,
		"fields_total":   total,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.CaseEvent{
		EventType: "case.compared",
		CaseID:    caseID,
		Data:      dataJSON,
	}

	if err := e.producer.PublishCaseEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit case.compared event")
		return err
	}

	return nil
}
