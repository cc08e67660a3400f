package verification

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/repositories/casedocument"
	"github.com/Ramsey-B/fern/internal/repositories/comparisonrun"
	"github.com/Ramsey-B/fern/pkg/comparison"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/extraction"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Service ties extraction, persistence, and comparison together for the
// HTTP layer.
type Service struct {
	extractor *extraction.Service
	documents *casedocument.Repository
	runs      *comparisonrun.Repository
	engine    *comparison.Engine
	emitter   *events.Emitter
	logger    ectologger.Logger
}

func NewService(
	logger ectologger.Logger,
	extractor *extraction.Service,
	documents *casedocument.Repository,
	runs *comparisonrun.Repository,
	engine *comparison.Engine,
	emitter *events.Emitter,
) *Service {
	return &Service{
		extractor: extractor,
		documents: documents,
		runs:      runs,
		engine:    engine,
		emitter:   emitter,
		logger:    logger,
	}
}

// ProcessDocument extracts one document and stores the result.
func (s *Service) ProcessDocument(ctx context.Context, req models.ProcessDocumentRequest) (*models.ProcessDocumentResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "verification.Service.ProcessDocument")
	defer span.End()

	result, err := s.extractor.Extract(ctx, req.CaseID, req.DocumentType, req.FilePath)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Upsert(ctx, req.CaseID, result.DocumentType, &result.FilePath, result.ExtractedData)
	if err != nil {
		return nil, err
	}

	if err := s.emitter.EmitDocumentProcessed(ctx, doc); err != nil {
		// event emission is best-effort; the document is already stored
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit document processed event")
	}

	return &models.ProcessDocumentResponse{
		CaseID:        req.CaseID,
		DocumentType:  result.DocumentType,
		ExtractedData: result.ExtractedData,
	}, nil
}

// ProcessBatch extracts and stores several documents, then runs a
// comparison over the batch.
func (s *Service) ProcessBatch(ctx context.Context, req models.ProcessBatchRequest) (*models.ProcessBatchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "verification.Service.ProcessBatch")
	defer span.End()

	responses := make([]models.ProcessDocumentResponse, 0, len(req.Documents))
	documentsByType := make(map[string]models.Document, len(req.Documents))

	for _, item := range req.Documents {
		result, err := s.extractor.Extract(ctx, req.CaseID, item.DocumentType, item.FilePath)
		if err != nil {
			return nil, err
		}

		doc, err := s.documents.Upsert(ctx, req.CaseID, result.DocumentType, &result.FilePath, result.ExtractedData)
		if err != nil {
			return nil, err
		}

		if err := s.emitter.EmitDocumentProcessed(ctx, doc); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit document processed event")
		}

		responses = append(responses, models.ProcessDocumentResponse{
			CaseID:        req.CaseID,
			DocumentType:  result.DocumentType,
			ExtractedData: result.ExtractedData,
		})

		documentsByType[result.DocumentType] = models.Document{
			DocumentType:  result.DocumentType,
			ExtractedData: result.ExtractedData,
			FilePath:      result.FilePath,
		}
	}

	results, err := s.compareAndStore(ctx, req.CaseID, documentsByType)
	if err != nil {
		return nil, err
	}

	return &models.ProcessBatchResponse{
		CaseID:            req.CaseID,
		Documents:         responses,
		ComparisonResults: results,
	}, nil
}

// GetDocument fetches one stored document for a case.
func (s *Service) GetDocument(ctx context.Context, caseID, documentType string) (*models.CaseDocument, error) {
	return s.documents.Get(ctx, caseID, documentType)
}

// ListDocuments fetches every stored document for a case.
func (s *Service) ListDocuments(ctx context.Context, caseID string) ([]*models.CaseDocument, error) {
	return s.documents.ListByCase(ctx, caseID)
}

// ListCases summarizes all known cases.
func (s *Service) ListCases(ctx context.Context) ([]models.CaseSummary, error) {
	return s.documents.ListCases(ctx)
}

// Compare runs the engine over caller-supplied documents and stores the
// result tree.
func (s *Service) Compare(ctx context.Context, req models.CompareDocumentsRequest) (*models.CompareDocumentsResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "verification.Service.Compare")
	defer span.End()

	documentsByType := make(map[string]models.Document, len(req.Documents))
	for _, doc := range req.Documents {
		documentsByType[doc.DocumentType] = doc
	}

	results, err := s.compareAndStore(ctx, req.CaseID, documentsByType)
	if err != nil {
		return nil, err
	}

	return &models.CompareDocumentsResponse{
		CaseID:            req.CaseID,
		ComparisonResults: results,
	}, nil
}

// GetComparison returns the stored result tree for a case, generating it
// on demand from stored documents when no run exists yet.
func (s *Service) GetComparison(ctx context.Context, caseID string) (*models.CompareDocumentsResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "verification.Service.GetComparison")
	defer span.End()

	run, err := s.runs.Get(ctx, caseID)
	if err == nil {
		return &models.CompareDocumentsResponse{
			CaseID:            caseID,
			ComparisonResults: run.Results,
		}, nil
	}
	if !httperror.IsHTTPError(err) || httperror.GetStatusCode(err) != http.StatusNotFound {
		return nil, err
	}

	docs, err := s.documents.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "no documents found for case "+caseID)
	}

	documentsByType := make(map[string]models.Document, len(docs))
	for _, doc := range docs {
		filePath := ""
		if doc.FilePath != nil {
			filePath = *doc.FilePath
		}
		documentsByType[doc.DocumentType] = models.Document{
			DocumentType:  doc.DocumentType,
			ExtractedData: doc.ExtractedData,
			FilePath:      filePath,
		}
	}

	results, err := s.compareAndStore(ctx, caseID, documentsByType)
	if err != nil {
		return nil, err
	}

	return &models.CompareDocumentsResponse{
		CaseID:            caseID,
		ComparisonResults: results,
		Generated:         "on-demand",
	}, nil
}

func (s *Service) compareAndStore(ctx context.Context, caseID string, documentsByType map[string]models.Document) (models.ComparisonResultTree, error) {
	results := s.engine.CompareDocuments(ctx, caseID, documentsByType)

	if _, err := s.runs.Replace(ctx, caseID, results); err != nil {
		return nil, err
	}

	if err := s.emitter.EmitCaseCompared(ctx, caseID, results); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit case compared event")
	}

	return results, nil
}
