package extraction

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// Result is one document's extraction output.
type Result struct {
	CaseID        string                   `json:"case_id"`
	DocumentType  string                   `json:"document_type"`
	FilePath      string                   `json:"file_path"`
	ExtractedData models.ExtractedFieldSet `json:"extracted_data"`
	RawResponse   string                   `json:"raw_response,omitempty"`
}

// Service runs the per-document-type extraction recipes against the model.
type Service struct {
	client ModelClient
	logger ectologger.Logger
}

func NewService(logger ectologger.Logger, client ModelClient) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Extract reads the document file, sends it through the model with the
// document type's prompt, and shapes the output into the expected field
// set.
func (s *Service) Extract(ctx context.Context, caseID, documentType, filePath string) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "extraction.Service.Extract")
	defer span.End()

	spec, err := GetSpec(documentType)
	if err != nil {
		return nil, httperror.WrapError(http.StatusBadRequest, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, "File not found: "+filePath)
		}
		return nil, errors.Wrap(err, "failed to read document file")
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	mimeType, ok := mimeTypes[ext]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Unsupported file format: "+ext)
	}

	structured, raw, err := s.client.GenerateStructured(ctx, spec.Prompt, FilePayload{
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"case_id":       caseID,
			"document_type": spec.DocumentType,
		}).Error("Model extraction failed")
		return nil, errors.Wrap(err, "extraction failed")
	}

	result := &Result{
		CaseID:        caseID,
		DocumentType:  spec.DocumentType,
		FilePath:      filePath,
		ExtractedData: spec.MapFields(structured),
		RawResponse:   raw,
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"case_id":       caseID,
		"document_type": spec.DocumentType,
		"fields":        len(result.ExtractedData),
	}).Info("Document extracted")

	return result, nil
}
