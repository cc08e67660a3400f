package casedocument

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const table = "case_documents"

// Row is the database shape of a case document.
type Row struct {
	ID            string                                   `db:"id"`
	CaseID        string                                   `db:"case_id"`
	DocumentType  string                                   `db:"document_type"`
	FilePath      sql.NullString                           `db:"file_path"`
	ExtractedData database.JSONB[models.ExtractedFieldSet] `db:"extracted_data"`
	CreatedAt     time.Time                                `db:"created_at"`
	UpdatedAt     time.Time                                `db:"updated_at"`
}

func toModel(row *Row) *models.CaseDocument {
	doc := &models.CaseDocument{
		ID:            row.ID,
		CaseID:        row.CaseID,
		DocumentType:  row.DocumentType,
		ExtractedData: row.ExtractedData.GetValue(),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.FilePath.Valid {
		doc.FilePath = &row.FilePath.String
	}
	return doc
}

// Repository handles case document persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores extraction output for a (case, document type) pair,
// replacing any previous extraction for the same pair.
func (r *Repository) Upsert(ctx context.Context, caseID, documentType string, filePath *string, data models.ExtractedFieldSet) (*models.CaseDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "casedocument.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":        "Upsert",
		"case_id":       caseID,
		"document_type": documentType,
	})

	now := time.Now().UTC()

	row := &Row{
		ID:            uuid.New().String(),
		CaseID:        caseID,
		DocumentType:  documentType,
		ExtractedData: database.JSONB[models.ExtractedFieldSet]{Data: data},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if filePath != nil {
		row.FilePath = sql.NullString{String: *filePath, Valid: true}
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("id", "case_id", "document_type", "file_path", "extracted_data", "created_at", "updated_at")
	ib.Values(row.ID, row.CaseID, row.DocumentType, row.FilePath, row.ExtractedData, row.CreatedAt, row.UpdatedAt)

	ub := ib.OnConflict("case_id", "document_type")
	ub.Set(
		ub.Assign("file_path", database.Excluded("file_path")),
		ub.Assign("extracted_data", database.Excluded("extracted_data")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to upsert case document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to store document data")
	}

	log.Info("Stored case document")
	return r.Get(ctx, caseID, documentType)
}

// Get retrieves the stored extraction for a (case, document type) pair.
func (r *Repository) Get(ctx context.Context, caseID, documentType string) (*models.CaseDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "casedocument.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "case_id", "document_type", "file_path", "extracted_data", "created_at", "updated_at")
	sb.From(table)
	sb.Where(
		sb.Equal("case_id", caseID),
		sb.Equal("document_type", documentType),
	)

	query, args := sb.Build()
	var row Row
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("document '%s' not found for case %s", documentType, caseID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get case document")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get document data")
	}

	return toModel(&row), nil
}

// ListByCase retrieves all stored documents for a case.
func (r *Repository) ListByCase(ctx context.Context, caseID string) ([]*models.CaseDocument, error) {
	ctx, span := tracing.StartSpan(ctx, "casedocument.Repository.ListByCase")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "case_id", "document_type", "file_path", "extracted_data", "created_at", "updated_at")
	sb.From(table)
	sb.Where(sb.Equal("case_id", caseID))
	sb.OrderBy("document_type")

	query, args := sb.Build()
	var rows []Row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list case documents")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list documents")
	}

	docs := make([]*models.CaseDocument, len(rows))
	for i := range rows {
		docs[i] = toModel(&rows[i])
	}
	return docs, nil
}

// ListCases summarizes every case with its document count.
func (r *Repository) ListCases(ctx context.Context) ([]models.CaseSummary, error) {
	ctx, span := tracing.StartSpan(ctx, "casedocument.Repository.ListCases")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("case_id", "COUNT(*) AS document_count", "MAX(updated_at) AS last_updated_at")
	sb.From(table)
	sb.GroupBy("case_id")
	sb.OrderBy("last_updated_at DESC")

	query, args := sb.Build()
	var cases []models.CaseSummary
	if err := r.db.SelectContext(ctx, &cases, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list cases")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list cases")
	}

	return cases, nil
}
