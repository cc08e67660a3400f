package comparisonrun

import (
	"context"
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

const table = "comparison_runs"

// Row is the database shape of a comparison run.
type Row struct {
	ID        string                                      `db:"id"`
	CaseID    string                                      `db:"case_id"`
	Results   database.JSONB[models.ComparisonResultTree] `db:"results"`
	CreatedAt time.Time                                   `db:"created_at"`
	UpdatedAt time.Time                                   `db:"updated_at"`
}

func toModel(row *Row) *models.ComparisonRun {
	return &models.ComparisonRun{
		ID:        row.ID,
		CaseID:    row.CaseID,
		Results:   row.Results.GetValue(),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// Repository handles comparison result persistence
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

// Replace stores a case's result tree, overwriting any previous run.
func (r *Repository) Replace(ctx context.Context, caseID string, results models.ComparisonResultTree) (*models.ComparisonRun, error) {
	ctx, span := tracing.StartSpan(ctx, "comparisonrun.Repository.Replace")
	defer span.End()

	now := time.Now().UTC()

	ib := database.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("id", "case_id", "results", "created_at", "updated_at")
	ib.Values(uuid.New().String(), caseID, database.JSONB[models.ComparisonResultTree]{Data: results}, now, now)

	ub := ib.OnConflict("case_id")
	ub.Set(
		ub.Assign("results", database.Excluded("results")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("case_id", caseID).Error("Failed to store comparison results")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to store comparison results")
	}

	r.logger.WithContext(ctx).WithField("case_id", caseID).Info("Stored comparison results")
	return r.Get(ctx, caseID)
}

// Get retrieves the stored result tree for a case.
func (r *Repository) Get(ctx context.Context, caseID string) (*models.ComparisonRun, error) {
	ctx, span := tracing.StartSpan(ctx, "comparisonrun.Repository.Get")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "case_id", "results", "created_at", "updated_at")
	sb.From(table)
	sb.Where(sb.Equal("case_id", caseID))

	query, args := sb.Build()
	var row Row
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("comparison results not found for case %s", caseID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get comparison results")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get comparison results")
	}

	return toModel(&row), nil
}
