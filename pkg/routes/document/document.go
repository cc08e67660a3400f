package document

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/Ramsey-B/fern/pkg/verification"
)

// Register registers document routes
func Register(g *echo.Group) {
	g.POST("/process", ProcessDocument)
	g.POST("/process-batch", ProcessBatch)
	g.GET("", ListDocuments)
}

// ProcessDocument extracts fields from one document and stores the result
func ProcessDocument(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.ProcessDocumentRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.ProcessDocument(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// ProcessBatch extracts several documents for a case and compares them
func ProcessBatch(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.ProcessBatchRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.ProcessBatch(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// ListDocuments lists stored documents for a case, or fetches one when
// document_type is given
func ListDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	caseID := c.QueryParam("case_id")
	if caseID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "case_id query parameter is required")
	}
	documentType := c.QueryParam("document_type")

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if documentType != "" {
		doc, err := svc.GetDocument(ctx, caseID, documentType)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, doc)
	}

	docs, err := svc.ListDocuments(ctx, caseID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, docs)
}

// ListCases summarizes all known cases
func ListCases(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	cases, err := svc.ListCases(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cases)
}
