package comparison

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/Ramsey-B/fern/pkg/verification"
)

// Register registers comparison routes
func Register(g *echo.Group) {
	g.POST("", CompareDocuments)
	g.GET("/:case_id", GetComparison)
}

// CompareDocuments runs the rule engine over caller-supplied documents
func CompareDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.CompareDocumentsRequest](c)
	if err != nil {
		return err
	}

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.Compare(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// GetComparison returns the stored result tree for a case, computing it
// from stored documents when no run exists yet
func GetComparison(c echo.Context) error {
	ctx := c.Request().Context()

	caseID := c.Param("case_id")

	ctx, svc, err := ectoinject.GetContext[*verification.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp, err := svc.GetComparison(ctx, caseID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
