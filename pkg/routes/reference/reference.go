package reference

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	refstore "github.com/Ramsey-B/fern/pkg/reference"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers reference data routes
func Register(g *echo.Group) {
	g.PUT("", ReplaceReference)
	g.GET("", GetReference)
}

// ReplaceReference replaces the reference data snapshot wholesale
func ReplaceReference(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.ReplaceReferenceRequest](c)
	if err != nil {
		return err
	}

	_, store, err := ectoinject.GetContext[*refstore.Store](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	store.Replace(req.Data)

	return c.JSON(http.StatusOK, map[string]any{
		"document_types": len(req.Data),
	})
}

// GetReference returns the current reference data snapshot
func GetReference(c echo.Context) error {
	ctx := c.Request().Context()

	_, store, err := ectoinject.GetContext[*refstore.Store](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, store.Snapshot())
}
