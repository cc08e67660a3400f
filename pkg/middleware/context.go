package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
)

// Context seeds the request context with the identifiers downstream log
// lines and error responses report.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx = fernctx.SetRequestID(ctx, requestID)
			ctx = fernctx.SetMethod(ctx, req.Method)
			ctx = fernctx.SetRoute(ctx, c.Path())
			ctx = fernctx.SetRemoteIP(ctx, c.RealIP())

			if caseID := req.Header.Get("X-Case-Id"); caseID != "" {
				ctx = fernctx.SetCaseID(ctx, caseID)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
