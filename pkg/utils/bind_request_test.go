package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func newTestContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindRequestValid(t *testing.T) {
	c := newTestContext(`{"case_id": "case-1", "document_type": "kyc", "file_path": "/data/kyc.pdf"}`)

	req, err := BindRequest[models.ProcessDocumentRequest](c)
	require.NoError(t, err)
	assert.Equal(t, "case-1", req.CaseID)
	assert.Equal(t, "kyc", req.DocumentType)
}

func TestBindRequestValidationFailure(t *testing.T) {
	c := newTestContext(`{"case_id": "case-1"}`)

	_, err := BindRequest[models.ProcessDocumentRequest](c)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestBindRequestMalformedBody(t *testing.T) {
	c := newTestContext(`{"case_id": `)

	_, err := BindRequest[models.ProcessDocumentRequest](c)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}
