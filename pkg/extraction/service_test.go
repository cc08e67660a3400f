package extraction

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

type stubModelClient struct {
	structured map[string]any
	raw        string
	err        error

	gotPrompt string
	gotFile   FilePayload
}

func (s *stubModelClient) GenerateStructured(_ context.Context, prompt string, file FilePayload) (map[string]any, string, error) {
	s.gotPrompt = prompt
	s.gotFile = file
	return s.structured, s.raw, s.err
}

func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestExtract(t *testing.T) {
	client := &stubModelClient{
		structured: map[string]any{"name": "John Doe"},
		raw:        `{"name": "John Doe"}`,
	}
	svc := NewService(testLogger(), client)

	path := writeTestFile(t, "kyc.pdf", []byte("%PDF-1.4"))

	result, err := svc.Extract(context.Background(), "case-1", "kyc", path)
	require.NoError(t, err)

	assert.Equal(t, "case-1", result.CaseID)
	assert.Equal(t, models.DocumentTypeKYC, result.DocumentType)
	assert.Equal(t, path, result.FilePath)
	assert.Equal(t, "John Doe", result.ExtractedData["name"])
	// omitted fields are defaulted
	assert.Equal(t, "", result.ExtractedData["aadhaarNumber"])

	assert.Equal(t, "application/pdf", client.gotFile.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), client.gotFile.Data)
	assert.NotEmpty(t, client.gotPrompt)
}

func TestExtractUnknownDocumentType(t *testing.T) {
	svc := NewService(testLogger(), &stubModelClient{})

	_, err := svc.Extract(context.Background(), "case-1", "passport", "whatever.pdf")
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestExtractMissingFile(t *testing.T) {
	svc := NewService(testLogger(), &stubModelClient{})

	_, err := svc.Extract(context.Background(), "case-1", "kyc", filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestExtractUnsupportedFormat(t *testing.T) {
	svc := NewService(testLogger(), &stubModelClient{})

	path := writeTestFile(t, "kyc.docx", []byte("PK"))

	_, err := svc.Extract(context.Background(), "case-1", "kyc", path)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	assert.Contains(t, err.Error(), "Unsupported file format")
}

func TestExtractModelFailure(t *testing.T) {
	client := &stubModelClient{err: assert.AnError}
	svc := NewService(testLogger(), client)

	path := writeTestFile(t, "kyc.png", []byte{0x89, 0x50})

	_, err := svc.Extract(context.Background(), "case-1", "kyc", path)
	require.Error(t, err)
	assert.False(t, httperror.IsHTTPError(err))
}
