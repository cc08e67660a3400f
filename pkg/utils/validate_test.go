package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestValidateValid(t *testing.T) {
	req := models.ProcessDocumentRequest{
		CaseID:       "case-1",
		DocumentType: "kyc",
		FilePath:     "/data/kyc.pdf",
	}

	out, err := Validate(req)
	require.NoError(t, err)
	assert.Equal(t, req, out)
}

func TestValidateMissingField(t *testing.T) {
	req := models.ProcessDocumentRequest{
		CaseID: "case-1",
	}

	_, err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DocumentType")
	assert.Contains(t, err.Error(), "required")
}

func TestValidateNestedSlice(t *testing.T) {
	req := models.ProcessBatchRequest{
		CaseID: "case-1",
		Documents: []models.ProcessBatchItem{
			{DocumentType: "kyc", FilePath: "/data/kyc.pdf"},
			{DocumentType: "sanction_letter"},
		},
	}

	_, err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FilePath")
}

func TestValidateEmptyBatch(t *testing.T) {
	req := models.ProcessBatchRequest{CaseID: "case-1"}

	_, err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Documents")
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidateValue("case-1", "required"))
	assert.Error(t, ValidateValue("", "required"))
	assert.NoError(t, ValidateValue(0.85, "gte=0,lte=1"))
	assert.Error(t, ValidateValue(1.5, "gte=0,lte=1"))
}
