package models

import (
	"time"
)

// Document type constants. These are the canonical keys used by the rule
// table, the extraction registry, and the document store.
const (
	DocumentTypeSanctionLetter    = "sanction_letter"
	DocumentTypeLegalReport       = "legal_report"
	DocumentTypeRepaymentKit      = "repayment_kit"
	DocumentTypeKYC               = "kyc"
	DocumentTypeVettingReport     = "vetting_report"
	DocumentTypeAnnexure          = "annexure"
	DocumentTypeMemorandumOfTitle = "memorandum_of_title"
	DocumentTypeAgreement         = "agreement"
)

// ExtractedFieldSet maps field names to extracted scalar values. Values may
// be strings, booleans, numbers, nil, or nested maps addressed by dotted
// paths (e.g. "dpn.borrowersSignatures").
type ExtractedFieldSet map[string]any

// Document is one document's extraction output as supplied to a comparison
// run, keyed by document type in the request.
type Document struct {
	DocumentType  string            `json:"document_type" validate:"required"`
	ExtractedData ExtractedFieldSet `json:"extracted_data" validate:"required"`
	FilePath      string            `json:"file_path,omitempty"`
}

// CaseDocument is the persisted extraction for one (case, document type).
type CaseDocument struct {
	ID            string            `json:"id" db:"id"`
	CaseID        string            `json:"case_id" db:"case_id"`
	DocumentType  string            `json:"document_type" db:"document_type"`
	FilePath      *string           `json:"file_path,omitempty" db:"file_path"`
	ExtractedData ExtractedFieldSet `json:"extracted_data" db:"extracted_data"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// CaseSummary is one row of the case listing.
type CaseSummary struct {
	CaseID        string    `json:"case_id" db:"case_id"`
	DocumentCount int       `json:"document_count" db:"document_count"`
	LastUpdatedAt time.Time `json:"last_updated_at" db:"last_updated_at"`
}

// ProcessDocumentRequest asks for one document to be extracted and stored.
type ProcessDocumentRequest struct {
	CaseID       string `json:"case_id" validate:"required"`
	DocumentType string `json:"document_type" validate:"required"`
	FilePath     string `json:"file_path" validate:"required"`
}

// ProcessDocumentResponse returns the extraction output for one document.
type ProcessDocumentResponse struct {
	CaseID        string            `json:"case_id"`
	DocumentType  string            `json:"document_type"`
	ExtractedData ExtractedFieldSet `json:"extracted_data"`
}

// ProcessBatchRequest asks for several documents to be extracted, stored,
// and cross-compared in one pass.
type ProcessBatchRequest struct {
	CaseID    string             `json:"case_id" validate:"required"`
	Documents []ProcessBatchItem `json:"documents" validate:"required,min=1,dive"`
}

type ProcessBatchItem struct {
	DocumentType string `json:"document_type" validate:"required"`
	FilePath     string `json:"file_path" validate:"required"`
}

// ProcessBatchResponse returns per-document extraction output plus the
// comparison run over the batch.
type ProcessBatchResponse struct {
	CaseID            string                    `json:"case_id"`
	Documents         []ProcessDocumentResponse `json:"documents"`
	ComparisonResults ComparisonResultTree      `json:"comparison_results"`
}
