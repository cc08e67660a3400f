package extraction

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

// FieldSpec describes one expected output field. Leaves carry a default
// used when the model omits the field; nodes with Children map to nested
// objects.
type FieldSpec struct {
	Name     string
	Default  any
	Children []FieldSpec
}

// Spec is the extraction recipe for one document type: the prompt sent to
// the model and the fields expected back.
type Spec struct {
	DocumentType string
	Prompt       string
	Fields       []FieldSpec
}

// MapFields shapes the model's structured output into the expected field
// set, filling defaults for anything missing.
func (s Spec) MapFields(structured map[string]any) models.ExtractedFieldSet {
	if structured == nil {
		return models.ExtractedFieldSet{}
	}
	return mapFields(s.Fields, structured)
}

func mapFields(specs []FieldSpec, structured map[string]any) models.ExtractedFieldSet {
	out := make(models.ExtractedFieldSet, len(specs))

	for _, spec := range specs {
		if len(spec.Children) > 0 {
			nested, _ := structured[spec.Name].(map[string]any)
			out[spec.Name] = map[string]any(mapFields(spec.Children, nested))
			continue
		}

		value, ok := structured[spec.Name]
		if !ok || value == nil {
			value = spec.Default
		}
		out[spec.Name] = value
	}

	return out
}

// GetSpec returns the extraction spec for a document type. The type name is
// normalized the same way rule-table names are.
func GetSpec(documentType string) (Spec, error) {
	normalized := strings.ReplaceAll(strings.ToLower(documentType), " ", "_")

	spec, ok := specs[normalized]
	if !ok {
		return Spec{}, fmt.Errorf("no extractor available for document type: %s", normalized)
	}

	return spec, nil
}

var specs = map[string]Spec{
	models.DocumentTypeSanctionLetter: {
		DocumentType: models.DocumentTypeSanctionLetter,
		Prompt: `Extract the following information from the Sanction Letter document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "customerName": "Full name of the customer/borrower",
    "loanAmount": "The sanctioned loan amount (numeric value only)",
    "propertyAddress": "Complete address of the property",
    "leadID": "The unique lead ID number",
    "propertyOwnerName": "Name of the property owner",
    "emiAmount": "The EMI amount (numeric value only)",
    "tenure": "Loan tenure in months (numeric value only)",
    "ROI": "Rate of interest percentage (numeric value only)",
    "borrowersSignature": "Whether borrower's signature is present (true/false)",
    "authorizedSignature": "Whether authorized signature is present (true/false)"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
For numeric values, extract only the numbers without currency symbols or text.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "customerName", Default: ""},
			{Name: "loanAmount", Default: ""},
			{Name: "propertyAddress", Default: ""},
			{Name: "leadID", Default: ""},
			{Name: "propertyOwnerName", Default: ""},
			{Name: "emiAmount", Default: ""},
			{Name: "tenure", Default: ""},
			{Name: "ROI", Default: ""},
			{Name: "borrowersSignature", Default: false},
			{Name: "authorizedSignature", Default: false},
		},
	},
	models.DocumentTypeLegalReport: {
		DocumentType: models.DocumentTypeLegalReport,
		Prompt: `Extract the following information from the Legal Report document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "leadID": "The unique lead ID number",
    "customerName": "Full name of the customer/borrower",
    "propertyOwnerName": "Name of the property owner",
    "propertyAddress": "Complete address of the property",
    "boundaries": "The four boundaries of the property (North, South, East, West)",
    "legalVendorSignature": "Whether legal vendor signature is present (true/false)"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
For the boundaries, capture the complete description of what exists on each side of the property.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "leadID", Default: ""},
			{Name: "customerName", Default: ""},
			{Name: "propertyOwnerName", Default: ""},
			{Name: "propertyAddress", Default: ""},
			{Name: "boundaries", Default: ""},
			{Name: "legalVendorSignature", Default: false},
		},
	},
	models.DocumentTypeRepaymentKit: {
		DocumentType: models.DocumentTypeRepaymentKit,
		Prompt: `Extract the following information from the Repayment Kit document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "accountHolderName": "Full name of the account holder",
    "accountNumber": "Complete bank account number",
    "ifscCode": "IFSC code of the bank",
    "accountType": "Type of account (Savings/Current)",
    "customerSignature": "Whether customer signature is present (true/false)",
    "inFavour": "Name of the entity in whose favor the repayment is set up",
    "enachSpdc": "Details about ENACH/SPDC setup"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
Pay special attention to bank details and mandate information.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "accountHolderName", Default: ""},
			{Name: "accountNumber", Default: ""},
			{Name: "ifscCode", Default: ""},
			{Name: "accountType", Default: ""},
			{Name: "customerSignature", Default: false},
			{Name: "inFavour", Default: ""},
			{Name: "enachSpdc", Default: ""},
		},
	},
	models.DocumentTypeKYC: {
		DocumentType: models.DocumentTypeKYC,
		Prompt: `Extract the following information from the KYC document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "name": "Full name of the person",
    "dob": "Date of birth in DD/MM/YYYY format",
    "gender": "Gender (Male/Female/Other)",
    "address": "Complete residential address",
    "kycNumber": "KYC document number (Aadhaar/PAN/etc.)",
    "aadhaarNumber": "Aadhaar number, usually masked with the first 8 digits abstracted; take the last 4 digits"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
For Aadhaar numbers, check if they are already masked. If not, indicate that the first 8 digits should be masked.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "name", Default: ""},
			{Name: "dob", Default: ""},
			{Name: "gender", Default: ""},
			{Name: "address", Default: ""},
			{Name: "kycNumber", Default: ""},
			{Name: "aadhaarNumber", Default: ""},
		},
	},
	models.DocumentTypeVettingReport: {
		DocumentType: models.DocumentTypeVettingReport,
		Prompt: `Extract the following information from the Vetting Report document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "date": "Date of the vetting report in DD/MM/YYYY format",
    "customerName": "Full name of the customer/borrower",
    "legalVendorSignature": "Whether legal vendor signature is present (true/false)"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
Pay special attention to dates and signatures.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "date", Default: ""},
			{Name: "customerName", Default: ""},
			{Name: "legalVendorSignature", Default: false},
		},
	},
	models.DocumentTypeAnnexure: {
		DocumentType: models.DocumentTypeAnnexure,
		Prompt: `Extract the following information from the Annexure document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "date": "Date of the annexure in DD/MM/YYYY format",
    "leadID": "The unique lead ID number",
    "branch": "Branch name or code",
    "customerName": "Full name of the customer/borrower, usually in the consent form starting with I am ...",
    "authorizedSignature": "Whether authorized signature is present (true/false)"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
Pay special attention to dates, IDs, and signatures.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "date", Default: ""},
			{Name: "leadID", Default: ""},
			{Name: "branch", Default: ""},
			{Name: "customerName", Default: ""},
			{Name: "authorizedSignature", Default: false},
		},
	},
	models.DocumentTypeMemorandumOfTitle: {
		DocumentType: models.DocumentTypeMemorandumOfTitle,
		Prompt: `Extract the following information from the Memorandum of Title document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "customerName": "Full name of the customer/borrower",
    "loanAmount": "The loan amount (numeric value only)",
    "fourBoundaries": "The four boundaries of the property (North, South, East, West)",
    "propertyAddress": "Complete address of the property",
    "inFavour": "Name of the entity in whose favor the memorandum is created"
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
For the boundaries, capture the complete description of what exists on each side of the property.
Check if "Cholamandalam Investment and finance company limited" is mentioned as the entity in favor.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "customerName", Default: ""},
			{Name: "loanAmount", Default: ""},
			{Name: "fourBoundaries", Default: ""},
			{Name: "propertyAddress", Default: ""},
			{Name: "inFavour", Default: ""},
		},
	},
	models.DocumentTypeAgreement: {
		DocumentType: models.DocumentTypeAgreement,
		Prompt: `Extract the following information from the Agreement document with high accuracy.
Focus on capturing key details and output them in a structured JSON object format:

{
    "dpn": {
        "borrowersSignatures": "Whether borrowers' signatures are present on the revenue stamp (true/false)",
        "leadID": "The unique lead ID number",
        "customerName": "Full name of the customer/borrower",
        "loanAmount": "The loan amount (numeric value only)"
    },
    "schedulePage": {
        "borrowersSignature": "Whether borrowers' signatures are present (true/false)",
        "cholaAuthorizedSignature": "Whether Chola authorized signature is present (true/false)"
    }
}

Ensure the JSON object format is clean, with each extracted field labeled precisely by the above field names.
If a field is not found, return it as an empty string or null to maintain consistency.

Look carefully at all parts of the document including headers, tables, and footnotes.
Pay special attention to signatures and stamps.

Return ONLY the JSON object without any additional text, explanations, or markdown formatting.`,
		Fields: []FieldSpec{
			{Name: "dpn", Children: []FieldSpec{
				{Name: "borrowersSignatures", Default: false},
				{Name: "leadID", Default: ""},
				{Name: "customerName", Default: ""},
				{Name: "loanAmount", Default: ""},
			}},
			{Name: "schedulePage", Children: []FieldSpec{
				{Name: "borrowersSignature", Default: false},
				{Name: "cholaAuthorizedSignature", Default: false},
			}},
		},
	},
}
