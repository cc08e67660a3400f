package models

// DirectiveKind is the closed set of comparison instructions a rule row can
// carry. Rule text is parsed into a Directive once at load time; dispatch
// never re-parses strings.
type DirectiveKind string

const (
	DirectiveCompareWithDocument  DirectiveKind = "compare_with_document"
	DirectiveCompareWithReference DirectiveKind = "compare_with_reference"
	DirectiveCompareWithLiteral   DirectiveKind = "compare_with_literal"
	DirectiveCheckAvailability    DirectiveKind = "check_availability"
	DirectiveDateRelation         DirectiveKind = "date_relation"
	DirectiveNone                 DirectiveKind = "none"
)

// DateRelation is the temporal relation a date-relation directive asserts.
// Only "after" is supported; rule text implying other relations falls back
// to DirectiveNone.
type DateRelation string

const (
	DateRelationAfter DateRelation = "after"
)

// Directive is the parsed form of one rule row.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// Rule is the original human-authored rule text, kept for reporting.
	Rule string `json:"rule"`

	// TargetDocumentType names the comparison target for
	// compare_with_document and date_relation directives.
	TargetDocumentType string `json:"target_document_type,omitempty"`

	// Literal is the expected value for compare_with_literal directives.
	Literal string `json:"literal,omitempty"`

	// Relation is set for date_relation directives.
	Relation DateRelation `json:"relation,omitempty"`
}

// RuleTable maps document type to field name to directive. Immutable once
// loaded.
type RuleTable map[string]map[string]Directive
