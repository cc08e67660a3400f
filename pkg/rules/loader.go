package rules

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Loader parses the comparison rule CSV into a RuleTable. The parsed table
// is cached and re-read only when the file's mtime changes. A missing file
// degrades to an empty table with a warning so comparison stays
// best-effort.
type Loader struct {
	path   string
	logger ectologger.Logger

	mu      sync.Mutex
	table   models.RuleTable
	modTime time.Time
	loaded  bool
}

func NewLoader(logger ectologger.Logger, path string) *Loader {
	return &Loader{
		path:   path,
		logger: logger,
	}
}

// Load returns the rule table, re-parsing the CSV if it changed on disk.
func (l *Loader) Load(ctx context.Context) (models.RuleTable, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err != nil {
		l.logger.WithContext(ctx).WithField("path", l.path).Warn("Comparison rules file not found, using empty rule table")
		return models.RuleTable{}, nil
	}

	if l.loaded && info.ModTime().Equal(l.modTime) {
		return l.table, nil
	}

	table, err := l.parse()
	if err != nil {
		if l.loaded {
			// keep serving the last good table over failing the run
			l.logger.WithContext(ctx).WithError(err).Warn("Failed to re-parse comparison rules, keeping previous table")
			return l.table, nil
		}
		return nil, err
	}

	l.table = table
	l.modTime = info.ModTime()
	l.loaded = true

	l.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"path":           l.path,
		"document_types": len(table),
	}).Info("Loaded comparison rules")

	return l.table, nil
}

func (l *Loader) parse() (models.RuleTable, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open comparison rules file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read comparison rules file")
	}

	table := models.RuleTable{}
	currentDocType := ""

	for _, row := range records {
		if len(row) < 3 {
			continue
		}

		// A non-empty marker cell starts a new document type group;
		// following rows carry it forward.
		if row[0] != "" {
			if strings.Contains(row[1], "Memorandum of title") {
				currentDocType = models.DocumentTypeMemorandumOfTitle
			} else {
				currentDocType = normalizeName(row[1])
			}

			if _, ok := table[currentDocType]; !ok {
				table[currentDocType] = map[string]models.Directive{}
			}
		}

		// header rows and rows outside any group
		if currentDocType == "" || row[2] == "" {
			continue
		}

		fieldName := normalizeName(row[2])
		ruleText := ""
		if len(row) > 3 {
			ruleText = row[3]
		}

		table[currentDocType][fieldName] = ParseDirective(ruleText)
	}

	return table, nil
}

// ParseDirective turns one human-authored rule string into its typed form.
// Unrecognized text becomes DirectiveNone, reported as informational.
func ParseDirective(rule string) models.Directive {
	directive := models.Directive{
		Kind: models.DirectiveNone,
		Rule: rule,
	}

	switch {
	case strings.HasPrefix(rule, "Compare with "):
		target := normalizeName(strings.TrimPrefix(rule, "Compare with "))
		if target == "rapid_system" {
			directive.Kind = models.DirectiveCompareWithReference
		} else {
			directive.Kind = models.DirectiveCompareWithDocument
			directive.TargetDocumentType = target
		}
	case strings.HasPrefix(rule, "Should be "):
		directive.Kind = models.DirectiveCompareWithLiteral
		directive.Literal = strings.TrimPrefix(rule, "Should be ")
	case strings.HasPrefix(rule, "Availability of "):
		directive.Kind = models.DirectiveCheckAvailability
	case strings.HasPrefix(rule, "The date should be "):
		relation := strings.TrimPrefix(rule, "The date should be ")
		if strings.Contains(relation, "after") || strings.Contains(relation, "greater than") {
			parts := strings.Split(relation, " ")
			directive.Kind = models.DirectiveDateRelation
			directive.Relation = models.DateRelationAfter
			directive.TargetDocumentType = strings.ToLower(parts[len(parts)-1])
		}
	}

	return directive
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
