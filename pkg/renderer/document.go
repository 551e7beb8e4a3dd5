package renderer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// DocumentTitle is the title of structured reports.
const DocumentTitle = "Memory report"

// ErrSchemaViolation is returned when an encoded document does not match
// the report schema.
var ErrSchemaViolation = errors.New("report does not match schema")

//go:embed schema/report.schema.json
var reportSchema []byte

// Document is the machine-readable form of a comparison.
type Document struct {
	Title string        `json:"title" yaml:"title"`
	Rows  []DocumentRow `json:"rows"  yaml:"rows"`
}

// DocumentRow holds all size categories of one compiled unit.
type DocumentRow struct {
	Index      int                `json:"index"      yaml:"index"`
	Filename   string             `json:"filename"   yaml:"filename"`
	Categories []DocumentCategory `json:"categories" yaml:"categories"`
}

// DocumentCategory is one size category. IncreasePercent is nil when the
// change is not a finite number; Increase always carries the display text.
type DocumentCategory struct {
	Name            string   `json:"name"             yaml:"name"`
	Column          string   `json:"column"           yaml:"column"`
	From            float64  `json:"from"             yaml:"from"`
	To              float64  `json:"to"               yaml:"to"`
	IncreasePercent *float64 `json:"increase_percent" yaml:"increase_percent"`
	Increase        string   `json:"increase"         yaml:"increase"`
}

// BuildDocument converts a comparison into a Document.
func BuildDocument(update, main *sizereport.Report, d *delta.Report) Document {
	doc := Document{
		Title: DocumentTitle,
		Rows:  make([]DocumentRow, 0, d.Len()),
	}

	for _, row := range d.Rows {
		docRow := DocumentRow{
			Index:      row.Index,
			Filename:   row.Filename,
			Categories: make([]DocumentCategory, 0, len(sizereport.Categories)),
		}

		for _, cat := range sizereport.Categories {
			p, ok := d.RowValue(row, cat.Column)
			if !ok {
				continue
			}

			from, _ := main.Number(row.MainIndex, cat.Column)
			to, _ := update.Number(row.Index, cat.Column)

			docCat := DocumentCategory{
				Name:     cat.Label,
				Column:   cat.Column,
				From:     from,
				To:       to,
				Increase: delta.FormatPercent(p),
			}

			if !math.IsNaN(p) && !math.IsInf(p, 0) {
				docCat.IncreasePercent = &p
			}

			docRow.Categories = append(docRow.Categories, docCat)
		}

		doc.Rows = append(doc.Rows, docRow)
	}

	return doc
}

// EncodeJSON encodes doc as indented JSON and validates it against the
// embedded report schema.
func EncodeJSON(doc Document) ([]byte, error) {
	data, marshalErr := json.MarshalIndent(doc, "", "  ")
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal json report: %w", marshalErr)
	}

	validateErr := ValidateJSON(data)
	if validateErr != nil {
		return nil, validateErr
	}

	return append(data, '\n'), nil
}

// ValidateJSON checks data against the embedded report schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(reportSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate json report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		problems = append(problems, resultErr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}

// EncodeYAML encodes doc as YAML.
func EncodeYAML(doc Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	encodeErr := enc.Encode(doc)
	if encodeErr != nil {
		return nil, fmt.Errorf("marshal yaml report: %w", encodeErr)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("marshal yaml report: %w", closeErr)
	}

	return buf.Bytes(), nil
}
