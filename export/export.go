// Package export writes segmentation results in formats suited to
// indexing and review: JSON, JSON Lines, CSV, TSV, Markdown and plain text.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/sectioner/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatJSON exports documents as a JSON array
	FormatJSON Format = iota
	// FormatJSONL exports one record per section or paragraph
	FormatJSONL
	// FormatCSV exports records as comma-separated values
	FormatCSV
	// FormatTSV exports records as tab-separated values
	FormatTSV
	// FormatMarkdown renders documents as Markdown
	FormatMarkdown
	// FormatText renders documents as plain text
	FormatText
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatMarkdown:
		return "markdown"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseFormat converts a format name into a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown export format %q", name)
	}
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the export format
	Format Format

	// IncludeHeader includes a header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint enables indentation for JSON formats
	PrettyPrint bool

	// Delimiter is the CSV field separator (TSV always uses a tab)
	Delimiter rune
}

// DefaultConfig returns sensible defaults for export configuration
func DefaultConfig() Config {
	return Config{
		Format:        FormatJSON,
		IncludeHeader: true,
		PrettyPrint:   true,
		Delimiter:     ',',
	}
}

// ConfigFor returns the default configuration with the given format
func ConfigFor(format Format) Config {
	config := DefaultConfig()
	config.Format = format
	if format == FormatTSV {
		config.Delimiter = '\t'
	}
	return config
}

// Exporter handles exporting documents to various formats
type Exporter struct {
	config Config
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{
		config: DefaultConfig(),
	}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{
		config: config,
	}
}

// Record is one section or paragraph prepared for row-oriented export
type Record struct {
	Path      string `json:"path"`
	Mode      string `json:"mode"`
	Kind      string `json:"kind"`
	Index     int    `json:"index"`
	Header    string `json:"header,omitempty"`
	Anchor    int    `json:"anchor,omitempty"`
	Page      int    `json:"page,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
	WordCount int    `json:"word_count"`
	Text      string `json:"text"`
}

// Record kinds
const (
	KindSection   = "section"
	KindParagraph = "paragraph"
)

// csvColumns is the fixed column order for CSV/TSV
var csvColumns = []string{"path", "mode", "kind", "index", "header", "anchor", "page", "sentiment", "word_count", "text"}

// exportedDocument is the JSON form of a document, with the mode by name
type exportedDocument struct {
	Path       string            `json:"path"`
	Mode       string            `json:"mode"`
	Sections   []model.Section   `json:"sections,omitempty"`
	Paragraphs []model.Paragraph `json:"paragraphs,omitempty"`
}

// Records flattens documents into one record per section or paragraph
func Records(docs []*model.Document) []Record {
	var records []Record
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		mode := doc.Mode.String()
		for i, s := range doc.Sections {
			records = append(records, Record{
				Path:      doc.Path,
				Mode:      mode,
				Kind:      KindSection,
				Index:     i,
				Header:    s.Header,
				Anchor:    s.Anchor,
				Page:      s.Page,
				Sentiment: s.Sentiment,
				WordCount: s.WordCount(),
				Text:      s.Text,
			})
		}
		for _, p := range doc.Paragraphs {
			records = append(records, Record{
				Path:      doc.Path,
				Mode:      mode,
				Kind:      KindParagraph,
				Index:     p.Index,
				WordCount: len(strings.Fields(p.Text)),
				Text:      p.Text,
			})
		}
	}
	return records
}

// Export exports documents to the specified writer
func (e *Exporter) Export(docs []*model.Document, w io.Writer) error {
	switch e.config.Format {
	case FormatJSON:
		return e.exportJSON(docs, w)
	case FormatJSONL:
		return e.exportJSONL(docs, w)
	case FormatCSV, FormatTSV:
		return e.exportCSV(docs, w)
	case FormatMarkdown:
		return e.exportRendered(docs, w, "# ", (*model.Document).ToMarkdown)
	case FormatText:
		return e.exportRendered(docs, w, "", (*model.Document).ExtractText)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile exports documents to a file
func (e *Exporter) ExportToFile(docs []*model.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(docs, f)
}

// ExportToString exports documents to a string
func (e *Exporter) ExportToString(docs []*model.Document) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(docs, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// exportJSON exports documents as a JSON array
func (e *Exporter) exportJSON(docs []*model.Document, w io.Writer) error {
	exported := make([]exportedDocument, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		exported = append(exported, exportedDocument{
			Path:       doc.Path,
			Mode:       doc.Mode.String(),
			Sections:   doc.Sections,
			Paragraphs: doc.Paragraphs,
		})
	}

	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(exported)
}

// exportJSONL exports one JSON record per line
func (e *Exporter) exportJSONL(docs []*model.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for i, record := range Records(docs) {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return nil
}

// exportCSV exports records as CSV or TSV
func (e *Exporter) exportCSV(docs []*model.Document, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.Delimiter
	if e.config.Format == FormatTSV {
		csvWriter.Comma = '\t'
	}
	if csvWriter.Comma == 0 {
		csvWriter.Comma = ','
	}

	if e.config.IncludeHeader {
		if err := csvWriter.Write(csvColumns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i, r := range Records(docs) {
		row := []string{
			r.Path,
			r.Mode,
			r.Kind,
			strconv.Itoa(r.Index),
			r.Header,
			strconv.Itoa(r.Anchor),
			strconv.Itoa(r.Page),
			r.Sentiment,
			strconv.Itoa(r.WordCount),
			r.Text,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// exportRendered writes each document's rendering, titled by its path
func (e *Exporter) exportRendered(docs []*model.Document, w io.Writer, titlePrefix string, render func(*model.Document) string) error {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if len(docs) > 1 {
			if _, err := fmt.Fprintf(w, "%s%s\n\n", titlePrefix, doc.Path); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, render(doc)); err != nil {
			return err
		}
	}
	return nil
}
