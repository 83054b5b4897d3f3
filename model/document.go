package model

import "strings"

// Mode identifies how a document was segmented
type Mode int

const (
	// ModeFontHeight detects headers by clustering line heights
	ModeFontHeight Mode = iota
	// ModeIndentBand detects headers by left indentation
	ModeIndentBand
	// ModeHeaderless splits lines into paragraphs from spacing cues only
	ModeHeaderless
)

// String returns a string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeFontHeight:
		return "font-height"
	case ModeIndentBand:
		return "indent-band"
	case ModeHeaderless:
		return "headerless"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name back into a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "font-height", "font", "height":
		return ModeFontHeight, true
	case "indent-band", "indent":
		return ModeIndentBand, true
	case "headerless", "paragraphs":
		return ModeHeaderless, true
	default:
		return ModeFontHeight, false
	}
}

// IsHeaderBased reports whether the mode produces sections
func (m Mode) IsHeaderBased() bool {
	return m == ModeFontHeight || m == ModeIndentBand
}

// Section is a detected header together with the body text that follows it.
type Section struct {
	// Header is the header line text
	Header string `json:"header"`

	// Anchor is the header line's sequence number
	Anchor int `json:"anchor"`

	// Page is the page the header appears on (1-based)
	Page int `json:"page"`

	// Text is the body: every line between this header and the next one,
	// joined with single spaces. Empty when two headers are adjacent.
	Text string `json:"text"`

	// Sentiment is an optional classification label for Text
	Sentiment string `json:"sentiment,omitempty"`
}

// WordCount returns the number of words in the section body
func (s Section) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Paragraph is a paragraph detected without headers
type Paragraph struct {
	// Index is the paragraph's position in the document (0-based)
	Index int `json:"index"`

	// Text is the paragraph content
	Text string `json:"text"`
}

// Document is the segmentation result for one source document
type Document struct {
	// Path identifies the source document (file path or object URL)
	Path string `json:"path"`

	// Mode is the segmentation mode that produced the result
	Mode Mode `json:"-"`

	// Sections holds header-based results
	Sections []Section `json:"sections,omitempty"`

	// Paragraphs holds headerless results
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
}

// NewDocument creates a new empty document
func NewDocument(path string, mode Mode) *Document {
	return &Document{
		Path: path,
		Mode: mode,
	}
}

// AddSection appends a section
func (d *Document) AddSection(s Section) {
	d.Sections = append(d.Sections, s)
}

// AddParagraph appends a paragraph and assigns its index
func (d *Document) AddParagraph(text string) {
	d.Paragraphs = append(d.Paragraphs, Paragraph{
		Index: len(d.Paragraphs),
		Text:  text,
	})
}

// SectionCount returns the number of sections
func (d *Document) SectionCount() int {
	if d == nil {
		return 0
	}
	return len(d.Sections)
}

// ParagraphCount returns the number of headerless paragraphs
func (d *Document) ParagraphCount() int {
	if d == nil {
		return 0
	}
	return len(d.Paragraphs)
}

// Headers returns the section header texts in order
func (d *Document) Headers() []string {
	if d == nil {
		return nil
	}
	headers := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		headers[i] = s.Header
	}
	return headers
}

// FindSection returns the first section with the given header text
func (d *Document) FindSection(header string) *Section {
	if d == nil {
		return nil
	}
	for i := range d.Sections {
		if d.Sections[i].Header == header {
			return &d.Sections[i]
		}
	}
	return nil
}

// ExtractText returns all text content, one block per line
func (d *Document) ExtractText() string {
	if d == nil {
		return ""
	}

	var sb strings.Builder
	for _, s := range d.Sections {
		sb.WriteString(s.Header)
		sb.WriteString("\n")
		if s.Text != "" {
			sb.WriteString(s.Text)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	for _, p := range d.Paragraphs {
		sb.WriteString(p.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ToMarkdown renders sections as level-2 headings and paragraphs as plain blocks
func (d *Document) ToMarkdown() string {
	if d == nil {
		return ""
	}

	var sb strings.Builder
	for _, s := range d.Sections {
		sb.WriteString("## ")
		sb.WriteString(s.Header)
		sb.WriteString("\n\n")
		if s.Text != "" {
			sb.WriteString(s.Text)
			sb.WriteString("\n\n")
		}
	}
	for _, p := range d.Paragraphs {
		sb.WriteString(p.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
