package layout

import (
	"strings"

	"github.com/tsawler/sectioner/logging"
)

// ParagraphBlock is the text assembled under one header
type ParagraphBlock struct {
	Header Header
	Text   string
}

// Assembler groups line text into sections or paragraphs
type Assembler struct{}

// NewAssembler creates an assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Sections produces one ParagraphBlock per header, in header order. A block holds
// the text of every line whose sequence number lies strictly between the
// header's anchor and the next header's anchor; the last header takes
// every line after its anchor. Texts are joined with a single space.
func (a *Assembler) Sections(headers []Header, lines []LineRecord) []ParagraphBlock {
	if len(headers) == 0 {
		return nil
	}

	blocks := make([]ParagraphBlock, len(headers))
	for i, h := range headers {
		last := i == len(headers)-1
		var next int
		if !last {
			next = headers[i+1].Anchor
		}

		var texts []string
		for _, line := range lines {
			if line.Sequence <= h.Anchor {
				continue
			}
			if !last && line.Sequence >= next {
				continue
			}
			texts = append(texts, line.Text)
		}
		blocks[i] = ParagraphBlock{Header: h, Text: strings.Join(texts, " ")}
	}

	logging.Logger().Debug("assembled sections",
		"headers", len(headers),
		"lines", len(lines))

	return blocks
}

// Paragraphs splits annotated entries into paragraphs. A line whose space
// before exceeds its space after starts a new paragraph. If the following
// entry is narrower than half the starting line it is a wrapped
// continuation and joins the paragraph; otherwise the starting line stands
// alone. Other lines join the open paragraph. nil entries mark a page
// boundary and are skipped.
func (a *Assembler) Paragraphs(entries []*LineRecord) []string {
	var paras []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}

	for i := 0; i < len(entries); i++ {
		line := entries[i]
		if line == nil {
			continue
		}

		if !isBreak(line) {
			current = append(current, line.Text)
			continue
		}

		flush()
		current = append(current, line.Text)

		if i+1 < len(entries) {
			if next := entries[i+1]; next != nil && next.Width < line.Width/2 {
				current = append(current, next.Text)
				i++
				continue
			}
		}
		flush()
	}
	flush()

	logging.Logger().Debug("assembled paragraphs",
		"entries", len(entries),
		"paragraphs", len(paras))

	return paras
}

// SentenceParagraphs splits entries into paragraphs that end at lines
// ending in a period. Markers are skipped. Text after the last such line
// is not returned.
func (a *Assembler) SentenceParagraphs(entries []*LineRecord) []string {
	var paras []string
	var current []string

	for _, line := range entries {
		if line == nil {
			continue
		}
		current = append(current, line.Text)
		if strings.HasSuffix(line.Text, ".") {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}

	logging.Logger().Debug("assembled sentence paragraphs",
		"entries", len(entries),
		"paragraphs", len(paras),
		"dropped", len(current))

	return paras
}

// isBreak reports whether a line starts a new paragraph
func isBreak(line *LineRecord) bool {
	return line.HasSpacing() && *line.SpaceBefore > *line.SpaceAfter
}
