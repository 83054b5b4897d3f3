package layout

import "github.com/tsawler/sectioner/model"

// SpacingAnnotator computes vertical gaps between a line and its neighbors
type SpacingAnnotator struct{}

// NewSpacingAnnotator creates a spacing annotator
func NewSpacingAnnotator() *SpacingAnnotator {
	return &SpacingAnnotator{}
}

// Annotate sets SpaceBefore and SpaceAfter on every interior line whose
// neighbors share its page, and returns one entry per interior line in
// order: a pointer to the annotated line, or nil when a page boundary
// breaks continuity. The first and last lines are not included.
// Lines are modified in place.
func (a *SpacingAnnotator) Annotate(lines []LineRecord) []*LineRecord {
	if len(lines) < 3 {
		return nil
	}

	entries := make([]*LineRecord, 0, len(lines)-2)
	for i := 1; i < len(lines)-1; i++ {
		prev, cur, next := &lines[i-1], &lines[i], &lines[i+1]
		if prev.Page != cur.Page || cur.Page != next.Page {
			entries = append(entries, nil)
			continue
		}

		before := model.Round(cur.TopOffset-prev.TopOffset, 2)
		after := model.Round(next.TopOffset-cur.TopOffset, 2)
		cur.SpaceBefore = &before
		cur.SpaceAfter = &after
		entries = append(entries, cur)
	}
	return entries
}
