package sectioner

import "strings"

// WarningCode identifies a kind of non-fatal condition
type WarningCode int

const (
	// WarningEmptyDocument indicates no LINE blocks were found
	WarningEmptyDocument WarningCode = iota
	// WarningNoHeaders indicates header detection found nothing
	WarningNoHeaders
	// WarningDuplicateHeaders indicates a header text occurs more than once
	WarningDuplicateHeaders
	// WarningRunningLinesRemoved indicates running headers or footers were dropped
	WarningRunningLinesRemoved
)

// String returns a short name for the code
func (c WarningCode) String() string {
	switch c {
	case WarningEmptyDocument:
		return "empty-document"
	case WarningNoHeaders:
		return "no-headers"
	case WarningDuplicateHeaders:
		return "duplicate-headers"
	case WarningRunningLinesRemoved:
		return "running-lines-removed"
	default:
		return "unknown"
	}
}

// Warning describes a condition where segmentation succeeded but the
// result may not be what the caller expects.
type Warning struct {
	Code    WarningCode
	Message string
}

// String returns the warning as "code: message"
func (w Warning) String() string {
	return w.Code.String() + ": " + w.Message
}

// FormatWarnings joins warnings into a single line for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// HasWarning reports whether warnings contain the given code
func HasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
