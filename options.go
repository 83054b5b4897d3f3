package sectioner

import (
	"github.com/tsawler/sectioner/layout"
	"github.com/tsawler/sectioner/model"
)

// SegmentOptions holds configuration for segmentation.
type SegmentOptions struct {
	// Mode selects header detection or headerless assembly
	mode model.Mode

	// Header detection
	indentBand layout.IndentBandConfig
	duplicates layout.DuplicatePolicy

	// Running header/footer filtering
	excludeRunning bool
	running        layout.RunningLineConfig

	// Headerless paragraphs end at lines ending in a period
	byPeriod bool

	// Line extraction
	normalizeText bool

	// OCR recognition language for image input
	language string

	// Path overrides the document path recorded in results
	path string
}

// defaultOptions returns the default segmentation options.
func defaultOptions() SegmentOptions {
	return SegmentOptions{
		mode:           model.ModeFontHeight,
		indentBand:     layout.DefaultIndentBandConfig(),
		duplicates:     layout.KeepAll,
		excludeRunning: false,
		running:        layout.DefaultRunningLineConfig(),
		normalizeText:  true,
	}
}

// clone creates a copy of SegmentOptions.
func (o SegmentOptions) clone() SegmentOptions {
	return SegmentOptions{
		mode:           o.mode,
		indentBand:     o.indentBand,
		duplicates:     o.duplicates,
		excludeRunning: o.excludeRunning,
		running:        o.running,
		byPeriod:       o.byPeriod,
		normalizeText:  o.normalizeText,
		language:       o.language,
		path:           o.path,
	}
}

// extractConfig returns the line extraction settings
func (o SegmentOptions) extractConfig() layout.ExtractConfig {
	return layout.ExtractConfig{NormalizeText: o.normalizeText}
}
