// Package model provides the output representation for segmented documents.
//
// This package defines the user-facing data structures produced by the
// segmentation engine. Layout analysis in the layout package works on OCR
// line records; the results are reported as these types, making them the
// primary API for consuming segmented content.
//
// # Document Structure
//
// The [Document] type represents one segmented document:
//
//	doc := model.NewDocument("s3://bucket/report.pdf", model.ModeFontHeight)
//	doc.AddSection(model.Section{Header: "Intro", Anchor: 1, Text: "..."})
//
// A document holds either [Section] values (header-based modes) or
// [Paragraph] values (headerless mode), never both.
//
// # Geometry
//
// OCR services report positions as fractions of the page dimensions with the
// origin at the top-left corner:
//
//   - [BBox] - normalized bounding box with edge, union and overlap helpers
//   - [Round] - decimal rounding used to quantize geometry
package model
