package ocr

import "github.com/tsawler/sectioner/model"

// BlockType tags a detection in an OCR page result
type BlockType string

const (
	// BlockTypePage is a whole-page detection
	BlockTypePage BlockType = "PAGE"
	// BlockTypeLine is a recognized line of text
	BlockTypeLine BlockType = "LINE"
	// BlockTypeWord is a single recognized word
	BlockTypeWord BlockType = "WORD"
)

// BoundingBox is a detection's box as fractions of the page size.
// Fields are pointers so that a missing value can be told apart from zero.
type BoundingBox struct {
	Left   *float64 `json:"Left"`
	Top    *float64 `json:"Top"`
	Width  *float64 `json:"Width"`
	Height *float64 `json:"Height"`
}

// Complete reports whether all four coordinates are present
func (b *BoundingBox) Complete() bool {
	return b != nil && b.Left != nil && b.Top != nil && b.Width != nil && b.Height != nil
}

// Missing returns the names of absent coordinates
func (b *BoundingBox) Missing() []string {
	if b == nil {
		return []string{"Left", "Top", "Width", "Height"}
	}
	var missing []string
	if b.Left == nil {
		missing = append(missing, "Left")
	}
	if b.Top == nil {
		missing = append(missing, "Top")
	}
	if b.Width == nil {
		missing = append(missing, "Width")
	}
	if b.Height == nil {
		missing = append(missing, "Height")
	}
	return missing
}

// BBox converts a complete bounding box to a model.BBox.
// Absent coordinates become zero; check Complete first.
func (b *BoundingBox) BBox() model.BBox {
	var box model.BBox
	if b == nil {
		return box
	}
	if b.Left != nil {
		box.Left = *b.Left
	}
	if b.Top != nil {
		box.Top = *b.Top
	}
	if b.Width != nil {
		box.Width = *b.Width
	}
	if b.Height != nil {
		box.Height = *b.Height
	}
	return box
}

// Geometry holds a detection's location
type Geometry struct {
	BoundingBox *BoundingBox `json:"BoundingBox"`
}

// Block is a single detection in a page result
type Block struct {
	ID         string    `json:"Id,omitempty"`
	BlockType  BlockType `json:"BlockType"`
	Page       int       `json:"Page,omitempty"`
	Text       string    `json:"Text,omitempty"`
	Confidence float64   `json:"Confidence,omitempty"`
	Geometry   *Geometry `json:"Geometry,omitempty"`
}

// IsLine reports whether the block is a LINE detection
func (b Block) IsLine() bool {
	return b.BlockType == BlockTypeLine
}

// DocumentMetadata describes the analyzed document
type DocumentMetadata struct {
	Pages int `json:"Pages"`
}

// PageResult is one page of results returned by the OCR service.
// A long document arrives as several results chained by NextToken.
type PageResult struct {
	JobStatus        string            `json:"JobStatus,omitempty"`
	DocumentMetadata *DocumentMetadata `json:"DocumentMetadata,omitempty"`
	Blocks           []Block           `json:"Blocks"`
	NextToken        string            `json:"NextToken,omitempty"`
}

// LineCount returns the number of LINE blocks in the result
func (p PageResult) LineCount() int {
	n := 0
	for _, b := range p.Blocks {
		if b.IsLine() {
			n++
		}
	}
	return n
}

// NewBlock builds a block of the given type with a complete bounding box.
func NewBlock(blockType BlockType, page int, text string, box model.BBox) Block {
	left, top, width, height := box.Left, box.Top, box.Width, box.Height
	return Block{
		BlockType: blockType,
		Page:      page,
		Text:      text,
		Geometry: &Geometry{
			BoundingBox: &BoundingBox{
				Left:   &left,
				Top:    &top,
				Width:  &width,
				Height: &height,
			},
		},
	}
}

// NewLineBlock builds a LINE block
func NewLineBlock(page int, text string, box model.BBox) Block {
	return NewBlock(BlockTypeLine, page, text, box)
}
