package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/sectioner/model"
)

// hOCR classes that describe a line of text
var hocrLineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_header":    true,
	"ocr_caption":   true,
	"ocr_textfloat": true,
}

// DecodeHOCR reads hOCR output (as written by Tesseract and other engines)
// and returns one PageResult per ocr_page element. Pixel boxes are
// normalized against the page bbox.
func DecodeHOCR(r io.Reader) ([]PageResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var results []PageResult
	var walkErr error

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			page, err := decodeHOCRPage(n, len(results)+1)
			if err != nil {
				walkErr = err
				return
			}
			results = append(results, page)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if walkErr != nil {
		return nil, walkErr
	}
	if len(results) == 0 {
		return nil, ErrNoPages
	}
	return results, nil
}

// decodeHOCRPage converts a single ocr_page element
func decodeHOCRPage(n *html.Node, pageNumber int) (PageResult, error) {
	pageBox, ok := titleBBox(attr(n, "title"))
	if !ok {
		return PageResult{}, fmt.Errorf("hOCR page %d: missing bbox", pageNumber)
	}
	width := float64(pageBox[2] - pageBox[0])
	height := float64(pageBox[3] - pageBox[1])
	if width <= 0 || height <= 0 {
		return PageResult{}, fmt.Errorf("hOCR page %d: empty bbox", pageNumber)
	}

	normalize := func(b [4]int) model.BBox {
		return model.NewBBoxFromPixels(
			float64(b[0]-pageBox[0]), float64(b[1]-pageBox[1]),
			float64(b[2]-pageBox[0]), float64(b[3]-pageBox[1]),
			width, height)
	}

	result := PageResult{
		Blocks: []Block{NewBlock(BlockTypePage, pageNumber, "", model.NewBBox(0, 0, 1, 1))},
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isHOCRLine(n) {
				text := collapseSpace(textContent(n))
				if text != "" {
					// A line without a usable bbox keeps no geometry and is
					// rejected by line extraction
					line := Block{BlockType: BlockTypeLine, Page: pageNumber, Text: text}
					if box, ok := titleBBox(attr(n, "title")); ok {
						line = NewLineBlock(pageNumber, text, normalize(box))
					}
					result.Blocks = append(result.Blocks, line)
				}
				// Words follow their line so block order matches reading order
				for _, w := range findWords(n) {
					wordText := collapseSpace(textContent(w))
					if box, ok := titleBBox(attr(w, "title")); ok && wordText != "" {
						result.Blocks = append(result.Blocks, NewBlock(BlockTypeWord, pageNumber, wordText, normalize(box)))
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return result, nil
}

// isHOCRLine checks whether an element carries a line-level hOCR class
func isHOCRLine(n *html.Node) bool {
	for _, class := range strings.Fields(attr(n, "class")) {
		if hocrLineClasses[class] {
			return true
		}
	}
	return false
}

// findWords returns the ocrx_word descendants of a line
func findWords(n *html.Node) []*html.Node {
	var words []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, "ocrx_word") {
				words = append(words, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return words
}

// hasClass checks for a class name in the element's class attribute
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// attr returns an attribute value, or "" if absent
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// titleBBox extracts "bbox x0 y0 x1 y1" from an hOCR title attribute
func titleBBox(title string) ([4]int, bool) {
	var box [4]int
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(prop)
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}
		for i := 0; i < 4; i++ {
			v, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return box, false
			}
			box[i] = v
		}
		return box, true
	}
	return box, false
}

// textContent concatenates all text below n
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace trims and collapses runs of whitespace
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
