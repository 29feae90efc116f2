// Package layout models the per-page tree of text boxes, lines, images and
// figures that the extraction pipeline walks in document order.
package layout

import (
	"strings"

	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// Node is one element of a page's layout tree. The set of variants is closed:
// TextContainer, TextRun, ImageNode, FigureContainer and RawChar.
type Node interface {
	GetBBox() pdf.BoundingBox
	layoutNode()
}

// TextContainer is a block of consecutive lines sharing a column
type TextContainer struct {
	BBox  pdf.BoundingBox
	Lines []TextRun
}

// TextRun is a single line of text
type TextRun struct {
	BBox pdf.BoundingBox
	Text string
}

// ImageNode is an embedded raster image and its raw stream
type ImageNode struct {
	BBox   pdf.BoundingBox
	Name   string
	Stream []byte
}

// FigureContainer groups nodes drawn inside a figure
type FigureContainer struct {
	BBox     pdf.BoundingBox
	Children []Node
}

// RawChar is a glyph that did not join any text line
type RawChar struct {
	BBox pdf.BoundingBox
	Text string
}

func (TextContainer) layoutNode()   {}
func (TextRun) layoutNode()         {}
func (ImageNode) layoutNode()       {}
func (FigureContainer) layoutNode() {}
func (RawChar) layoutNode()         {}

// GetBBox returns the container's bounding box
func (t TextContainer) GetBBox() pdf.BoundingBox { return t.BBox }

// GetBBox returns the line's bounding box
func (t TextRun) GetBBox() pdf.BoundingBox { return t.BBox }

// GetBBox returns the image's bounding box
func (i ImageNode) GetBBox() pdf.BoundingBox { return i.BBox }

// GetBBox returns the figure's bounding box
func (f FigureContainer) GetBBox() pdf.BoundingBox { return f.BBox }

// GetBBox returns the glyph's bounding box
func (c RawChar) GetBBox() pdf.BoundingBox { return c.BBox }

// GetText returns every line followed by a newline
func (t TextContainer) GetText() string {
	var b strings.Builder
	for _, line := range t.Lines {
		b.WriteString(line.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// GetText returns the line's text
func (t TextRun) GetText() string { return t.Text }

// GetText returns the glyph's text
func (c RawChar) GetText() string { return c.Text }
