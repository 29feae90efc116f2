package layout

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// Builder assembles a page's layout tree from positioned text fragments
type Builder struct {
	yTolerance float64 // Baseline distance under which fragments share a line
	wordMargin float64 // Gap, relative to font size, that separates words
	columnGap  float64 // Gap, relative to font size, that splits a baseline into segments
	lineMargin float64 // Vertical gap, relative to line height, that still joins a box
}

// NewBuilder creates a builder with default tolerances
func NewBuilder() *Builder {
	return &Builder{
		yTolerance: 2.0,
		wordMargin: 0.15,
		columnGap:  2.5,
		lineMargin: 0.5,
	}
}

// SetTolerances sets the tolerances for line grouping
func (b *Builder) SetTolerances(yTol, wordMargin, columnGap, lineMargin float64) {
	b.yTolerance = yTol
	b.wordMargin = wordMargin
	b.columnGap = columnGap
	b.lineMargin = lineMargin
}

// Build returns the page's top-level nodes: text boxes from top to bottom,
// then isolated glyphs, then a figure holding the page images.
func (b *Builder) Build(fragments []pdf.TextFragment, images []pdf.RawImage) []Node {
	var nodes []Node
	var chars []Node

	runs := b.buildRuns(fragments)
	var lines []TextRun
	for _, run := range runs {
		if utf8.RuneCountInString(run.Text) == 1 {
			chars = append(chars, RawChar(run))
			continue
		}
		lines = append(lines, run)
	}

	for _, box := range b.groupIntoBoxes(lines) {
		nodes = append(nodes, box)
	}
	nodes = append(nodes, chars...)

	if len(images) > 0 {
		figure := FigureContainer{}
		for i, img := range images {
			if i == 0 {
				figure.BBox = img.BBox
			} else {
				figure.BBox = figure.BBox.Union(img.BBox)
			}
			figure.Children = append(figure.Children, ImageNode{
				BBox:   img.BBox,
				Name:   img.Name,
				Stream: img.Stream,
			})
		}
		nodes = append(nodes, figure)
	}

	return nodes
}

// buildRuns groups fragments into baselines, then splits each baseline on wide gaps
func (b *Builder) buildRuns(fragments []pdf.TextFragment) []TextRun {
	if len(fragments) == 0 {
		return nil
	}

	var runs []TextRun
	for _, line := range b.groupIntoLines(fragments) {
		for _, segment := range b.splitSegments(line) {
			if run, ok := b.makeRun(segment); ok {
				runs = append(runs, run)
			}
		}
	}
	return runs
}

// groupIntoLines groups fragments into lines based on baseline position, top line first
func (b *Builder) groupIntoLines(fragments []pdf.TextFragment) [][]pdf.TextFragment {
	sorted := make([]pdf.TextFragment, len(fragments))
	copy(sorted, fragments)

	// PDF coordinates: Y increases upward
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]pdf.TextFragment
	var currentLine []pdf.TextFragment
	currentY := sorted[0].Y

	for _, f := range sorted {
		if abs(f.Y-currentY) > b.yTolerance {
			if len(currentLine) > 0 {
				lines = append(lines, currentLine)
			}
			currentLine = []pdf.TextFragment{f}
			currentY = f.Y
		} else {
			currentLine = append(currentLine, f)
		}
	}

	// Add the last line
	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
	}

	return lines
}

// splitSegments cuts a line wherever the horizontal gap exceeds the column gap
func (b *Builder) splitSegments(line []pdf.TextFragment) [][]pdf.TextFragment {
	var segments [][]pdf.TextFragment
	var current []pdf.TextFragment
	var lastX1 float64

	for _, f := range line {
		if isBlank(f.Text) {
			if len(current) > 0 {
				current = append(current, f)
			}
			continue
		}
		if len(current) > 0 && f.X-lastX1 > b.columnGap*fontSizeOf(f) {
			segments = append(segments, current)
			current = nil
		}
		current = append(current, f)
		lastX1 = f.X + f.W
	}

	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// makeRun joins a segment's fragments, inserting spaces on word gaps
func (b *Builder) makeRun(segment []pdf.TextFragment) (TextRun, bool) {
	var text strings.Builder
	var bbox pdf.BoundingBox
	var lastX1 float64
	started := false
	pendingSpace := false

	for _, f := range segment {
		if isBlank(f.Text) {
			pendingSpace = started
			continue
		}
		if !started {
			bbox = f.GetBBox()
		} else {
			if pendingSpace || f.X-lastX1 > b.wordMargin*fontSizeOf(f) {
				text.WriteString(" ")
			}
			bbox = bbox.Union(f.GetBBox())
		}
		text.WriteString(f.Text)
		lastX1 = f.X + f.W
		started = true
		pendingSpace = false
	}

	if !started {
		return TextRun{}, false
	}
	return TextRun{BBox: bbox, Text: strings.TrimSpace(text.String())}, true
}

// groupIntoBoxes stacks lines into boxes; a line joins the first open box whose
// last line overlaps it horizontally and sits close enough above it.
func (b *Builder) groupIntoBoxes(lines []TextRun) []TextContainer {
	var boxes []TextContainer

	for _, line := range lines {
		joined := false
		for i := range boxes {
			last := boxes[i].Lines[len(boxes[i].Lines)-1]
			if !overlapsHorizontally(last.BBox, line.BBox) {
				continue
			}
			gap := last.BBox.Y0 - line.BBox.Y1
			margin := b.lineMargin * max(line.BBox.Height(), last.BBox.Height())
			if gap < -margin || gap > margin {
				continue
			}
			boxes[i].Lines = append(boxes[i].Lines, line)
			boxes[i].BBox = boxes[i].BBox.Union(line.BBox)
			joined = true
			break
		}
		if !joined {
			boxes = append(boxes, TextContainer{BBox: line.BBox, Lines: []TextRun{line}})
		}
	}

	return boxes
}

// Helper functions
func overlapsHorizontally(a, b pdf.BoundingBox) bool {
	return a.X0 <= b.X1 && b.X0 <= a.X1
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func fontSizeOf(f pdf.TextFragment) float64 {
	if f.FontSize > 0 {
		return f.FontSize
	}
	return 10
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
