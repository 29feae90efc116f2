package pdf

// BoundingBox represents a rectangular area in PDF page space (origin bottom-left)
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Bottom
	X1 float64 // Right
	Y1 float64 // Top
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Normalize swaps coordinates so that X0 <= X1 and Y0 <= Y1
func (b BoundingBox) Normalize() BoundingBox {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

// Union returns the smallest box enclosing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// TextFragment is a positioned run of glyphs as reported by a backend.
// X/Y is the baseline origin, W the advance width.
type TextFragment struct {
	Text     string
	Font     string
	FontSize float64
	X        float64
	Y        float64
	W        float64
}

// GetBBox approximates the fragment's box from its baseline and font size
func (f TextFragment) GetBBox() BoundingBox {
	return BoundingBox{
		X0: f.X,
		Y0: f.Y,
		X1: f.X + f.W,
		Y1: f.Y + f.FontSize,
	}.Normalize()
}

// RawImage is an image XObject's stream as handed out by the image backend
type RawImage struct {
	Name   string
	Stream []byte
	BBox   BoundingBox
}

// OutlineEntry is one bookmark of the document outline.
// Top-level bookmarks have Level 1.
type OutlineEntry struct {
	Level int
	Title string
}

// Helper functions
func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
