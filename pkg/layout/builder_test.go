package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// glyphs lays out s one glyph per fragment starting at x on baseline y
func glyphs(s string, x, y, size float64) []pdf.TextFragment {
	var out []pdf.TextFragment
	w := size * 0.5
	for _, r := range s {
		out = append(out, pdf.TextFragment{Text: string(r), FontSize: size, X: x, Y: y, W: w})
		x += w
	}
	return out
}

func TestBuildSingleBox(t *testing.T) {
	var frags []pdf.TextFragment
	frags = append(frags, glyphs("Hello world", 72, 700, 10)...)
	frags = append(frags, glyphs("second line", 72, 688, 10)...)

	nodes := NewBuilder().Build(frags, nil)
	require.Len(t, nodes, 1)

	box, ok := nodes[0].(TextContainer)
	require.True(t, ok, "expected TextContainer, got %T", nodes[0])
	require.Len(t, box.Lines, 2)
	assert.Equal(t, "Hello world", box.Lines[0].Text)
	assert.Equal(t, "second line", box.Lines[1].Text)
	assert.Equal(t, "Hello world\nsecond line\n", box.GetText())
}

func TestBuildSplitsColumns(t *testing.T) {
	var frags []pdf.TextFragment
	frags = append(frags, glyphs("left column", 50, 700, 10)...)
	frags = append(frags, glyphs("right column", 320, 700, 10)...)

	nodes := NewBuilder().Build(frags, nil)
	require.Len(t, nodes, 2)

	left := nodes[0].(TextContainer)
	right := nodes[1].(TextContainer)
	assert.Equal(t, "left column", left.Lines[0].Text)
	assert.Equal(t, "right column", right.Lines[0].Text)
	assert.Less(t, left.BBox.X1, right.BBox.X0)
}

func TestBuildKeepsBackendSpaces(t *testing.T) {
	frags := []pdf.TextFragment{
		{Text: "Deep", FontSize: 10, X: 10, Y: 500, W: 20},
		{Text: " ", FontSize: 10, X: 30, Y: 500, W: 1},
		{Text: "learning", FontSize: 10, X: 31, Y: 500, W: 40},
	}

	nodes := NewBuilder().Build(frags, nil)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Deep learning", nodes[0].(TextContainer).Lines[0].Text)
}

func TestBuildIsolatedGlyphBecomesRawChar(t *testing.T) {
	var frags []pdf.TextFragment
	frags = append(frags, glyphs("Body text", 72, 700, 10)...)
	frags = append(frags, pdf.TextFragment{Text: "7", FontSize: 8, X: 300, Y: 40, W: 4})

	nodes := NewBuilder().Build(frags, nil)
	require.Len(t, nodes, 2)

	_, isBox := nodes[0].(TextContainer)
	assert.True(t, isBox)
	char, isChar := nodes[1].(RawChar)
	require.True(t, isChar, "expected RawChar, got %T", nodes[1])
	assert.Equal(t, "7", char.Text)
}

func TestBuildWrapsImagesInFigure(t *testing.T) {
	images := []pdf.RawImage{
		{Name: "Im0", Stream: []byte{0xFF, 0xD8, 0xFF, 0xE0}},
		{Name: "Im1", Stream: []byte{0x89, 0x50, 0x4E, 0x47}},
	}

	nodes := NewBuilder().Build(nil, images)
	require.Len(t, nodes, 1)

	figure, ok := nodes[0].(FigureContainer)
	require.True(t, ok)
	require.Len(t, figure.Children, 2)
	assert.Equal(t, "Im0", figure.Children[0].(ImageNode).Name)
	assert.Equal(t, "Im1", figure.Children[1].(ImageNode).Name)
}

func TestBuildSeparatesDistantParagraphs(t *testing.T) {
	var frags []pdf.TextFragment
	frags = append(frags, glyphs("First paragraph", 72, 700, 10)...)
	frags = append(frags, glyphs("Second paragraph", 72, 600, 10)...)

	nodes := NewBuilder().Build(frags, nil)
	assert.Len(t, nodes, 2)
}
