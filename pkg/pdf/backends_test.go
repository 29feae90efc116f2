package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/paperminer/internal/pdftest"
)

var sampleOutline = []OutlineEntry{
	{Level: 1, Title: "Sample paper title"},
	{Level: 2, Title: "Introduction"},
}

func samplePaper(t *testing.T) pdftest.Paper {
	return pdftest.Paper{
		Lines: []pdftest.Line{
			{X: 72, Y: 700, Text: "Left column title"},
			{X: 320, Y: 700, Text: "Right column body"},
		},
		Outline: []pdftest.Heading{
			{Title: "Sample paper title", Children: []pdftest.Heading{{Title: "Introduction"}}},
		},
		Image: &pdftest.Image{X: 72, Y: 400, Width: 64, Height: 48, JPEG: pdftest.JPEG(t, 32, 24)},
	}
}

// textAt joins the glyphs drawn from origin x in content order
func textAt(fragments []TextFragment, x float64) string {
	var s string
	for _, f := range fragments {
		if f.X == x {
			s += f.Text
		}
	}
	return s
}

func TestLedongthucSourceReadsFile(t *testing.T) {
	path := samplePaper(t).Write(t, t.TempDir(), "paper.pdf")

	src, err := OpenLedongthuc(path, "")
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 1, src.NumPage())
	assert.Equal(t, 612.0, src.PageBox(1).Width())

	fragments, err := src.PageFragments(1)
	require.NoError(t, err)
	require.NotEmpty(t, fragments)
	assert.Equal(t, "Left column title", textAt(fragments, 72))
	assert.Equal(t, "Right column body", textAt(fragments, 320))
	for _, f := range fragments {
		assert.Equal(t, 700.0, f.Y)
		assert.Equal(t, 12.0, f.FontSize)
	}

	assert.Equal(t, sampleOutline, src.Outline())

	encrypted, _ := src.Permissions()
	assert.False(t, encrypted)
}

func TestDslipakSourceReadsFile(t *testing.T) {
	path := samplePaper(t).Write(t, t.TempDir(), "paper.pdf")

	src, err := OpenDslipak(path, "")
	require.NoError(t, err)
	defer src.Close()

	fragments, err := src.PageFragments(1)
	require.NoError(t, err)
	assert.Equal(t, "Left column title", textAt(fragments, 72))
	assert.Equal(t, "Right column body", textAt(fragments, 320))
	assert.Equal(t, sampleOutline, src.Outline())
}

func TestOpenKeepsRepeatedGlyphsAndReadsImages(t *testing.T) {
	paper := samplePaper(t)
	paper.Lines = append(paper.Lines, pdftest.Line{X: 72, Y: 650, Text: "Book keeping"})
	path := paper.Write(t, t.TempDir(), "paper.pdf")

	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	assert.True(t, doc.IsExtractable())
	page, err := doc.GetPage(0)
	require.NoError(t, err)

	var second []TextFragment
	for _, f := range page.Fragments() {
		if f.Y == 650 {
			second = append(second, f)
		}
	}
	assert.Equal(t, "Book keeping", textAt(second, 72))

	images := page.Images()
	require.Len(t, images, 1)
	assert.Equal(t, "Im1", images[0].Name)
	require.GreaterOrEqual(t, len(images[0].Stream), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, images[0].Stream[:2])
}

func TestPDFCPUImagesReadsDCTStream(t *testing.T) {
	paper := samplePaper(t)
	path := paper.Write(t, t.TempDir(), "paper.pdf")

	images, err := NewPDFCPUImages(path, "").PageImages(1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, paper.Image.JPEG, images[0].Stream)
}

func TestOpenEncryptedPermissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions int32
		extractable bool
	}{
		{"extract bit cleared", -3904, false},
		{"extract bit set", -44, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paper := pdftest.Paper{Encrypted: true, Permissions: tt.permissions}
			path := paper.Write(t, t.TempDir(), "locked.pdf")

			src, err := OpenLedongthuc(path, "")
			require.NoError(t, err)
			encrypted, flags := src.Permissions()
			assert.True(t, encrypted)
			assert.Equal(t, int64(tt.permissions), flags)
			require.NoError(t, src.Close())

			doc, err := Open(path)
			require.NoError(t, err)
			defer doc.Close()
			assert.Equal(t, tt.extractable, doc.IsExtractable())
		})
	}
}
