package extractors

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/paperminer/pkg/layout"
)

func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		expected string
		ok       bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ".jpeg", true},
		{"jpeg two bytes", []byte{0xFF, 0xD8}, ".jpeg", true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47}, ".png", true},
		{"png longer stream", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, ".png", true},
		{"gif", []byte("GIF89a"), ".gif", true},
		{"bmp", []byte{0x42, 0x4D, 0x00, 0x00}, ".bmp", true},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00}, ".tiff", true},
		{"truncated png", []byte{0x89, 0x50, 0x4E}, "", false},
		{"unknown", []byte{0x01, 0x02, 0x03, 0x04}, "", false},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A}, "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := DetectImageType(tt.head)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, ext)
		})
	}
}

func TestSaveImageWritesFile(t *testing.T) {
	dir := t.TempDir()
	stream := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	name, ok := SaveImage(layout.ImageNode{Name: "Im3", Stream: stream}, 2, dir)
	require.True(t, ok)
	assert.Equal(t, "page2_Im3.jpeg", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, stream, data)
}

func TestSaveImageFailsSilently(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name   string
		node   layout.ImageNode
		folder string
	}{
		{"no stream", layout.ImageNode{Name: "Im0"}, dir},
		{"unknown format", layout.ImageNode{Name: "Im0", Stream: []byte{1, 2, 3, 4}}, dir},
		{"missing folder", layout.ImageNode{Name: "Im0", Stream: []byte{0xFF, 0xD8}}, filepath.Join(dir, "missing")},
		{"folder is a file", layout.ImageNode{Name: "Im0", Stream: []byte{0xFF, 0xD8}}, file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := SaveImage(tt.node, 1, tt.folder)
			assert.False(t, ok)
			assert.Empty(t, name)
		})
	}
}

func TestDescribeImageReadsDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 2))))

	img := describeImage(layout.ImageNode{Name: "Im1", Stream: buf.Bytes()}, 4, "page4_Im1.png")
	assert.Equal(t, ExtractedImage{
		PageNumber: 4,
		Name:       "Im1",
		Extension:  ".png",
		Filename:   "page4_Im1.png",
		Width:      3,
		Height:     2,
	}, img)
}

func TestDescribeImageUndecodable(t *testing.T) {
	img := describeImage(layout.ImageNode{Name: "Im2", Stream: []byte{0x42, 0x4D, 0, 0}}, 1, "page1_Im2.bmp")
	assert.Equal(t, ".bmp", img.Extension)
	assert.Zero(t, img.Width)
	assert.Zero(t, img.Height)
}
