package extractors

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pyhub-apps/paperminer/pkg/layout"
)

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47}
	gifSignature = []byte{0x47, 0x49, 0x46, 0x38}
)

// DetectImageType identifies a raster format from the first four bytes of a stream.
// It returns the file extension, or false when no signature matches.
func DetectImageType(head []byte) (string, bool) {
	if len(head) > 4 {
		head = head[:4]
	}

	switch {
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8}):
		return ".jpeg", true
	case bytes.Equal(head, pngSignature):
		return ".png", true
	case bytes.Equal(head, gifSignature):
		return ".gif", true
	case bytes.HasPrefix(head, []byte{0x42, 0x4D}):
		return ".bmp", true
	case bytes.HasPrefix(head, []byte{0x49, 0x49}):
		return ".tiff", true
	}
	return "", false
}

// ExtractedImage describes an image written to the output folder
type ExtractedImage struct {
	PageNumber int
	Name       string
	Extension  string
	Filename   string
	Width      int
	Height     int
}

// ImageFilename derives the stored name of an image: page<N>_<name><ext>
func ImageFilename(pageNumber int, name, ext string) string {
	return fmt.Sprintf("page%d_%s%s", pageNumber, name, ext)
}

// SaveImage writes the node's stream into folder. It returns the file name,
// or false when the stream is empty, its format is unknown or the write fails.
func SaveImage(node layout.ImageNode, pageNumber int, folder string) (string, bool) {
	if len(node.Stream) == 0 {
		return "", false
	}

	ext, ok := DetectImageType(node.Stream)
	if !ok {
		return "", false
	}

	name := ImageFilename(pageNumber, node.Name, ext)
	if !writeFile(folder, name, node.Stream) {
		return "", false
	}
	return name, true
}

// describeImage reads the stream's dimensions; undecodable headers give 0x0
func describeImage(node layout.ImageNode, pageNumber int, filename string) ExtractedImage {
	ext, _ := DetectImageType(node.Stream)
	img := ExtractedImage{
		PageNumber: pageNumber,
		Name:       node.Name,
		Extension:  ext,
		Filename:   filename,
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(node.Stream)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img
}

// writeFile writes data to folder/name only if folder is an existing directory
func writeFile(folder, name string, data []byte) bool {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return false
	}
	return os.WriteFile(filepath.Join(folder, name), data, 0o644) == nil
}
