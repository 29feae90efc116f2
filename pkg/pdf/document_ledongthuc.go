package pdf

import (
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucSource implements TextSource using the ledongthuc/pdf library.
// It gives the most accurate glyph positions of the supported backends.
type LedongthucSource struct {
	file   *os.File
	reader *lpdf.Reader
}

// OpenLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenLedongthuc(filepath, password string) (*LedongthucSource, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	r, err := lpdf.NewReaderEncrypted(f, info.Size(), passwordOnce(password))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	return &LedongthucSource{file: f, reader: r}, nil
}

// NumPage returns the total number of pages
func (s *LedongthucSource) NumPage() int {
	return s.reader.NumPage()
}

// PageFragments returns the text runs of a page (1-based)
func (s *LedongthucSource) PageFragments(pageNumber int) (fragments []TextFragment, err error) {
	if pageNumber < 1 || pageNumber > s.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	// Malformed content streams make the decoder panic
	defer func() {
		if r := recover(); r != nil {
			fragments = nil
			err = fmt.Errorf("panic while decoding page %d: %v", pageNumber, r)
		}
	}()

	page := s.reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, nil
	}

	for _, text := range page.Content().Text {
		if text.S == "" {
			continue
		}
		fragments = append(fragments, TextFragment{
			Text:     text.S,
			Font:     text.Font,
			FontSize: text.FontSize,
			X:        text.X,
			Y:        text.Y,
			W:        text.W,
		})
	}

	return fragments, nil
}

// PageBox returns the MediaBox of a page, US Letter when absent
func (s *LedongthucSource) PageBox(pageNumber int) (box BoundingBox) {
	box = BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792}

	defer func() {
		recover()
	}()

	mediaBox := s.reader.Page(pageNumber).V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		box = BoundingBox{
			X0: mediaBox.Index(0).Float64(),
			Y0: mediaBox.Index(1).Float64(),
			X1: mediaBox.Index(2).Float64(),
			Y1: mediaBox.Index(3).Float64(),
		}.Normalize()
	}

	return box
}

// Outline flattens the bookmark tree in document order
func (s *LedongthucSource) Outline() (entries []OutlineEntry) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
		}
	}()

	return flattenLedongthucOutline(s.reader.Outline(), 1, nil)
}

func flattenLedongthucOutline(o lpdf.Outline, level int, out []OutlineEntry) []OutlineEntry {
	for _, child := range o.Child {
		out = append(out, OutlineEntry{Level: level, Title: child.Title})
		out = flattenLedongthucOutline(child, level+1, out)
	}
	return out
}

// Permissions reports the trailer's encryption state and /P flags
func (s *LedongthucSource) Permissions() (encrypted bool, flags int64) {
	defer func() {
		if r := recover(); r != nil {
			encrypted, flags = false, 0
		}
	}()

	enc := s.reader.Trailer().Key("Encrypt")
	if enc.IsNull() {
		return false, 0
	}
	return true, enc.Key("P").Int64()
}

// Close releases the underlying file
func (s *LedongthucSource) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// passwordOnce hands out the user password a single time, then gives up
func passwordOnce(password string) func() string {
	used := false
	return func() string {
		if used {
			return ""
		}
		used = true
		return password
	}
}
