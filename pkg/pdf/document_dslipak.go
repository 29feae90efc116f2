package pdf

import (
	"fmt"
	"os"

	gopdf "github.com/dslipak/pdf"
)

// DsliPakSource implements TextSource using the dslipak/pdf library
type DsliPakSource struct {
	file   *os.File
	reader *gopdf.Reader
}

// OpenDslipak opens a PDF file using the dslipak/pdf library
func OpenDslipak(filepath, password string) (*DsliPakSource, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	r, err := gopdf.NewReaderEncrypted(f, info.Size(), passwordOnce(password))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	return &DsliPakSource{file: f, reader: r}, nil
}

// NumPage returns the total number of pages
func (s *DsliPakSource) NumPage() int {
	return s.reader.NumPage()
}

// PageFragments returns the text runs of a page (1-based)
func (s *DsliPakSource) PageFragments(pageNumber int) (fragments []TextFragment, err error) {
	if pageNumber < 1 || pageNumber > s.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

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

// PageBox returns US Letter; dslipak/pdf pages are not queried for MediaBox
func (s *DsliPakSource) PageBox(pageNumber int) BoundingBox {
	return BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792}
}

// Outline flattens the bookmark tree in document order
func (s *DsliPakSource) Outline() (entries []OutlineEntry) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
		}
	}()

	return flattenDslipakOutline(s.reader.Outline(), 1, nil)
}

func flattenDslipakOutline(o gopdf.Outline, level int, out []OutlineEntry) []OutlineEntry {
	for _, child := range o.Child {
		out = append(out, OutlineEntry{Level: level, Title: child.Title})
		out = flattenDslipakOutline(child, level+1, out)
	}
	return out
}

// Permissions reports the trailer's encryption state and /P flags
func (s *DsliPakSource) Permissions() (encrypted bool, flags int64) {
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
func (s *DsliPakSource) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
