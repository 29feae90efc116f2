// Package pdftest writes small single-page PDF files for tests.
//
// Fonts are the standard Helvetica without a /Widths array, so backends
// report every glyph of a run at the run origin.
package pdftest

import (
	"bytes"
	"crypto/md5"
	"crypto/rc4"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Line is one text run drawn at (X, Y) in 12pt Helvetica
type Line struct {
	X, Y float64
	Text string
}

// Heading is an outline item; Children are nested one level deeper
type Heading struct {
	Title    string
	Children []Heading
}

// Image is a DCT encoded XObject drawn as /Im1
type Image struct {
	X, Y, Width, Height float64
	JPEG                []byte
}

// Paper describes the fixture. An encrypted paper declares the RC4 standard
// security handler with an empty user password and the given /P flags; it
// carries no content stream or outline because nothing in it is encrypted.
type Paper struct {
	Lines       []Line
	Outline     []Heading
	Image       *Image
	Encrypted   bool
	Permissions int32
}

// passwordPad is the padding string of the standard security handler
var passwordPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41, 0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80, 0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

var fileID = []byte("paperminer-fixt!")

// Write stores the paper under dir and returns its path
func (p Paper) Write(tb testing.TB, dir, name string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, p.Bytes(), 0o644))
	return path
}

// Bytes renders the paper as a complete PDF file
func (p Paper) Bytes() []byte {
	w := &writer{}
	w.buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	const (
		catalogNr = 1
		pagesNr   = 2
		pageNr    = 3
		fontNr    = 4
	)
	next := fontNr + 1
	alloc := func() int {
		n := next
		next++
		return n
	}

	contentNr, imageNr, outlinesNr := 0, 0, 0
	var items []*outlineItem
	if !p.Encrypted {
		contentNr = alloc()
		if p.Image != nil {
			imageNr = alloc()
		}
		if len(p.Outline) > 0 {
			outlinesNr = alloc()
			items = allocOutline(p.Outline, alloc)
		}
	}

	catalog := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", pagesNr)
	if outlinesNr != 0 {
		catalog += fmt.Sprintf(" /Outlines %d 0 R /PageMode /UseOutlines", outlinesNr)
	}
	w.object(catalogNr, catalog+" >>")
	w.object(pagesNr, fmt.Sprintf("<< /Type /Pages /Kids [%d 0 R] /Count 1 >>", pageNr))

	resources := fmt.Sprintf("<< /Font << /F1 %d 0 R >>", fontNr)
	if imageNr != 0 {
		resources += fmt.Sprintf(" /XObject << /Im1 %d 0 R >>", imageNr)
	}
	resources += " >>"
	page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s", pagesNr, resources)
	if contentNr != 0 {
		page += fmt.Sprintf(" /Contents %d 0 R", contentNr)
	}
	w.object(pageNr, page+" >>")
	w.object(fontNr, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	if contentNr != 0 {
		w.stream(contentNr, "", []byte(p.content()))
	}
	if imageNr != 0 {
		img := p.Image
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(img.JPEG))
		if err != nil {
			panic(fmt.Sprintf("pdftest: invalid JPEG: %v", err))
		}
		cs := "/DeviceGray"
		if cfg.ColorModel != color.GrayModel {
			cs = "/DeviceRGB"
		}
		dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace %s /BitsPerComponent 8 /Filter /DCTDecode",
			cfg.Width, cfg.Height, cs)
		w.stream(imageNr, dict, img.JPEG)
	}
	if outlinesNr != 0 {
		w.object(outlinesNr, fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count %d >>",
			items[0].nr, items[len(items)-1].nr, countItems(items)))
		w.outline(items, outlinesNr, pageNr)
	}

	trailer := fmt.Sprintf("/Size %d /Root %d 0 R /ID [<%x> <%x>]", next, catalogNr, fileID, fileID)
	if p.Encrypted {
		owner := bytes.Repeat([]byte{0x4F}, 32)
		trailer += fmt.Sprintf(" /Encrypt << /Filter /Standard /V 1 /R 2 /Length 40 /O <%x> /U <%x> /P %d >>",
			owner, userEntry(owner, p.Permissions), p.Permissions)
	}
	return w.finish(next, trailer)
}

func (p Paper) content() string {
	var b strings.Builder
	if p.Image != nil {
		img := p.Image
		fmt.Fprintf(&b, "q %s 0 0 %s %s %s cm /Im1 Do Q\n", num(img.Width), num(img.Height), num(img.X), num(img.Y))
	}
	for _, l := range p.Lines {
		fmt.Fprintf(&b, "BT /F1 12 Tf %s %s Td (%s) Tj ET\n", num(l.X), num(l.Y), escape(l.Text))
	}
	return b.String()
}

// userEntry computes /U for an empty user password (revision 2)
func userEntry(owner []byte, perms int32) []byte {
	h := md5.New()
	h.Write(passwordPad)
	h.Write(owner)
	P := uint32(perms)
	h.Write([]byte{byte(P), byte(P >> 8), byte(P >> 16), byte(P >> 24)})
	h.Write(fileID)
	key := h.Sum(nil)[:5]

	c, err := rc4.NewCipher(key)
	if err != nil {
		panic(err)
	}
	u := make([]byte, len(passwordPad))
	c.XORKeyStream(u, passwordPad)
	return u
}

type outlineItem struct {
	nr       int
	title    string
	children []*outlineItem
}

func allocOutline(headings []Heading, alloc func() int) []*outlineItem {
	items := make([]*outlineItem, 0, len(headings))
	for _, h := range headings {
		it := &outlineItem{nr: alloc(), title: h.Title}
		it.children = allocOutline(h.Children, alloc)
		items = append(items, it)
	}
	return items
}

// countItems counts the open descendants of a level
func countItems(items []*outlineItem) int {
	n := len(items)
	for _, it := range items {
		n += countItems(it.children)
	}
	return n
}

type writer struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (w *writer) object(nr int, body string) {
	if w.offsets == nil {
		w.offsets = map[int]int{}
	}
	w.offsets[nr] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", nr, body)
}

func (w *writer) stream(nr int, dict string, data []byte) {
	if w.offsets == nil {
		w.offsets = map[int]int{}
	}
	w.offsets[nr] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", nr, strings.TrimSpace(dict), len(data))
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
}

func (w *writer) outline(items []*outlineItem, parent, page int) {
	for i, it := range items {
		body := fmt.Sprintf("<< /Title (%s) /Parent %d 0 R", escape(it.title), parent)
		if i > 0 {
			body += fmt.Sprintf(" /Prev %d 0 R", items[i-1].nr)
		}
		if i < len(items)-1 {
			body += fmt.Sprintf(" /Next %d 0 R", items[i+1].nr)
		}
		if len(it.children) > 0 {
			body += fmt.Sprintf(" /First %d 0 R /Last %d 0 R /Count %d",
				it.children[0].nr, it.children[len(it.children)-1].nr, countItems(it.children))
		}
		body += fmt.Sprintf(" /Dest [%d 0 R /Fit] >>", page)
		w.object(it.nr, body)
		w.outline(it.children, it.nr, page)
	}
}

// finish appends the cross-reference table and trailer
func (w *writer) finish(size int, trailer string) []byte {
	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", size)
	w.buf.WriteString("0000000000 65535 f \n")
	for nr := 1; nr < size; nr++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[nr])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return w.buf.Bytes()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// JPEG encodes a w×h gray gradient
func JPEG(tb testing.TB, w, h int) []byte {
	tb.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 255 / (w + h))})
		}
	}
	var buf bytes.Buffer
	require.NoError(tb, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}
