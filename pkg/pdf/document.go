package pdf

import (
	"fmt"
	"sync"
)

// permExtract is the /P bit allowing text and graphics extraction
const permExtract = 1 << 4

// PDFDocument implements the Document interface by pairing a text backend with an image backend
type PDFDocument struct {
	text     TextSource
	images   ImageSource
	filepath string
	pages    []Page
	onError  func(pageNumber int, err error)

	// text backends are not safe for concurrent use
	mu sync.Mutex
}

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	return OpenWithPassword(filepath, "")
}

// OpenWithPassword opens a password-protected PDF file
func OpenWithPassword(filepath string, password string) (Document, error) {
	// Try ledongthuc implementation first as it has the most accurate text extraction
	var text TextSource
	lsrc, err := OpenLedongthuc(filepath, password)
	if err == nil {
		text = lsrc
	} else {
		// Fallback to dslipak implementation
		dsrc, derr := OpenDslipak(filepath, password)
		if derr != nil {
			return nil, fmt.Errorf("no backend could open %s: %w", filepath, err)
		}
		text = dsrc
	}

	return NewDocument(filepath, text, NewPDFCPUImages(filepath, password)), nil
}

// NewDocument assembles a document from explicit backends
func NewDocument(filepath string, text TextSource, images ImageSource) *PDFDocument {
	doc := &PDFDocument{
		text:     text,
		images:   images,
		filepath: filepath,
	}
	doc.initializePages()
	return doc
}

// initializePages initializes all pages in the document
func (d *PDFDocument) initializePages() {
	pageCount := d.text.NumPage()
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		d.pages[i-1] = &documentPage{doc: d, pageNumber: i}
	}
}

// SetErrorHook registers a callback receiving backend failures that pages swallow
func (d *PDFDocument) SetErrorHook(hook func(pageNumber int, err error)) {
	d.onError = hook
}

func (d *PDFDocument) reportError(pageNumber int, err error) {
	if d.onError != nil {
		d.onError(pageNumber, err)
	}
}

// PageCount returns the total number of pages
func (d *PDFDocument) PageCount() int {
	return len(d.pages)
}

// GetPage returns a specific page by index (0-based)
func (d *PDFDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// IsExtractable reports whether content extraction is permitted
func (d *PDFDocument) IsExtractable() bool {
	encrypted, flags := d.text.Permissions()
	if !encrypted {
		return true
	}
	return flags&permExtract != 0
}

// Outline returns the document bookmarks
func (d *PDFDocument) Outline() []OutlineEntry {
	return d.text.Outline()
}

// Close releases resources associated with the document
func (d *PDFDocument) Close() error {
	d.pages = nil
	return d.text.Close()
}

// documentPage is a lazily evaluated page of a PDFDocument
type documentPage struct {
	doc        *PDFDocument
	pageNumber int
}

// GetPageNumber returns the page number (1-based)
func (p *documentPage) GetPageNumber() int {
	return p.pageNumber
}

// GetBBox returns the page bounding box
func (p *documentPage) GetBBox() BoundingBox {
	p.doc.mu.Lock()
	defer p.doc.mu.Unlock()
	return p.doc.text.PageBox(p.pageNumber)
}

// Fragments returns the page's text runs with duplicate glyphs removed.
// Decoding failures yield an empty page.
func (p *documentPage) Fragments() []TextFragment {
	p.doc.mu.Lock()
	fragments, err := p.doc.text.PageFragments(p.pageNumber)
	p.doc.mu.Unlock()
	if err != nil {
		p.doc.reportError(p.pageNumber, err)
		return nil
	}
	return DeduplicateFragments(fragments)
}

// Images returns the page's raw image streams, empty when the image backend fails
func (p *documentPage) Images() []RawImage {
	if p.doc.images == nil {
		return nil
	}
	images, err := p.doc.images.PageImages(p.pageNumber)
	if err != nil {
		p.doc.reportError(p.pageNumber, err)
		return nil
	}
	return images
}
