package pdf

// Document is the parsed PDF as seen by the extraction pipeline
type Document interface {
	// PageCount returns the total number of pages
	PageCount() int

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// IsExtractable reports whether the permission flags allow content extraction
	IsExtractable() bool

	// Outline returns the document bookmarks, empty if there are none or they are unreadable
	Outline() []OutlineEntry

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// Fragments returns the positioned text runs drawn on the page
	Fragments() []TextFragment

	// Images returns the raw image streams referenced by the page
	Images() []RawImage
}

// TextSource is a backend able to produce text fragments for a page
type TextSource interface {
	NumPage() int
	PageFragments(pageNumber int) ([]TextFragment, error)
	PageBox(pageNumber int) BoundingBox
	Outline() []OutlineEntry
	Permissions() (encrypted bool, flags int64)
	Close() error
}

// ImageSource is a backend able to produce raw image streams for a page
type ImageSource interface {
	PageImages(pageNumber int) ([]RawImage, error)
}
