// Package paperminer extracts reading-order text, embedded images and
// bibliographic metadata from PDF papers
package paperminer

import (
	"github.com/pyhub-apps/paperminer/pkg/extractors"
	"github.com/pyhub-apps/paperminer/pkg/layout"
	"github.com/pyhub-apps/paperminer/pkg/metadata"
	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// Re-export types from the pdf, extractors and metadata packages for public API
type (
	Document       = pdf.Document
	Page           = pdf.Page
	BoundingBox    = pdf.BoundingBox
	TextFragment   = pdf.TextFragment
	OutlineEntry   = pdf.OutlineEntry
	LayoutNode     = layout.Node
	DocumentResult = extractors.DocumentResult
	ExtractedImage = extractors.ExtractedImage
	MatchPolicy    = extractors.MatchPolicy
	Option         = extractors.Option
	Opener         = extractors.Opener
	Record         = metadata.Record
	ReferenceList  = metadata.ReferenceList
)

// Bucket match policies
const (
	MatchFirst = extractors.MatchFirst
	MatchAll   = extractors.MatchAll
)

// Re-export option functions
var (
	WithPassword    = extractors.WithPassword
	WithTolerance   = extractors.WithTolerance
	WithMatchPolicy = extractors.WithMatchPolicy
	WithWorkers     = extractors.WithWorkers
	WithLogger      = extractors.WithLogger
	WithImageSink   = extractors.WithImageSink
	WithOpener      = extractors.WithOpener
	WithBuilder     = extractors.WithBuilder
)

// Re-export pipeline entry points
var (
	ExtractPages      = extractors.ExtractPages
	ParseMatchPolicy  = extractors.ParseMatchPolicy
	DetectImageType   = extractors.DetectImageType
	LoadReferenceList = metadata.LoadReferenceList
	NewExtractor      = metadata.NewExtractor
	WriteTSV          = metadata.WriteTSV
)

// Open opens a PDF file and returns a Document
func Open(filepath string) (pdf.Document, error) {
	return pdf.Open(filepath)
}

// OpenWithPassword opens a password-protected PDF file
func OpenWithPassword(filepath string, password string) (pdf.Document, error) {
	return pdf.OpenWithPassword(filepath, password)
}

// GetOutline returns the document's bookmarks as (level, title) pairs,
// empty when the file cannot be read
func GetOutline(filepath string, opts ...Option) []OutlineEntry {
	return extractors.Outline(filepath, opts...)
}
