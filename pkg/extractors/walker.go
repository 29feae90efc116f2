package extractors

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/paperminer/pkg/layout"
)

// Walker turns a page's layout tree into reading-order text and a stream of loose glyphs
type Walker struct {
	folder  string
	pct     float64
	policy  MatchPolicy
	logger  logrus.FieldLogger
	onImage func(ExtractedImage)
}

// NewWalker creates a walker saving images into folder
func NewWalker(folder string, pct float64, policy MatchPolicy, logger logrus.FieldLogger) *Walker {
	if logger == nil {
		logger = discardLogger()
	}
	return &Walker{
		folder: folder,
		pct:    pct,
		policy: policy,
		logger: logger,
	}
}

// OnImage registers a callback invoked for every image written to disk
func (w *Walker) OnImage(fn func(ExtractedImage)) {
	w.onImage = fn
}

// Walk visits nodes in order and returns the page text and char streams.
// Each figure is walked with its own fresh accumulators.
func (w *Walker) Walk(nodes []layout.Node, pageNumber int) (string, string) {
	var textContent, charContent []string
	columns := NewBuckets(w.pct, w.policy)
	rows := NewBuckets(w.pct, w.policy)

	for _, node := range nodes {
		switch n := node.(type) {
		case layout.TextContainer:
			AssignToColumn(columns, n.BBox, n.GetText())
		case layout.TextRun:
			AssignToColumn(columns, n.BBox, n.GetText())
		case layout.RawChar:
			AssignToRow(rows, n.BBox, n.GetText())
		case layout.ImageNode:
			if marker, ok := w.saveImage(n, pageNumber); ok {
				textContent = append(textContent, marker)
			}
		case layout.FigureContainer:
			text, chars := w.Walk(n.Children, pageNumber)
			textContent = append(textContent, text)
			charContent = append(charContent, chars)
		}
	}

	textContent = append(textContent, RenderColumns(columns)...)
	charContent = append(charContent, RenderRows(rows)...)

	return strings.Join(textContent, "\n"), strings.Join(charContent, "\n")
}

// saveImage persists an image and returns the marker spliced into the text
func (w *Walker) saveImage(n layout.ImageNode, pageNumber int) (string, bool) {
	saved, ok := SaveImage(n, pageNumber, w.folder)
	if !ok {
		w.logger.WithFields(logrus.Fields{
			"page":  pageNumber,
			"image": n.Name,
		}).Debug("image skipped")
		return "", false
	}

	if w.onImage != nil {
		w.onImage(describeImage(n, pageNumber, saved))
	}
	return `<img src="` + filepath.Join(w.folder, saved) + `" />`, true
}
