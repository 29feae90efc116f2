package extractors

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/paperminer/pkg/layout"
	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// DocumentResult holds per-page text and char streams, index-aligned by page.
// Index i corresponds to physical page i+1.
type DocumentResult struct {
	PageTexts []string
	PageChars []string
	Outline   []pdf.OutlineEntry
}

// Opener opens a document; it is the seam between the pipeline and the PDF backends
type Opener func(path, password string) (pdf.Document, error)

// Option is a function that modifies extraction behavior
type Option func(*extractionConfig)

type extractionConfig struct {
	password string
	pct      float64
	policy   MatchPolicy
	workers  int
	logger   logrus.FieldLogger
	onImage  func(ExtractedImage)
	opener   Opener
	builder  *layout.Builder
}

// WithPassword sets the user password passed through to the backends
func WithPassword(password string) Option {
	return func(c *extractionConfig) {
		c.password = password
	}
}

// WithTolerance sets the relative bucket tolerance (default 0.2)
func WithTolerance(pct float64) Option {
	return func(c *extractionConfig) {
		c.pct = pct
	}
}

// WithMatchPolicy sets how fragments are assigned to overlapping buckets
func WithMatchPolicy(policy MatchPolicy) Option {
	return func(c *extractionConfig) {
		c.policy = policy
	}
}

// WithWorkers walks up to n pages concurrently; page state is never shared
func WithWorkers(n int) Option {
	return func(c *extractionConfig) {
		c.workers = n
	}
}

// WithLogger sets the logger receiving skipped-image and backend warnings
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *extractionConfig) {
		c.logger = logger
	}
}

// WithImageSink registers a callback for every saved image. Calls are serialized.
func WithImageSink(fn func(ExtractedImage)) Option {
	return func(c *extractionConfig) {
		c.onImage = fn
	}
}

// WithOpener replaces the PDF backends, typically with an in-memory document
func WithOpener(opener Opener) Option {
	return func(c *extractionConfig) {
		c.opener = opener
	}
}

// WithBuilder replaces the layout builder
func WithBuilder(builder *layout.Builder) Option {
	return func(c *extractionConfig) {
		c.builder = builder
	}
}

func newExtractionConfig(opts []Option) *extractionConfig {
	config := &extractionConfig{
		pct:     DefaultTolerance,
		policy:  MatchFirst,
		workers: 1,
		opener:  pdf.OpenWithPassword,
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = discardLogger()
	}
	if config.builder == nil {
		config.builder = layout.NewBuilder()
	}
	if config.workers < 1 {
		config.workers = 1
	}
	return config
}

// ExtractPages opens path, walks every page and saves images into outputFolder.
// It returns false when the file cannot be opened or forbids extraction.
func ExtractPages(path, outputFolder string, opts ...Option) (*DocumentResult, bool) {
	config := newExtractionConfig(opts)
	log := config.logger.WithField("path", path)

	doc, err := config.opener(path, config.password)
	if err != nil {
		log.WithError(err).Warn("cannot open document")
		return nil, false
	}
	defer doc.Close()

	if hooked, ok := doc.(interface {
		SetErrorHook(func(pageNumber int, err error))
	}); ok {
		hooked.SetErrorHook(func(pageNumber int, err error) {
			log.WithField("page", pageNumber).WithError(err).Warn("backend failure")
		})
	}

	if !doc.IsExtractable() {
		log.Warn("document does not permit extraction")
		return nil, false
	}

	walker := NewWalker(outputFolder, config.pct, config.policy, log)
	if config.onImage != nil {
		var mu sync.Mutex
		walker.OnImage(func(img ExtractedImage) {
			mu.Lock()
			defer mu.Unlock()
			config.onImage(img)
		})
	}

	count := doc.PageCount()
	result := &DocumentResult{
		PageTexts: make([]string, count),
		PageChars: make([]string, count),
		Outline:   doc.Outline(),
	}

	var g errgroup.Group
	g.SetLimit(config.workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			page, err := doc.GetPage(i)
			if err != nil {
				log.WithField("page", i+1).WithError(err).Warn("cannot load page")
				return nil
			}
			nodes := config.builder.Build(page.Fragments(), page.Images())
			result.PageTexts[i], result.PageChars[i] = walker.Walk(nodes, page.GetPageNumber())
			return nil
		})
	}
	_ = g.Wait()

	log.WithField("pages", count).Debug("document extracted")
	return result, true
}

// Outline returns the document's bookmarks, empty when the file cannot be read
func Outline(path string, opts ...Option) []pdf.OutlineEntry {
	config := newExtractionConfig(opts)

	doc, err := config.opener(path, config.password)
	if err != nil {
		return nil
	}
	defer doc.Close()

	return doc.Outline()
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
