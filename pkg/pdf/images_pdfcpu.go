package pdf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUImages implements ImageSource using pdfcpu.
// The context is read on first use; pdfcpu access is serialized.
type PDFCPUImages struct {
	filepath string
	password string

	once    sync.Once
	mu      sync.Mutex
	ctx     *model.Context
	loadErr error
}

// NewPDFCPUImages creates an image source for the given file
func NewPDFCPUImages(filepath, password string) *PDFCPUImages {
	return &PDFCPUImages{filepath: filepath, password: password}
}

// load reads, validates and optimizes the pdfcpu context.
// Image extraction walks the optimizer's image object table, so an
// unoptimized context yields no images.
func (s *PDFCPUImages) load() {
	f, err := os.Open(s.filepath)
	if err != nil {
		s.loadErr = fmt.Errorf("failed to open file: %w", err)
		return
	}
	defer f.Close()

	// Create pdfcpu configuration
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if s.password != "" {
		conf.UserPW = s.password
		conf.OwnerPW = s.password
	}

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		s.loadErr = fmt.Errorf("failed to read PDF context: %w", err)
		return
	}

	if err := api.ValidateContext(ctx); err != nil {
		s.loadErr = fmt.Errorf("invalid PDF: %w", err)
		return
	}

	if err := api.OptimizeContext(ctx); err != nil {
		s.loadErr = fmt.Errorf("failed to optimize PDF: %w", err)
		return
	}

	s.ctx = ctx
}

// PageImages returns the image streams of a page (1-based), ordered by object number
func (s *PDFCPUImages) PageImages(pageNumber int) (images []RawImage, err error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			images = nil
			err = fmt.Errorf("panic while extracting images of page %d: %v", pageNumber, r)
		}
	}()

	extracted, err := pdfcpu.ExtractPageImages(s.ctx, pageNumber, false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images of page %d: %w", pageNumber, err)
	}

	objNrs := make([]int, 0, len(extracted))
	for objNr := range extracted {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	for _, objNr := range objNrs {
		img := extracted[objNr]
		if img.Reader == nil {
			continue
		}
		data, err := io.ReadAll(img)
		if err != nil {
			continue
		}
		images = append(images, RawImage{
			Name:   img.Name,
			Stream: data,
		})
	}

	return images, nil
}
