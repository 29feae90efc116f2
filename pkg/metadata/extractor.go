package metadata

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/paperminer/pkg/extractors"
	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// HeadPages is how many leading pages are scanned for title, journal, date and identifiers
const HeadPages = 4

// minAbstractLength is the shortest candidate accepted as an abstract
const minAbstractLength = 300

var (
	journalPattern       = regexp.MustCompile(`journal homepage.*/([^/\n]+)`)
	journalSpacedPattern = regexp.MustCompile(`j o u r n a l h o m e p a g e.*/([^/\n]+)`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`online\S*\s*(\d{1,2}\s\w{3,9}\s\d{4})`),
		regexp.MustCompile(`Published:*\s*(\d{1,2}\s\w{3,9}\s\d{4})`),
		regexp.MustCompile(`Accepted\S*\s*(\d{1,2}\s\w{3,9}\s\d{4})`),
		regexp.MustCompile(`Accepted date:\S*\s*(\d{1,2}\s\w{3,9}\s\d{4})`),
		regexp.MustCompile(`Accepted\s(.*\d{1,2}.*\s\d{4})`),
	}

	doiPattern   = regexp.MustCompile(`(doi.org/|doi:|DOI:)\s*(\S+\w)`)
	httpsPattern = regexp.MustCompile(`(https://\S+\w)`)
	httpPattern  = regexp.MustCompile(`(http://\S+\w)`)

	abstractBeforeMarker = regexp.MustCompile(`(.*)\n+(A B S T R A C T|a b s t r a c t)`)
	abstractAfterMarker  = regexp.MustCompile(`(A B S T R A C T|a b s t r a c t).*\n+(.*)`)
	abstractHeading      = regexp.MustCompile(`Abstract.*\n*.*`)
)

// Extractor scans page text for bibliographic fields
type Extractor struct {
	techniques ReferenceList
	samples    ReferenceList
	logger     logrus.FieldLogger
}

// NewExtractor creates an extractor matching the given technique and sample lists.
// A nil logger discards everything.
func NewExtractor(techniques, samples ReferenceList, logger logrus.FieldLogger) *Extractor {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Extractor{
		techniques: techniques,
		samples:    samples,
		logger:     logger,
	}
}

// scan is the mutable state of one extraction
type scan struct {
	record      Record
	titleSeed   string
	confirmed   bool
	linkFromDOI bool
	techniques  *matchSet
	samples     *matchSet
}

// Extract builds a record from the outline and the per-page text and char streams.
// Each field keeps the first value found; pages are examined in order.
func (e *Extractor) Extract(outline []pdf.OutlineEntry, pageTexts, pageChars []string) Record {
	s := &scan{
		techniques: newMatchSet(),
		samples:    newMatchSet(),
	}

	s.titleSeed = titleSeed(outline)
	s.record.Title = s.titleSeed

	for i, text := range pageTexts {
		s.techniques.scan(e.techniques, text)
		s.samples.scan(e.samples, text)

		if i >= HeadPages {
			continue
		}
		s.matchTitle(text)
		s.matchAuthor(text)
		s.matchJournal(text)
		s.matchDate(text)
		s.matchDOI(text)
		s.matchLink(text)
		s.matchAbstract(text)
	}

	s.record.Technique = s.techniques.String()
	s.record.Sample = s.samples.String()

	for i, chars := range pageChars {
		if i >= HeadPages {
			break
		}
		s.matchDate(chars)
		s.matchDOI(chars)
		s.matchLink(chars)
	}

	e.logger.WithFields(logrus.Fields{
		"pages":     len(pageTexts),
		"title":     s.record.Title != "",
		"doi":       s.record.DOI,
		"technique": s.record.Technique,
	}).Debug("metadata extracted")

	return s.record
}

// titleSeed returns the last level-1 outline title
func titleSeed(outline []pdf.OutlineEntry) string {
	seed := ""
	for _, entry := range outline {
		if entry.Level == 1 {
			seed = extractors.NormalizeGlyphs(entry.Title)
		}
	}
	return seed
}

// prefix returns at most n runes of s
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// matchTitle replaces a truncated outline title with the full line found on the page
func (s *scan) matchTitle(text string) {
	if s.confirmed || !strings.HasSuffix(s.titleSeed, "...") {
		return
	}

	seed := strings.TrimSpace(strings.ReplaceAll(s.titleSeed, "...", ""))
	if seed == "" {
		return
	}
	for _, n := range []int{60, 20} {
		re := regexp.MustCompile(regexp.QuoteMeta(prefix(seed, n)) + `.*`)
		if m := re.FindString(text); m != "" {
			s.record.Title = m
			s.confirmed = true
			return
		}
	}
}

// matchAuthor takes the first comma-separated name on the line following the title
func (s *scan) matchAuthor(text string) {
	if s.record.FirstAuthor != "" || s.titleSeed == "" {
		return
	}

	seed := strings.TrimSpace(strings.ReplaceAll(s.titleSeed, "...", ""))
	if seed == "" {
		return
	}
	re := regexp.MustCompile(regexp.QuoteMeta(prefix(seed, 40)) + `.*\n+(.*)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return
	}
	author, _, _ := strings.Cut(m[1], ",")
	s.record.FirstAuthor = author
}

func (s *scan) matchJournal(text string) {
	if s.record.Journal != "" {
		return
	}
	for _, re := range []*regexp.Regexp{journalPattern, journalSpacedPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			s.record.Journal = m[1]
			return
		}
	}
}

func (s *scan) matchDate(text string) {
	if s.record.PublicationDate != "" {
		return
	}
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			s.record.PublicationDate = m[1]
			return
		}
	}
}

func (s *scan) matchDOI(text string) {
	if s.record.DOI != "" {
		return
	}
	if m := doiPattern.FindStringSubmatch(text); m != nil {
		s.record.DOI = m[2]
	}
}

// matchLink prefers an explicit http URL, then https, then a link built from the DOI.
// A DOI-derived link is replaced when an explicit URL shows up later.
func (s *scan) matchLink(text string) {
	if s.record.Link != "" && !s.linkFromDOI {
		return
	}
	for _, re := range []*regexp.Regexp{httpPattern, httpsPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			s.record.Link = m[1]
			s.linkFromDOI = false
			return
		}
	}
	if s.record.Link == "" && s.record.DOI != "" {
		s.record.Link = "https://doi.org/" + s.record.DOI
		s.linkFromDOI = true
	}
}

func (s *scan) matchAbstract(text string) {
	if s.record.Abstract != "" {
		return
	}

	var candidates []string
	if m := abstractBeforeMarker.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := abstractAfterMarker.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[2])
	}
	if m := abstractHeading.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		if utf8.RuneCountInString(c) > minAbstractLength {
			s.record.Abstract = strings.ReplaceAll(c, "\n", "")
			return
		}
	}
}
