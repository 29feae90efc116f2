package extractors

import (
	"sort"
	"strings"

	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

// DefaultTolerance is the relative slack allowed on both edges of a bucket key
const DefaultTolerance = 0.2

// MatchPolicy decides which existing buckets receive a fragment
type MatchPolicy int

const (
	// MatchFirst appends to the first matching bucket in insertion order
	MatchFirst MatchPolicy = iota
	// MatchAll appends to every matching bucket
	MatchAll
)

// String returns the policy name used in configuration
func (p MatchPolicy) String() string {
	if p == MatchAll {
		return "all"
	}
	return "first"
}

// ParseMatchPolicy maps "first" and "all" to a policy
func ParseMatchPolicy(s string) (MatchPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return MatchFirst, true
	case "all":
		return MatchAll, true
	}
	return MatchFirst, false
}

// Key identifies a band on one axis: (x0, x1) for columns, (y0, y1) for rows
type Key struct {
	Lo float64
	Hi float64
}

// Less orders keys lexicographically on (Lo, Hi)
func (k Key) Less(other Key) bool {
	if k.Lo != other.Lo {
		return k.Lo < other.Lo
	}
	return k.Hi < other.Hi
}

// Bucket is a band and the strings accumulated into it
type Bucket struct {
	Key   Key
	Texts []string
}

// Buckets is an insertion-ordered collection of bands. Matching is a
// tolerance test, not an equivalence, so order decides where text lands.
type Buckets struct {
	pct     float64
	policy  MatchPolicy
	buckets []Bucket
}

// NewBuckets creates an empty collection with the given tolerance and policy
func NewBuckets(pct float64, policy MatchPolicy) *Buckets {
	return &Buckets{pct: pct, policy: policy}
}

// Len returns the number of buckets
func (b *Buckets) Len() int {
	return len(b.buckets)
}

// Items returns the buckets in insertion order
func (b *Buckets) Items() []Bucket {
	return b.buckets
}

// within reports whether v lies in [ref*(1-pct), ref*(1+pct)]
func within(v, ref, pct float64) bool {
	return v >= ref*(1.0-pct) && ref*(1.0+pct) >= v
}

// matches applies the tolerance test to both edges of the key
func (b *Buckets) matches(k, candidate Key) bool {
	if k == candidate {
		return true
	}
	return within(candidate.Lo, k.Lo, b.pct) && within(candidate.Hi, k.Hi, b.pct)
}

// Add places text into matching buckets or opens a new bucket keyed exactly by key.
// It reports how many existing buckets received the text.
func (b *Buckets) Add(key Key, text string) int {
	matched := 0
	for i := range b.buckets {
		if !b.matches(b.buckets[i].Key, key) {
			continue
		}
		b.buckets[i].Texts = append(b.buckets[i].Texts, text)
		matched++
		if b.policy == MatchFirst {
			break
		}
	}

	if matched == 0 {
		b.buckets = append(b.buckets, Bucket{Key: key, Texts: []string{text}})
	}
	return matched
}

// Sorted returns a copy of the buckets ordered ascending by key
func (b *Buckets) Sorted() []Bucket {
	sorted := make([]Bucket, len(b.buckets))
	copy(sorted, b.buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key.Less(sorted[j].Key)
	})
	return sorted
}

// AssignToColumn files text under its horizontal band (x0, x1), flattened onto one line
func AssignToColumn(columns *Buckets, bbox pdf.BoundingBox, text string) {
	columns.Add(Key{Lo: bbox.X0, Hi: bbox.X1}, normalizeColumnText(NormalizeGlyphs(text)))
}

// AssignToRow files text under its vertical band (y0, y1) as is
func AssignToRow(rows *Buckets, bbox pdf.BoundingBox, text string) {
	rows.Add(Key{Lo: bbox.Y0, Hi: bbox.Y1}, NormalizeGlyphs(text))
}

// RenderColumns emits each column in key order, every string followed by a blank line
func RenderColumns(columns *Buckets) []string {
	var out []string
	for _, bucket := range columns.Sorted() {
		var b strings.Builder
		for _, text := range bucket.Texts {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		out = append(out, b.String())
	}
	return out
}

// RenderRows emits each row in key order with its strings concatenated
func RenderRows(rows *Buckets) []string {
	var out []string
	for _, bucket := range rows.Sorted() {
		out = append(out, strings.Join(bucket.Texts, ""))
	}
	return out
}
