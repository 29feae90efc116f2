package metadata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReferenceList is a list of known names (sequencing techniques, sample types)
// matched literally against page text
type ReferenceList []string

// LoadReferenceList reads one name per line, trimming whitespace and skipping blanks
func LoadReferenceList(path string) (ReferenceList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference list: %w", err)
	}
	defer f.Close()

	return ReadReferenceList(f)
}

// ReadReferenceList parses a line-delimited list
func ReadReferenceList(r io.Reader) (ReferenceList, error) {
	var list ReferenceList
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		list = append(list, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference list: %w", err)
	}
	return list, nil
}

// matchSet collects names in first-seen order without duplicates
type matchSet struct {
	seen  map[string]bool
	names []string
}

func newMatchSet() *matchSet {
	return &matchSet{seen: make(map[string]bool)}
}

// scan adds every name of list that occurs in text
func (m *matchSet) scan(list ReferenceList, text string) {
	for _, name := range list {
		if m.seen[name] || !strings.Contains(text, name) {
			continue
		}
		m.seen[name] = true
		m.names = append(m.names, name)
	}
}

func (m *matchSet) String() string {
	return strings.Join(m.names, "|")
}
