package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTSVRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record Record
	}{
		{"empty", Record{}},
		{"populated", Record{
			Title:           "Genome-wide analysis of drought response genes in rice",
			Journal:         "plantsci",
			PublicationDate: "12 March 2020",
			DOI:             "10.1016/j.plantsci.2020.01.002",
			Link:            "https://doi.org/10.1016/j.plantsci.2020.01.002",
			Abstract:        `Rice "yield" under drought, a survey`,
			FirstAuthor:     "Li Wei",
			Technique:       "GBS|RNA-seq",
			Sample:          "root|leaf",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), OutputName)
			require.NoError(t, WriteTSV(path, tt.record))

			got, err := ReadTSV(path)
			require.NoError(t, err)
			assert.Equal(t, tt.record, got)
		})
	}
}

func TestWriteTSVEmptyRecordHasElevenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), OutputName)
	require.NoError(t, WriteTSV(path, Record{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header(), strings.Split(lines[0], "\t"))
	assert.Len(t, strings.Split(lines[1], "\t"), 11)
}

func TestEncodeTSVWritesCellsVerbatim(t *testing.T) {
	var buf bytes.Buffer
	record := Record{
		Title:    `A "quoted" title`,
		Abstract: "First line\r\nsecond\tline\nthird",
	}
	require.NoError(t, EncodeTSV(&buf, record))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	cells := strings.Split(lines[1], "\t")
	require.Len(t, cells, 11)
	assert.Equal(t, `A "quoted" title`, cells[0])
	assert.Equal(t, "First line second line third", cells[6])

	got, err := DecodeTSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, `A "quoted" title`, got.Title)
	assert.Equal(t, "First line second line third", got.Abstract)
}

func TestDecodeTSVAcceptsCRLF(t *testing.T) {
	sheet := strings.Join(Header(), "\t") + "\r\n" + "T\tJ" + "\r\n"
	got, err := DecodeTSV(strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "J", got.Journal)
}

func TestWriteTSVMissingFolder(t *testing.T) {
	err := WriteTSV(filepath.Join(t.TempDir(), "missing", OutputName), Record{})
	assert.Error(t, err)
}

func TestDecodeTSVRejectsForeignHeader(t *testing.T) {
	_, err := DecodeTSV(strings.NewReader("Name\tValue\nx\ty\n"))
	assert.Error(t, err)

	_, err = DecodeTSV(strings.NewReader(strings.Join(Header(), "\t") + "\n"))
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, Record{Title: "T", DOI: "10.1/x"}))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Title  >  T", lines[0])
	assert.Equal(t, "Journal  >  ", lines[1])
	assert.Equal(t, "DOI  >  10.1/x", lines[3])
	assert.Equal(t, "Sample  >  ", lines[10])
}

func TestRecordAccessors(t *testing.T) {
	r := FromValues([]string{"title", "journal"})
	assert.Equal(t, "title", r.Get(FieldTitle))
	assert.Equal(t, "journal", r.Get(FieldJournal))
	assert.Empty(t, r.Get(FieldSample))
	assert.Empty(t, r.Get("Unknown"))
	assert.Len(t, r.Values(), len(Header()))
}
