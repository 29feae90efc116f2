// Package metadata scrapes bibliographic fields from reconstructed page text
// and serializes them as a one-row tab-separated sheet.
package metadata

// Field names, in output order
const (
	FieldTitle           = "Title"
	FieldJournal         = "Journal"
	FieldPublicationDate = "Publication date"
	FieldDOI             = "DOI"
	FieldPMID            = "PMID"
	FieldLink            = "Link"
	FieldAbstract        = "Abstract"
	FieldFirstAuthor     = "First author"
	FieldAddressFAU      = "Address_FAU"
	FieldTechnique       = "Technique"
	FieldSample          = "Sample"
)

var header = []string{
	FieldTitle,
	FieldJournal,
	FieldPublicationDate,
	FieldDOI,
	FieldPMID,
	FieldLink,
	FieldAbstract,
	FieldFirstAuthor,
	FieldAddressFAU,
	FieldTechnique,
	FieldSample,
}

// Header returns the eleven field names in output order
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// Record is the extracted metadata of one paper. PMID and AddressFAU are
// part of the sheet layout but nothing fills them.
type Record struct {
	Title           string `json:"title"`
	Journal         string `json:"journal"`
	PublicationDate string `json:"publication_date"`
	DOI             string `json:"doi"`
	PMID            string `json:"pmid"`
	Link            string `json:"link"`
	Abstract        string `json:"abstract"`
	FirstAuthor     string `json:"first_author"`
	AddressFAU      string `json:"address_fau"`
	Technique       string `json:"technique"`
	Sample          string `json:"sample"`
}

// Values returns the field values in header order
func (r Record) Values() []string {
	return []string{
		r.Title,
		r.Journal,
		r.PublicationDate,
		r.DOI,
		r.PMID,
		r.Link,
		r.Abstract,
		r.FirstAuthor,
		r.AddressFAU,
		r.Technique,
		r.Sample,
	}
}

// Get returns a field by its header name
func (r Record) Get(field string) string {
	for i, name := range header {
		if name == field {
			return r.Values()[i]
		}
	}
	return ""
}

// FromValues builds a record from values in header order; missing values stay empty
func FromValues(values []string) Record {
	v := make([]string, len(header))
	copy(v, values)
	return Record{
		Title:           v[0],
		Journal:         v[1],
		PublicationDate: v[2],
		DOI:             v[3],
		PMID:            v[4],
		Link:            v[5],
		Abstract:        v[6],
		FirstAuthor:     v[7],
		AddressFAU:      v[8],
		Technique:       v[9],
		Sample:          v[10],
	}
}
