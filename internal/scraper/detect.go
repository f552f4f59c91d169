package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageKind identifies one of the registration-page layouts the scraper
// understands.
type PageKind string

const (
	PageStudentProfile PageKind = "student-profile"
	PageMatricula      PageKind = "matricula"
)

// SelectorProbe is one candidate selector together with the structural
// element it is expected to locate.
type SelectorProbe struct {
	Selector string
	Purpose  string
}

// Candidate selectors per page shape, tried strictly in order. The
// profile list is probed before the matricula list, so a document that
// somehow carries both shapes resolves as a student profile.
var (
	profileProbes = []SelectorProbe{
		{Selector: "table#tableGuiaHorario", Purpose: "schedule guide table"},
		{Selector: "div#guiaHorario table", Purpose: "schedule guide container"},
		{Selector: "table.tabla-guia-horario", Purpose: "legacy schedule guide table"},
	}
	matriculaProbes = []SelectorProbe{
		{Selector: "table#tblcursos", Purpose: "course registration table"},
		{Selector: "table#tbl_cursos", Purpose: "course registration table, underscored id"},
		{Selector: "table.tbl-cursos", Purpose: "course registration table by class"},
	}
)

// Detection is the result of structural detection: which shape matched,
// through which selector, and the matched root element.
type Detection struct {
	Kind     PageKind
	Selector string
	Root     *goquery.Selection
}

// StructureError reports that no known page shape was found. It keeps
// the full list of selectors attempted for diagnostics.
type StructureError struct {
	SelectorsTried []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("no known page structure found (selectors tried: %s)",
		strings.Join(e.SelectorsTried, ", "))
}

// ElementNotFoundError reports that a detected shape is missing an
// expected sub-element. It is a softer signal than StructureError:
// extraction of that unit is abandoned but siblings continue.
type ElementNotFoundError struct {
	Selector string
	Context  string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("expected element %q not found (%s)", e.Selector, e.Context)
}

// DetectStructure probes the document for the known page shapes and
// returns the first structural element found. Detection order decides
// precedence, not match confidence.
func DetectStructure(doc *goquery.Document) (*Detection, error) {
	var tried []string
	for _, probe := range profileProbes {
		tried = append(tried, probe.Selector)
		if sel := doc.Find(probe.Selector); sel.Length() > 0 {
			return &Detection{Kind: PageStudentProfile, Selector: probe.Selector, Root: sel.First()}, nil
		}
	}
	for _, probe := range matriculaProbes {
		tried = append(tried, probe.Selector)
		if sel := doc.Find(probe.Selector); sel.Length() > 0 {
			return &Detection{Kind: PageMatricula, Selector: probe.Selector, Root: sel.First()}, nil
		}
	}
	return nil, &StructureError{SelectorsTried: tried}
}
