package scraper

import (
	"errors"
	"testing"

	"github.com/esteban/tecplanner/internal/app/models"
)

const profileHTML = `<html><body>
<table id="tableGuiaHorario">
<tr><th>Código</th><th>Nombre</th><th>Créditos</th><th>Grupo</th><th>Modalidad</th><th>Profesor</th><th>Horario</th><th>Aula</th><th>Cupo</th><th>Reservado</th><th>Periodo</th></tr>
<tr><td>CA1103</td><td>Cálculo</td><td>4</td><td>01</td><td>Presencial</td><td>Ana Rojas</td><td>L 07:30-10:20</td><td>A1-01</td><td>25</td><td>No</td><td>2026-1</td></tr>
<tr><td>CA1103</td><td>Cálculo</td><td>4</td><td>01</td><td>Presencial</td><td>Luis Mora</td><td>J 13:00-15:50</td><td>A1-02</td><td>25</td><td>No</td><td>2026-1</td></tr>
<tr><td>IC2001</td><td>Programación</td><td>3</td><td>02</td><td>Virtual</td><td>Ana Rojas</td><td>Por definir</td><td></td><td>30</td><td>Si</td><td>2026-1</td></tr>
<tr><td>fila</td><td>corta</td></tr>
</table>
</body></html>`

const matriculaHTML = `<html><body>
<table id="tblcursos">
<tr id="CS1101"><td>+</td><td>Bases de Datos</td><td>4</td></tr>
<tr id="trHCS1101"><td colspan="3"><table>
<tr class="trgrupo"><td>Cartago</td><td>01</td><td>María Solís<br/>Asistente</td><td>25</td><td>No</td><td>Presencial</td><td>L 07:30-10:20<br/>B1-07<br/>J 11:0-12:50<br/>B2-01</td></tr>
<tr class="trgrupo"><td>San José</td><td>02</td><td>Pedro Díaz</td><td>20</td><td>Si</td><td>Virtual</td><td>Por definir</td></tr>
</table></td></tr>
<tr id="MA2105"><td>+</td><td>Ecuaciones</td><td>4</td></tr>
</table>
</body></html>`

func TestParseTecHTML_ProfileMergesByCodeAndGroup(t *testing.T) {
	courses, report, err := ParseTecHTMLWithReport(profileHTML, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Source != PageStudentProfile {
		t.Fatalf("Source = %q, want %q", report.Source, PageStudentProfile)
	}
	if report.MatchedSelector != "table#tableGuiaHorario" {
		t.Errorf("MatchedSelector = %q", report.MatchedSelector)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 merged courses, got %d", len(courses))
	}

	calc := courses[0]
	if calc.OriginalCode != "CA1103" || calc.Group != "01" {
		t.Errorf("course 0 = %s/%s", calc.OriginalCode, calc.Group)
	}
	if calc.Professor != "Ana Rojas, Luis Mora" {
		t.Errorf("merged professor = %q", calc.Professor)
	}
	if calc.Campus != models.DefaultCampus {
		t.Errorf("Campus = %q, want %q", calc.Campus, models.DefaultCampus)
	}
	if calc.Credits != 4 || calc.Quota != 25 || calc.Reserved {
		t.Errorf("numbers = credits %d quota %d reserved %v", calc.Credits, calc.Quota, calc.Reserved)
	}
	if len(calc.Sessions) != 2 {
		t.Fatalf("expected 2 sessions on merged course, got %d", len(calc.Sessions))
	}
	if calc.Sessions[0].Classroom != "A1-01" || calc.Sessions[1].Classroom != "A1-02" {
		t.Errorf("classrooms = %q, %q", calc.Sessions[0].Classroom, calc.Sessions[1].Classroom)
	}
	if calc.Sessions[1].Day != "Jueves" {
		t.Errorf("second session day = %q", calc.Sessions[1].Day)
	}

	prog := courses[1]
	if prog.Status != models.StatusVirtual || !prog.Reserved {
		t.Errorf("course 1 status %q reserved %v", prog.Status, prog.Reserved)
	}
	if len(prog.Sessions) != 0 {
		t.Errorf("expected no sessions for unparseable schedule, got %d", len(prog.Sessions))
	}
}

func TestParseTecHTML_ProfileHeaderRemapping(t *testing.T) {
	// Header cells drive the column mapping, not the default order.
	const page = `<html><body>
<table id="tableGuiaHorario">
<tr><th>Horario</th><th>Grupo</th><th>Código</th><th>Estado</th><th>Nombre</th><th>Profesor</th></tr>
<tr><td>L 07:30-10:20</td><td>40</td><td>CA1103</td><td>Virtual</td><td>Cálculo</td><td>Ana Rojas</td></tr>
</table>
</body></html>`

	courses, _, err := ParseTecHTMLWithReport(page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}

	course := courses[0]
	if course.OriginalCode != "CA1103" {
		t.Errorf("OriginalCode = %q, want CA1103", course.OriginalCode)
	}
	if course.Group != "40" {
		t.Errorf("Group = %q, want 40", course.Group)
	}
	if course.Name != "Cálculo" {
		t.Errorf("Name = %q", course.Name)
	}
	if course.Status != models.StatusVirtual {
		t.Errorf("Status = %q, want Virtual", course.Status)
	}
	if course.Professor != "Ana Rojas" {
		t.Errorf("Professor = %q", course.Professor)
	}
	if len(course.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(course.Sessions))
	}
	s := course.Sessions[0]
	if s.Day != "Lunes" || s.StartTime != "07:30" || s.EndTime != "10:20" {
		t.Errorf("session = %s %s-%s, want Lunes 07:30-10:20", s.Day, s.StartTime, s.EndTime)
	}
	if s.Classroom != models.NoClassroom {
		t.Errorf("Classroom = %q, want %q (no aula column on this page)", s.Classroom, models.NoClassroom)
	}
}

func TestParseTecHTML_ProfileDropsRepeatedSessionAcrossMergedRows(t *testing.T) {
	// Two rows of the same (code, group) carrying the same meeting:
	// professors merge but the session triple survives only once, with
	// the first row's classroom.
	const page = `<html><body>
<table id="tableGuiaHorario">
<tr><th>Código</th><th>Nombre</th><th>Créditos</th><th>Grupo</th><th>Modalidad</th><th>Profesor</th><th>Horario</th><th>Aula</th><th>Cupo</th><th>Reservado</th><th>Periodo</th></tr>
<tr><td>CA1103</td><td>Cálculo</td><td>4</td><td>01</td><td>Presencial</td><td>Ana Rojas</td><td>L 07:30-10:20</td><td>A1-01</td><td>25</td><td>No</td><td>2026-1</td></tr>
<tr><td>CA1103</td><td>Cálculo</td><td>4</td><td>01</td><td>Presencial</td><td>Luis Mora</td><td>L 07:30-10:20</td><td>A1-02</td><td>25</td><td>No</td><td>2026-1</td></tr>
</table>
</body></html>`

	courses, _, err := ParseTecHTMLWithReport(page, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected 1 merged course, got %d", len(courses))
	}

	course := courses[0]
	if course.Professor != "Ana Rojas, Luis Mora" {
		t.Errorf("merged professor = %q", course.Professor)
	}
	if len(course.Sessions) != 1 {
		t.Fatalf("expected 1 session after de-duplication, got %d", len(course.Sessions))
	}
	if course.Sessions[0].Classroom != "A1-01" {
		t.Errorf("classroom = %q, want first occurrence's A1-01", course.Sessions[0].Classroom)
	}
}

func TestParseTecHTML_ProfileReportCounters(t *testing.T) {
	_, report, err := ParseTecHTMLWithReport(profileHTML, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", report.TotalRows)
	}
	if report.SchedulesFound != 2 || report.SchedulesMissing != 1 {
		t.Errorf("found/missing = %d/%d, want 2/1", report.SchedulesFound, report.SchedulesMissing)
	}
	if report.CoursesParsed != 2 {
		t.Errorf("CoursesParsed = %d, want 2", report.CoursesParsed)
	}

	var skipped int
	for _, issue := range report.Issues {
		if issue.Code == IssueRowSkipped {
			skipped++
		}
	}
	if skipped != 1 {
		t.Errorf("row-skipped issues = %d, want 1", skipped)
	}

	var missing *ScheduleAttempt
	for i := range report.ScheduleAttempts {
		if !report.ScheduleAttempts[i].Found {
			missing = &report.ScheduleAttempts[i]
		}
	}
	if missing == nil {
		t.Fatal("expected one missing schedule attempt")
	}
	if missing.Reason != ReasonFormatNotRecognized {
		t.Errorf("missing reason = %q, want %q", missing.Reason, ReasonFormatNotRecognized)
	}
}

func TestParseTecHTML_MatriculaOneCoursePerGroupRow(t *testing.T) {
	courses, report, err := ParseTecHTMLWithReport(matriculaHTML, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Source != PageMatricula {
		t.Fatalf("Source = %q, want %q", report.Source, PageMatricula)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses (one per group row), got %d", len(courses))
	}

	first := courses[0]
	if first.OriginalCode != "CS1101" || first.Name != "CS1101 Bases de Datos" {
		t.Errorf("course 0 = %q / %q", first.OriginalCode, first.Name)
	}
	if first.Campus != "Cartago" || first.Group != "01" {
		t.Errorf("campus/group = %q/%q", first.Campus, first.Group)
	}
	if first.Professor != "María Solís" {
		t.Errorf("professor = %q, want first text line only", first.Professor)
	}
	if len(first.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(first.Sessions))
	}
	if first.Sessions[0].Classroom != "B1-07" || first.Sessions[1].Classroom != "B2-01" {
		t.Errorf("classrooms = %q, %q", first.Sessions[0].Classroom, first.Sessions[1].Classroom)
	}

	second := courses[1]
	if second.Group != "02" || !second.Reserved || second.Status != models.StatusVirtual {
		t.Errorf("course 1 = group %q reserved %v status %q", second.Group, second.Reserved, second.Status)
	}
	if len(second.Sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(second.Sessions))
	}

	var elementIssues int
	for _, issue := range report.Issues {
		if issue.Code == IssueElementNotFound {
			elementIssues++
		}
	}
	if elementIssues != 1 {
		t.Errorf("element-not-found issues = %d, want 1 (course without detail row)", elementIssues)
	}
}

func TestParseTecHTML_UnknownStructure(t *testing.T) {
	const page = `<html><body><p>nothing here</p></body></html>`

	// Lenient mode: empty result, issue on the report.
	courses, report, err := ParseTecHTMLWithReport(page, nil)
	if err != nil {
		t.Fatalf("lenient mode should not error: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("expected no courses, got %d", len(courses))
	}
	if len(report.SelectorsTried) != 6 {
		t.Errorf("SelectorsTried = %d selectors, want 6", len(report.SelectorsTried))
	}
	foundIssue := false
	for _, issue := range report.Issues {
		if issue.Code == IssueStructureNotFound {
			foundIssue = true
		}
	}
	if !foundIssue {
		t.Error("expected structure-not-found issue")
	}

	// Strict mode: typed error.
	_, report, err = ParseTecHTMLWithReport(page, &Options{FailOnStructureError: true})
	var structureErr *StructureError
	if !errors.As(err, &structureErr) {
		t.Fatalf("expected *StructureError, got %v", err)
	}
	if report == nil || len(report.SelectorsTried) != 6 {
		t.Error("strict mode must still populate the report")
	}
}

func TestReportHistory_BoundedMostRecentFirst(t *testing.T) {
	ClearReportHistory()
	SetHistoryLimit(2)
	defer func() {
		SetHistoryLimit(DefaultHistoryLimit)
		ClearReportHistory()
	}()

	pages := []string{profileHTML, matriculaHTML, profileHTML}
	for _, page := range pages {
		if _, _, err := ParseTecHTMLWithReport(page, nil); err != nil {
			t.Fatalf("parse failed: %v", err)
		}
	}

	reports := ReportHistory()
	if len(reports) != 2 {
		t.Fatalf("history length = %d, want limit 2", len(reports))
	}
	if reports[0].Source != PageStudentProfile || reports[1].Source != PageMatricula {
		t.Errorf("history order = %q, %q, want most recent first", reports[0].Source, reports[1].Source)
	}

	// Snapshots are copies; mutating one must not affect the history.
	reports[0].Issues = append(reports[0].Issues, Issue{Code: "x", Message: "x"})
	again := ReportHistory()
	for _, issue := range again[0].Issues {
		if issue.Code == "x" {
			t.Error("history snapshot shares state with caller")
		}
	}

	ClearReportHistory()
	if len(ReportHistory()) != 0 {
		t.Error("history should be empty after clear")
	}
}

func TestOnLogEntryCallback(t *testing.T) {
	var entries []LogEntry
	_, _, err := ParseTecHTMLWithReport(profileHTML, &Options{
		OnLogEntry: func(e LogEntry) { entries = append(entries, e) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected log entries via callback")
	}
	if entries[0].Message != "scraping started" {
		t.Errorf("first entry = %q", entries[0].Message)
	}
}
