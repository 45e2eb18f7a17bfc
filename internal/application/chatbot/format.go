package chatbot

import (
	"fmt"
	"strings"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/domain/patients"
)

// HelpMessage lists the supported question forms, returned for anything the
// grammar does not recognize.
const HelpMessage = "I can help you with:\n" +
	"- 'show all patients' — list all records\n" +
	"- 'show patient 5' — get one patient by ID\n" +
	"- 'show last result' — most recent analysis\n" +
	"- 'list lung patients' — filter by exam type\n" +
	"- 'count patients' or 'count patients of type bone'\n" +
	"- 'what is pneumonia?' — medical term definitions"

// FormatPatient renders one record for a chat reply.
func FormatPatient(p *patients.Patient) string {
	image := p.ImageRef
	if image == "" {
		image = "not available"
	}
	return fmt.Sprintf(
		"Patient record\nID: %d\nName: %s\nAge: %d\nExam: %s\nFinding: %s\nConfidence: %.0f%%\nModel: %s %s\nX-ray: %s\nDate: %s",
		p.ID, p.Name, p.Age, strings.ToUpper(string(p.ExamType)),
		p.Result.Finding, p.Result.Confidence*100,
		p.Result.ModelName, p.Result.ModelVersion,
		image, p.CreatedAt.Format("2006-01-02 15:04"),
	)
}

// FormatPatients renders a list answer, one line per record.
func FormatPatients(rows []*patients.Patient) string {
	if len(rows) == 0 {
		return "No records found."
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("Found %d record(s):", len(rows)))
	for _, p := range rows {
		finding := p.Result.Finding
		if len(finding) > 60 {
			finding = finding[:60] + "…"
		}
		lines = append(lines, fmt.Sprintf("[%d] %s | age %d | %s | %s",
			p.ID, p.Name, p.Age, strings.ToUpper(string(p.ExamType)), finding))
	}
	return strings.Join(lines, "\n")
}

// FormatCount renders a count answer, with or without an exam-type filter.
func FormatCount(n int64, filter *domain.ExamType) string {
	if filter != nil {
		return fmt.Sprintf("There are %d %s patient(s) on record.", n, *filter)
	}
	return fmt.Sprintf("There are %d patient(s) on record.", n)
}
