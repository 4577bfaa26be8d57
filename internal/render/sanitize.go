// Package render turns a completed applicant record into the two artifacts
// the pipeline delivers: a summary PDF and a canonical JSON document. It
// also hosts the free-text sanitizer applied before rendering.
package render

import (
	"strings"

	"github.com/dmitrijs2005/formkiosk/internal/models"
)

// Sanitizer normalizes the free-text fields of a record. Implementations
// must be deterministic and side-effect free; they return a cleaned copy
// and never mutate the input.
type Sanitizer interface {
	Sanitize(record *models.ApplicantRecord) *models.ApplicantRecord
}

// FieldSanitizer trims surrounding whitespace and collapses internal runs
// of whitespace in single-line fields. Notes keep their line breaks.
type FieldSanitizer struct{}

func (FieldSanitizer) Sanitize(record *models.ApplicantRecord) *models.ApplicantRecord {
	out := *record

	out.FirstName = cleanLine(record.FirstName)
	out.LastName = cleanLine(record.LastName)
	out.Email = cleanLine(record.Email)
	out.Phone = cleanLine(record.Phone)
	out.Address = cleanLine(record.Address)
	out.Notes = cleanBlock(record.Notes)

	out.Employment = make([]models.EmploymentRecord, len(record.Employment))
	for i, e := range record.Employment {
		out.Employment[i] = models.EmploymentRecord{
			Employer: cleanLine(e.Employer),
			Position: cleanLine(e.Position),
			From:     cleanLine(e.From),
			To:       cleanLine(e.To),
		}
	}

	out.References = make([]models.Reference, len(record.References))
	for i, r := range record.References {
		out.References[i] = models.Reference{
			Name:     cleanLine(r.Name),
			Relation: cleanLine(r.Relation),
			Phone:    cleanLine(r.Phone),
		}
	}

	out.Languages = make([]models.LanguageSkill, len(record.Languages))
	for i, l := range record.Languages {
		out.Languages[i] = models.LanguageSkill{
			Language: cleanLine(l.Language),
			Level:    cleanLine(l.Level),
		}
	}

	return &out
}

func cleanLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanBlock(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		cleaned = append(cleaned, cleanLine(l))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
