package render

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/formkiosk/internal/models"
)

// Renderer produces the artifact pair for one submission.
type Renderer interface {
	RenderJSON(record *models.ApplicantRecord) ([]byte, error)
	RenderPDF(record *models.ApplicantRecord) ([]byte, error)
}

// ArtifactRenderer is the default Renderer: canonical JSON plus a
// one-page text summary PDF.
type ArtifactRenderer struct{}

func (ArtifactRenderer) RenderJSON(record *models.ApplicantRecord) ([]byte, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json artifact: %w", err)
	}
	return data, nil
}

func (ArtifactRenderer) RenderPDF(record *models.ApplicantRecord) ([]byte, error) {
	lines := []string{
		"Application " + record.ReferenceNumber,
		"Submitted: " + record.SubmittedAt.Format("2006-01-02 15:04"),
		"",
		"Applicant: " + record.FirstName + " " + record.LastName,
		"Email: " + record.Email,
		"Phone: " + record.Phone,
		"Address: " + record.Address,
	}

	if len(record.Employment) > 0 {
		lines = append(lines, "", "Employment:")
		for _, e := range record.Employment {
			period := e.From
			if e.To != "" {
				period += " - " + e.To
			}
			lines = append(lines, fmt.Sprintf("  %s, %s (%s)", e.Employer, e.Position, period))
		}
	}

	if len(record.References) > 0 {
		lines = append(lines, "", "References:")
		for _, r := range record.References {
			lines = append(lines, fmt.Sprintf("  %s (%s), %s", r.Name, r.Relation, r.Phone))
		}
	}

	if len(record.Languages) > 0 {
		lines = append(lines, "", "Languages:")
		for _, l := range record.Languages {
			lines = append(lines, fmt.Sprintf("  %s: %s", l.Language, l.Level))
		}
	}

	if record.Notes != "" {
		lines = append(lines, "", "Notes: "+record.Notes)
	}

	data, err := buildPDF(lines)
	if err != nil {
		return nil, fmt.Errorf("building pdf artifact: %w", err)
	}
	if err := validatePDF(data); err != nil {
		return nil, fmt.Errorf("pdf artifact failed validation: %w", err)
	}
	return data, nil
}
