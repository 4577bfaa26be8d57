package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/formkiosk/internal/models"
)

func sampleRecord() *models.ApplicantRecord {
	return &models.ApplicantRecord{
		ReferenceNumber: "KSK-20260830-0001",
		SubmittedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		FirstName:       "Ana",
		LastName:        "Berzina",
		Email:           "ana@example.com",
		Phone:           "+371 20000000",
		Address:         "Brivibas iela 1",
		Employment: []models.EmploymentRecord{
			{Employer: "Acme (SIA)", Position: "Clerk", From: "2019-01", To: "2022-06"},
		},
		References: []models.Reference{
			{Name: "J. Ozols", Relation: "manager", Phone: "+371 21111111"},
		},
		Languages: []models.LanguageSkill{
			{Language: "Latvian", Level: "native"},
		},
	}
}

func TestFieldSanitizer(t *testing.T) {
	rec := &models.ApplicantRecord{
		FirstName: "  Ana \t",
		LastName:  "Berzina\n",
		Email:     " ana@example.com ",
		Address:   "Brivibas   iela   1",
		Notes:     "  line one  \n\n  line   two  ",
		Employment: []models.EmploymentRecord{
			{Employer: "  Acme  SIA ", Position: " Clerk "},
		},
	}

	got := FieldSanitizer{}.Sanitize(rec)

	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "Berzina", got.LastName)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "Brivibas iela 1", got.Address)
	assert.Equal(t, "line one\n\nline two", got.Notes)
	assert.Equal(t, "Acme SIA", got.Employment[0].Employer)

	// input untouched
	assert.Equal(t, "  Ana \t", rec.FirstName)
}

func TestRenderJSON_RoundTrip(t *testing.T) {
	original := sampleRecord()

	data, err := ArtifactRenderer{}.RenderJSON(original)
	require.NoError(t, err)

	var decoded models.ApplicantRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *original, decoded)
}

func TestRenderPDF_ProducesValidDocument(t *testing.T) {
	data, err := ArtifactRenderer{}.RenderPDF(sampleRecord())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assert.Contains(t, string(data), `Application KSK-20260830-0001`)
	// parens from the employer name must be escaped inside the text stream
	assert.Contains(t, string(data), `Acme \(SIA\)`)
}

func TestEscapePDFText(t *testing.T) {
	assert.Equal(t, `a\(b\)c\\d`, escapePDFText(`a(b)c\d`))
}
