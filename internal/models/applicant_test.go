package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantRecord_JSONRoundTrip(t *testing.T) {
	original := ApplicantRecord{
		ReferenceNumber: "KSK-20260830-0007",
		SubmittedAt:     time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC),
		FirstName:       "Ana",
		LastName:        "Berzina",
		Email:           "ana@example.com",
		Phone:           "+371 20000000",
		Address:         "Brivibas iela 1, Riga",
		Notes:           "prefers morning shifts",
		Employment: []EmploymentRecord{
			{Employer: "Acme SIA", Position: "Clerk", From: "2019-01", To: "2022-06"},
			{Employer: "Globex", Position: "Assistant", From: "2022-07"},
		},
		References: []Reference{
			{Name: "J. Ozols", Relation: "manager", Phone: "+371 21111111"},
			{Name: "L. Kalnina", Relation: "colleague", Phone: "+371 22222222"},
		},
		Languages: []LanguageSkill{
			{Language: "Latvian", Level: "native"},
			{Language: "English", Level: "C1"},
			{Language: "Russian", Level: "B2"},
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded ApplicantRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original, decoded)
}

func TestSubmissionResult(t *testing.T) {
	ok := Success("KSK-20260830-0001")
	assert.True(t, ok.OK)
	assert.Equal(t, "KSK-20260830-0001", ok.ReferenceNumber)
	assert.Empty(t, ok.UserMessage)

	bad := Failure("connection lost, saved for later")
	assert.False(t, bad.OK)
	assert.Empty(t, bad.ReferenceNumber)
	assert.Equal(t, "connection lost, saved for later", bad.UserMessage)
}
