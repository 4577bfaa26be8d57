// Package models defines the data types shared by the submission pipeline,
// the backup store and the operator surface.
package models

import "time"

// ApplicantRecord is the completed application form as collected by the
// kiosk UI. The pipeline stamps ReferenceNumber and SubmittedAt before
// rendering; everything else is filled in by the form layer.
type ApplicantRecord struct {
	ReferenceNumber string    `json:"reference_number"`
	SubmittedAt     time.Time `json:"submitted_at"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes,omitempty"`

	Employment []EmploymentRecord `json:"employment"`
	References []Reference        `json:"references"`
	Languages  []LanguageSkill    `json:"languages"`
}

// EmploymentRecord is one entry of the applicant's work history.
type EmploymentRecord struct {
	Employer string `json:"employer"`
	Position string `json:"position"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
}

// Reference is a personal or professional reference named by the applicant.
type Reference struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// LanguageSkill is a declared language with a proficiency level.
type LanguageSkill struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}
