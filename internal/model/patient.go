package model

import (
	"time"

	"github.com/medicabinet/cabinet/internal/validate"
)

// Patient is a clinic patient record. The security number is the primary
// key, fixed at construction; uniqueness is enforced by the patient store,
// not here.
type Patient struct {
	SecurityNumber string    `json:"security_number"`
	Surname        string    `json:"surname"`
	GivenName      string    `json:"given_name"`
	BirthDate      time.Time `json:"birth_date"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`

	// ConsultationIDs is a non-owning back-reference to the patient's
	// consultations, maintained by the consultation store.
	ConsultationIDs []string `json:"consultation_ids,omitempty"`
}

// Age returns the patient's age in whole years at the given instant.
func (p *Patient) Age(at time.Time) int {
	return validate.Age(p.BirthDate, at)
}

// AddConsultation records a consultation id on the patient's history.
func (p *Patient) AddConsultation(id string) {
	p.ConsultationIDs = append(p.ConsultationIDs, id)
}

type CreatePatientRequest struct {
	SecurityNumber string `json:"security_number" validate:"required,len=15,number"`
	Surname        string `json:"surname" validate:"required"`
	GivenName      string `json:"given_name" validate:"required"`
	BirthDate      string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}
