package model

import (
	"fmt"
	"time"
)

type ConsultationStatus string

const (
	ConsultationStatusScheduled ConsultationStatus = "scheduled"
	ConsultationStatusCompleted ConsultationStatus = "completed"
	ConsultationStatusCancelled ConsultationStatus = "cancelled"
)

// ParseConsultationStatus maps a persisted status string onto the closed
// enumeration. Anything else is a data-integrity failure, never silently
// skipped.
func ParseConsultationStatus(s string) (ConsultationStatus, error) {
	switch ConsultationStatus(s) {
	case ConsultationStatusScheduled, ConsultationStatusCompleted, ConsultationStatusCancelled:
		return ConsultationStatus(s), nil
	}
	return "", fmt.Errorf("unknown consultation status %q", s)
}

// Terminal reports whether no transition leaves this status. The single
// exception is cancelling an already-cancelled consultation, which the
// consultation store treats as a no-op rewrite.
func (s ConsultationStatus) Terminal() bool {
	return s == ConsultationStatusCompleted || s == ConsultationStatusCancelled
}

// Consultation is a scheduled clinical appointment. It references its
// patient by security number and always refers to a patient that existed
// at creation time.
type Consultation struct {
	ID                    string               `json:"id"`
	PatientSecurityNumber string               `json:"patient_security_number"`
	DateTime              time.Time            `json:"date_time"`
	Physician             string               `json:"physician"`
	Reason                string               `json:"reason"`
	Diagnosis             *string              `json:"diagnosis"`
	Prescriptions         []PrescriptionRecord `json:"prescriptions"`
	Status                ConsultationStatus   `json:"status"`
}

// CanModify reports whether the consultation details may still change.
// Only scheduled consultations are editable.
func (c *Consultation) CanModify() bool {
	return c.Status == ConsultationStatusScheduled
}
