package model

import "fmt"

type PrescriptionType string

const (
	PrescriptionTypeMedicated     PrescriptionType = "medicated"
	PrescriptionTypeExamination   PrescriptionType = "examination"
	PrescriptionTypePhysiotherapy PrescriptionType = "physiotherapy"
)

// Prescription is a tagged union over the three prescription shapes.
// Description, Posology and Duration are shared by every variant; the
// remaining fields belong to the variant named by Type. A prescription is
// immutable once built and owned by exactly one consultation.
type Prescription struct {
	Type        PrescriptionType
	Description string
	Posology    string
	Duration    string

	// Medicated
	Drug      string
	Dosage    string
	Frequency string

	// Examination
	ExamType   string
	Laboratory string

	// Physiotherapy
	SessionCount int
	TreatedZone  string
}

// PrescriptionRecord is the flattened persisted form: tag plus shared
// fields only. Variant-specific fields are dropped on serialization, a
// known narrowing of the persisted schema.
type PrescriptionRecord struct {
	Type        PrescriptionType `json:"type"`
	Description string           `json:"description"`
	Posology    string           `json:"posology"`
	Duration    string           `json:"duration"`
}

func NewMedicatedPrescription(drug, dosage, frequency, duration string) Prescription {
	return Prescription{
		Type:        PrescriptionTypeMedicated,
		Description: drug,
		Posology:    dosage,
		Duration:    duration,
		Drug:        drug,
		Dosage:      dosage,
		Frequency:   frequency,
	}
}

func NewExaminationPrescription(examType, laboratory string) Prescription {
	return Prescription{
		Type:        PrescriptionTypeExamination,
		Description: examType,
		Posology:    "n/a",
		Duration:    "n/a",
		ExamType:    examType,
		Laboratory:  laboratory,
	}
}

func NewPhysiotherapyPrescription(sessionCount int, treatedZone string) Prescription {
	return Prescription{
		Type:         PrescriptionTypePhysiotherapy,
		Description:  "physiotherapy",
		Posology:     formatSessions(sessionCount),
		Duration:     "per session",
		SessionCount: sessionCount,
		TreatedZone:  treatedZone,
	}
}

func formatSessions(n int) string {
	return fmt.Sprintf("%d sessions", n)
}

// Record returns the flattened persisted form of the prescription.
func (p Prescription) Record() PrescriptionRecord {
	return PrescriptionRecord{
		Type:        p.Type,
		Description: p.Description,
		Posology:    p.Posology,
		Duration:    p.Duration,
	}
}
