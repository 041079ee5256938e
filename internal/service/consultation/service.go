package consultation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicabinet/cabinet/internal/model"
	"github.com/medicabinet/cabinet/internal/repository"
	"github.com/medicabinet/cabinet/internal/service/audit"
	"github.com/medicabinet/cabinet/pkg/apperror"
)

// PatientDirectory is the slice of the patient store the consultation
// store depends on: patient lookup and the combined-document write.
type PatientDirectory interface {
	Find(securityNumber string) (*model.Patient, error)
	Persist(ctx context.Context, consultations []model.Consultation) error
}

// Service owns the consultation collection and its status state machine.
// It never writes the data file itself; every mutation hands a full
// consultation snapshot to the patient store, which flushes both entity
// sets together.
type Service struct {
	patients PatientDirectory
	recorder audit.Recorder
	log      zerolog.Logger
	now      func() time.Time

	consultations []*model.Consultation
	byID          map[string]*model.Consultation
}

func NewService(store repository.DocumentStore, patients PatientDirectory, recorder audit.Recorder, log zerolog.Logger) (*Service, error) {
	s := &Service{
		patients: patients,
		recorder: recorder,
		log:      log,
		now:      time.Now,
		byID:     make(map[string]*model.Consultation),
	}

	doc, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load consultation records: %w", err)
	}
	for i := range doc.Consultations {
		c := doc.Consultations[i]
		s.consultations = append(s.consultations, &c)
		s.byID[c.ID] = &c
	}
	return s, nil
}

// Schedule creates a consultation for an existing patient. The new record
// starts scheduled, with no diagnosis and no prescriptions, and is
// persisted before being returned.
func (s *Service) Schedule(ctx context.Context, securityNumber string, at time.Time, physician, reason string) (*model.Consultation, error) {
	p, err := s.patients.Find(securityNumber)
	if err != nil {
		return nil, err
	}

	c := &model.Consultation{
		ID:                    uuid.NewString(),
		PatientSecurityNumber: securityNumber,
		DateTime:              at,
		Physician:             physician,
		Reason:                reason,
		Prescriptions:         []model.PrescriptionRecord{},
		Status:                model.ConsultationStatusScheduled,
	}
	s.consultations = append(s.consultations, c)
	s.byID[c.ID] = c
	p.AddConsultation(c.ID)

	if err := s.persist(ctx); err != nil {
		return nil, fmt.Errorf("failed to persist consultation %s: %w", c.ID, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("consultation %s scheduled for patient %s", c.ID, securityNumber))
	s.log.Info().
		Str("consultation_id", c.ID).
		Str("security_number", securityNumber).
		Time("date_time", at).
		Msg("consultation scheduled")
	return c, nil
}

// ListUpcoming returns scheduled consultations whose date-time has not
// passed, sorted ascending by date-time.
func (s *Service) ListUpcoming() []*model.Consultation {
	now := s.now()
	var upcoming []*model.Consultation
	for _, c := range s.consultations {
		if c.Status == model.ConsultationStatusScheduled && !c.DateTime.Before(now) {
			upcoming = append(upcoming, c)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DateTime.Before(upcoming[j].DateTime)
	})
	return upcoming
}

// History returns the consultations of a known patient, derived by
// filtering the collection on the patient's security number.
func (s *Service) History(securityNumber string) ([]*model.Consultation, error) {
	if _, err := s.patients.Find(securityNumber); err != nil {
		return nil, err
	}

	var history []*model.Consultation
	for _, c := range s.consultations {
		if c.PatientSecurityNumber == securityNumber {
			history = append(history, c)
		}
	}
	return history, nil
}

// MarkCompleted transitions a consultation to completed. A cancelled
// consultation cannot be completed.
func (s *Service) MarkCompleted(ctx context.Context, id string) error {
	c, err := s.find(id)
	if err != nil {
		return err
	}
	if c.Status == model.ConsultationStatusCancelled {
		return apperror.InvalidConsultationStatus("cannot complete a cancelled consultation")
	}

	c.Status = model.ConsultationStatusCompleted
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist consultation %s: %w", id, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("consultation %s completed", id))
	s.log.Info().Str("consultation_id", id).Msg("consultation completed")
	return nil
}

// Cancel transitions a consultation to cancelled. Cancelling a completed
// consultation is rejected; cancelling an already-cancelled one is a
// no-op rewrite.
func (s *Service) Cancel(ctx context.Context, id string) error {
	c, err := s.find(id)
	if err != nil {
		return err
	}
	if c.Status == model.ConsultationStatusCompleted {
		return apperror.InvalidConsultationStatus("cannot cancel a completed consultation")
	}

	c.Status = model.ConsultationStatusCancelled
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist consultation %s: %w", id, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("consultation %s cancelled", id))
	s.log.Info().Str("consultation_id", id).Msg("consultation cancelled")
	return nil
}

// AddDiagnosis sets the diagnosis text. Allowed only once the
// consultation is completed.
func (s *Service) AddDiagnosis(ctx context.Context, id, diagnosis string) error {
	c, err := s.find(id)
	if err != nil {
		return err
	}
	if c.Status != model.ConsultationStatusCompleted {
		return apperror.InvalidConsultationStatus("diagnosis requires a completed consultation")
	}

	c.Diagnosis = &diagnosis
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist consultation %s: %w", id, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("diagnosis added to consultation %s", id))
	s.log.Info().Str("consultation_id", id).Msg("diagnosis added")
	return nil
}

// AddPrescription appends the flattened form of a prescription to the
// consultation. No status restriction applies.
func (s *Service) AddPrescription(ctx context.Context, id string, p model.Prescription) error {
	c, err := s.find(id)
	if err != nil {
		return err
	}

	c.Prescriptions = append(c.Prescriptions, p.Record())
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist consultation %s: %w", id, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("prescription added to consultation %s", id))
	s.log.Info().
		Str("consultation_id", id).
		Str("type", string(p.Type)).
		Msg("prescription added")
	return nil
}

// Reschedule moves a consultation to a new date-time. Only scheduled
// consultations may change.
func (s *Service) Reschedule(ctx context.Context, id string, at time.Time) error {
	c, err := s.find(id)
	if err != nil {
		return err
	}
	if !c.CanModify() {
		return apperror.InvalidConsultationStatus("only a scheduled consultation can be rescheduled")
	}

	c.DateTime = at
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist consultation %s: %w", id, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("consultation %s rescheduled", id))
	s.log.Info().Str("consultation_id", id).Time("date_time", at).Msg("consultation rescheduled")
	return nil
}

func (s *Service) find(id string) (*model.Consultation, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, apperror.ConsultationNotFound(id)
	}
	return c, nil
}

func (s *Service) persist(ctx context.Context) error {
	snapshot := make([]model.Consultation, 0, len(s.consultations))
	for _, c := range s.consultations {
		snapshot = append(snapshot, *c)
	}
	return s.patients.Persist(ctx, snapshot)
}
