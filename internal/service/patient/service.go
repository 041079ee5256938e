package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medicabinet/cabinet/internal/model"
	"github.com/medicabinet/cabinet/internal/repository"
	"github.com/medicabinet/cabinet/internal/service/audit"
	"github.com/medicabinet/cabinet/internal/validate"
	"github.com/medicabinet/cabinet/pkg/apperror"
)

// Service is the single source of truth for patients. It owns the patient
// collection and the persistence of the combined document: the
// consultation store delegates all file writes here so both entity sets
// stay in one file, written together.
type Service struct {
	store    repository.DocumentStore
	recorder audit.Recorder
	log      zerolog.Logger

	// Map for lookup plus an explicit order slice: listing must follow
	// insertion order, which map iteration does not guarantee.
	patients map[string]*model.Patient
	order    []string
}

func NewService(store repository.DocumentStore, recorder audit.Recorder, log zerolog.Logger) (*Service, error) {
	s := &Service{
		store:    store,
		recorder: recorder,
		log:      log,
		patients: make(map[string]*model.Patient),
	}

	doc, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load patient records: %w", err)
	}
	for i := range doc.Patients {
		p := doc.Patients[i]
		s.patients[p.SecurityNumber] = &p
		s.order = append(s.order, p.SecurityNumber)
	}
	return s, nil
}

// Add validates and stores a patient, then persists synchronously. A
// duplicate security number silently replaces the previous record.
func (s *Service) Add(ctx context.Context, p *model.Patient) error {
	if err := validate.SecurityNumber(p.SecurityNumber); err != nil {
		return err
	}

	if _, exists := s.patients[p.SecurityNumber]; !exists {
		s.order = append(s.order, p.SecurityNumber)
	}
	s.patients[p.SecurityNumber] = p

	if err := s.Persist(ctx, nil); err != nil {
		return fmt.Errorf("failed to persist patient %s: %w", p.SecurityNumber, err)
	}

	s.recorder.Record(ctx, fmt.Sprintf("patient %s added", p.SecurityNumber))
	s.log.Info().Str("security_number", p.SecurityNumber).Msg("patient added")
	return nil
}

// Find returns the stored patient by security number. The returned handle
// is shared, not a copy: the consultation store mutates its back-reference
// list through it.
func (s *Service) Find(securityNumber string) (*model.Patient, error) {
	p, ok := s.patients[securityNumber]
	if !ok {
		return nil, apperror.PatientNotFound(securityNumber)
	}
	return p, nil
}

// List returns all patients in insertion order.
func (s *Service) List() []*model.Patient {
	out := make([]*model.Patient, 0, len(s.order))
	for _, num := range s.order {
		out = append(out, s.patients[num])
	}
	return out
}

// Persist writes all patients plus the supplied consultation snapshot to
// the data file. With a nil snapshot the consultations already persisted
// are read back and carried over, so a patient-side write never clobbers
// the consultation store's data.
func (s *Service) Persist(_ context.Context, consultations []model.Consultation) error {
	if consultations == nil {
		existing, err := s.store.Load()
		if err != nil {
			return fmt.Errorf("failed to read existing consultations: %w", err)
		}
		consultations = existing.Consultations
	}

	doc := &repository.Document{
		Patients:      make([]model.Patient, 0, len(s.order)),
		Consultations: consultations,
	}
	for _, num := range s.order {
		doc.Patients = append(doc.Patients, *s.patients[num])
	}

	if err := s.store.Save(doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
