package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/medicabinet/cabinet/internal/model"
	"github.com/medicabinet/cabinet/internal/repository"
	"github.com/medicabinet/cabinet/pkg/apperror"
)

// Store persists the clinic document as one JSON file with two top-level
// arrays, patients and consultations.
type Store struct {
	path string
	log  zerolog.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the persisted document. A missing file is bootstrapped to an
// empty document; an unreadable or syntactically broken file degrades to
// empty as well. A consultation carrying an unrecognized status string is
// a data-integrity error and fails the load.
func (s *Store) Load() (*repository.Document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := emptyDocument()
		if err := s.Save(doc); err != nil {
			return nil, fmt.Errorf("failed to bootstrap data file: %w", err)
		}
		return doc, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("unreadable data file, treating as empty")
		return emptyDocument(), nil
	}

	var doc repository.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("malformed data file, treating as empty")
		return emptyDocument(), nil
	}

	for i := range doc.Consultations {
		c := &doc.Consultations[i]
		status, err := model.ParseConsultationStatus(string(c.Status))
		if err != nil {
			return nil, apperror.CorruptRecord(
				fmt.Sprintf("consultation %s has a corrupt status", c.ID), err)
		}
		c.Status = status
	}

	if doc.Patients == nil {
		doc.Patients = []model.Patient{}
	}
	if doc.Consultations == nil {
		doc.Consultations = []model.Consultation{}
	}
	return &doc, nil
}

// Save rewrites the whole document in place.
func (s *Store) Save(doc *repository.Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}

	s.log.Debug().
		Str("path", s.path).
		Int("patients", len(doc.Patients)).
		Int("consultations", len(doc.Consultations)).
		Msg("document saved")
	return nil
}

func emptyDocument() *repository.Document {
	return &repository.Document{
		Patients:      []model.Patient{},
		Consultations: []model.Consultation{},
	}
}
