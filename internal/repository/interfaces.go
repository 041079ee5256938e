package repository

import (
	"github.com/medicabinet/cabinet/internal/model"
)

// Document is the complete persisted state. Both entity sets live in a
// single file and are always written together.
type Document struct {
	Patients      []model.Patient      `json:"patients"`
	Consultations []model.Consultation `json:"consultations"`
}

// DocumentStore reads and rewrites the whole persisted document. Every
// mutation is a full-file rewrite; there is no append log or journaling.
type DocumentStore interface {
	Load() (*Document, error)
	Save(doc *Document) error
}
