package consultation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicabinet/cabinet/internal/model"
	"github.com/medicabinet/cabinet/internal/repository/file"
	"github.com/medicabinet/cabinet/internal/service/audit"
	"github.com/medicabinet/cabinet/internal/service/patient"
	"github.com/medicabinet/cabinet/pkg/apperror"
)

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	patients *patient.Service
	store    *file.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := file.NewStore(filepath.Join(t.TempDir(), "cabinet.json"), zerolog.Nop())

	patients, err := patient.NewService(store, audit.NopRecorder{}, zerolog.Nop())
	require.NoError(t, err)

	svc, err := NewService(store, patients, audit.NopRecorder{}, zerolog.Nop())
	require.NoError(t, err)
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, patients: patients, store: store}
}

func (f *fixture) addPatient(t *testing.T, num string) {
	t.Helper()
	require.NoError(t, f.patients.Add(context.Background(), &model.Patient{
		SecurityNumber: num,
		Surname:        "Martin",
		GivenName:      "Claire",
		BirthDate:      time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
	}))
}

func (f *fixture) schedule(t *testing.T, num string, at time.Time) *model.Consultation {
	t.Helper()
	c, err := f.svc.Schedule(context.Background(), num, at, "Dr. Roy", "checkup")
	require.NoError(t, err)
	return c
}

func TestScheduleUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Schedule(context.Background(), "999999999999999", testNow.Add(time.Hour), "Dr. Roy", "checkup")
	assert.True(t, apperror.IsCode(err, apperror.CodePatientNotFound))

	// no consultation was created
	assert.Empty(t, f.svc.ListUpcoming())
	doc, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Consultations)
}

func TestScheduleCreatesScheduledConsultation(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")

	c := f.schedule(t, "123456789012345", testNow.Add(24*time.Hour))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.ConsultationStatusScheduled, c.Status)
	assert.Nil(t, c.Diagnosis)
	assert.Empty(t, c.Prescriptions)
	assert.Equal(t, "123456789012345", c.PatientSecurityNumber)

	upcoming := f.svc.ListUpcoming()
	require.Len(t, upcoming, 1)
	assert.Equal(t, c.ID, upcoming[0].ID)
}

func TestScheduleRecordsPatientBackReference(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))

	p, err := f.patients.Find("123456789012345")
	require.NoError(t, err)
	assert.Contains(t, p.ConsultationIDs, c.ID)
}

func TestListUpcomingFiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")

	past := f.schedule(t, "123456789012345", testNow.Add(-time.Hour))
	later := f.schedule(t, "123456789012345", testNow.Add(48*time.Hour))
	sooner := f.schedule(t, "123456789012345", testNow.Add(2*time.Hour))
	cancelled := f.schedule(t, "123456789012345", testNow.Add(72*time.Hour))
	require.NoError(t, f.svc.Cancel(context.Background(), cancelled.ID))

	upcoming := f.svc.ListUpcoming()
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)

	for _, c := range upcoming {
		assert.NotEqual(t, past.ID, c.ID)
	}
}

func TestListUpcomingIncludesExactNow(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")

	c := f.schedule(t, "123456789012345", testNow)

	upcoming := f.svc.ListUpcoming()
	require.Len(t, upcoming, 1)
	assert.Equal(t, c.ID, upcoming[0].ID)
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.MarkCompleted(ctx, c.ID))
	assert.Equal(t, model.ConsultationStatusCompleted, c.Status)
}

func TestMarkCompletedOnCancelled(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.Cancel(ctx, c.ID))

	err := f.svc.MarkCompleted(ctx, c.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidConsultationStatus))
	assert.Equal(t, model.ConsultationStatusCancelled, c.Status)
}

func TestCancelOnCompleted(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.MarkCompleted(ctx, c.ID))

	err := f.svc.Cancel(ctx, c.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidConsultationStatus))
	assert.Equal(t, model.ConsultationStatusCompleted, c.Status)
}

// Cancelling an already-cancelled consultation is a no-op rewrite, not an
// error.
func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.Cancel(ctx, c.ID))
	require.NoError(t, f.svc.Cancel(ctx, c.ID))
	assert.Equal(t, model.ConsultationStatusCancelled, c.Status)
}

func TestAddDiagnosisRequiresCompleted(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))

	err := f.svc.AddDiagnosis(ctx, c.ID, "flu")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidConsultationStatus))
	assert.Nil(t, c.Diagnosis)

	require.NoError(t, f.svc.MarkCompleted(ctx, c.ID))
	require.NoError(t, f.svc.AddDiagnosis(ctx, c.ID, "flu"))
	require.NotNil(t, c.Diagnosis)
	assert.Equal(t, "flu", *c.Diagnosis)
}

func TestAddPrescriptionIgnoresStatus(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.AddPrescription(ctx, c.ID,
		model.NewMedicatedPrescription("paracetamol", "1g", "3x daily", "3 days")))

	require.NoError(t, f.svc.Cancel(ctx, c.ID))
	require.NoError(t, f.svc.AddPrescription(ctx, c.ID,
		model.NewPhysiotherapyPrescription(5, "shoulder")))

	require.Len(t, c.Prescriptions, 2)
	assert.Equal(t, model.PrescriptionRecord{
		Type:        model.PrescriptionTypeMedicated,
		Description: "paracetamol",
		Posology:    "1g",
		Duration:    "3 days",
	}, c.Prescriptions[0])
	assert.Equal(t, model.PrescriptionTypePhysiotherapy, c.Prescriptions[1].Type)
}

func TestOperationsOnUnknownConsultation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, apperror.IsCode(f.svc.MarkCompleted(ctx, "nope"), apperror.CodeConsultationNotFound))
	assert.True(t, apperror.IsCode(f.svc.Cancel(ctx, "nope"), apperror.CodeConsultationNotFound))
	assert.True(t, apperror.IsCode(f.svc.AddDiagnosis(ctx, "nope", "flu"), apperror.CodeConsultationNotFound))
	assert.True(t, apperror.IsCode(f.svc.AddPrescription(ctx, "nope", model.Prescription{}), apperror.CodeConsultationNotFound))
	assert.True(t, apperror.IsCode(f.svc.Reschedule(ctx, "nope", testNow), apperror.CodeConsultationNotFound))
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	moved := testNow.Add(36 * time.Hour)
	require.NoError(t, f.svc.Reschedule(ctx, c.ID, moved))
	assert.Equal(t, moved, c.DateTime)

	require.NoError(t, f.svc.MarkCompleted(ctx, c.ID))
	err := f.svc.Reschedule(ctx, c.ID, testNow.Add(48*time.Hour))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidConsultationStatus))
	assert.Equal(t, moved, c.DateTime)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	f.addPatient(t, "543210987654321")

	first := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	f.schedule(t, "543210987654321", testNow.Add(2*time.Hour))
	second := f.schedule(t, "123456789012345", testNow.Add(3*time.Hour))

	history, err := f.svc.History("123456789012345")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)

	_, err = f.svc.History("999999999999999")
	assert.True(t, apperror.IsCode(err, apperror.CodePatientNotFound))
}

// The scenario from the clinic workflow: schedule, complete, diagnose.
func TestCompletedConsultationWithDiagnosis(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	c := f.schedule(t, "123456789012345", time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, f.svc.MarkCompleted(ctx, c.ID))
	require.NoError(t, f.svc.AddDiagnosis(ctx, c.ID, "flu"))

	assert.Equal(t, model.ConsultationStatusCompleted, c.Status)
	require.NotNil(t, c.Diagnosis)
	assert.Equal(t, "flu", *c.Diagnosis)
	assert.Empty(t, f.svc.ListUpcoming())
}

func TestPersistReloadRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.addPatient(t, "123456789012345")
	ctx := context.Background()

	completed := f.schedule(t, "123456789012345", testNow.Add(time.Hour))
	require.NoError(t, f.svc.MarkCompleted(ctx, completed.ID))
	require.NoError(t, f.svc.AddDiagnosis(ctx, completed.ID, "flu"))
	require.NoError(t, f.svc.AddPrescription(ctx, completed.ID,
		model.NewExaminationPrescription("blood test", "city lab")))
	scheduled := f.schedule(t, "123456789012345", testNow.Add(2*time.Hour))

	patients, err := patient.NewService(f.store, audit.NopRecorder{}, zerolog.Nop())
	require.NoError(t, err)
	reloaded, err := NewService(f.store, patients, audit.NopRecorder{}, zerolog.Nop())
	require.NoError(t, err)
	reloaded.now = func() time.Time { return testNow }

	history, err := reloaded.History("123456789012345")
	require.NoError(t, err)
	require.Len(t, history, 2)

	byID := map[string]*model.Consultation{}
	for _, c := range history {
		byID[c.ID] = c
	}

	got := byID[completed.ID]
	require.NotNil(t, got)
	assert.Equal(t, model.ConsultationStatusCompleted, got.Status)
	require.NotNil(t, got.Diagnosis)
	assert.Equal(t, "flu", *got.Diagnosis)
	require.Len(t, got.Prescriptions, 1)
	assert.Equal(t, model.PrescriptionTypeExamination, got.Prescriptions[0].Type)

	require.NotNil(t, byID[scheduled.ID])
	assert.Equal(t, model.ConsultationStatusScheduled, byID[scheduled.ID].Status)

	upcoming := reloaded.ListUpcoming()
	require.Len(t, upcoming, 1)
	assert.Equal(t, scheduled.ID, upcoming[0].ID)
}
