package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/cache"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/repository/memory"
	"github.com/jwalitptl/clinic-api/internal/service/appointment"
	"github.com/jwalitptl/clinic-api/internal/service/identity"
	"github.com/jwalitptl/clinic-api/internal/service/patient"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

type fixture struct {
	store        *memory.Store
	metrics      *metrics.Metrics
	identity     *identity.Service
	patients     *patient.Service
	appointments *appointment.Service
	coordinator  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	backend := cache.NewLocal(time.Minute)
	t.Cleanup(func() { backend.Close() })
	listing := cache.NewListing(backend, time.Minute, m)

	ids := identity.NewService(store, security.NewBcryptHasher(bcrypt.MinCost), listing, "temp_password")
	return &fixture{
		store:        store,
		metrics:      m,
		identity:     ids,
		patients:     patient.NewService(store, listing),
		appointments: appointment.NewService(store, listing),
		coordinator:  NewService(store, ids, listing, m),
	}
}

func strPtr(s string) *string { return &s }

// book registers D101, creates Jane Doe and books her with D101.
func (f *fixture) book(t *testing.T) (staffID, patientID, appointmentID int64) {
	t.Helper()
	ctx := context.Background()
	staffID, err := f.identity.Register(ctx, "D101", "Dr. Smith", model.RoleDoctor, "Mon,Wed,Fri")
	require.NoError(t, err)
	patientID, err = f.patients.Create(ctx, "Jane Doe", 40, "flu")
	require.NoError(t, err)
	appointmentID, err = f.appointments.Book(ctx, patientID, "D101", "2025-01-10", "10:00")
	require.NoError(t, err)
	return staffID, patientID, appointmentID
}

func TestRenameStaff_DropsAppointmentsFromListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	staffID, _, appointmentID := f.book(t)

	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "D101", rows[0].ResolvedStaffCode)
	assert.Equal(t, "Dr. Smith", rows[0].StaffName)
	assert.Equal(t, "Jane Doe", rows[0].PatientName)

	require.NoError(t, f.coordinator.RenameStaff(ctx, staffID, model.StaffUpdate{Code: strPtr("D102")}))

	// The appointment still names D101, which no longer resolves.
	rows, err = f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	stored, err := f.store.Appointments().Get(ctx, appointmentID)
	require.NoError(t, err)
	assert.Equal(t, "D101", stored.StaffCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaffRenames.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestRenameStaff_NameChangeIsRetroactive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	staffID, _, _ := f.book(t)

	_, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.RenameStaff(ctx, staffID, model.StaffUpdate{Name: strPtr("Dr. Smith-Jones")}))
	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dr. Smith-Jones", rows[0].StaffName)
}

func TestRenameStaff_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	staffID, _, _ := f.book(t)
	_, err := f.identity.Register(ctx, "D102", "Dr. Jones", model.RoleDoctor, "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.coordinator.RenameStaff(ctx, staffID, model.StaffUpdate{}), apperrors.NoFieldsError)
	assert.ErrorIs(t, f.coordinator.RenameStaff(ctx, staffID, model.StaffUpdate{Code: strPtr("D102")}), apperrors.DuplicateCodeError)
	assert.ErrorIs(t, f.coordinator.RenameStaff(ctx, 999, model.StaffUpdate{Code: strPtr("D103")}), apperrors.NotFoundError)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.StaffRenames.WithLabelValues(metrics.OutcomeFailure)))

	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCompleteAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, patientID, appointmentID := f.book(t)

	_, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.CompleteAppointment(ctx, appointmentID, patientID))

	_, err = f.store.Appointments().Get(ctx, appointmentID)
	assert.ErrorIs(t, err, apperrors.NotFoundError)
	_, err = f.store.Patients().Get(ctx, patientID)
	assert.ErrorIs(t, err, apperrors.NotFoundError)

	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Completions.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestCompleteAppointment_MissingAppointmentKeepsPatient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	patientID, err := f.patients.Create(ctx, "Jane Doe", 40, "flu")
	require.NoError(t, err)
	require.Equal(t, int64(1), patientID)

	err = f.coordinator.CompleteAppointment(ctx, 99, 1)
	assert.ErrorIs(t, err, apperrors.CompletionFailedError)
	assert.ErrorIs(t, err, apperrors.NotFoundError)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CompletionFailed", appErr.Kind())

	_, err = f.store.Patients().Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Completions.WithLabelValues(metrics.OutcomeFailure)))
}

func TestCompleteAppointment_MissingPatientRollsBackAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, _, appointmentID := f.book(t)

	err := f.coordinator.CompleteAppointment(ctx, appointmentID, 404)
	assert.ErrorIs(t, err, apperrors.CompletionFailedError)

	_, err = f.store.Appointments().Get(ctx, appointmentID)
	assert.NoError(t, err)
	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

// The patient id is not checked against the appointment, so a mismatched pair
// deletes both records as given.
func TestCompleteAppointment_MismatchedIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, janeID, janeAppt := f.book(t)
	johnID, err := f.patients.Create(ctx, "John Roe", 52, "cold")
	require.NoError(t, err)
	johnAppt, err := f.appointments.Book(ctx, johnID, "D101", "2025-01-11", "11:00")
	require.NoError(t, err)

	require.NoError(t, f.coordinator.CompleteAppointment(ctx, janeAppt, johnID))

	_, err = f.store.Appointments().Get(ctx, janeAppt)
	assert.ErrorIs(t, err, apperrors.NotFoundError)
	_, err = f.store.Patients().Get(ctx, johnID)
	assert.ErrorIs(t, err, apperrors.NotFoundError)

	_, err = f.store.Patients().Get(ctx, janeID)
	assert.NoError(t, err)
	_, err = f.store.Appointments().Get(ctx, johnAppt)
	assert.NoError(t, err)

	// John's appointment no longer resolves; Jane has none left.
	rows, err := f.appointments.ListResolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCompleteAppointment_ConcurrentCallsSucceedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, patientID, appointmentID := f.book(t)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.coordinator.CompleteAppointment(ctx, appointmentID, patientID)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, failed int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperrors.CompletionFailedError)
		failed++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, failed)
}

// Readers snapshot both relations in one unit of work and must never see an
// appointment without its patient or a patient without its appointment.
func TestCompleteAppointment_NoMixedStateVisible(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.identity.Register(ctx, "D101", "Dr. Smith", model.RoleDoctor, "")
	require.NoError(t, err)

	const pairs = 50
	pairOf := map[int64]int64{}
	for i := 0; i < pairs; i++ {
		pid, err := f.patients.Create(ctx, "Patient", 30, "")
		require.NoError(t, err)
		aid, err := f.appointments.Book(ctx, pid, "D101", "2025-01-10", "10:00")
		require.NoError(t, err)
		pairOf[aid] = pid
	}

	stop := make(chan struct{})
	var readers sync.WaitGroup
	violations := make(chan string, 100)
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = f.store.WithTx(ctx, func(tx repository.Repositories) error {
					appts, err := tx.Appointments().List(ctx)
					if err != nil {
						return err
					}
					patients, err := tx.Patients().List(ctx)
					if err != nil {
						return err
					}
					havePatient := map[int64]bool{}
					for _, p := range patients {
						havePatient[p.ID] = true
					}
					haveAppt := map[int64]bool{}
					for _, a := range appts {
						haveAppt[a.ID] = true
					}
					for aid, pid := range pairOf {
						if haveAppt[aid] != havePatient[pid] {
							select {
							case violations <- "mixed state observed":
							default:
							}
						}
					}
					return nil
				})
			}
		}()
	}

	var writers sync.WaitGroup
	for aid, pid := range pairOf {
		writers.Add(1)
		go func(aid, pid int64) {
			defer writers.Done()
			// Every other pair is completed with a bogus patient id and must roll back.
			if aid%2 == 0 {
				_ = f.coordinator.CompleteAppointment(ctx, aid, pid+10_000)
				return
			}
			_ = f.coordinator.CompleteAppointment(ctx, aid, pid)
		}(aid, pid)
	}
	writers.Wait()
	close(stop)
	readers.Wait()
	close(violations)

	for v := range violations {
		t.Error(v)
	}

	remaining, err := f.store.Appointments().List(ctx)
	require.NoError(t, err)
	for _, a := range remaining {
		assert.Zero(t, a.ID%2, "odd appointment %d should be completed", a.ID)
	}
	assert.Len(t, remaining, pairs/2)
}
