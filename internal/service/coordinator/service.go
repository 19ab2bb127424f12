// Package coordinator runs the operations that span more than one store.
package coordinator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type Invalidator interface {
	Invalidate(ctx context.Context)
}

// StaffUpdater is the identity operation a rename delegates to.
type StaffUpdater interface {
	Update(ctx context.Context, id int64, update model.StaffUpdate) error
}

type CoordinatorService interface {
	RenameStaff(ctx context.Context, id int64, update model.StaffUpdate) error
	CompleteAppointment(ctx context.Context, appointmentID, patientID int64) error
}

type Service struct {
	store    repository.Store
	identity StaffUpdater
	listing  Invalidator
	metrics  *metrics.Metrics
}

func NewService(store repository.Store, identity StaffUpdater, listing Invalidator, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		identity: identity,
		listing:  listing,
		metrics:  m,
	}
}

// RenameStaff updates the staff record only. Appointments booked against the
// previous code are not rewritten and stop resolving once the code changes.
func (s *Service) RenameStaff(ctx context.Context, id int64, update model.StaffUpdate) error {
	err := s.identity.Update(ctx, id, update)
	if s.metrics != nil {
		s.metrics.StaffRenames.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	return err
}

// CompleteAppointment deletes the appointment and the patient in one unit of
// work. If either delete fails neither takes effect. The patient id is not
// checked against the appointment's patient.
func (s *Service) CompleteAppointment(ctx context.Context, appointmentID, patientID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Appointments().Delete(ctx, appointmentID); err != nil {
			return fmt.Errorf("failed to delete appointment %d: %w", appointmentID, err)
		}
		if err := tx.Patients().Delete(ctx, patientID); err != nil {
			return fmt.Errorf("failed to delete patient %d: %w", patientID, err)
		}
		return nil
	})
	if s.metrics != nil {
		s.metrics.Completions.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Int64("appointment_id", appointmentID).
			Int64("patient_id", patientID).
			Msg("appointment completion rolled back")
		return apperrors.CompletionFailed(err)
	}

	s.listing.Invalidate(ctx)
	return nil
}
