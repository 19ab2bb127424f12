package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// ListingCache holds the resolved listing. Get returns a generation that Put
// must be given back; see cache.Listing.
type ListingCache interface {
	Get(ctx context.Context) ([]*model.ResolvedAppointment, int64, bool)
	Put(ctx context.Context, generation int64, items []*model.ResolvedAppointment)
	Invalidate(ctx context.Context)
}

type AppointmentService interface {
	Book(ctx context.Context, patientID int64, staffCode, date, time string) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListResolved(ctx context.Context) ([]*model.ResolvedAppointment, error)
}

type Service struct {
	store   repository.Store
	listing ListingCache
}

func NewService(store repository.Store, listing ListingCache) *Service {
	return &Service{store: store, listing: listing}
}

// Book stores the appointment without checking that the patient or the staff
// code exist. Unresolvable bookings are left out of ListResolved.
func (s *Service) Book(ctx context.Context, patientID int64, staffCode, date, time string) (int64, error) {
	staffCode = strings.TrimSpace(staffCode)
	if staffCode == "" {
		return 0, apperrors.BadRequest("doctor_id is required", nil)
	}

	appointment := &model.Appointment{
		PatientID: patientID,
		StaffCode: staffCode,
		Date:      date,
		Time:      time,
	}
	if err := s.store.Appointments().Create(ctx, appointment); err != nil {
		return 0, fmt.Errorf("failed to book appointment: %w", err)
	}
	s.listing.Invalidate(ctx)
	return appointment.ID, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Appointments().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	s.listing.Invalidate(ctx)
	return nil
}

// ListResolved joins every appointment against the current staff and patient
// records. Rows whose references do not resolve are omitted.
func (s *Service) ListResolved(ctx context.Context) ([]*model.ResolvedAppointment, error) {
	items, gen, ok := s.listing.Get(ctx)
	if ok {
		return items, nil
	}

	items, err := s.store.Appointments().ListResolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	s.listing.Put(ctx, gen, items)
	return items, nil
}
