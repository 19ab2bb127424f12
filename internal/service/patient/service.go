package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type PatientService interface {
	Create(ctx context.Context, name string, age int, condition string) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Patient, error)
}

type Service struct {
	store   repository.Store
	listing Invalidator
}

func NewService(store repository.Store, listing Invalidator) *Service {
	return &Service{store: store, listing: listing}
}

func (s *Service) Create(ctx context.Context, name string, age int, condition string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.BadRequest("patient name is required", nil)
	}
	if age < 0 {
		return 0, apperrors.BadRequest("age must not be negative", nil)
	}

	patient := &model.Patient{Name: name, Age: age, Condition: condition}
	if err := s.store.Patients().Create(ctx, patient); err != nil {
		return 0, fmt.Errorf("failed to create patient: %w", err)
	}
	s.listing.Invalidate(ctx)
	return patient.ID, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Patients().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.listing.Invalidate(ctx)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.store.Patients().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
