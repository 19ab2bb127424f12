package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

// Invalidator drops cached views that depend on staff records.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type IdentityService interface {
	Register(ctx context.Context, code, name string, role model.Role, availableDays string) (int64, error)
	Update(ctx context.Context, id int64, update model.StaffUpdate) error
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.StaffMember, error)
	GetByCode(ctx context.Context, code string) (*model.StaffMember, error)
	Authenticate(ctx context.Context, code, password string) (*model.StaffMember, error)
	Seed(ctx context.Context, members []SeedMember) error
}

// SeedMember is a staff member created at startup if its code is free.
type SeedMember struct {
	Code          string
	Name          string
	Role          model.Role
	AvailableDays string
	Password      string
}

type Service struct {
	store           repository.Store
	hasher          security.PasswordHasher
	listing         Invalidator
	defaultPassword string
}

func NewService(store repository.Store, hasher security.PasswordHasher, listing Invalidator, defaultPassword string) *Service {
	return &Service{
		store:           store,
		hasher:          hasher,
		listing:         listing,
		defaultPassword: defaultPassword,
	}
}

// Register creates a staff member with the default credential.
func (s *Service) Register(ctx context.Context, code, name string, role model.Role, availableDays string) (int64, error) {
	return s.register(ctx, code, name, role, availableDays, s.defaultPassword)
}

func (s *Service) register(ctx context.Context, code, name string, role model.Role, availableDays, password string) (int64, error) {
	if !role.Valid() {
		return 0, apperrors.InvalidRole(string(role))
	}
	code = NormalizeCode(code)
	if code == "" {
		return 0, apperrors.BadRequest("staff code is required", nil)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = code
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, apperrors.Internal(fmt.Errorf("failed to hash credential: %w", err))
	}

	staff := &model.StaffMember{
		Code:          code,
		Name:          name,
		PasswordHash:  hash,
		Role:          role,
		AvailableDays: availableDays,
	}
	if err := s.store.Staff().Create(ctx, staff); err != nil {
		return 0, fmt.Errorf("failed to register staff member: %w", err)
	}

	// A new code can resolve appointments booked against it earlier.
	s.listing.Invalidate(ctx)
	return staff.ID, nil
}

// Update applies a partial update. Empty code or name strings are treated as
// absent; an empty availability is a value.
func (s *Service) Update(ctx context.Context, id int64, update model.StaffUpdate) error {
	update = normalize(update)
	if update.Empty() {
		return apperrors.NoFieldsProvided()
	}

	if err := s.store.Staff().Update(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	s.listing.Invalidate(ctx)
	return nil
}

// NormalizeCode returns a staff code in the form it is stored and looked up.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

func normalize(u model.StaffUpdate) model.StaffUpdate {
	if u.Code != nil {
		code := NormalizeCode(*u.Code)
		u.Code = &code
		if code == "" {
			u.Code = nil
		}
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		u.Name = &name
		if name == "" {
			u.Name = nil
		}
	}
	return u
}

// Remove deletes the staff record only. Appointments booked against its code
// stay in place and drop out of the resolved listing.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.store.Staff().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove staff member: %w", err)
	}
	s.listing.Invalidate(ctx)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.StaffMember, error) {
	staff, err := s.store.Staff().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*model.StaffMember, error) {
	staff, err := s.store.Staff().GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

// Authenticate returns Unauthorized for an unknown code and for a wrong
// password alike.
func (s *Service) Authenticate(ctx context.Context, code, password string) (*model.StaffMember, error) {
	staff, err := s.store.Staff().GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.NotFoundError) {
			return nil, apperrors.Unauthorized(nil)
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := s.hasher.Compare(staff.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return staff, nil
}

// Seed registers members whose code is not taken yet. Existing records are
// left as they are.
func (s *Service) Seed(ctx context.Context, members []SeedMember) error {
	for _, m := range members {
		password := m.Password
		if password == "" {
			password = s.defaultPassword
		}
		id, err := s.register(ctx, m.Code, m.Name, m.Role, m.AvailableDays, password)
		if errors.Is(err, apperrors.DuplicateCodeError) {
			log.Ctx(ctx).Debug().Str("staff_code", m.Code).Msg("seed staff member already present")
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed staff member %s: %w", m.Code, err)
		}
		log.Ctx(ctx).Info().Str("staff_code", m.Code).Int64("id", id).Msg("seeded staff member")
	}
	return nil
}
