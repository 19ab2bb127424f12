package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/repository"
)

type repositories struct {
	staff        *staffRepository
	patients     *patientRepository
	appointments *appointmentRepository
}

// newRepositories binds all repositories to q, which is either the pool or
// an open transaction.
func newRepositories(q sqlx.ExtContext) *repositories {
	return &repositories{
		staff:        &staffRepository{db: q},
		patients:     &patientRepository{db: q},
		appointments: &appointmentRepository{db: q},
	}
}

func (r *repositories) Staff() repository.StaffRepository             { return r.staff }
func (r *repositories) Patients() repository.PatientRepository         { return r.patients }
func (r *repositories) Appointments() repository.AppointmentRepository { return r.appointments }

var _ repository.Store = (*Store)(nil)

// Store is the Postgres-backed repository.Store.
type Store struct {
	BaseRepository
	*repositories
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		BaseRepository: NewBaseRepository(db),
		repositories:   newRepositories(db),
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.BaseRepository.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(newRepositories(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
