// Package memory provides an in-memory repository.Store used for tests and
// single-process deployments. Transactions run against a cloned state that
// replaces the live state only when the unit of work succeeds.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type state struct {
	staff        map[int64]model.StaffMember
	patients     map[int64]model.Patient
	appointments map[int64]model.Appointment
}

func newState() *state {
	return &state{
		staff:        make(map[int64]model.StaffMember),
		patients:     make(map[int64]model.Patient),
		appointments: make(map[int64]model.Appointment),
	}
}

func (s *state) clone() *state {
	c := &state{
		staff:        make(map[int64]model.StaffMember, len(s.staff)),
		patients:     make(map[int64]model.Patient, len(s.patients)),
		appointments: make(map[int64]model.Appointment, len(s.appointments)),
	}
	for k, v := range s.staff {
		c.staff[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

// access runs fn against a state. write reports whether fn mutates it.
type access func(ctx context.Context, write bool, fn func(st *state) error) error

// sequences hand out surrogate ids. They live outside state so an id taken by
// a rolled-back transaction is never handed out again.
type sequences struct {
	staff        atomic.Int64
	patients     atomic.Int64
	appointments atomic.Int64
}

type Store struct {
	mu    sync.RWMutex
	state *state
	seq   *sequences
	repositories
}

func NewStore() *Store {
	s := &Store{
		state: newState(),
		seq:   &sequences{},
	}
	s.repositories = newRepositories(s.live, s.seq)
	return s
}

// live serialises access to the shared state: readers share the lock,
// writers hold it exclusively.
func (s *Store) live(ctx context.Context, write bool, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.state)
}

// WithTx holds the write lock for the whole unit of work, so concurrent
// readers observe either the state before fn or the state after it.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	tx := newRepositories(func(ctx context.Context, _ bool, f func(st *state) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return f(work)
	}, s.seq)

	if err := fn(tx); err != nil {
		return err
	}

	s.state = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

type repositories struct {
	staff        *staffRepository
	patients     *patientRepository
	appointments *appointmentRepository
}

func newRepositories(do access, seq *sequences) repositories {
	return repositories{
		staff:        &staffRepository{do: do, seq: seq},
		patients:     &patientRepository{do: do, seq: seq},
		appointments: &appointmentRepository{do: do, seq: seq},
	}
}

func (r repositories) Staff() repository.StaffRepository             { return r.staff }
func (r repositories) Patients() repository.PatientRepository         { return r.patients }
func (r repositories) Appointments() repository.AppointmentRepository { return r.appointments }

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
