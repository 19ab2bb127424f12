package repository

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// StaffRepository owns staff records. Create and Update return a
	// DuplicateCode error when the staff code is taken by another record.
	StaffRepository interface {
		Create(ctx context.Context, staff *model.StaffMember) error
		Get(ctx context.Context, id int64) (*model.StaffMember, error)
		GetByCode(ctx context.Context, code string) (*model.StaffMember, error)
		Update(ctx context.Context, id int64, update model.StaffUpdate) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.StaffMember, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	// AppointmentRepository owns appointment records. ListResolved joins
	// against the current staff and patient records and skips rows whose
	// references no longer resolve.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Appointment, error)
		ListResolved(ctx context.Context) ([]*model.ResolvedAppointment, error)
	}

	// Repositories groups the three stores, either bound to the shared
	// connection or to a single transaction.
	Repositories interface {
		Staff() StaffRepository
		Patients() PatientRepository
		Appointments() AppointmentRepository
	}

	// Store is the persistence root. WithTx runs fn as one unit of work: its
	// effects become visible together when fn returns nil and not at all
	// otherwise.
	Store interface {
		Repositories
		WithTx(ctx context.Context, fn func(tx Repositories) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
