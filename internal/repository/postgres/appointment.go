package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type appointmentRepository struct {
	db sqlx.ExtContext
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (patient_id, doctor_id, "date", "time")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := sqlx.GetContext(ctx, r.db, &appointment.ID, query,
		appointment.PatientID,
		appointment.StaffCode,
		appointment.Date,
		appointment.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT id, patient_id, doctor_id, "date", "time" FROM appointments WHERE id = $1`
	var appointment model.Appointment
	if err := sqlx.GetContext(ctx, r.db, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `SELECT id, patient_id, doctor_id, "date", "time" FROM appointments ORDER BY id`
	appointments := []*model.Appointment{}
	if err := sqlx.SelectContext(ctx, r.db, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListResolved joins on the staff code as it is now. Inner joins drop rows
// whose patient or staff code no longer exists.
func (r *appointmentRepository) ListResolved(ctx context.Context) ([]*model.ResolvedAppointment, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a."date", a."time",
			   p.name AS patient_name,
			   s.name AS doctor_name,
			   s.username AS doctor_staff_id
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN staff s ON s.username = a.doctor_id
		ORDER BY a.id
	`
	rows := []*model.ResolvedAppointment{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list resolved appointments: %w", err)
	}
	return rows, nil
}
