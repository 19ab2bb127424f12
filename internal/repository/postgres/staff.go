package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type staffRepository struct {
	db sqlx.ExtContext
}

func (r *staffRepository) Create(ctx context.Context, staff *model.StaffMember) error {
	query := `
		INSERT INTO staff (username, name, password, role, available_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := sqlx.GetContext(ctx, r.db, &staff.ID, query,
		staff.Code,
		staff.Name,
		staff.PasswordHash,
		staff.Role,
		staff.AvailableDays,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateCode(staff.Code, err)
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}
	return nil
}

func (r *staffRepository) Get(ctx context.Context, id int64) (*model.StaffMember, error) {
	query := `SELECT id, username, name, password, role, available_days FROM staff WHERE id = $1`
	var staff model.StaffMember
	if err := sqlx.GetContext(ctx, r.db, &staff, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("staff member", err)
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByCode(ctx context.Context, code string) (*model.StaffMember, error) {
	query := `SELECT id, username, name, password, role, available_days FROM staff WHERE username = $1`
	var staff model.StaffMember
	if err := sqlx.GetContext(ctx, r.db, &staff, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("staff member", err)
		}
		return nil, fmt.Errorf("failed to get staff member by code: %w", err)
	}
	return &staff, nil
}

// Update writes all present fields in one statement, so a rejected code
// leaves the row untouched.
func (r *staffRepository) Update(ctx context.Context, id int64, update model.StaffUpdate) error {
	if update.Empty() {
		return apperrors.NoFieldsProvided()
	}

	var sets []string
	var args []interface{}
	argCount := 1

	if update.Code != nil {
		sets = append(sets, fmt.Sprintf("username = $%d", argCount))
		args = append(args, *update.Code)
		argCount++
	}
	if update.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *update.Name)
		argCount++
	}
	if update.AvailableDays != nil {
		sets = append(sets, fmt.Sprintf("available_days = $%d", argCount))
		args = append(args, *update.AvailableDays)
		argCount++
	}

	query := fmt.Sprintf("UPDATE staff SET %s WHERE id = $%d", strings.Join(sets, ", "), argCount)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateCode(*update.Code, err)
		}
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("staff member", nil)
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("staff member", nil)
	}
	return nil
}

func (r *staffRepository) List(ctx context.Context) ([]*model.StaffMember, error) {
	query := `SELECT id, username, name, password, role, available_days FROM staff ORDER BY id`
	staff := []*model.StaffMember{}
	if err := sqlx.SelectContext(ctx, r.db, &staff, query); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}
