package memory

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type staffRepository struct {
	do  access
	seq *sequences
}

func codeTaken(st *state, code string, except int64) bool {
	for id, s := range st.staff {
		if id != except && s.Code == code {
			return true
		}
	}
	return false
}

func (r *staffRepository) Create(ctx context.Context, staff *model.StaffMember) error {
	return r.do(ctx, true, func(st *state) error {
		if codeTaken(st, staff.Code, 0) {
			return apperrors.DuplicateCode(staff.Code, nil)
		}
		staff.ID = r.seq.staff.Add(1)
		st.staff[staff.ID] = *staff
		return nil
	})
}

func (r *staffRepository) Get(ctx context.Context, id int64) (*model.StaffMember, error) {
	var out *model.StaffMember
	err := r.do(ctx, false, func(st *state) error {
		s, ok := st.staff[id]
		if !ok {
			return apperrors.NotFound("staff member", nil)
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *staffRepository) GetByCode(ctx context.Context, code string) (*model.StaffMember, error) {
	var out *model.StaffMember
	err := r.do(ctx, false, func(st *state) error {
		for _, id := range sortedKeys(st.staff) {
			if s := st.staff[id]; s.Code == code {
				out = &s
				return nil
			}
		}
		return apperrors.NotFound("staff member", nil)
	})
	return out, err
}

func (r *staffRepository) Update(ctx context.Context, id int64, update model.StaffUpdate) error {
	if update.Empty() {
		return apperrors.NoFieldsProvided()
	}
	return r.do(ctx, true, func(st *state) error {
		s, ok := st.staff[id]
		if !ok {
			return apperrors.NotFound("staff member", nil)
		}
		if update.Code != nil && codeTaken(st, *update.Code, id) {
			return apperrors.DuplicateCode(*update.Code, nil)
		}

		if update.Code != nil {
			s.Code = *update.Code
		}
		if update.Name != nil {
			s.Name = *update.Name
		}
		if update.AvailableDays != nil {
			s.AvailableDays = *update.AvailableDays
		}
		st.staff[id] = s
		return nil
	})
}

func (r *staffRepository) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, true, func(st *state) error {
		if _, ok := st.staff[id]; !ok {
			return apperrors.NotFound("staff member", nil)
		}
		delete(st.staff, id)
		return nil
	})
}

func (r *staffRepository) List(ctx context.Context) ([]*model.StaffMember, error) {
	out := []*model.StaffMember{}
	err := r.do(ctx, false, func(st *state) error {
		for _, id := range sortedKeys(st.staff) {
			s := st.staff[id]
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}
