package memory

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type patientRepository struct {
	do  access
	seq *sequences
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.do(ctx, true, func(st *state) error {
		patient.ID = r.seq.patients.Add(1)
		st.patients[patient.ID] = *patient
		return nil
	})
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var out *model.Patient
	err := r.do(ctx, false, func(st *state) error {
		p, ok := st.patients[id]
		if !ok {
			return apperrors.NotFound("patient", nil)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, true, func(st *state) error {
		if _, ok := st.patients[id]; !ok {
			return apperrors.NotFound("patient", nil)
		}
		delete(st.patients, id)
		return nil
	})
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	out := []*model.Patient{}
	err := r.do(ctx, false, func(st *state) error {
		for _, id := range sortedKeys(st.patients) {
			p := st.patients[id]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}
