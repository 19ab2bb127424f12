package memory

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type appointmentRepository struct {
	do  access
	seq *sequences
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	return r.do(ctx, true, func(st *state) error {
		appointment.ID = r.seq.appointments.Add(1)
		st.appointments[appointment.ID] = *appointment
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var out *model.Appointment
	err := r.do(ctx, false, func(st *state) error {
		a, ok := st.appointments[id]
		if !ok {
			return apperrors.NotFound("appointment", nil)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, true, func(st *state) error {
		if _, ok := st.appointments[id]; !ok {
			return apperrors.NotFound("appointment", nil)
		}
		delete(st.appointments, id)
		return nil
	})
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	err := r.do(ctx, false, func(st *state) error {
		for _, id := range sortedKeys(st.appointments) {
			a := st.appointments[id]
			out = append(out, &a)
		}
		return nil
	})
	return out, err
}

func (r *appointmentRepository) ListResolved(ctx context.Context) ([]*model.ResolvedAppointment, error) {
	out := []*model.ResolvedAppointment{}
	err := r.do(ctx, false, func(st *state) error {
		byCode := make(map[string]model.StaffMember, len(st.staff))
		for _, s := range st.staff {
			byCode[s.Code] = s
		}

		for _, id := range sortedKeys(st.appointments) {
			a := st.appointments[id]
			patient, ok := st.patients[a.PatientID]
			if !ok {
				continue
			}
			staff, ok := byCode[a.StaffCode]
			if !ok {
				continue
			}
			out = append(out, &model.ResolvedAppointment{
				Appointment:       a,
				PatientName:       patient.Name,
				StaffName:         staff.Name,
				ResolvedStaffCode: staff.Code,
			})
		}
		return nil
	})
	return out, err
}
