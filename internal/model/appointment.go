package model

// Appointment points at a patient by id and at a staff member by staff code.
// Neither reference is checked when the appointment is booked.
type Appointment struct {
	ID        int64  `db:"id" json:"id"`
	PatientID int64  `db:"patient_id" json:"patient_id"`
	StaffCode string `db:"doctor_id" json:"doctor_id"`
	Date      string `db:"date" json:"date"`
	Time      string `db:"time" json:"time"`
}

// ResolvedAppointment is an appointment joined against the current patient
// and staff records.
type ResolvedAppointment struct {
	Appointment
	PatientName       string `db:"patient_name" json:"patient_name"`
	StaffName         string `db:"doctor_name" json:"doctor_name"`
	ResolvedStaffCode string `db:"doctor_staff_id" json:"doctor_staff_id"`
}

type CreateAppointmentRequest struct {
	PatientID int64  `json:"patient_id" binding:"required"`
	DoctorID  string `json:"doctor_id" binding:"required"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type CompleteAppointmentRequest struct {
	AppointmentID int64 `json:"appointment_id" binding:"required"`
	PatientID     int64 `json:"patient_id" binding:"required"`
}
