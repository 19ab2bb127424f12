package model

type Role string

const (
	RoleDoctor       Role = "Doctor"
	RoleReceptionist Role = "Receptionist"
	RoleAdmin        Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleReceptionist, RoleAdmin:
		return true
	}
	return false
}

// StaffMember is keyed by ID internally. Code (the staff code, e.g. D101) is
// unique but may be changed; appointments reference it by value.
type StaffMember struct {
	ID            int64  `db:"id" json:"id"`
	Code          string `db:"username" json:"username"`
	Name          string `db:"name" json:"name"`
	PasswordHash  string `db:"password" json:"-"`
	Role          Role   `db:"role" json:"role"`
	AvailableDays string `db:"available_days" json:"available_days"`
}

// Availability returns the working days of a doctor; other roles have none.
func (s *StaffMember) Availability() string {
	if s.Role != RoleDoctor {
		return ""
	}
	return s.AvailableDays
}

// StaffUpdate is a partial update. Nil fields are left untouched.
type StaffUpdate struct {
	Code          *string
	Name          *string
	AvailableDays *string
}

func (u StaffUpdate) Empty() bool {
	return u.Code == nil && u.Name == nil && u.AvailableDays == nil
}

type SignupRequest struct {
	CustomID      string `json:"custom_id" binding:"required"`
	StaffName     string `json:"staff_name"`
	Role          string `json:"role"`
	AvailableDays string `json:"available_days"`
}

type UpdateStaffRequest struct {
	ID            int64   `json:"id" binding:"required"`
	Username      *string `json:"username"`
	Name          *string `json:"name"`
	AvailableDays *string `json:"available_days"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	AvailableDays string `json:"available_days"`
}

func NewStaffResponse(s *StaffMember) StaffResponse {
	return StaffResponse{
		ID:            s.ID,
		Username:      s.Code,
		Name:          s.Name,
		Role:          s.Role,
		AvailableDays: s.Availability(),
	}
}
