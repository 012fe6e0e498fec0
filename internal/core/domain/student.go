package domain

import "time"

// Student is the single CRUD resource exposed by the API.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentPatch carries a partial update. Nil fields are left untouched.
type StudentPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// Empty reports whether the patch would change nothing.
func (p StudentPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil
}

// Apply copies every non-nil field of p onto s. ID and CreatedAt are never touched.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
}
