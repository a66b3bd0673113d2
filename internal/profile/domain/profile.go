package domain

import "time"

// Profile is the contact block printed at the top of every rendered resume
type Profile struct {
	AccountID string    `json:"account_id" db:"account_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Location  string    `json:"location" db:"location"`
	Headline  string    `json:"headline" db:"headline"`
	Website   string    `json:"website" db:"website"`
	LinkedIn  string    `json:"linkedin" db:"linkedin"`
	Summary   string    `json:"summary" db:"summary"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=320"`
	Phone    *string `json:"phone" validate:"omitempty,max=64"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Headline *string `json:"headline" validate:"omitempty,max=255"`
	Website  *string `json:"website" validate:"omitempty,url,max=512"`
	LinkedIn *string `json:"linkedin" validate:"omitempty,url,max=512"`
	Summary  *string `json:"summary" validate:"omitempty,max=5000"`
}

// Apply copies the set fields onto p
func (r *UpdateProfileRequest) Apply(p *Profile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.FullName, r.FullName)
	set(&p.Email, r.Email)
	set(&p.Phone, r.Phone)
	set(&p.Location, r.Location)
	set(&p.Headline, r.Headline)
	set(&p.Website, r.Website)
	set(&p.LinkedIn, r.LinkedIn)
	set(&p.Summary, r.Summary)
}
