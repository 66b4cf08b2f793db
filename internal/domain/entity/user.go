package entity

import "strings"

// Role names as issued by the proposal backend
const (
	RoleProponent     = "proponent"
	RoleLeadProponent = "lead_proponent"
	RoleRnD           = "rnd"
	RoleAdmin         = "admin"
	RoleEvaluator     = "evaluator"
	RoleRDEC          = "rdec"
)

// User is the authenticated account as reported by the backend
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	Roles           []string `json:"roles"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	ProfilePhotoURL string   `json:"profile_photo_url,omitempty"`
}

// FullName joins first and last name, falling back to the e-mail address
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user holds any of the given roles
func (u User) HasRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// PrimaryRole returns the first role, or an empty string
func (u User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0]
}
