package entity

import (
	"time"
)

// Role values assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Avatar holds the stored profile image reference.
// Upload is not implemented yet; records carry a placeholder.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and is never serialized; repository reads omit
// it unless explicitly requested. ResetPasswordToken stores the sha256 digest
// of the raw reset secret and is always set and cleared together with
// ResetPasswordExpire.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Password            string     `json:"-"`
	Role                string     `json:"role"`
	Avatar              Avatar     `json:"avatar"`
	ResetPasswordToken  *string    `json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
