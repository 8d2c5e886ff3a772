package model

import "time"

const (
	RoleParent = "parent"
	RoleChild  = "child"
)

type User struct {
	ID                       int        `db:"id" json:"id"`
	FamilyID                 *int       `db:"family_id" json:"family_id"`
	Name                     string     `db:"name" json:"name"`
	Username                 *string    `db:"username" json:"username"`
	Email                    *string    `db:"email" json:"email"`
	HashedPassword           string     `db:"hashed_password" json:"-"`
	Role                     string     `db:"role" json:"role"`
	DOB                      *time.Time `db:"dob" json:"dob"`
	Avatar                   *string    `db:"avatar" json:"avatar"`
	School                   *string    `db:"school" json:"school"`
	Grade                    *string    `db:"grade" json:"grade"`
	IsEmailVerified          bool       `db:"is_email_verified" json:"is_email_verified"`
	VerificationToken        *string    `db:"verification_token" json:"-"`
	VerificationTokenExpires *time.Time `db:"verification_token_expires" json:"-"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`

	// joined from families; nil when the user has no family
	FamilyActive *bool `db:"family_active" json:"-"`
}

func (u *User) IsParent() bool { return u.Role == RoleParent }

// InFamily reports whether the user belongs to the given family.
func (u *User) InFamily(familyID int) bool {
	return u.FamilyID != nil && *u.FamilyID == familyID
}

// SameFamily reports whether both users belong to the same family.
func (u *User) SameFamily(other *User) bool {
	return u.FamilyID != nil && other != nil && other.InFamily(*u.FamilyID)
}

type Admin struct {
	ID             int        `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	Name           string     `db:"name" json:"name"`
	HashedPassword string     `db:"hashed_password" json:"-"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	LastLoginAt    *time.Time `db:"last_login_at" json:"last_login_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
