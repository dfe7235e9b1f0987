package entity

import "time"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// Roles lists every assignable role in capability order.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

func (r UserRole) Valid() bool {
	return r.Rank() > 0
}

// Rank is the capability ordinal: user < moderator < admin. Unknown roles
// rank 0. Permission rules never derive access from the rank; they list the
// roles they allow.
func (r UserRole) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

type User struct {
	ID               uint      `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Bio              string    `json:"bio"`
	Role             UserRole  `json:"role"`
	IsStaff          bool      `json:"-"`
	IsActive         bool      `json:"-"`
	ConfirmationCode string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// IsAdmin holds for the admin role and for staff accounts of any role.
func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.IsStaff)
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0
}
