package user

import "time"

type Role string

const (
	RoleManager  Role = "manager"  // Views team attendance and reports
	RoleEmployee Role = "employee" // Checks in and out
)

func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEmployee
}

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    *string
	Role            Role
	EmployeeID      string
	Department      string
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsManager checks if user is a manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsEmployee checks if user is on the attendance roster
func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// JoinedBy reports whether the account existed at t. A zero CreatedAt counts
// as always present.
func (u *User) JoinedBy(t time.Time) bool {
	return !u.CreatedAt.After(t)
}

// JoinedBefore keeps the users whose accounts existed at t.
func JoinedBefore(users []User, t time.Time) []User {
	out := make([]User, 0, len(users))
	for i := range users {
		if users[i].JoinedBy(t) {
			out = append(out, users[i])
		}
	}
	return out
}
