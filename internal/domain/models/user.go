package models

import "time"

// Role is the closed set of actor roles. The capability table keyed by Role
// is a security boundary and is fixed at compile time.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the store. A user acting on a request is the Actor:
// its snapshot is immutable for the duration of that request.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DepartmentID *int64    `json:"department_id"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SameDepartment reports whether both users have a department set and it is
// the same one. Users without a department never match anyone.
func (u *User) SameDepartment(other *User) bool {
	if u == nil || other == nil || u.DepartmentID == nil || other.DepartmentID == nil {
		return false
	}
	return *u.DepartmentID == *other.DepartmentID
}

// InDepartment reports whether the user belongs to the given department.
func (u *User) InDepartment(departmentID int64) bool {
	return u != nil && u.DepartmentID != nil && *u.DepartmentID == departmentID
}

// MaxEmailLength bounds the stored email column.
const MaxEmailLength = 255
