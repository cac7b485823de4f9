// Package user contains the operator accounts of the desk application and
// their credentials. Accounts are local to the device; they are not part of
// the synced snapshot.
package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role defines what an account can do in the application.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
)

// IsValid checks that the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	default:
		return false
	}
}

// CanManageRoster reports whether the role may edit students and finances.
func (r Role) CanManageRoster() bool {
	return r == RoleAdmin || r == RoleProfessor
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User is an operator account.
type User struct {
	// ID is the unique identifier (UUID in string format).
	ID string `json:"id"`

	// Name is the operator's display name.
	Name string `json:"name"`

	// Role defines the account's permissions.
	Role Role `json:"role"`

	// Email is the login identifier.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash []byte `json:"-"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidRole - the role is not a known value.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidCredentials - email or password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyPassword - an account cannot be created without a password.
	ErrEmptyPassword = errors.New("password is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewUser creates an account with a bcrypt-hashed password.
func NewUser(id, name, email, password string, role Role) (*User, error) {
	if id == "" {
		return nil, errors.New("user id is required")
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           id,
		Name:         name,
		Role:         role,
		Email:        email,
		PasswordHash: hash,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// CheckPassword compares the candidate against the stored hash.
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
