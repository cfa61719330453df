package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors. Repositories translate store-level conditions
// (no rows, unique violations) into these; usecases map them onto the
// caller-facing error taxonomy.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate resource")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash *string   `json:"-"` // nil for SSO-provisioned accounts
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is what exports and listings show for a user.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Actor is the authenticated principal every operation is authorized
// against: staff capability, process ownership, or being the
// assignment's own candidate.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff}
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByLogin resolves a username or an email address.
	GetByLogin(ctx context.Context, login string) (*User, error)
}

// Session is an authenticated login: the signed token plus the account
// it belongs to.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type AuthUsecase interface {
	// Login authenticates local credentials (username or email + password).
	Login(ctx context.Context, login, password string) (*Session, error)
	// LoginSSO exchanges a verified IdP assertion for a local session,
	// provisioning a non-staff account on first sight of the email.
	LoginSSO(ctx context.Context, assertion string) (*Session, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}
