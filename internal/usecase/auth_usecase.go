package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"
	"connectmetric-backend/pkg/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	userRepo domain.UserRepository
	verifier identity.Verifier
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthUsecase creates the auth usecase. verifier may be nil when SSO
// is not configured; LoginSSO then rejects every assertion.
func NewAuthUsecase(userRepo domain.UserRepository, verifier identity.Verifier, secret string, tokenTTL time.Duration) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		verifier: verifier,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login authenticates local credentials against the stored bcrypt hash
func (u *authUsecase) Login(ctx context.Context, login, password string) (*domain.Session, error) {
	if login == "" || password == "" {
		return nil, apperror.BadRequest("Login and password are required")
	}

	user, err := u.userRepo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same answer as a bad password: never reveal which part failed
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if user.PasswordHash == nil {
		// SSO-provisioned account without a local password
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	return u.issueSession(user)
}

// LoginSSO exchanges a corporate IdP assertion for a local session. The
// adapter hands back verified email/name claims; accounts are provisioned
// non-staff on first sight of an email.
func (u *authUsecase) LoginSSO(ctx context.Context, assertion string) (*domain.Session, error) {
	if u.verifier == nil {
		return nil, apperror.Unauthorized("SSO is not configured")
	}

	id, err := u.verifier.Verify(assertion)
	if err != nil {
		return nil, apperror.Unauthorized("SSO assertion rejected")
	}

	user, err := u.userRepo.GetByEmail(ctx, id.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		user = &domain.User{
			ID:       uuid.NewString(),
			Username: usernameFromEmail(id.Email),
			Email:    id.Email,
			FullName: id.Name,
			IsStaff:  false,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, apperror.Conflict("An account with this username already exists")
			}
			return nil, apperror.Internal(err)
		}
	}

	return u.issueSession(user)
}

// GetCurrentUser loads the account behind a session
func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) issueSession(user *domain.User) (*domain.Session, error) {
	if len(u.secret) == 0 {
		return nil, apperror.Internal(errors.New("jwt secret not configured"))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"is_staff": user.IsStaff,
		"iat":      now.Unix(),
		"exp":      now.Add(u.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.Session{Token: token, User: user}, nil
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return strings.ToLower(local)
}
