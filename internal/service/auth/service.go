// Package auth implements credential authentication, account creation, and
// the post-login hook pipeline that runs when an identity is first attached.
package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
	"storefront/internal/service/session"
)

// LoginHook runs after authentication succeeds, before the caller sees the
// issued token. Hooks compose: cart merge is one of them, future post-login
// steps are appended without touching the token logic.
type LoginHook func(ctx context.Context, identity domain.Identity, sessionCartID string) error

type Service struct {
	users    userRepo
	sessions *session.Manager
	hooks    []LoginHook
	logger   *log.Logger
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

func New(users userrepo.Repository, sessions *session.Manager, logger *log.Logger, hooks ...LoginHook) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{users: users, sessions: sessions, hooks: hooks, logger: logger}
}

// Authenticate matches the supplied credentials against the stored hash. All
// refusal causes collapse into domain.ErrInvalidCredentials: an unknown
// email, a credential-less account, and a wrong password are indistinguishable
// to the caller. Never mutates state.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Password == nil || *u.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	role := u.Role
	if role == "" {
		role = session.DefaultRole
	}
	return &domain.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: role}, nil
}

// SignInInput carries the credential form fields.
type SignInInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignIn authenticates, issues the session token, and fires the post-login
// hooks with the anonymous session-cart identifier from the request. Hook
// failures are logged, not surfaced: a failed merge must not undo a valid
// sign-in.
func (s *Service) SignIn(ctx context.Context, in SignInInput, sessionCartID string) (string, error) {
	identity, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return "", err
	}
	token, err := s.sessions.Issue(*identity)
	if err != nil {
		return "", err
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, *identity, sessionCartID); err != nil {
			s.logger.Printf("auth service: login hook user_id=%s err=%v", identity.ID, err)
		}
	}
	return token, nil
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// SignUp creates the account and immediately signs it in. A duplicate email
// surfaces as domain.ErrAlreadyExists, detected from the unique constraint,
// not from the error message text.
func (s *Service) SignUp(ctx context.Context, in SignUpInput, sessionCartID string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	hash := string(hashed)
	if _, err := s.users.Create(ctx, domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(strings.ToLower(in.Email)),
		Password: &hash,
		Role:     session.DefaultRole,
	}); err != nil {
		return "", err
	}
	return s.SignIn(ctx, SignInInput{Email: in.Email, Password: in.Password}, sessionCartID)
}
