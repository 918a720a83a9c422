package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/service/session"
)

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by email
	createErr error
	created   *domain.User
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := u
	created.ID = "u-new"
	s.created = &created
	if s.users == nil {
		s.users = make(map[string]*domain.User)
	}
	s.users[created.Email] = &created
	return &created, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s := string(hashed)
	return &s
}

func testService(users *stubUserRepo, hooks ...LoginHook) *Service {
	return &Service{
		users:    users,
		sessions: session.New("test-secret", time.Hour),
		hooks:    hooks,
		logger:   log.New(io.Discard, "", 0),
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"ann@example.com": {ID: "u1", Name: "Ann", Email: "ann@example.com", Password: hashOf(t, "pw123456"), Role: "admin"},
	}}
	svc := testService(users)

	identity, err := svc.Authenticate(context.Background(), "ann@example.com", "pw123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "u1" || identity.Role != "admin" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthenticateRefusalIsUniform(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"ann@example.com":    {ID: "u1", Email: "ann@example.com", Password: hashOf(t, "pw123456")},
		"nopass@example.com": {ID: "u2", Email: "nopass@example.com"},
	}}
	svc := testService(users)
	ctx := context.Background()

	cases := []struct{ email, password string }{
		{"missing@example.com", "pw123456"}, // unknown email
		{"ann@example.com", "wrong"},        // wrong password
		{"nopass@example.com", "pw123456"},  // no stored credential
	}
	for _, tc := range cases {
		_, err := svc.Authenticate(ctx, tc.email, tc.password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("refusal for %s must be ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestAuthenticateDefaultsRole(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"ann@example.com": {ID: "u1", Email: "ann@example.com", Password: hashOf(t, "pw123456")},
	}}
	svc := testService(users)

	identity, err := svc.Authenticate(context.Background(), "ann@example.com", "pw123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Role != "user" {
		t.Fatalf("expected default role, got %q", identity.Role)
	}
}

func TestSignInIssuesTokenAndRunsHooks(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"ann@example.com": {ID: "u1", Name: "Ann", Email: "ann@example.com", Password: hashOf(t, "pw123456")},
	}}
	var hookIdentity domain.Identity
	var hookSessionCart string
	hook := func(_ context.Context, identity domain.Identity, sessionCartID string) error {
		hookIdentity = identity
		hookSessionCart = sessionCartID
		return nil
	}
	svc := testService(users, hook)

	token, err := svc.SignIn(context.Background(), SignInInput{Email: "ann@example.com", Password: "pw123456"}, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if hookIdentity.ID != "u1" || hookSessionCart != "sess-1" {
		t.Fatalf("hook not fired with identity/cookie: %+v %q", hookIdentity, hookSessionCart)
	}

	got := svc.sessions.Identity(token)
	if got == nil || got.ID != "u1" || got.Email != "ann@example.com" {
		t.Fatalf("token does not round-trip identity: %+v", got)
	}
}

func TestSignInHookFailureDoesNotFailSignIn(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"ann@example.com": {ID: "u1", Email: "ann@example.com", Password: hashOf(t, "pw123456")},
	}}
	hook := func(_ context.Context, _ domain.Identity, _ string) error {
		return errors.New("merge blew up")
	}
	svc := testService(users, hook)

	token, err := svc.SignIn(context.Background(), SignInInput{Email: "ann@example.com", Password: "pw123456"}, "sess-1")
	if err != nil || token == "" {
		t.Fatalf("sign-in must survive hook failure, got token=%q err=%v", token, err)
	}
}

func TestSignUpCreatesAndSignsIn(t *testing.T) {
	users := &stubUserRepo{}
	var hookCalls int
	hook := func(_ context.Context, _ domain.Identity, _ string) error {
		hookCalls++
		return nil
	}
	svc := testService(users, hook)

	token, err := svc.SignUp(context.Background(), SignUpInput{
		Name:            "Ann",
		Email:           "Ann@Example.com",
		Password:        "pw123456",
		ConfirmPassword: "pw123456",
	}, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if users.created == nil {
		t.Fatalf("expected user created")
	}
	if users.created.Email != "ann@example.com" {
		t.Fatalf("email not normalized: %q", users.created.Email)
	}
	if users.created.Password == nil || *users.created.Password == "pw123456" {
		t.Fatalf("password must be stored hashed")
	}
	if hookCalls != 1 {
		t.Fatalf("expected merge hook to run once, got %d", hookCalls)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	users := &stubUserRepo{createErr: domain.ErrAlreadyExists}
	svc := testService(users)

	_, err := svc.SignUp(context.Background(), SignUpInput{
		Name:            "Ann",
		Email:           "ann@example.com",
		Password:        "pw123456",
		ConfirmPassword: "pw123456",
	}, "")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
