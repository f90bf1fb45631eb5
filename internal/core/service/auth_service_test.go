package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type stubDenylist struct {
	revoked map[string]time.Time
	err     error
}

func (d *stubDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if d.err != nil {
		return d.err
	}
	if d.revoked == nil {
		d.revoked = make(map[string]time.Time)
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *stubDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := d.revoked[tokenID]
	return ok, nil
}

func newTestAuthService(repo *stubAuthRepo, ledger *stubLedger, denylist ports.TokenDenylist) *AuthService {
	return NewAuthService(repo, ledger, denylist, AuthConfig{
		JWTSecret:       "secret",
		TokenTTL:        time.Hour,
		StartingCredits: 1000,
	}, zerolog.Nop())
}

func TestAuthService_Register_OpensAccount(t *testing.T) {
	repo := newStubAuthRepo()
	ledger := newStubLedger()
	svc := newTestAuthService(repo, ledger, nil)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalised email, got %q", user.Email)
	}
	if user.Role != domain.RolePlayer {
		t.Errorf("expected default role player, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	account, err := ledger.GetAccount(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected trading account for %s: %v", user.ID, err)
	}
	if account.Credits != 1000 {
		t.Errorf("expected 1000 starting credits, got %d", account.Credits)
	}
	for _, k := range domain.ResourceKinds {
		if account.Resources.Get(k) != 0 {
			t.Errorf("expected no %s, got %d", k, account.Resources.Get(k))
		}
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   ports.RegisterInput
	}{
		{"missing fields", ports.RegisterInput{}},
		{"bad email", ports.RegisterInput{Username: "bob", Email: "not-an-email", Password: "x"}},
		{"bad role", ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "x", Role: "emperor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(newStubAuthRepo(), newStubLedger(), nil)
			if _, err := svc.Register(context.Background(), tt.in); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo, newStubLedger(), nil)
	in := ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pass"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_AccountFailure(t *testing.T) {
	ledger := newStubLedger()
	ledger.createErr = domain.ErrStoreUnavailable
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo, ledger, nil)
	in := ports.RegisterInput{Username: "a", Email: "a@example.com", Password: "p"}

	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("user without account must be removed, got %d users", len(repo.users))
	}

	ledger.createErr = nil
	user, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("retry after account failure: %v", err)
	}
	if _, err := ledger.GetAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("expected account for %s: %v", user.ID, err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo, newStubLedger(), nil)
	registered, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "pass123", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "ALICE@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != registered.ID || claims["role"] != domain.RoleAdmin || claims["username"] != "alice" {
		t.Errorf("unexpected claims: %v", claims)
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Error("expected a token id")
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "pass123"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	denylist := &stubDenylist{}
	svc := newTestAuthService(newStubAuthRepo(), newStubLedger(), denylist)
	exp := time.Now().Add(time.Hour)

	if err := svc.Logout(context.Background(), ports.Claims{TokenID: "t1", UserID: "u1", Expires: exp}); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if until, ok := denylist.revoked["t1"]; !ok || !until.Equal(exp) {
		t.Fatalf("expected t1 revoked until %v, got %v (%v)", exp, until, ok)
	}

	denylist.err = domain.ErrStoreUnavailable
	if err := svc.Logout(context.Background(), ports.Claims{TokenID: "t2", Expires: exp}); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAuthService_Logout_WithoutDenylist(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo(), newStubLedger(), nil)
	if err := svc.Logout(context.Background(), ports.Claims{TokenID: "t1"}); err != nil {
		t.Fatalf("expected no-op logout, got %v", err)
	}
}
