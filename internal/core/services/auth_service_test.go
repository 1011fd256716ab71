package services

import (
	"context"
	"errors"
	"testing"

	"editortrack/internal/config"
	"editortrack/internal/pkg/password"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 30,
		},
	}
}

func newTestAuthService() (*AuthService, *memUserRepo, *memTokenRepo) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return NewAuthService(users, tokens, testConfig()), users, tokens
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupInput{
		Email:    "  Editor@Example.COM ",
		Name:     "Test Editor",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.User.Email != "editor@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.Role != "EDITOR" {
		t.Errorf("new accounts must default to EDITOR, got %q", resp.User.Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("signup must issue both tokens")
	}
	if tokens.activeCount(resp.User.ID) != 1 {
		t.Errorf("expected 1 stored refresh token, got %d", tokens.activeCount(resp.User.ID))
	}

	login, err := svc.Login(ctx, &LoginInput{Email: "editor@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.LastLogin == nil {
		t.Error("login should record last_login")
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), &SignupInput{
		Email: "a@b.c", Name: "A", Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("want ErrWeakPassword, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(ctx, &SignupInput{Email: "A@B.C", Name: "B", Password: "password123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, unknownErr := svc.Login(ctx, &LoginInput{Email: "nobody@b.c", Password: "password123"})
	_, wrongErr := svc.Login(ctx, &LoginInput{Email: "a@b.c", Password: "wrong-password"})

	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("unknown email and wrong password must both yield ErrInvalidCredentials, got %v / %v",
			unknownErr, wrongErr)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	users.users[resp.User.ID].IsActive = false

	// Wrong password on a deactivated account still reports bad
	// credentials; the inactive state is only revealed after the
	// password checks out.
	_, err = svc.Login(ctx, &LoginInput{Email: "a@b.c", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials before password check, got %v", err)
	}

	_, err = svc.Login(ctx, &LoginInput{Email: "a@b.c", Password: "password123"})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("want ErrUserInactive, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == resp.RefreshToken {
		t.Error("refresh must rotate the token")
	}
	if tokens.activeCount(resp.User.ID) != 1 {
		t.Errorf("rotation must leave exactly 1 active token, got %d", tokens.activeCount(resp.User.ID))
	}

	// The old token is dead after rotation
	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("want ErrTokenRevoked on replay, got %v", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	users.users[resp.User.ID].IsActive = false

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("want ErrUserInactive, got %v", err)
	}
}

func TestLogoutAll(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginInput{Email: "a@b.c", Password: "password123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.activeCount(resp.User.ID) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", tokens.activeCount(resp.User.ID))
	}

	if err := svc.LogoutAll(ctx, resp.User.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}
	if tokens.activeCount(resp.User.ID) != 0 {
		t.Errorf("expected 0 active sessions, got %d", tokens.activeCount(resp.User.ID))
	}

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("want ErrTokenRevoked after logout-all, got %v", err)
	}
}

func TestStoredTokenIsHashed(t *testing.T) {
	svc, _, tokens := newTestAuthService()

	resp, err := svc.Signup(context.Background(), &SignupInput{Email: "a@b.c", Name: "A", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	for _, stored := range tokens.tokens {
		if stored.TokenHash == resp.RefreshToken {
			t.Error("refresh token must be stored hashed, not raw")
		}
		if stored.TokenHash != password.HashToken(resp.RefreshToken) {
			t.Error("stored hash must match the issued token's hash")
		}
	}
}
