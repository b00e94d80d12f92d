package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/gatekeep/internal/auth"
	"github.com/msomdec/gatekeep/internal/domain"
	"github.com/msomdec/gatekeep/internal/repository/sqlite"
	"github.com/msomdec/gatekeep/internal/service"
)

const (
	testJWTSecret = "test-secret-key-for-service-tests-0001"
	testOTPSecret = "JBSWY3DPEHPK3PXP"
	testResetURL  = "http://localhost:3001/auth/reset-password-confirmation"
)

// fakeMailer records outgoing mail instead of dialing SMTP.
type fakeMailer struct {
	signupTo  []string
	resetTo   []string
	resetCode string
	resetURL  string
	failWith  error
}

func (m *fakeMailer) SendSignupConfirmation(email string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.signupTo = append(m.signupTo, email)
	return nil
}

func (m *fakeMailer) SendPasswordResetCode(email, url, code string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.resetTo = append(m.resetTo, email)
	m.resetURL = url
	m.resetCode = code
	return nil
}

func newTestAuthService(t *testing.T) (*service.AuthService, *fakeMailer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mailer := &fakeMailer{}
	codes := auth.NewCodeProvider(testOTPSecret)
	tokens := auth.NewTokenIssuer(testJWTSecret, 2*time.Hour)
	// Use cost 4 for fast tests.
	svc := service.NewAuthService(db.Users(), mailer, codes, tokens, testResetURL, 4)
	return svc, mailer
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, mailer := newTestAuthService(t)
	ctx := context.Background()

	err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "s3cret")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if len(mailer.signupTo) != 1 || mailer.signupTo[0] != "ada@x.io" {
		t.Fatalf("expected signup confirmation mail to ada@x.io, got %v", mailer.signupTo)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "dup@x.io", "s3cret"); err != nil {
		t.Fatalf("first Signup: %v", err)
	}

	err := svc.Signup(ctx, "Someone", "Else", "dup@x.io", "other-pass")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// The existing record must be untouched: the original password still works.
	if _, _, err := svc.Signin(ctx, "dup@x.io", "s3cret"); err != nil {
		t.Fatalf("Signin with original password after duplicate signup: %v", err)
	}
}

func TestAuthService_Signup_EmptyFields(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		fields [4]string // name, surname, email, password
	}{
		{"empty name", [4]string{"", "Lovelace", "a@b.com", "pw"}},
		{"empty surname", [4]string{"Ada", "", "a@b.com", "pw"}},
		{"empty email", [4]string{"Ada", "Lovelace", "", "pw"}},
		{"empty password", [4]string{"Ada", "Lovelace", "a@b.com", ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Signup(ctx, tc.fields[0], tc.fields[1], tc.fields[2], tc.fields[3])
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Signup_MailerFailureAborts(t *testing.T) {
	svc, mailer := newTestAuthService(t)
	ctx := context.Background()

	mailer.failWith = errors.New("smtp unreachable")
	err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "s3cret")
	if err == nil {
		t.Fatal("expected signup to fail when the confirmation mail fails")
	}
}

func TestAuthService_Signin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, user, err := svc.Signin(ctx, "ada@x.io", "s3cret")
	if err != nil {
		t.Fatalf("Signin: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if user.Name != "Ada" || user.Surname != "Lovelace" {
		t.Fatalf("expected Ada Lovelace, got %s %s", user.Name, user.Surname)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, user.Role)
	}

	// Token claims carry the user's id and email.
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected subject %d, got %d", user.ID, claims.UserID)
	}
	if claims.Email != "ada@x.io" {
		t.Fatalf("expected email claim ada@x.io, got %q", claims.Email)
	}
}

func TestAuthService_Signin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	token, _, err := svc.Signin(ctx, "ada@x.io", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if token != "" {
		t.Fatal("expected no token on failed signin")
	}
}

func TestAuthService_Signin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Signin(ctx, "nobody@x.io", "s3cret")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthService_ResetPasswordDemand(t *testing.T) {
	svc, mailer := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "s3cret"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if err := svc.ResetPasswordDemand(ctx, "ada@x.io"); err != nil {
		t.Fatalf("ResetPasswordDemand: %v", err)
	}

	if len(mailer.resetTo) != 1 || mailer.resetTo[0] != "ada@x.io" {
		t.Fatalf("expected reset mail to ada@x.io, got %v", mailer.resetTo)
	}
	if mailer.resetURL != testResetURL {
		t.Fatalf("expected reset URL %q, got %q", testResetURL, mailer.resetURL)
	}
	if len(mailer.resetCode) != 5 {
		t.Fatalf("expected a 5-digit code, got %q", mailer.resetCode)
	}
}

func TestAuthService_ResetPasswordDemand_UnknownEmail(t *testing.T) {
	svc, mailer := newTestAuthService(t)
	ctx := context.Background()

	err := svc.ResetPasswordDemand(ctx, "nobody@x.io")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(mailer.resetTo) != 0 {
		t.Fatal("expected no mail for unknown email")
	}
}

func TestAuthService_ResetPasswordConfirmation(t *testing.T) {
	svc, mailer := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "old-pass"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := svc.ResetPasswordDemand(ctx, "ada@x.io"); err != nil {
		t.Fatalf("ResetPasswordDemand: %v", err)
	}

	err := svc.ResetPasswordConfirmation(ctx, "ada@x.io", mailer.resetCode, "new-pass")
	if err != nil {
		t.Fatalf("ResetPasswordConfirmation: %v", err)
	}

	// The old password no longer verifies; the new one does.
	if _, _, err := svc.Signin(ctx, "ada@x.io", "old-pass"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	if _, _, err := svc.Signin(ctx, "ada@x.io", "new-pass"); err != nil {
		t.Fatalf("Signin with new password: %v", err)
	}
}

func TestAuthService_ResetPasswordConfirmation_BadCode(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.Signup(ctx, "Ada", "Lovelace", "ada@x.io", "old-pass"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	err := svc.ResetPasswordConfirmation(ctx, "ada@x.io", "123", "new-pass")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad code, got %v", err)
	}

	// The stored hash must be untouched.
	if _, _, err := svc.Signin(ctx, "ada@x.io", "old-pass"); err != nil {
		t.Fatalf("Signin with original password after failed reset: %v", err)
	}
}

func TestAuthService_ResetPasswordConfirmation_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	err := svc.ResetPasswordConfirmation(ctx, "nobody@x.io", "12345", "new-pass")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
