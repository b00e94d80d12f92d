package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/gatekeep/internal/auth"
	"github.com/msomdec/gatekeep/internal/domain"
)

// Mailer is the notification collaborator. A failed send fails the enclosing
// operation; there is no retry or suppression.
type Mailer interface {
	SendSignupConfirmation(email string) error
	SendPasswordResetCode(email, url, code string) error
}

// AuthService orchestrates signup, signin and the password reset flow
// against the user repository and the mailer. Each operation is a single
// linear pass with early-exit failure branches; the only persistence write
// is the final step of its flow, so no partial mutation is possible.
type AuthService struct {
	users           domain.UserRepository
	mailer          Mailer
	codes           *auth.CodeProvider
	tokens          *auth.TokenIssuer
	resetConfirmURL string
	bcryptCost      int
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users domain.UserRepository,
	mailer Mailer,
	codes *auth.CodeProvider,
	tokens *auth.TokenIssuer,
	resetConfirmURL string,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		users:           users,
		mailer:          mailer,
		codes:           codes,
		tokens:          tokens,
		resetConfirmURL: resetConfirmURL,
		bcryptCost:      bcryptCost,
	}
}

// Signup creates a new account and sends the confirmation email. The
// pre-check on email is a fast path for a friendly error; the unique index
// on users.email is what actually guarantees one account per email.
func (s *AuthService) Signup(ctx context.Context, name, surname, email, password string) error {
	if name == "" || surname == "" || email == "" || password == "" {
		return fmt.Errorf("%w: name, surname, email, and password are required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		Surname:      surname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	if err := s.mailer.SendSignupConfirmation(user.Email); err != nil {
		return fmt.Errorf("send signup confirmation: %w", err)
	}

	return nil
}

// Signin verifies credentials and returns a signed session token together
// with the user. The returned user is safe to expose; handlers strip the
// hash and id when shaping the response.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrNotFound
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(auth.Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// ResetPasswordDemand issues a one-time code for the current time window and
// mails it with the confirmation URL. Nothing is written to storage; the
// code expires on its own when the window passes.
func (s *AuthService) ResetPasswordDemand(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := s.codes.Issue()
	if err != nil {
		return fmt.Errorf("issue reset code: %w", err)
	}

	if err := s.mailer.SendPasswordResetCode(user.Email, s.resetConfirmURL, code); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}

	return nil
}

// ResetPasswordConfirmation verifies the one-time code and overwrites the
// stored password hash. A stale or wrong code is ErrUnauthorized and leaves
// the hash untouched.
func (s *AuthService) ResetPasswordConfirmation(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	if !s.codes.Verify(code) {
		return domain.ErrUnauthorized
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// ValidateToken checks a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (auth.Claims, error) {
	return s.tokens.Validate(tokenString)
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
