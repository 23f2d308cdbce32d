package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autolog/internal/mailer"
	"autolog/internal/models"
	"autolog/internal/repositories"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
)

// DefaultResetTokenTTL is how long a password reset link stays valid.
const DefaultResetTokenTTL = time.Hour

// AuthConfig configures an AuthService.
type AuthConfig struct {
	// FrontendURL is the base of the reset link sent by email.
	FrontendURL   string
	ResetTokenTTL time.Duration
	// Tokens issues access tokens on login. Nil disables them.
	Tokens *TokenIssuer
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// AuthService handles registration, verification, password reset and login.
type AuthService struct {
	users  repositories.UserRepository
	seq    *SequenceService
	mail   mailer.Mailer
	cfg    AuthConfig
	logger *log.Logger

	// Now is the clock used for reset token expiry.
	Now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, seq *SequenceService, mail mailer.Mailer, cfg AuthConfig, logger *log.Logger) *AuthService {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &AuthService{
		users:  users,
		seq:    seq,
		mail:   mail,
		cfg:    cfg,
		logger: logger,
		Now:    time.Now,
	}
}

// Register creates an unverified user and emails a verification link built
// from apiBaseURL. The user is stored before the email goes out, so a mail
// failure leaves an unverified account behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, apiBaseURL string) error {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up email: %w", err)
	}

	token, err := randomToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.seq.Next(ctx, SequenceUser)
	if err != nil {
		return err
	}

	user := &models.User{
		UserID:            userID,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Email:             in.Email,
		Password:          string(hash),
		VerificationToken: token,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	link := strings.TrimRight(apiBaseURL, "/") + "/api/verify/" + token
	if err := s.mail.Send(ctx, mailer.VerificationMessage(user.Email, user.FirstName, link)); err != nil {
		s.logger.Error("verification email failed", "user_id", user.UserID, "err", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	s.logger.Info("user registered", "user_id", user.UserID)
	return nil
}

// Verify consumes a verification token. Unknown, empty and already used
// tokens all yield ErrInvalidVerifyToken.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidVerifyToken
	}
	if err := s.users.SetVerifiedByToken(ctx, token); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidVerifyToken
		}
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh reset token for email, replacing any
// earlier one, and emails the reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoSuchEmail
		}
		return fmt.Errorf("failed to look up email: %w", err)
	}

	token, err := randomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expiresAt := s.Now().Add(s.cfg.ResetTokenTTL).UnixMilli()
	if err := s.users.SetResetToken(ctx, user.Email, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.cfg.FrontendURL + "/reset-password/" + token
	if err := s.mail.Send(ctx, mailer.ResetMessage(user.Email, link)); err != nil {
		s.logger.Error("reset email failed", "user_id", user.UserID, "err", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResetPassword replaces the password of the user holding an unexpired
// reset token and clears the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.ConsumeResetToken(ctx, token, string(hash), s.Now().UnixMilli())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// Login checks the email and password pair. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result := &LoginResult{User: user}
	if s.cfg.Tokens != nil {
		if result.AccessToken, err = s.cfg.Tokens.Issue(user.UserID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ChangeName updates the user's first and last name.
func (s *AuthService) ChangeName(ctx context.Context, userID int64, firstName, lastName string) error {
	if err := s.users.UpdateName(ctx, userID, firstName, lastName); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update name: %w", err)
	}
	return nil
}
