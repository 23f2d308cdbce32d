package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"autolog/internal/repositories"
	"autolog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var alice = services.RegisterInput{
	FirstName: "Alice",
	LastName:  "Smith",
	Email:     "alice@example.com",
	Password:  "Secret#123",
}

func TestRegister_SendsVerificationLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL+"/"))

	user, err := f.users.GetByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.VerificationToken, 32)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(alice.Password)))

	msg, ok := f.mail.Last()
	require.True(t, ok)
	assert.Equal(t, alice.Email, msg.To)
	assert.Equal(t, "Email Verification", msg.Subject)
	assert.Contains(t, msg.Body, "Hello Alice")
	assert.Equal(t, user.VerificationToken, tokenAfter(t, msg.Body, apiBaseURL+"/api/verify/"))
}

func TestRegister_DuplicateEmailLeavesUserUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))

	again := alice
	again.FirstName = "Mallory"
	err := f.auth.Register(ctx, again, apiBaseURL)
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	user, err := f.users.GetByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FirstName)
	assert.Len(t, f.mail.Sent(), 1)

	// The rejected registration must not have consumed a user ID.
	next, err := f.counters.Next(ctx, services.SequenceUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestRegister_SequenceFailureCreatesNothing(t *testing.T) {
	ctx := context.Background()
	counters := new(MockCounterRepository)
	counters.On("Next", ctx, services.SequenceUser).Return(int64(0), errors.New("store unreachable"))
	f := newFixture(t, counters)

	err := f.auth.Register(ctx, alice, apiBaseURL)
	require.Error(t, err)
	assert.False(t, services.IsBusinessError(err))

	_, err = f.users.GetByEmail(ctx, alice.Email)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, f.mail.Sent())
	counters.AssertExpectations(t)
}

func TestRegister_MailFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.mail.Err = errors.New("relay down")

	err := f.auth.Register(ctx, alice, apiBaseURL)
	assert.ErrorIs(t, err, services.ErrMailDelivery)
	assert.False(t, services.IsBusinessError(err))
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))
	msg, _ := f.mail.Last()
	token := tokenAfter(t, msg.Body, "/api/verify/")

	assert.ErrorIs(t, f.auth.Verify(ctx, "deadbeef"), services.ErrInvalidVerifyToken)
	assert.ErrorIs(t, f.auth.Verify(ctx, ""), services.ErrInvalidVerifyToken)

	user, _ := f.users.GetByEmail(ctx, alice.Email)
	assert.False(t, user.IsVerified)

	require.NoError(t, f.auth.Verify(ctx, token))
	user, _ = f.users.GetByEmail(ctx, alice.Email)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.VerificationToken)

	assert.ErrorIs(t, f.auth.Verify(ctx, token), services.ErrInvalidVerifyToken)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t, nil)

	err := f.auth.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, services.ErrNoSuchEmail)
	assert.Empty(t, f.mail.Sent())
}

func TestResetPassword(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	resetPrefix := frontendURL + "/reset-password/"

	tests := []struct {
		name    string
		after   time.Duration
		wantErr error
	}{
		{name: "within the hour", after: 59 * time.Minute},
		{name: "at expiry", after: time.Hour},
		{name: "past expiry", after: time.Hour + time.Millisecond, wantErr: services.ErrInvalidResetToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, nil)
			require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))

			f.auth.Now = func() time.Time { return issued }
			require.NoError(t, f.auth.RequestPasswordReset(ctx, alice.Email))
			msg, ok := f.mail.Last()
			require.True(t, ok)
			assert.Equal(t, "Password Reset Request", msg.Subject)
			token := tokenAfter(t, msg.Body, resetPrefix)
			assert.Len(t, token, 40)

			f.auth.Now = func() time.Time { return issued.Add(tt.after) }
			err := f.auth.ResetPassword(ctx, token, "NewSecret#456")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err = f.auth.Login(ctx, alice.Email, alice.Password)
				assert.NoError(t, err)
				return
			}
			require.NoError(t, err)

			_, err = f.auth.Login(ctx, alice.Email, "NewSecret#456")
			assert.NoError(t, err)
			assert.ErrorIs(t, f.auth.ResetPassword(ctx, token, "Other#789xyz"), services.ErrInvalidResetToken)
		})
	}
}

func TestRequestPasswordReset_OverwritesPreviousToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))

	require.NoError(t, f.auth.RequestPasswordReset(ctx, alice.Email))
	first, _ := f.mail.Last()
	require.NoError(t, f.auth.RequestPasswordReset(ctx, alice.Email))
	second, _ := f.mail.Last()

	oldToken := tokenAfter(t, first.Body, "/reset-password/")
	newToken := tokenAfter(t, second.Body, "/reset-password/")
	assert.NotEqual(t, oldToken, newToken)

	assert.ErrorIs(t, f.auth.ResetPassword(ctx, oldToken, "NewSecret#456"), services.ErrInvalidResetToken)
	assert.NoError(t, f.auth.ResetPassword(ctx, newToken, "NewSecret#456"))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))

	result, err := f.auth.Login(ctx, alice.Email, alice.Password)
	require.NoError(t, err)
	assert.Equal(t, "Alice", result.User.FirstName)
	assert.NotEmpty(t, result.AccessToken)

	userID, err := f.issuer.Validate(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.UserID, userID)

	_, err = f.auth.Login(ctx, alice.Email, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "bob@example.com", alice.Password)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "Alice@Example.com", alice.Password)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestChangeName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	require.NoError(t, f.auth.Register(ctx, alice, apiBaseURL))

	require.NoError(t, f.auth.ChangeName(ctx, 1, "Alicia", "Jones"))
	user, err := f.users.GetByEmail(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.FirstName)
	assert.Equal(t, "Jones", user.LastName)

	assert.ErrorIs(t, f.auth.ChangeName(ctx, 99, "X", "Y"), services.ErrUserNotFound)
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := services.NewTokenIssuer("one", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = services.NewTokenIssuer("two", time.Hour).Validate(token)
	assert.Error(t, err)

	expired, err := services.NewTokenIssuer("one", -time.Minute).Issue(7)
	require.NoError(t, err)
	_, err = services.NewTokenIssuer("one", time.Hour).Validate(expired)
	assert.Error(t, err)
}
