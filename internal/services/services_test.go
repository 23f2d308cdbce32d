package services_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"autolog/internal/mailer"
	"autolog/internal/repositories"
	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCounterRepository is a testify mock of repositories.CounterRepository.
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	users    *repositories.MockUserRepository
	cars     *repositories.MockCarRepository
	notes    *repositories.MockNoteRepository
	counters repositories.CounterRepository
	mail     *mailer.Recorder
	issuer   *services.TokenIssuer
	auth     *services.AuthService
	carSvc   *services.CarService
	noteSvc  *services.NoteService
}

const (
	frontendURL = "http://app.test"
	apiBaseURL  = "http://api.test"
)

func newFixture(t *testing.T, counters repositories.CounterRepository) *fixture {
	t.Helper()

	if counters == nil {
		counters = repositories.NewMockCounterRepository()
	}
	logger := log.New(io.Discard)
	seq := services.NewSequenceService(counters)

	f := &fixture{
		users:    repositories.NewMockUserRepository(),
		cars:     repositories.NewMockCarRepository(),
		notes:    repositories.NewMockNoteRepository(),
		counters: counters,
		mail:     &mailer.Recorder{},
		issuer:   services.NewTokenIssuer("test-secret", time.Hour),
	}
	f.auth = services.NewAuthService(f.users, seq, f.mail, services.AuthConfig{
		FrontendURL: frontendURL + "/",
		Tokens:      f.issuer,
	}, logger)
	f.carSvc = services.NewCarService(f.cars, f.notes, seq, logger)
	f.noteSvc = services.NewNoteService(f.notes, seq)
	return f
}

// tokenAfter returns the token that follows prefix in an email body.
func tokenAfter(t *testing.T, body, prefix string) string {
	t.Helper()

	i := strings.Index(body, prefix)
	require.GreaterOrEqual(t, i, 0, "link %q not found in %q", prefix, body)
	fields := strings.Fields(body[i+len(prefix):])
	require.NotEmpty(t, fields)
	return fields[0]
}
