package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain"
	"jobboard/internal/events"
	"jobboard/internal/repository"
	"jobboard/internal/repository/sqlite"
)

type testEnv struct {
	admins    repository.AdminRepository
	listings  repository.ListingRepository
	tokens    *TokenIssuer
	auth      AuthService
	listing   ListingService
	publisher *recordingPublisher
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "jobboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	admins := sqlite.NewAdminRepository(db)
	listings := sqlite.NewListingRepository(db)
	require.NoError(t, admins.Init(ctx))
	require.NoError(t, listings.Init(ctx))

	tokens := NewTokenIssuer("test-secret", time.Hour)
	publisher := &recordingPublisher{}
	return &testEnv{
		admins:   admins,
		listings: listings,
		tokens:   tokens,
		auth: NewAuthService(admins, tokens, AuthOptions{
			BcryptCost: bcrypt.MinCost,
			Logger:     quietLogger(),
		}),
		listing: NewListingService(listings, ListingOptions{
			Publisher: publisher,
			Logger:    quietLogger(),
		}),
		publisher: publisher,
	}
}

func (e *testEnv) register(t *testing.T, username string, role domain.Role) string {
	t.Helper()
	admin, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Name:     "Test " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return admin.ID
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ListingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.ListingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
