package seed

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/service"
)

func TestRunCreatesValidListings(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewListingRepository(db)
	require.NoError(t, sqlite.NewAdminRepository(db).Init(ctx))
	require.NoError(t, repo.Init(ctx))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	listings := service.NewListingService(repo, service.ListingOptions{Logger: logger})

	n, err := Run(ctx, listings, "owner", 30*24*time.Hour, logger)
	require.NoError(t, err)
	assert.Equal(t, len(samples), n)

	page, err := listings.List(ctx, domain.ListingFilter{}, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, len(samples), page.Total)

	remote, err := listings.List(ctx, domain.ListingFilter{Type: domain.JobTypeRemote}, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, remote.Total)
}
