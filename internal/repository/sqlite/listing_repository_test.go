package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jobboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewAdminRepository(db).Init(ctx))
	require.NoError(t, NewListingRepository(db).Init(ctx))
	return db
}

func newListing(title string, posted time.Time, expires time.Time) *domain.Listing {
	return &domain.Listing{
		Title:            title,
		Company:          "Acme",
		Location:         "Berlin, Germany",
		Type:             domain.JobTypeFullTime,
		Experience:       "2-4 years",
		ShortDescription: "Short " + title,
		Description:      "Long description for " + title,
		Tags:             []string{"go"},
		ApplyLink:        "https://acme.example/jobs",
		IsActive:         true,
		PostedBy:         "admin-1",
		PostedDate:       posted,
		ExpiryDate:       expires,
	}
}

func TestListingRepositoryCreateGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admins := NewAdminRepository(db)
	repo := NewListingRepository(db)

	admin := &domain.Admin{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Name: "Alice", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, admins.Create(ctx, admin))

	now := time.Now().UTC().Truncate(time.Second)
	listing := newListing("Go Developer", now, now.Add(24*time.Hour))
	listing.PostedBy = admin.ID
	listing.Requirements = []string{"Go", "SQL"}
	require.NoError(t, repo.Create(ctx, listing))
	require.NotEmpty(t, listing.ID)

	got, err := repo.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", got.Title)
	assert.Equal(t, []string{"Go", "SQL"}, got.Requirements)
	assert.Equal(t, []string{}, got.Benefits)
	assert.Equal(t, "Alice", got.PostedByName)
	assert.True(t, got.PostedDate.Equal(now))
	assert.Equal(t, time.UTC, got.ExpiryDate.Location())
	assert.EqualValues(t, 0, got.Views)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListingRepositoryQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	golang := newListing("Senior Go Engineer", now.Add(-3*time.Hour), now.Add(48*time.Hour))
	golang.Location = "Mumbai, India"
	frontend := newListing("Frontend Developer", now.Add(-2*time.Hour), now.Add(48*time.Hour))
	frontend.Type = domain.JobTypeContract
	frontend.Experience = "Junior"
	expired := newListing("Go Intern", now.Add(-time.Hour), now.Add(-time.Minute))
	hidden := newListing("Hidden Go Role", now, now.Add(48*time.Hour))
	hidden.IsActive = false

	for _, l := range []*domain.Listing{golang, frontend, expired, hidden} {
		require.NoError(t, repo.Create(ctx, l))
	}

	tests := []struct {
		name   string
		filter domain.ListingFilter
		want   []string
	}{
		{"public sees active newest first", domain.ListingFilter{}, []string{frontend.ID, golang.ID}},
		{"search matches any term", domain.ListingFilter{Search: "go frontend"}, []string{frontend.ID, golang.ID}},
		{"search single term", domain.ListingFilter{Search: "engineer"}, []string{golang.ID}},
		{"location substring ignores case", domain.ListingFilter{Location: "mumbai"}, []string{golang.ID}},
		{"type exact", domain.ListingFilter{Type: domain.JobTypeContract}, []string{frontend.ID}},
		{"experience substring", domain.ListingFilter{Experience: "jun"}, []string{frontend.ID}},
		{"admin sees everything", domain.ListingFilter{Scope: domain.ScopeAll}, []string{hidden.ID, expired.ID, frontend.ID, golang.ID}},
		{"admin expired", domain.ListingFilter{Scope: domain.ScopeAll, Status: domain.ListingStatusExpired}, []string{expired.ID}},
		{"admin inactive", domain.ListingFilter{Scope: domain.ScopeAll, Status: domain.ListingStatusInactive}, []string{hidden.ID}},
		{"admin search", domain.ListingFilter{Scope: domain.ScopeAll, Search: "go"}, []string{hidden.ID, expired.ID, golang.ID}},
		{"like wildcards are literal", domain.ListingFilter{Location: "%"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Now = now
			items, total, err := repo.Query(ctx, tt.filter, 0, 10)
			require.NoError(t, err)

			ids := make([]string, 0, len(items))
			for _, l := range items {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.EqualValues(t, len(tt.want), total)
		})
	}
}

func TestListingRepositoryQueryPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newListing("Role", now.Add(time.Duration(i)*time.Minute), now.Add(time.Hour))))
	}

	items, total, err := repo.Query(ctx, domain.ListingFilter{Now: now}, 4, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 1)
}

func TestListingRepositoryUpdateKeepsSearchIndexInStep(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	listing := newListing("Backend Developer", now, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, listing))

	listing.Title = "Platform Engineer"
	listing.Views = 99
	require.NoError(t, repo.Update(ctx, listing))

	items, _, err := repo.Query(ctx, domain.ListingFilter{Search: "backend", Now: now}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, _, err = repo.Query(ctx, domain.ListingFilter{Search: "platform", Now: now}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 0, items[0].Views)

	missing := newListing("Ghost", now, now.Add(time.Hour))
	missing.ID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)
}

func TestListingRepositorySearchSurvivesVacuum(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewListingRepository(db)
	now := time.Now().UTC()

	titles := []string{"Backend Developer", "Data Scientist", "Frontend Engineer", "Site Reliability Engineer"}
	created := make([]*domain.Listing, len(titles))
	for i, title := range titles {
		created[i] = newListing(title, now.Add(time.Duration(i)*time.Minute), now.Add(time.Hour))
		require.NoError(t, repo.Create(ctx, created[i]))
	}
	require.NoError(t, repo.Delete(ctx, created[0].ID))
	require.NoError(t, repo.Delete(ctx, created[1].ID))

	_, err := db.ExecContext(ctx, `VACUUM`)
	require.NoError(t, err)

	items, _, err := repo.Query(ctx, domain.ListingFilter{Search: "frontend", Now: now}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created[2].ID, items[0].ID)

	items, _, err = repo.Query(ctx, domain.ListingFilter{Search: "reliability", Now: now}, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created[3].ID, items[0].ID)
}

func TestListingRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	listing := newListing("Data Scientist", now, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, listing))
	require.NoError(t, repo.Delete(ctx, listing.ID))

	_, err := repo.Get(ctx, listing.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, listing.ID), repository.ErrNotFound)

	items, _, err := repo.Query(ctx, domain.ListingFilter{Search: "scientist", Now: now}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListingRepositoryIncrementViews(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	listing := newListing("QA Engineer", now, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, listing))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViews(ctx, listing.ID))
	}
	got, err := repo.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)

	assert.ErrorIs(t, repo.IncrementViews(ctx, "missing"), repository.ErrNotFound)
}

func TestListingRepositoryStats(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t))
	now := time.Now().UTC()

	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStats{}, stats)

	active := newListing("Active", now, now.Add(time.Hour))
	expired := newListing("Expired", now, now.Add(-time.Hour))
	expired.IsActive = false
	inactive := newListing("Inactive", now, now.Add(time.Hour))
	inactive.IsActive = false
	for _, l := range []*domain.Listing{active, expired, inactive} {
		require.NoError(t, repo.Create(ctx, l))
	}
	require.NoError(t, repo.IncrementViews(ctx, active.ID))
	require.NoError(t, repo.IncrementViews(ctx, active.ID))
	require.NoError(t, repo.IncrementViews(ctx, inactive.ID))

	stats, err = repo.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStats{Total: 3, Active: 1, Expired: 1, Inactive: 1, TotalViews: 3}, stats)
}

func TestFtsMatchExpr(t *testing.T) {
	assert.Equal(t, "", ftsMatchExpr("   "))
	assert.Equal(t, `"go" OR "developer"`, ftsMatchExpr(" go  developer "))
	assert.Equal(t, `"c++"`, ftsMatchExpr(`"c++"`))
}
