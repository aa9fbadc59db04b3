package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const (
	createListingsTable = `
CREATE TABLE IF NOT EXISTS listings (
	seq INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL,
	job_type TEXT NOT NULL,
	experience TEXT NOT NULL,
	salary TEXT NOT NULL DEFAULT '',
	short_description TEXT NOT NULL,
	description TEXT NOT NULL,
	requirements TEXT NOT NULL DEFAULT '[]',
	benefits TEXT NOT NULL DEFAULT '[]',
	tags TEXT NOT NULL DEFAULT '[]',
	apply_link TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	posted_by TEXT NOT NULL,
	posted_date DATETIME NOT NULL,
	expiry_date DATETIME NOT NULL,
	views INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_listings_posted_date ON listings (posted_date);
CREATE INDEX IF NOT EXISTS idx_listings_expiry_date ON listings (expiry_date);
`

	// listings_fts mirrors the searchable columns; triggers keep it in step with listings.
	// It is keyed on seq, which aliases rowid and so survives VACUUM.
	createListingsFTS = `
CREATE VIRTUAL TABLE IF NOT EXISTS listings_fts USING fts5(
	title, company, location, short_description, description,
	content='listings', content_rowid='seq'
);
CREATE TRIGGER IF NOT EXISTS listings_fts_insert AFTER INSERT ON listings BEGIN
	INSERT INTO listings_fts(rowid, title, company, location, short_description, description)
	VALUES (new.seq, new.title, new.company, new.location, new.short_description, new.description);
END;
CREATE TRIGGER IF NOT EXISTS listings_fts_delete AFTER DELETE ON listings BEGIN
	INSERT INTO listings_fts(listings_fts, rowid, title, company, location, short_description, description)
	VALUES ('delete', old.seq, old.title, old.company, old.location, old.short_description, old.description);
END;
CREATE TRIGGER IF NOT EXISTS listings_fts_update AFTER UPDATE OF title, company, location, short_description, description ON listings BEGIN
	INSERT INTO listings_fts(listings_fts, rowid, title, company, location, short_description, description)
	VALUES ('delete', old.seq, old.title, old.company, old.location, old.short_description, old.description);
	INSERT INTO listings_fts(rowid, title, company, location, short_description, description)
	VALUES (new.seq, new.title, new.company, new.location, new.short_description, new.description);
END;
`

	listingSelect = `
SELECT l.id, l.title, l.company, l.location, l.job_type, l.experience, l.salary,
	l.short_description, l.description, l.requirements, l.benefits, l.tags, l.apply_link,
	l.is_active, l.posted_by, COALESCE(a.name, ''), l.posted_date, l.expiry_date, l.views,
	l.created_at, l.updated_at
FROM listings l
LEFT JOIN admins a ON a.id = l.posted_by`
)

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createListingsTable); err != nil {
		return fmt.Errorf("create listings table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createListingsFTS); err != nil {
		return fmt.Errorf("create listings fts index: %w", err)
	}
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	listing.CreatedAt = now
	listing.UpdatedAt = now

	requirements, benefits, tags, err := encodeLists(listing)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO listings (id, title, company, location, job_type, experience, salary, short_description, description, requirements, benefits, tags, apply_link, is_active, posted_by, posted_date, expiry_date, views, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID,
		listing.Title,
		listing.Company,
		listing.Location,
		string(listing.Type),
		listing.Experience,
		listing.Salary,
		listing.ShortDescription,
		listing.Description,
		requirements,
		benefits,
		tags,
		listing.ApplyLink,
		listing.IsActive,
		listing.PostedBy,
		listing.PostedDate.UTC(),
		listing.ExpiryDate.UTC(),
		listing.Views,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert listing", err)
	}
	return nil
}

// Update overwrites every editable column. Views, owner and posted date are left untouched.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	listing.UpdatedAt = time.Now().UTC()

	requirements, benefits, tags, err := encodeLists(listing)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE listings SET
	title = ?, company = ?, location = ?, job_type = ?, experience = ?, salary = ?,
	short_description = ?, description = ?, requirements = ?, benefits = ?, tags = ?,
	apply_link = ?, is_active = ?, expiry_date = ?, updated_at = ?
WHERE id = ?`,
		listing.Title,
		listing.Company,
		listing.Location,
		string(listing.Type),
		listing.Experience,
		listing.Salary,
		listing.ShortDescription,
		listing.Description,
		requirements,
		benefits,
		tags,
		listing.ApplyLink,
		listing.IsActive,
		listing.ExpiryDate.UTC(),
		listing.UpdatedAt,
		listing.ID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return expectAffected(res, "update listing")
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return expectAffected(res, "delete listing")
}

func (r *ListingRepository) Get(ctx context.Context, id string) (*domain.Listing, error) {
	row := r.db.QueryRowContext(ctx, listingSelect+` WHERE l.id = ?`, id)
	listing, err := scanListing(row)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment listing views: %w", err)
	}
	return expectAffected(res, "increment listing views")
}

func (r *ListingRepository) Query(ctx context.Context, filter domain.ListingFilter, offset, limit int) ([]domain.Listing, int64, error) {
	where, args := buildListingWhere(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM listings l`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := listingSelect + where + ` ORDER BY l.posted_date DESC, l.seq DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) ListAll(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listingSelect+` ORDER BY l.posted_date DESC, l.seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *ListingRepository) Stats(ctx context.Context, now time.Time) (domain.ListingStats, error) {
	var stats domain.ListingStats
	now = now.UTC()
	err := r.db.QueryRowContext(ctx, `
SELECT
	COUNT(1),
	COALESCE(SUM(CASE WHEN is_active = 1 AND expiry_date >= ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN expiry_date < ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN is_active = 0 AND expiry_date >= ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(views), 0)
FROM listings`,
		now, now, now,
	).Scan(&stats.Total, &stats.Active, &stats.Expired, &stats.Inactive, &stats.TotalViews)
	if err != nil {
		return domain.ListingStats{}, fmt.Errorf("listing stats: %w", err)
	}
	return stats, nil
}

func buildListingWhere(filter domain.ListingFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	now := filter.Now.UTC()

	switch {
	case filter.Scope == domain.ScopePublic:
		clauses = append(clauses, `l.is_active = 1 AND l.expiry_date >= ?`)
		args = append(args, now)
	case filter.Status == domain.ListingStatusActive:
		clauses = append(clauses, `l.is_active = 1 AND l.expiry_date >= ?`)
		args = append(args, now)
	case filter.Status == domain.ListingStatusExpired:
		clauses = append(clauses, `l.expiry_date < ?`)
		args = append(args, now)
	case filter.Status == domain.ListingStatusInactive:
		clauses = append(clauses, `l.is_active = 0 AND l.expiry_date >= ?`)
		args = append(args, now)
	}

	if match := ftsMatchExpr(filter.Search); match != "" {
		clauses = append(clauses, `l.seq IN (SELECT rowid FROM listings_fts WHERE listings_fts MATCH ?)`)
		args = append(args, match)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		clauses = append(clauses, `LOWER(l.location) LIKE ? ESCAPE '\'`)
		args = append(args, likeContains(loc))
	}
	if filter.Type != "" {
		clauses = append(clauses, `l.job_type = ?`)
		args = append(args, string(filter.Type))
	}
	if exp := strings.TrimSpace(filter.Experience); exp != "" {
		clauses = append(clauses, `LOWER(l.experience) LIKE ? ESCAPE '\'`)
		args = append(args, likeContains(exp))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ftsMatchExpr turns free text into an FTS5 expression matching any of its terms.
func ftsMatchExpr(search string) string {
	terms := strings.Fields(search)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " OR ")
}

func likeContains(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func collectListings(rows *sql.Rows) ([]domain.Listing, error) {
	listings := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var (
		listing                      domain.Listing
		jobType                      string
		requirements, benefits, tags string
	)
	if err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Company,
		&listing.Location,
		&jobType,
		&listing.Experience,
		&listing.Salary,
		&listing.ShortDescription,
		&listing.Description,
		&requirements,
		&benefits,
		&tags,
		&listing.ApplyLink,
		&listing.IsActive,
		&listing.PostedBy,
		&listing.PostedByName,
		&listing.PostedDate,
		&listing.ExpiryDate,
		&listing.Views,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("listing: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	listing.Type = domain.JobType(jobType)
	listing.PostedDate = listing.PostedDate.UTC()
	listing.ExpiryDate = listing.ExpiryDate.UTC()
	listing.CreatedAt = listing.CreatedAt.UTC()
	listing.UpdatedAt = listing.UpdatedAt.UTC()

	for _, field := range []struct {
		raw  string
		dest *[]string
	}{
		{requirements, &listing.Requirements},
		{benefits, &listing.Benefits},
		{tags, &listing.Tags},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.dest); err != nil {
			return nil, fmt.Errorf("decode listing %s lists: %w", listing.ID, err)
		}
	}
	return &listing, nil
}

func encodeLists(listing *domain.Listing) (requirements, benefits, tags string, err error) {
	encode := func(name string, values []string) (string, error) {
		if values == nil {
			values = []string{}
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return "", fmt.Errorf("encode listing %s: %w", name, err)
		}
		return string(raw), nil
	}
	if requirements, err = encode("requirements", listing.Requirements); err != nil {
		return "", "", "", err
	}
	if benefits, err = encode("benefits", listing.Benefits); err != nil {
		return "", "", "", err
	}
	if tags, err = encode("tags", listing.Tags); err != nil {
		return "", "", "", err
	}
	return requirements, benefits, tags, nil
}
