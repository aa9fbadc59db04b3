package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/domain"
	"jobboard/internal/repository"
)

const createAdminsTable = `
CREATE TABLE IF NOT EXISTS admins (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'admin',
	is_active INTEGER NOT NULL DEFAULT 1,
	last_login DATETIME NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const adminColumns = `id, username, email, password_hash, name, role, is_active, last_login, created_at, updated_at`

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAdminsTable); err != nil {
		return fmt.Errorf("create admins table: %w", err)
	}
	return nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	now := time.Now().UTC()
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO admins (`+adminColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		string(admin.Role),
		admin.IsActive,
		nullableTime(admin.LastLogin),
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert admin", err)
	}
	return nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
	return scanAdmin(row)
}

func (r *AdminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(1) FROM admins WHERE username = ? OR email = ?`,
		username, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

func (r *AdminRepository) UpdateProfile(ctx context.Context, id, name, email string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE admins SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		name, email, time.Now().UTC(), id,
	)
	if err != nil {
		return wrapWriteErr("update admin profile", err)
	}
	return expectAffected(res, "update admin profile")
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return expectAffected(res, "update admin password")
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE admins SET last_login = ? WHERE id = ?`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	return expectAffected(res, "update admin last login")
}

func (r *AdminRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update admin active flag: %w", err)
	}
	return expectAffected(res, "update admin active flag")
}

func scanAdmin(row rowScanner) (*domain.Admin, error) {
	var (
		admin     domain.Admin
		role      string
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Name,
		&role,
		&admin.IsActive,
		&lastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	admin.Role = domain.Role(role)
	admin.CreatedAt = admin.CreatedAt.UTC()
	admin.UpdatedAt = admin.UpdatedAt.UTC()
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		admin.LastLogin = &t
	}
	return &admin, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}
