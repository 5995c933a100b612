package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlUserRepo struct {
	db database.TxQuerier
}

// NewSQLUserRepo, UserRepository'nin SQL implementasyonunu döner.
func NewSQLUserRepo(db database.TxQuerier) UserRepository {
	return &sqlUserRepo{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, platform_role, is_active,
	last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.PlatformRole,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (r *sqlUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = newID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone, platform_role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone,
		user.PlatformRole, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err := scanUser(row, u); err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *sqlUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err := scanUser(row, u); err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *sqlUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var w whereBuilder
	if filter.Query != "" {
		p := likePattern(filter.Query)
		w.add(`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')`, p, p)
	}
	if filter.Role != "" {
		w.add("platform_role = ?", filter.Role)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		pageArgs(w.args, filter.Limit, filter.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

func (r *sqlUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, phone = ?, platform_role = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		user.FullName, user.Phone, user.PlatformRole, user.IsActive, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *sqlUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *sqlUserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *sqlUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user still owns content", pkg.ErrConflict)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(res, "user")
}

func (r *sqlUserRepo) CountByRole(ctx context.Context) (map[models.PlatformRole]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT platform_role, COUNT(*) FROM users GROUP BY platform_role`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	defer rows.Close()

	counts := map[models.PlatformRole]int{
		models.PlatformRoleAdmin:       0,
		models.PlatformRoleConsultant:  0,
		models.PlatformRoleCompanyUser: 0,
	}
	for rows.Next() {
		var role models.PlatformRole
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
