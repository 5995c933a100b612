package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlCompanyRepo struct {
	db database.TxQuerier
}

// NewSQLCompanyRepo, CompanyRepository'nin SQL implementasyonunu döner.
func NewSQLCompanyRepo(db database.TxQuerier) CompanyRepository {
	return &sqlCompanyRepo{db: db}
}

const companyColumns = `id, name, tax_number, sector, city, country, website, phone, email,
	export_markets, status, owner_id, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }, c *models.Company) error {
	var markets string
	if err := row.Scan(
		&c.ID, &c.Name, &c.TaxNumber, &c.Sector, &c.City, &c.Country, &c.Website, &c.Phone,
		&c.Email, &markets, &c.Status, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return err
	}
	c.ExportMarkets = decodeList(markets)
	return nil
}

func (r *sqlCompanyRepo) Create(ctx context.Context, c *models.Company) error {
	c.ID = newID()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, tax_number, sector, city, country, website, phone, email,
			export_markets, status, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.TaxNumber, c.Sector, c.City, c.Country, c.Website, c.Phone, c.Email,
		encodeList(c.ExportMarkets), c.Status, c.OwnerID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}

func (r *sqlCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	c := &models.Company{}
	row := r.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	if err := scanCompany(row, c); err != nil {
		return nil, notFound(err, "company")
	}
	return c, nil
}

func (r *sqlCompanyRepo) List(ctx context.Context, filter models.CompanyFilter) ([]models.Company, int, error) {
	var w whereBuilder
	if filter.Query != "" {
		w.add(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Query))
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Market != "" {
		// export_markets JSON dizisi: ["DE","US"] → tırnaklı eşleşme ile "içerir" araması
		w.add(`export_markets LIKE ? ESCAPE '\'`, `%"`+escapeLike(strings.ToUpper(filter.Market))+`"%`)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies`+w.String()+` ORDER BY name LIMIT ? OFFSET ?`,
		pageArgs(w.args, filter.Limit, filter.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating company rows: %w", err)
	}
	return companies, total, nil
}

func (r *sqlCompanyRepo) Update(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE companies SET name = ?, tax_number = ?, sector = ?, city = ?, country = ?, website = ?,
			phone = ?, email = ?, export_markets = ?, status = ?, owner_id = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.TaxNumber, c.Sector, c.City, c.Country, c.Website, c.Phone, c.Email,
		encodeList(c.ExportMarkets), c.Status, c.OwnerID, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	return requireAffected(res, "company")
}

func (r *sqlCompanyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return requireAffected(res, "company")
}

func (r *sqlCompanyRepo) CountByStatus(ctx context.Context) (map[models.CompanyStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM companies GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	defer rows.Close()

	counts := map[models.CompanyStatus]int{
		models.CompanyStatusActive:  0,
		models.CompanyStatusPassive: 0,
		models.CompanyStatusPending: 0,
	}
	for rows.Next() {
		var status models.CompanyStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan company count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ─── Roles ───

type sqlRoleRepo struct {
	db database.TxQuerier
}

// NewSQLRoleRepo, RoleRepository'nin SQL implementasyonunu döner.
func NewSQLRoleRepo(db database.TxQuerier) RoleRepository {
	return &sqlRoleRepo{db: db}
}

const roleColumns = `id, company_id, name, permissions, position, is_default, created_at`

func scanRole(row interface{ Scan(...any) error }, r *models.CompanyRole) error {
	return row.Scan(&r.ID, &r.CompanyID, &r.Name, &r.Permissions, &r.Position, &r.IsDefault, &r.CreatedAt)
}

func (r *sqlRoleRepo) Create(ctx context.Context, role *models.CompanyRole) error {
	role.ID = newID()
	role.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company_roles (id, company_id, name, permissions, position, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		role.ID, role.CompanyID, role.Name, role.Permissions, role.Position, role.IsDefault, role.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: role name already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *sqlRoleRepo) GetByID(ctx context.Context, companyID, roleID string) (*models.CompanyRole, error) {
	role := &models.CompanyRole{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM company_roles WHERE company_id = ? AND id = ?`, companyID, roleID)
	if err := scanRole(row, role); err != nil {
		return nil, notFound(err, "role")
	}
	return role, nil
}

func (r *sqlRoleRepo) GetByName(ctx context.Context, companyID, name string) (*models.CompanyRole, error) {
	role := &models.CompanyRole{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM company_roles WHERE company_id = ? AND name = ?`, companyID, name)
	if err := scanRole(row, role); err != nil {
		return nil, notFound(err, "role")
	}
	return role, nil
}

func (r *sqlRoleRepo) GetDefault(ctx context.Context, companyID string) (*models.CompanyRole, error) {
	role := &models.CompanyRole{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM company_roles WHERE company_id = ? AND is_default = ? LIMIT 1`, companyID, true)
	if err := scanRole(row, role); err != nil {
		return nil, notFound(err, "default role")
	}
	return role, nil
}

func (r *sqlRoleRepo) ListByCompany(ctx context.Context, companyID string) ([]models.CompanyRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM company_roles WHERE company_id = ? ORDER BY position DESC, name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	roles := []models.CompanyRole{}
	for rows.Next() {
		var role models.CompanyRole
		if err := scanRole(rows, &role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *sqlRoleRepo) Update(ctx context.Context, role *models.CompanyRole) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE company_roles SET name = ?, permissions = ?, position = ?, is_default = ?
		WHERE company_id = ? AND id = ?`,
		role.Name, role.Permissions, role.Position, role.IsDefault, role.CompanyID, role.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: role name already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update role: %w", err)
	}
	return requireAffected(res, "role")
}

func (r *sqlRoleRepo) Delete(ctx context.Context, companyID, roleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM company_roles WHERE company_id = ? AND id = ?`, companyID, roleID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: role is still assigned", pkg.ErrConflict)
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return requireAffected(res, "role")
}

func (r *sqlRoleRepo) CountMembers(ctx context.Context, roleID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM company_members WHERE role_id = ?`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count role members: %w", err)
	}
	return n, nil
}
