package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/eihracat/database"
	"github.com/akinalp/eihracat/models"
	"github.com/akinalp/eihracat/pkg"
)

type sqlMemberRepo struct {
	db database.TxQuerier
}

// NewSQLMemberRepo, MemberRepository'nin SQL implementasyonunu döner.
func NewSQLMemberRepo(db database.TxQuerier) MemberRepository {
	return &sqlMemberRepo{db: db}
}

func (r *sqlMemberRepo) Add(ctx context.Context, m *models.CompanyMember) error {
	m.JoinedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company_members (company_id, user_id, role_id, title, joined_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.CompanyID, m.UserID, m.RoleID, m.Title, m.JoinedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: user is already a member", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *sqlMemberRepo) Get(ctx context.Context, companyID, userID string) (*models.CompanyMember, error) {
	m := &models.CompanyMember{}
	err := r.db.QueryRowContext(ctx, `
		SELECT company_id, user_id, role_id, title, joined_at
		FROM company_members WHERE company_id = ? AND user_id = ?`, companyID, userID,
	).Scan(&m.CompanyID, &m.UserID, &m.RoleID, &m.Title, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err, "member")
	}
	return m, nil
}

func (r *sqlMemberRepo) ListPersonnel(ctx context.Context, companyID string) ([]models.PersonnelEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.phone, u.is_active, m.title, r.id, r.name,
			m.joined_at, u.last_login_at
		FROM company_members m
		JOIN users u ON u.id = m.user_id
		JOIN company_roles r ON r.id = m.role_id
		WHERE m.company_id = ?
		ORDER BY r.position DESC, u.full_name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	defer rows.Close()

	entries := []models.PersonnelEntry{}
	for rows.Next() {
		var e models.PersonnelEntry
		if err := rows.Scan(
			&e.UserID, &e.Email, &e.FullName, &e.Phone, &e.IsActive, &e.Title,
			&e.RoleID, &e.RoleName, &e.JoinedAt, &e.LastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan personnel row: %w", err)
		}
		e.IsOwner = e.RoleName == models.RoleNameOwner
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *sqlMemberRepo) ListMemberships(ctx context.Context, userID string) ([]models.MembershipAccess, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.status, r.id, r.name, m.title, r.permissions
		FROM company_members m
		JOIN companies c ON c.id = m.company_id
		JOIN company_roles r ON r.id = m.role_id
		WHERE m.user_id = ?
		ORDER BY c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	list := []models.MembershipAccess{}
	for rows.Next() {
		var a models.MembershipAccess
		if err := rows.Scan(
			&a.Company.ID, &a.Company.Name, &a.Company.Status,
			&a.RoleID, &a.RoleName, &a.Title, &a.Permissions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *sqlMemberRepo) GetPermissions(ctx context.Context, companyID, userID string) (models.Permission, error) {
	var perms models.Permission
	err := r.db.QueryRowContext(ctx, `
		SELECT r.permissions FROM company_members m
		JOIN company_roles r ON r.id = m.role_id
		WHERE m.company_id = ? AND m.user_id = ?`, companyID, userID,
	).Scan(&perms)
	if err != nil {
		return 0, notFound(err, "member")
	}
	return perms, nil
}

func (r *sqlMemberRepo) ListUserIDs(ctx context.Context, companyID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM company_members WHERE company_id = ?`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sqlMemberRepo) Update(ctx context.Context, m *models.CompanyMember) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE company_members SET role_id = ?, title = ? WHERE company_id = ? AND user_id = ?`,
		m.RoleID, m.Title, m.CompanyID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return requireAffected(res, "member")
}

func (r *sqlMemberRepo) Remove(ctx context.Context, companyID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM company_members WHERE company_id = ? AND user_id = ?`, companyID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return requireAffected(res, "member")
}

// ─── Consultants ───

type sqlConsultantRepo struct {
	db database.TxQuerier
}

// NewSQLConsultantRepo, ConsultantRepository'nin SQL implementasyonunu döner.
func NewSQLConsultantRepo(db database.TxQuerier) ConsultantRepository {
	return &sqlConsultantRepo{db: db}
}

func (r *sqlConsultantRepo) Assign(ctx context.Context, companyID, consultantID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO consultant_assignments (company_id, consultant_id, assigned_at) VALUES (?, ?, ?)`,
		companyID, consultantID, now(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: consultant already assigned", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to assign consultant: %w", err)
	}
	return nil
}

func (r *sqlConsultantRepo) Unassign(ctx context.Context, companyID, consultantID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM consultant_assignments WHERE company_id = ? AND consultant_id = ?`, companyID, consultantID)
	if err != nil {
		return fmt.Errorf("failed to unassign consultant: %w", err)
	}
	return requireAffected(res, "consultant assignment")
}

func (r *sqlConsultantRepo) IsAssigned(ctx context.Context, companyID, consultantID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM consultant_assignments WHERE company_id = ? AND consultant_id = ?`,
		companyID, consultantID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check consultant assignment: %w", err)
	}
	return n > 0, nil
}

func (r *sqlConsultantRepo) ListCompanies(ctx context.Context, consultantID string) ([]models.CompanySummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.status FROM consultant_assignments a
		JOIN companies c ON c.id = a.company_id
		WHERE a.consultant_id = ?
		ORDER BY c.name`, consultantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultant companies: %w", err)
	}
	defer rows.Close()

	list := []models.CompanySummary{}
	for rows.Next() {
		var c models.CompanySummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan company summary: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *sqlConsultantRepo) ListConsultantIDs(ctx context.Context, companyID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT consultant_id FROM consultant_assignments WHERE company_id = ? ORDER BY assigned_at`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultants: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan consultant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAll, tüm danışmanları atandıkları firmalarla döner.
// LEFT JOIN ile atanmamış danışmanlar da listelenir.
func (r *sqlConsultantRepo) ListAll(ctx context.Context) ([]models.ConsultantEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.is_active, c.id, c.name, c.status
		FROM users u
		LEFT JOIN consultant_assignments a ON a.consultant_id = u.id
		LEFT JOIN companies c ON c.id = a.company_id
		WHERE u.platform_role = ?
		ORDER BY u.full_name, c.name`, models.PlatformRoleConsultant)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultants: %w", err)
	}
	defer rows.Close()

	entries := []models.ConsultantEntry{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			e                       models.ConsultantEntry
			companyID, name, status *string
		)
		if err := rows.Scan(&e.UserID, &e.Email, &e.FullName, &e.IsActive, &companyID, &name, &status); err != nil {
			return nil, fmt.Errorf("failed to scan consultant row: %w", err)
		}

		i, ok := index[e.UserID]
		if !ok {
			e.Companies = []models.CompanySummary{}
			entries = append(entries, e)
			i = len(entries) - 1
			index[e.UserID] = i
		}
		if companyID != nil {
			entries[i].Companies = append(entries[i].Companies, models.CompanySummary{
				ID: *companyID, Name: *name, Status: models.CompanyStatus(*status),
			})
		}
	}
	return entries, rows.Err()
}
