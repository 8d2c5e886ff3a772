package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const adminColumns = `id, email, name, hashed_password, is_active, last_login_at, created_at`

// @ ADMINS
func (s *pgStore) CreateAdmin(a *model.Admin) (*model.Admin, error) {
	var out model.Admin
	err := s.db.Get(&out, `
	INSERT INTO admins (email, name, hashed_password, is_active, created_at)
	VALUES (lower($1), $2, $3, TRUE, now())
	RETURNING `+adminColumns+`;`, a.Email, a.Name, a.HashedPassword)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetAdminByID(id int) (*model.Admin, error) {
	var a model.Admin
	if err := s.db.Get(&a, `SELECT `+adminColumns+` FROM admins WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgStore) GetAdminByEmail(email string) (*model.Admin, error) {
	var a model.Admin
	if err := s.db.Get(&a, `SELECT `+adminColumns+` FROM admins WHERE email = lower($1);`, email); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgStore) ListAdmins() ([]model.Admin, error) {
	out := []model.Admin{}
	err := s.db.Select(&out, `SELECT `+adminColumns+` FROM admins ORDER BY created_at;`)
	return out, err
}

func (s *pgStore) UpdateAdmin(a *model.Admin) (*model.Admin, error) {
	var out model.Admin
	err := s.db.Get(&out, `
	UPDATE admins SET name = $2, hashed_password = $3, is_active = $4, email = lower($5)
	WHERE id = $1
	RETURNING `+adminColumns+`;`, a.ID, a.Name, a.HashedPassword, a.IsActive, a.Email)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) DeleteAdmin(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM admins WHERE id = $1;`, id))
}

func (s *pgStore) TouchAdminLogin(id int, at time.Time) error {
	return requireRow(s.db.Exec(`UPDATE admins SET last_login_at = $2 WHERE id = $1;`, id, at))
}

func (s *pgStore) CountAdmins() (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT count(*) FROM admins;`)
	return n, err
}

// @ FAMILIES (admin view)
type FamilyFilter struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
}

type FamilySummary struct {
	model.Family
	MemberCount     int `db:"member_count" json:"member_count"`
	MonthTokensUsed int `db:"month_tokens_used" json:"month_tokens_used"`
}

// ListFamilies pages through families newest first and returns the total match count.
func (s *pgStore) ListFamilies(f FamilyFilter) ([]FamilySummary, int, error) {
	var where []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(fam.name ILIKE $%d OR fam.owner_email ILIKE $%d)", len(args), len(args)))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where = append(where, fmt.Sprintf("fam.is_active = $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.Get(&total, `SELECT count(*) FROM families fam`+cond+`;`, args...); err != nil {
		return nil, 0, err
	}

	monthStart := MonthStart(time.Now())
	args = append(args, monthStart, f.PageSize, (f.Page-1)*f.PageSize)
	n := len(args)
	q := fmt.Sprintf(`
	SELECT fam.id, fam.name, fam.slug, fam.owner_email, fam.country, fam.is_verified, fam.verified_at,
	       fam.is_active, fam.subscription_plan, fam.created_at, fam.updated_at,
	       (SELECT count(*) FROM users u WHERE u.family_id = fam.id) AS member_count,
	       (SELECT COALESCE(SUM(total_tokens), 0) FROM ai_token_usage a
	         WHERE a.family_id = fam.id AND a.created_at >= $%d) AS month_tokens_used
	FROM families fam%s
	ORDER BY fam.created_at DESC
	LIMIT $%d OFFSET $%d;`, n-2, cond, n-1, n)

	out := []FamilySummary{}
	if err := s.db.Select(&out, q, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *pgStore) SetFamilyActive(id int, active bool) error {
	return requireRow(s.db.Exec(`
	UPDATE families SET is_active = $2, updated_at = now() WHERE id = $1;`, id, active))
}

// SetFamilyFeatures upserts the given flags and leaves the others untouched.
func (s *pgStore) SetFamilyFeatures(familyID int, flags map[string]bool) error {
	return s.withTx("SetFamilyFeatures", func(tx *sqlx.Tx) error {
		for key, enabled := range flags {
			if _, err := tx.Exec(`
			INSERT INTO family_features (family_id, feature_key, is_enabled, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (family_id, feature_key)
			DO UPDATE SET is_enabled = EXCLUDED.is_enabled, updated_at = now();`,
				familyID, key, enabled); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) UpsertAILimit(l *model.FamilyAILimit) (*model.FamilyAILimit, error) {
	var out model.FamilyAILimit
	err := s.db.Get(&out, `
	INSERT INTO family_ai_limits (family_id, monthly_token_limit, monthly_cost_limit, is_ai_enabled, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (family_id)
	DO UPDATE SET monthly_token_limit = EXCLUDED.monthly_token_limit,
	              monthly_cost_limit = EXCLUDED.monthly_cost_limit,
	              is_ai_enabled = EXCLUDED.is_ai_enabled, updated_at = now()
	RETURNING family_id, monthly_token_limit, monthly_cost_limit, is_ai_enabled, updated_at;`,
		l.FamilyID, l.MonthlyTokenLimit, l.MonthlyCostLimit, l.IsAIEnabled)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type DashboardStats struct {
	TotalFamilies    int             `db:"total_families" json:"total_families"`
	ActiveFamilies   int             `db:"active_families" json:"active_families"`
	VerifiedFamilies int             `db:"verified_families" json:"verified_families"`
	NewFamiliesMonth int             `db:"new_families_month" json:"new_families_this_month"`
	TotalUsers       int             `db:"total_users" json:"total_users"`
	NewUsersMonth    int             `db:"new_users_month" json:"new_users_this_month"`
	OpenIssues       int             `db:"open_issues" json:"open_issues"`
	AITokensMonth    int             `db:"ai_tokens_month" json:"ai_tokens_this_month"`
	AICostMonth      decimal.Decimal `db:"ai_cost_month" json:"ai_cost_this_month_usd"`
}

func (s *pgStore) DashboardStats(monthStart time.Time) (*DashboardStats, error) {
	var st DashboardStats
	err := s.db.Get(&st, `
	SELECT
	  (SELECT count(*) FROM families) AS total_families,
	  (SELECT count(*) FROM families WHERE is_active) AS active_families,
	  (SELECT count(*) FROM families WHERE is_verified) AS verified_families,
	  (SELECT count(*) FROM families WHERE created_at >= $1) AS new_families_month,
	  (SELECT count(*) FROM users) AS total_users,
	  (SELECT count(*) FROM users WHERE created_at >= $1) AS new_users_month,
	  (SELECT count(*) FROM issues WHERE status IN ('open', 'in_progress')) AS open_issues,
	  (SELECT COALESCE(SUM(total_tokens), 0) FROM ai_token_usage WHERE created_at >= $1) AS ai_tokens_month,
	  (SELECT COALESCE(SUM(cost_usd), 0) FROM ai_token_usage WHERE created_at >= $1) AS ai_cost_month;`,
		monthStart)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
