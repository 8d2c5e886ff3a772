package db

import (
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const issueSelect = `
	SELECT i.id, i.family_id, i.user_id, i.subject, i.description, i.category, i.priority,
	       i.status, i.contact_email, i.admin_notes, i.resolved_at, i.created_at, i.updated_at,
	       f.name AS family_name, u.name AS user_name
	FROM issues i
	LEFT JOIN families f ON f.id = i.family_id
	LEFT JOIN users u ON u.id = i.user_id`

func (s *pgStore) CreateIssue(i *model.Issue) (*model.Issue, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO issues (family_id, user_id, subject, description, category, priority, status,
	                    contact_email, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	RETURNING id;`,
		i.FamilyID, i.UserID, i.Subject, i.Description, i.Category, i.Priority,
		model.IssueOpen, i.ContactEmail).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetIssue(id)
}

func (s *pgStore) ListIssuesByUser(userID int) ([]model.Issue, error) {
	out := []model.Issue{}
	err := s.db.Select(&out, issueSelect+` WHERE i.user_id = $1 ORDER BY i.created_at DESC;`, userID)
	return out, err
}

func (s *pgStore) ListIssues(status *string) ([]model.Issue, error) {
	out := []model.Issue{}
	q := issueSelect
	args := []any{}
	if status != nil {
		q += ` WHERE i.status = $1`
		args = append(args, *status)
	}
	err := s.db.Select(&out, q+` ORDER BY i.created_at DESC;`, args...)
	return out, err
}

func (s *pgStore) GetIssue(id int) (*model.Issue, error) {
	var i model.Issue
	if err := s.db.Get(&i, issueSelect+` WHERE i.id = $1;`, id); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *pgStore) UpdateIssue(i *model.Issue) (*model.Issue, error) {
	err := requireRow(s.db.Exec(`
	UPDATE issues SET status = $2, priority = $3, admin_notes = $4, resolved_at = $5, updated_at = now()
	WHERE id = $1;`, i.ID, i.Status, i.Priority, i.AdminNotes, i.ResolvedAt))
	if err != nil {
		return nil, err
	}
	return s.GetIssue(i.ID)
}

func (s *pgStore) LogActivity(a *model.ActivityLog) error {
	_, err := s.db.Exec(`
	INSERT INTO activity_logs (family_id, user_id, action, details, ip_address, user_agent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, now());`,
		a.FamilyID, a.UserID, a.Action, a.Details, a.IPAddress, a.UserAgent)
	return err
}

func (s *pgStore) ListActivity(familyID *int, limit int) ([]model.ActivityLog, error) {
	out := []model.ActivityLog{}
	q := `SELECT id, family_id, user_id, action, details, ip_address, user_agent, created_at FROM activity_logs`
	args := []any{limit}
	if familyID != nil {
		q += ` WHERE family_id = $2`
		args = append(args, *familyID)
	}
	err := s.db.Select(&out, q+` ORDER BY created_at DESC LIMIT $1;`, args...)
	return out, err
}
