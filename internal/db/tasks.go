package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const taskSelect = `
	SELECT t.id, t.family_id, t.title, t.description, t.assigned_to, t.created_by, t.due_date,
	       t.points, t.status, t.category, t.is_recurring, t.recurrence_pattern,
	       t.completed_at, t.created_at, u.name AS assignee_name
	FROM tasks t LEFT JOIN users u ON u.id = t.assigned_to`

// @ TASKS
func (s *pgStore) ListTasks(familyID int, f model.TaskFilter) ([]model.Task, error) {
	where := []string{"t.family_id = $1"}
	args := []any{familyID}
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.AssignedTo != nil {
		add("t.assigned_to = $%d", *f.AssignedTo)
	}
	if f.Status != nil {
		add("t.status = $%d", *f.Status)
	}
	if f.Category != nil {
		add("t.category = $%d", *f.Category)
	}
	if f.DueDate != nil {
		add("t.due_date::date = $%d::date", f.DueDate.Format(model.DateLayout))
	}

	q := taskSelect + ` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY t.due_date ASC NULLS FIRST, t.created_at DESC;`
	out := []model.Task{}
	if err := s.db.Select(&out, q, args...); err != nil {
		log.Error().Err(err).Int("family_id", familyID).Msg("[db] ListTasks failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetTask(familyID, id int) (*model.Task, error) {
	var t model.Task
	if err := s.db.Get(&t, taskSelect+` WHERE t.id = $1 AND t.family_id = $2;`, id, familyID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *pgStore) CreateTask(t *model.Task) (*model.Task, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO tasks (family_id, title, description, assigned_to, created_by, due_date,
	                   points, status, category, is_recurring, recurrence_pattern, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
	RETURNING id;`,
		t.FamilyID, t.Title, t.Description, t.AssignedTo, t.CreatedBy, t.DueDate,
		t.Points, t.Status, t.Category, t.IsRecurring, t.RecurrencePattern,
	).Scan(&id)
	if err != nil {
		log.Error().Err(err).Msg("[db] CreateTask: insert failed")
		return nil, err
	}
	return s.GetTask(t.FamilyID, id)
}

func (s *pgStore) UpdateTask(t *model.Task) (*model.Task, error) {
	err := requireRow(s.db.Exec(`
	UPDATE tasks
	SET title = $3, description = $4, assigned_to = $5, due_date = $6, points = $7,
	    status = $8, category = $9, is_recurring = $10, recurrence_pattern = $11,
	    completed_at = $12
	WHERE id = $1 AND family_id = $2;`,
		t.ID, t.FamilyID, t.Title, t.Description, t.AssignedTo, t.DueDate, t.Points,
		t.Status, t.Category, t.IsRecurring, t.RecurrencePattern, t.CompletedAt))
	if err != nil {
		return nil, err
	}
	return s.GetTask(t.FamilyID, t.ID)
}

func (s *pgStore) DeleteTask(familyID, id int) error {
	return requireRow(s.db.Exec(`DELETE FROM tasks WHERE id = $1 AND family_id = $2;`, id, familyID))
}

// CompleteTask marks the task completed and credits the assignee in one transaction.
// A task that is already completed or verified is not credited twice.
func (s *pgStore) CompleteTask(familyID, id int, at time.Time) (*model.Task, error) {
	err := s.withTx("CompleteTask", func(tx *sqlx.Tx) error {
		var t model.Task
		if err := tx.Get(&t, `
		SELECT id, family_id, title, description, assigned_to, created_by, due_date, points,
		       status, category, is_recurring, recurrence_pattern, completed_at, created_at
		FROM tasks WHERE id = $1 AND family_id = $2 FOR UPDATE;`, id, familyID); err != nil {
			return err
		}
		if t.Status == model.TaskCompleted || t.Status == model.TaskVerified {
			return ErrAlreadyCompleted
		}
		if _, err := tx.Exec(`
		UPDATE tasks SET status = $2, completed_at = $3 WHERE id = $1;`,
			id, model.TaskCompleted, at); err != nil {
			return err
		}
		_, err := tx.Exec(`
		INSERT INTO points_ledger (user_id, points, reason, task_id, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
			t.AssignedTo, t.Points, "Completed task: "+t.Title, t.ID, at)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetTask(familyID, id)
}

func (s *pgStore) VerifyTask(familyID, id int) (*model.Task, error) {
	err := requireRow(s.db.Exec(`
	UPDATE tasks SET status = $3 WHERE id = $1 AND family_id = $2;`,
		id, familyID, model.TaskVerified))
	if err != nil {
		return nil, err
	}
	return s.GetTask(familyID, id)
}

// @ POINTS
func (s *pgStore) TotalPoints(userID int) (int, error) {
	var total int
	err := s.db.Get(&total, `SELECT COALESCE(SUM(points), 0) FROM points_ledger WHERE user_id = $1;`, userID)
	return total, err
}

func (s *pgStore) RecentPoints(userID, limit int) ([]model.PointsEntry, error) {
	out := []model.PointsEntry{}
	err := s.db.Select(&out, `
	SELECT id, user_id, points, reason, task_id, created_at
	FROM points_ledger WHERE user_id = $1
	ORDER BY created_at DESC, id DESC LIMIT $2;`, userID, limit)
	return out, err
}

const rewardColumns = `id, family_id, name, description, points_required, image_url, is_available, created_at`

func (s *pgStore) ListRewards(familyID int) ([]model.Reward, error) {
	out := []model.Reward{}
	err := s.db.Select(&out, `
	SELECT `+rewardColumns+` FROM rewards
	WHERE family_id = $1 AND is_available
	ORDER BY points_required;`, familyID)
	return out, err
}

func (s *pgStore) GetReward(familyID, id int) (*model.Reward, error) {
	var r model.Reward
	if err := s.db.Get(&r, `SELECT `+rewardColumns+` FROM rewards WHERE id = $1 AND family_id = $2;`, id, familyID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *pgStore) CreateReward(r *model.Reward) (*model.Reward, error) {
	var out model.Reward
	err := s.db.Get(&out, `
	INSERT INTO rewards (family_id, name, description, points_required, image_url, is_available, created_at)
	VALUES ($1, $2, $3, $4, $5, TRUE, now())
	RETURNING `+rewardColumns+`;`,
		r.FamilyID, r.Name, r.Description, r.PointsRequired, r.ImageURL)
	if err != nil {
		log.Error().Err(err).Msg("[db] CreateReward failed")
		return nil, err
	}
	return &out, nil
}

// RedeemReward debits the ledger and records the redemption. The user row is
// locked so concurrent redemptions cannot overdraw the balance.
func (s *pgStore) RedeemReward(userID int, reward *model.Reward) (*model.RewardRedemption, error) {
	var red model.RewardRedemption
	err := s.withTx("RedeemReward", func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`SELECT id FROM users WHERE id = $1 FOR UPDATE;`, userID); err != nil {
			return err
		}
		var balance int
		if err := tx.Get(&balance, `SELECT COALESCE(SUM(points), 0) FROM points_ledger WHERE user_id = $1;`, userID); err != nil {
			return err
		}
		if balance < reward.PointsRequired {
			return ErrInsufficientPoints
		}
		if _, err := tx.Exec(`
		INSERT INTO points_ledger (user_id, points, reason, created_at)
		VALUES ($1, $2, $3, now());`,
			userID, -reward.PointsRequired, "Redeemed: "+reward.Name); err != nil {
			return err
		}
		return tx.Get(&red, `
		INSERT INTO reward_redemptions (user_id, reward_id, points_spent, redeemed_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, user_id, reward_id, points_spent, redeemed_at;`,
			userID, reward.ID, reward.PointsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &red, nil
}
