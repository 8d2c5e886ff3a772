package db

import (
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const ramadanDayColumns = `id, user_id, date, hijri_day, fasted, fasting_status, missed_reason,
	suhoor, iftar, taraweeh, taraweeh_rakaat, quran_pages, charity_given, notes, created_at`

func (s *pgStore) ListRamadanDays(userID, year int) ([]model.RamadanDay, error) {
	out := []model.RamadanDay{}
	err := s.db.Select(&out, `
	SELECT `+ramadanDayColumns+` FROM ramadan_days
	WHERE user_id = $1 AND EXTRACT(YEAR FROM date) = $2
	ORDER BY date;`, userID, year)
	return out, err
}

// UpsertRamadanDay writes the day's log, replacing any earlier entry for that date.
func (s *pgStore) UpsertRamadanDay(d *model.RamadanDay) (*model.RamadanDay, error) {
	var out model.RamadanDay
	err := s.db.Get(&out, `
	INSERT INTO ramadan_days (user_id, date, hijri_day, fasted, fasting_status, missed_reason,
	                          suhoor, iftar, taraweeh, taraweeh_rakaat, quran_pages,
	                          charity_given, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
	ON CONFLICT (user_id, date)
	DO UPDATE SET hijri_day = EXCLUDED.hijri_day, fasted = EXCLUDED.fasted,
	              fasting_status = EXCLUDED.fasting_status, missed_reason = EXCLUDED.missed_reason,
	              suhoor = EXCLUDED.suhoor, iftar = EXCLUDED.iftar, taraweeh = EXCLUDED.taraweeh,
	              taraweeh_rakaat = EXCLUDED.taraweeh_rakaat, quran_pages = EXCLUDED.quran_pages,
	              charity_given = EXCLUDED.charity_given, notes = EXCLUDED.notes
	RETURNING `+ramadanDayColumns+`;`,
		d.UserID, d.Date, d.HijriDay, d.Fasted, d.FastingStatus, d.MissedReason,
		d.Suhoor, d.Iftar, d.Taraweeh, d.TaraweehRakaat, d.QuranPages, d.CharityGiven, d.Notes)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetRamadanDay(id int) (*model.RamadanDay, error) {
	var d model.RamadanDay
	if err := s.db.Get(&d, `SELECT `+ramadanDayColumns+` FROM ramadan_days WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *pgStore) UpdateRamadanDay(d *model.RamadanDay) (*model.RamadanDay, error) {
	var out model.RamadanDay
	err := s.db.Get(&out, `
	UPDATE ramadan_days
	SET hijri_day = $2, fasted = $3, fasting_status = $4, missed_reason = $5, suhoor = $6,
	    iftar = $7, taraweeh = $8, taraweeh_rakaat = $9, quran_pages = $10,
	    charity_given = $11, notes = $12
	WHERE id = $1
	RETURNING `+ramadanDayColumns+`;`,
		d.ID, d.HijriDay, d.Fasted, d.FastingStatus, d.MissedReason, d.Suhoor, d.Iftar,
		d.Taraweeh, d.TaraweehRakaat, d.QuranPages, d.CharityGiven, d.Notes)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) RamadanSummary(userID, year int) (*model.RamadanSummary, error) {
	out := model.RamadanSummary{Year: year}
	err := s.db.Get(&out, `
	SELECT count(*) AS total_days,
	       count(*) FILTER (WHERE fasted) AS days_fasted,
	       count(*) FILTER (WHERE fasting_status = 'missed') AS days_missed,
	       count(*) FILTER (WHERE taraweeh) AS taraweeh_nights,
	       COALESCE(SUM(quran_pages), 0) AS total_quran_pages,
	       count(*) FILTER (WHERE charity_given) AS charity_days
	FROM ramadan_days
	WHERE user_id = $1 AND EXTRACT(YEAR FROM date) = $2;`, userID, year)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// @ RAMADAN GOALS
const ramadanGoalSelect = `
	SELECT g.id, g.user_id, g.year, g.title, g.description, g.target_value, g.unit,
	       g.goal_type, g.is_active, g.created_at,
	       COALESCE(SUM(l.value), 0) AS total_completed,
	       count(l.id) AS days_logged
	FROM ramadan_goals g
	LEFT JOIN ramadan_goal_logs l ON l.goal_id = g.id`

const ramadanGoalGroup = ` GROUP BY g.id`

func (s *pgStore) CreateRamadanGoal(g *model.RamadanGoal) (*model.RamadanGoal, error) {
	var id int
	err := s.db.QueryRow(`
	INSERT INTO ramadan_goals (user_id, year, title, description, target_value, unit, goal_type, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, now())
	RETURNING id;`,
		g.UserID, g.Year, g.Title, g.Description, g.TargetValue, g.Unit, g.GoalType).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetRamadanGoal(id)
}

// ListRamadanGoals returns active goals owned by members of the family.
func (s *pgStore) ListRamadanGoals(familyID int, userID, year *int) ([]model.RamadanGoal, error) {
	where := []string{"g.is_active", "g.user_id IN (SELECT id FROM users WHERE family_id = $1)"}
	args := []any{familyID}
	if userID != nil {
		args = append(args, *userID)
		where = append(where, fmt.Sprintf("g.user_id = $%d", len(args)))
	}
	if year != nil {
		args = append(args, *year)
		where = append(where, fmt.Sprintf("g.year = $%d", len(args)))
	}
	out := []model.RamadanGoal{}
	q := ramadanGoalSelect + ` WHERE ` + strings.Join(where, " AND ") + ramadanGoalGroup + ` ORDER BY g.created_at;`
	err := s.db.Select(&out, q, args...)
	return out, err
}

func (s *pgStore) GetRamadanGoal(id int) (*model.RamadanGoal, error) {
	var g model.RamadanGoal
	if err := s.db.Get(&g, ramadanGoalSelect+` WHERE g.id = $1`+ramadanGoalGroup+`;`, id); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *pgStore) DeleteRamadanGoal(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM ramadan_goals WHERE id = $1;`, id))
}

const ramadanLogColumns = `id, goal_id, user_id, date, value, notes, created_at`

func (s *pgStore) UpsertRamadanGoalLog(l *model.RamadanGoalLog) (*model.RamadanGoalLog, error) {
	var out model.RamadanGoalLog
	err := s.db.Get(&out, `
	INSERT INTO ramadan_goal_logs (goal_id, user_id, date, value, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (goal_id, date)
	DO UPDATE SET value = EXCLUDED.value, notes = EXCLUDED.notes
	RETURNING `+ramadanLogColumns+`;`, l.GoalID, l.UserID, l.Date, l.Value, l.Notes)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListRamadanGoalLogs(goalID int) ([]model.RamadanGoalLog, error) {
	out := []model.RamadanGoalLog{}
	err := s.db.Select(&out, `
	SELECT `+ramadanLogColumns+` FROM ramadan_goal_logs
	WHERE goal_id = $1 ORDER BY date DESC;`, goalID)
	return out, err
}

func (s *pgStore) GetRamadanGoalLog(id int) (*model.RamadanGoalLog, error) {
	var l model.RamadanGoalLog
	if err := s.db.Get(&l, `SELECT `+ramadanLogColumns+` FROM ramadan_goal_logs WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) DeleteRamadanGoalLog(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM ramadan_goal_logs WHERE id = $1;`, id))
}
