package db

import (
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const quranGoalColumns = `id, user_id, title, total_pages, target_days, pages_per_day, start_date,
	end_date, current_page, is_completed, completed_at, created_at`

// ActiveQuranGoal returns the user's single goal that is not yet completed.
func (s *pgStore) ActiveQuranGoal(userID int) (*model.QuranReadingGoal, error) {
	var g model.QuranReadingGoal
	err := s.db.Get(&g, `
	SELECT `+quranGoalColumns+` FROM quran_reading_goals
	WHERE user_id = $1 AND NOT is_completed
	ORDER BY created_at DESC LIMIT 1;`, userID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *pgStore) CreateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error) {
	var out model.QuranReadingGoal
	err := s.db.Get(&out, `
	INSERT INTO quran_reading_goals (user_id, title, total_pages, target_days, pages_per_day,
	                                 start_date, end_date, current_page, is_completed, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 0, FALSE, now())
	RETURNING `+quranGoalColumns+`;`,
		g.UserID, g.Title, g.TotalPages, g.TargetDays, g.PagesPerDay, g.StartDate, g.EndDate)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetQuranGoal(id int) (*model.QuranReadingGoal, error) {
	var g model.QuranReadingGoal
	if err := s.db.Get(&g, `SELECT `+quranGoalColumns+` FROM quran_reading_goals WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *pgStore) UpdateQuranGoal(g *model.QuranReadingGoal) (*model.QuranReadingGoal, error) {
	var out model.QuranReadingGoal
	err := s.db.Get(&out, `
	UPDATE quran_reading_goals
	SET title = $2, total_pages = $3, target_days = $4, pages_per_day = $5, start_date = $6,
	    end_date = $7, current_page = $8, is_completed = $9, completed_at = $10
	WHERE id = $1
	RETURNING `+quranGoalColumns+`;`,
		g.ID, g.Title, g.TotalPages, g.TargetDays, g.PagesPerDay, g.StartDate, g.EndDate,
		g.CurrentPage, g.IsCompleted, g.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuranGoal removes the goal and, by cascade, its reading logs.
func (s *pgStore) DeleteQuranGoal(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM quran_reading_goals WHERE id = $1;`, id))
}

const readingLogColumns = `id, goal_id, user_id, date, pages_read, start_page, end_page,
	surah_name, image_url, notes, created_at`

func (s *pgStore) GetReadingLogForDate(goalID int, date model.Date) (*model.QuranReadingLog, error) {
	var l model.QuranReadingLog
	err := s.db.Get(&l, `
	SELECT `+readingLogColumns+` FROM quran_reading_logs
	WHERE goal_id = $1 AND date = $2 ORDER BY id LIMIT 1;`, goalID, date)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) CreateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error) {
	var out model.QuranReadingLog
	err := s.db.Get(&out, `
	INSERT INTO quran_reading_logs (goal_id, user_id, date, pages_read, start_page, end_page,
	                                surah_name, image_url, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	RETURNING `+readingLogColumns+`;`,
		l.GoalID, l.UserID, l.Date, l.PagesRead, l.StartPage, l.EndPage, l.SurahName, l.ImageURL, l.Notes)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) UpdateReadingLog(l *model.QuranReadingLog) (*model.QuranReadingLog, error) {
	var out model.QuranReadingLog
	err := s.db.Get(&out, `
	UPDATE quran_reading_logs
	SET pages_read = $2, start_page = $3, end_page = $4, surah_name = $5, image_url = $6, notes = $7
	WHERE id = $1
	RETURNING `+readingLogColumns+`;`,
		l.ID, l.PagesRead, l.StartPage, l.EndPage, l.SurahName, l.ImageURL, l.Notes)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetReadingLog(id int) (*model.QuranReadingLog, error) {
	var l model.QuranReadingLog
	if err := s.db.Get(&l, `SELECT `+readingLogColumns+` FROM quran_reading_logs WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) DeleteReadingLog(id int) error {
	return requireRow(s.db.Exec(`DELETE FROM quran_reading_logs WHERE id = $1;`, id))
}

func (s *pgStore) ListReadingLogs(goalID int) ([]model.QuranReadingLog, error) {
	out := []model.QuranReadingLog{}
	err := s.db.Select(&out, `
	SELECT `+readingLogColumns+` FROM quran_reading_logs
	WHERE goal_id = $1 ORDER BY date DESC, id DESC;`, goalID)
	return out, err
}

func (s *pgStore) SumPagesRead(goalID int) (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT COALESCE(SUM(pages_read), 0) FROM quran_reading_logs WHERE goal_id = $1;`, goalID)
	return n, err
}
