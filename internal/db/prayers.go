package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const prayerColumns = `id, user_id, prayer_name, date, status, time_prayed, in_masjid, created_at`

// EnsureDailyPrayers creates missing rows for the five daily prayers as not prayed.
func (s *pgStore) EnsureDailyPrayers(userID int, date model.Date) error {
	return s.withTx("EnsureDailyPrayers", func(tx *sqlx.Tx) error {
		for _, name := range model.DailyPrayers {
			if _, err := tx.Exec(`
			INSERT INTO prayers (user_id, prayer_name, date, status, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (user_id, prayer_name, date) DO NOTHING;`,
				userID, name, date, model.PrayerNotPrayed); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *pgStore) ListPrayers(userID int, date model.Date) ([]model.Prayer, error) {
	out := []model.Prayer{}
	err := s.db.Select(&out, `
	SELECT `+prayerColumns+` FROM prayers
	WHERE user_id = $1 AND date = $2
	ORDER BY CASE prayer_name
		WHEN 'fajr' THEN 1 WHEN 'dhuhr' THEN 2 WHEN 'asr' THEN 3
		WHEN 'maghrib' THEN 4 WHEN 'isha' THEN 5 ELSE 6 END;`, userID, date)
	return out, err
}

// UpsertPrayer records a prayer, updating the existing row for the same user, prayer and day.
func (s *pgStore) UpsertPrayer(p *model.Prayer) (*model.Prayer, error) {
	var out model.Prayer
	err := s.db.Get(&out, `
	INSERT INTO prayers (user_id, prayer_name, date, status, time_prayed, in_masjid, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (user_id, prayer_name, date)
	DO UPDATE SET status = EXCLUDED.status, time_prayed = EXCLUDED.time_prayed,
	              in_masjid = EXCLUDED.in_masjid
	RETURNING `+prayerColumns+`;`,
		p.UserID, p.PrayerName, p.Date, p.Status, p.TimePrayed, p.InMasjid)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetPrayer(id int) (*model.Prayer, error) {
	var p model.Prayer
	if err := s.db.Get(&p, `SELECT `+prayerColumns+` FROM prayers WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) UpdatePrayer(p *model.Prayer) (*model.Prayer, error) {
	var out model.Prayer
	err := s.db.Get(&out, `
	UPDATE prayers SET status = $2, time_prayed = $3, in_masjid = $4
	WHERE id = $1
	RETURNING `+prayerColumns+`;`, p.ID, p.Status, p.TimePrayed, p.InMasjid)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CountPrayedOn counts obligatory prayers offered on a day; taraweeh is excluded.
func (s *pgStore) CountPrayedOn(userID int, date model.Date) (int, error) {
	var n int
	err := s.db.Get(&n, `
	SELECT count(*) FROM prayers
	WHERE user_id = $1 AND date = $2 AND prayer_name <> $3 AND status <> $4;`,
		userID, date, model.PrayerTaraweeh, model.PrayerNotPrayed)
	return n, err
}

// @ QURAN MEMORIZATION
const quranProgressColumns = `id, user_id, surah_number, surah_name, total_verses, verses_memorized,
	status, last_revision_date, started_at, completed_at`

func (s *pgStore) ListQuranProgress(userID int) ([]model.QuranProgress, error) {
	out := []model.QuranProgress{}
	err := s.db.Select(&out, `
	SELECT `+quranProgressColumns+` FROM quran_progress
	WHERE user_id = $1 ORDER BY surah_number;`, userID)
	return out, err
}

func (s *pgStore) UpsertQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error) {
	var out model.QuranProgress
	err := s.db.Get(&out, `
	INSERT INTO quran_progress (user_id, surah_number, surah_name, total_verses, verses_memorized,
	                            status, last_revision_date, started_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (user_id, surah_number)
	DO UPDATE SET verses_memorized = EXCLUDED.verses_memorized, status = EXCLUDED.status,
	              last_revision_date = EXCLUDED.last_revision_date,
	              started_at = COALESCE(quran_progress.started_at, EXCLUDED.started_at),
	              completed_at = EXCLUDED.completed_at
	RETURNING `+quranProgressColumns+`;`,
		p.UserID, p.SurahNumber, p.SurahName, p.TotalVerses, p.VersesMemorized,
		p.Status, p.LastRevisionDate, p.StartedAt, p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetQuranProgress(id int) (*model.QuranProgress, error) {
	var p model.QuranProgress
	if err := s.db.Get(&p, `SELECT `+quranProgressColumns+` FROM quran_progress WHERE id = $1;`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) UpdateQuranProgress(p *model.QuranProgress) (*model.QuranProgress, error) {
	var out model.QuranProgress
	err := s.db.Get(&out, `
	UPDATE quran_progress
	SET verses_memorized = $2, status = $3, last_revision_date = $4,
	    started_at = $5, completed_at = $6
	WHERE id = $1
	RETURNING `+quranProgressColumns+`;`,
		p.ID, p.VersesMemorized, p.Status, p.LastRevisionDate, p.StartedAt, p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
