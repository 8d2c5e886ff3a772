package db

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// ListSubjects returns every subject with its topics in display order.
func (s *pgStore) ListSubjects() ([]model.Subject, error) {
	subjects := []model.Subject{}
	if err := s.db.Select(&subjects, `SELECT id, name, icon, color FROM subjects ORDER BY name;`); err != nil {
		return nil, err
	}
	var topics []model.Topic
	if err := s.db.Select(&topics, `
	SELECT id, subject_id, name, description, grade_level, sort_order
	FROM topics ORDER BY subject_id, sort_order, name;`); err != nil {
		return nil, err
	}
	bySubject := map[int][]model.Topic{}
	for _, t := range topics {
		bySubject[t.SubjectID] = append(bySubject[t.SubjectID], t)
	}
	for i := range subjects {
		subjects[i].Topics = bySubject[subjects[i].ID]
		if subjects[i].Topics == nil {
			subjects[i].Topics = []model.Topic{}
		}
	}
	return subjects, nil
}

func (s *pgStore) GetTopic(id int) (*model.Topic, error) {
	var t model.Topic
	err := s.db.Get(&t, `
	SELECT id, subject_id, name, description, grade_level, sort_order FROM topics WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SeedLearning inserts the given subjects and topics when no subject exists yet.
// It returns the number of topics created.
func (s *pgStore) SeedLearning(subjects map[string][]string) (int, error) {
	created := 0
	err := s.withTx("SeedLearning", func(tx *sqlx.Tx) error {
		var n int
		if err := tx.Get(&n, `SELECT count(*) FROM subjects;`); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for name, topics := range subjects {
			var subjectID int
			if err := tx.QueryRow(`INSERT INTO subjects (name) VALUES ($1) RETURNING id;`, name).Scan(&subjectID); err != nil {
				return err
			}
			for i, topic := range topics {
				if _, err := tx.Exec(`
				INSERT INTO topics (subject_id, name, sort_order) VALUES ($1, $2, $3);`,
					subjectID, topic, i); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	return created, err
}

const worksheetColumns = `id, family_id, user_id, assigned_to, topic_id, title, subject, instructions,
	questions_json, answer_key, difficulty, completed_image_url, ai_grading, score, status,
	assigned_at, due_date, started_at, generated_at, completed_at`

func (s *pgStore) CreateWorksheet(w *model.Worksheet) (*model.Worksheet, error) {
	var out model.Worksheet
	err := s.db.Get(&out, `
	INSERT INTO worksheets (family_id, user_id, topic_id, title, subject, instructions,
	                        questions_json, answer_key, difficulty, status, generated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	RETURNING `+worksheetColumns+`;`,
		w.FamilyID, w.UserID, w.TopicID, w.Title, w.Subject, w.Instructions,
		w.Questions, w.AnswerKey, w.Difficulty, w.Status)
	if err != nil {
		log.Error().Err(err).Msg("[db] CreateWorksheet failed")
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) GetWorksheet(familyID, id int) (*model.Worksheet, error) {
	var w model.Worksheet
	err := s.db.Get(&w, `SELECT `+worksheetColumns+` FROM worksheets WHERE id = $1 AND family_id = $2;`, id, familyID)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *pgStore) UpdateWorksheet(w *model.Worksheet) (*model.Worksheet, error) {
	var out model.Worksheet
	err := s.db.Get(&out, `
	UPDATE worksheets
	SET assigned_to = $2, completed_image_url = $3, ai_grading = $4, score = $5, status = $6,
	    assigned_at = $7, due_date = $8, started_at = $9, completed_at = $10
	WHERE id = $1
	RETURNING `+worksheetColumns+`;`,
		w.ID, w.AssignedTo, w.CompletedImageURL, w.Grading, w.Score, w.Status,
		w.AssignedAt, w.DueDate, w.StartedAt, w.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *pgStore) ListAssignedWorksheets(userID int) ([]model.Worksheet, error) {
	out := []model.Worksheet{}
	err := s.db.Select(&out, `
	SELECT `+worksheetColumns+` FROM worksheets
	WHERE assigned_to = $1
	ORDER BY assigned_at DESC NULLS LAST;`, userID)
	return out, err
}

const proficiencySelect = `
	SELECT p.id, p.user_id, p.topic_id, p.score, p.total_questions, p.correct_answers,
	       p.last_assessed, t.name AS topic_name, s.name AS subject_name
	FROM proficiency p
	JOIN topics t ON t.id = p.topic_id
	JOIN subjects s ON s.id = t.subject_id`

func (s *pgStore) GetProficiency(userID, topicID int) (*model.Proficiency, error) {
	var p model.Proficiency
	err := s.db.Get(&p, proficiencySelect+` WHERE p.user_id = $1 AND p.topic_id = $2;`, userID, topicID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgStore) SaveProficiency(p *model.Proficiency) error {
	_, err := s.db.Exec(`
	INSERT INTO proficiency (user_id, topic_id, score, total_questions, correct_answers, last_assessed)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, topic_id)
	DO UPDATE SET score = EXCLUDED.score, total_questions = EXCLUDED.total_questions,
	              correct_answers = EXCLUDED.correct_answers, last_assessed = EXCLUDED.last_assessed;`,
		p.UserID, p.TopicID, p.Score, p.TotalQuestions, p.CorrectAnswers, p.LastAssessed)
	return err
}

func (s *pgStore) ListProficiency(userID int, subject *string) ([]model.Proficiency, error) {
	q := proficiencySelect + ` WHERE p.user_id = $1`
	args := []any{userID}
	if subject != nil {
		q += ` AND s.name = $2`
		args = append(args, *subject)
	}
	out := []model.Proficiency{}
	err := s.db.Select(&out, q+` ORDER BY s.name, t.sort_order;`, args...)
	return out, err
}

// WeakAreas lists topics scored below the weak threshold, weakest first.
func (s *pgStore) WeakAreas(userID int) ([]model.Proficiency, error) {
	out := []model.Proficiency{}
	err := s.db.Select(&out, proficiencySelect+`
	WHERE p.user_id = $1 AND p.score < $2
	ORDER BY p.score ASC;`, userID, model.WeakScore)
	return out, err
}
