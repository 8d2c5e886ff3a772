package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	WorksheetGenerated  = "generated"
	WorksheetAssigned   = "assigned"
	WorksheetInProgress = "in_progress"
	WorksheetSubmitted  = "submitted"
	WorksheetGraded     = "graded"
)

// proficiency thresholds, in percent
const (
	WeakScore   = 70.0
	StrongScore = 80.0
)

type Subject struct {
	ID     int     `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Icon   *string `db:"icon" json:"icon"`
	Color  *string `db:"color" json:"color"`
	Topics []Topic `db:"-" json:"topics"`
}

type Topic struct {
	ID          int     `db:"id" json:"id"`
	SubjectID   int     `db:"subject_id" json:"subject_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	GradeLevel  *string `db:"grade_level" json:"grade_level"`
	SortOrder   int     `db:"sort_order" json:"order"`
}

type Question struct {
	Number      int      `json:"question_number"`
	Type        string   `json:"question_type"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Points      int      `json:"points"`
	SkillTested string   `json:"skill_tested,omitempty"`
}

type Questions []Question

func (q Questions) Value() (driver.Value, error) { return jsonValue(q) }
func (q *Questions) Scan(src any) error         { return jsonScan(src, q) }

// WithoutAnswers strips answers and hints for students still working.
func (q Questions) WithoutAnswers() Questions {
	out := make(Questions, len(q))
	for i, item := range q {
		item.Answer = ""
		item.Hint = ""
		out[i] = item
	}
	return out
}

type AnswerKeyEntry struct {
	Number int    `json:"question_number"`
	Answer string `json:"answer"`
}

type AnswerKey []AnswerKeyEntry

func (a AnswerKey) Value() (driver.Value, error) { return jsonValue(a) }
func (a *AnswerKey) Scan(src any) error         { return jsonScan(src, a) }

func (q Questions) AnswerKey() AnswerKey {
	out := make(AnswerKey, 0, len(q))
	for _, item := range q {
		out = append(out, AnswerKeyEntry{Number: item.Number, Answer: item.Answer})
	}
	return out
}

type QuestionResult struct {
	Number        int     `json:"question_number"`
	StudentAnswer string  `json:"student_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	PartialCredit float64 `json:"partial_credit"`
	Feedback      string  `json:"feedback"`
}

type Grading struct {
	TotalQuestions    int              `json:"total_questions"`
	QuestionsAnswered int              `json:"questions_answered"`
	QuestionResults   []QuestionResult `json:"question_results"`
	CorrectAnswers    int              `json:"correct_answers"`
	Score             float64          `json:"score"`
	AreasMastered     []string         `json:"areas_mastered"`
	AreasToImprove    []string         `json:"areas_to_improve"`
	OverallFeedback   string           `json:"overall_feedback"`
	NextSteps         []string         `json:"next_steps"`
}

func (g Grading) Value() (driver.Value, error) { return jsonValue(g) }
func (g *Grading) Scan(src any) error         { return jsonScan(src, g) }

type Worksheet struct {
	ID                int        `db:"id" json:"id"`
	FamilyID          int        `db:"family_id" json:"family_id"`
	UserID            int        `db:"user_id" json:"user_id"`
	AssignedTo        *int       `db:"assigned_to" json:"assigned_to"`
	TopicID           *int       `db:"topic_id" json:"topic_id"`
	Title             string     `db:"title" json:"title"`
	Subject           *string    `db:"subject" json:"subject"`
	Instructions      *string    `db:"instructions" json:"instructions"`
	Questions         Questions  `db:"questions_json" json:"questions"`
	AnswerKey         AnswerKey  `db:"answer_key" json:"-"`
	Difficulty        string     `db:"difficulty" json:"difficulty"`
	CompletedImageURL *string    `db:"completed_image_url" json:"completed_image_url"`
	Grading           *Grading   `db:"ai_grading" json:"ai_grading"`
	Score             *float64   `db:"score" json:"score"`
	Status            string     `db:"status" json:"status"`
	AssignedAt        *time.Time `db:"assigned_at" json:"assigned_at"`
	DueDate           *time.Time `db:"due_date" json:"due_date"`
	StartedAt         *time.Time `db:"started_at" json:"started_at"`
	GeneratedAt       time.Time  `db:"generated_at" json:"generated_at"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at"`
}

// HidesAnswers reports whether answers must be withheld in the current status.
func (w Worksheet) HidesAnswers() bool {
	switch w.Status {
	case WorksheetAssigned, WorksheetInProgress, WorksheetSubmitted:
		return true
	}
	return false
}

// ForStudent returns a copy safe to show while the worksheet is open.
func (w Worksheet) ForStudent() Worksheet {
	if w.HidesAnswers() {
		w.Questions = w.Questions.WithoutAnswers()
	}
	return w
}

type Proficiency struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"user_id"`
	TopicID        int        `db:"topic_id" json:"topic_id"`
	Score          float64    `db:"score" json:"score"`
	TotalQuestions int        `db:"total_questions" json:"total_questions"`
	CorrectAnswers int        `db:"correct_answers" json:"correct_answers"`
	LastAssessed   *time.Time `db:"last_assessed" json:"last_assessed"`

	TopicName   string `db:"topic_name" json:"topic"`
	SubjectName string `db:"subject_name" json:"subject"`
}

// Absorb folds a new graded attempt into the running score.
func (p *Proficiency) Absorb(totalQuestions, correct int, at time.Time) {
	p.TotalQuestions += totalQuestions
	p.CorrectAnswers += correct
	if p.TotalQuestions > 0 {
		p.Score = float64(p.CorrectAnswers) / float64(p.TotalQuestions) * 100
	} else {
		p.Score = 0
	}
	p.LastAssessed = &at
}

type SubjectProficiency struct {
	Subject      string        `json:"subject"`
	OverallScore float64       `json:"overall_score"`
	Topics       []Proficiency `json:"topics"`
	WeakAreas    []string      `json:"weak_areas"`
	StrongAreas  []string      `json:"strong_areas"`
}

// GroupProficiency groups topic scores by subject, preserving first-seen order.
func GroupProficiency(rows []Proficiency) []SubjectProficiency {
	index := map[string]int{}
	var out []SubjectProficiency
	for _, p := range rows {
		i, ok := index[p.SubjectName]
		if !ok {
			i = len(out)
			index[p.SubjectName] = i
			out = append(out, SubjectProficiency{Subject: p.SubjectName, WeakAreas: []string{}, StrongAreas: []string{}})
		}
		sp := &out[i]
		sp.Topics = append(sp.Topics, p)
		if p.Score < WeakScore {
			sp.WeakAreas = append(sp.WeakAreas, p.TopicName)
		}
		if p.Score >= StrongScore {
			sp.StrongAreas = append(sp.StrongAreas, p.TopicName)
		}
	}
	for i := range out {
		var sum float64
		for _, t := range out[i].Topics {
			sum += t.Score
		}
		out[i].OverallScore = Round1(sum / float64(len(out[i].Topics)))
	}
	return out
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	}
	return fmt.Errorf("cannot scan %T as json", src)
}
