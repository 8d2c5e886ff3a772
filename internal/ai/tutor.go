package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

var ErrUnparseable = errors.New("model returned unparseable output")

type WorksheetRequest struct {
	Topic         string
	Subject       string
	Difficulty    string
	QuestionCount int
	GradeLevel    string
}

type GeneratedWorksheet struct {
	Title            string          `json:"title"`
	Instructions     string          `json:"instructions"`
	Questions        model.Questions `json:"questions"`
	TotalPoints      int             `json:"total_points"`
	EstimatedMinutes int             `json:"estimated_time_minutes"`
}

// Tutor builds the learning prompts and decodes the model's answers.
type Tutor struct {
	llm Model
}

func NewTutor(m Model) *Tutor { return &Tutor{llm: m} }

const worksheetPrompt = `Generate a practice worksheet for a %s grade student.

Subject: %s
Topic: %s
Difficulty: %s
Number of questions: %d

Answer with JSON only, in this format:
{
  "title": "Practice Worksheet: %s",
  "instructions": "Clear instructions for the student",
  "questions": [
    {
      "question_number": 1,
      "question_type": "calculation|multiple_choice|fill_blank|short_answer",
      "question": "The question text",
      "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
      "answer": "The correct answer",
      "hint": "A helpful hint",
      "points": 1,
      "skill_tested": "The specific skill being tested"
    }
  ],
  "total_points": 10,
  "estimated_time_minutes": 15
}

Only multiple_choice questions carry options. Make questions progressively harder and mix question types.
easy: basic recall and simple application. medium: application and some analysis. hard: analysis and problem-solving.`

const gradingPrompt = `Grade the completed worksheet in the attached image. This is the answer key:

%s

Answer with JSON only, in this format:
{
  "total_questions": 10,
  "questions_answered": 10,
  "question_results": [
    {
      "question_number": 1,
      "student_answer": "what the student wrote",
      "correct_answer": "from answer key",
      "is_correct": true,
      "partial_credit": 1.0,
      "feedback": "specific feedback for this question"
    }
  ],
  "correct_answers": 8,
  "score": 80,
  "areas_mastered": ["topics the student understands well"],
  "areas_to_improve": ["topics needing more practice"],
  "overall_feedback": "Encouraging overall feedback",
  "next_steps": ["Specific recommendations for improvement"]
}

Be fair and give partial credit where work is shown.`

func (t *Tutor) GenerateWorksheet(ctx context.Context, req WorksheetRequest) (*GeneratedWorksheet, Usage, error) {
	prompt := fmt.Sprintf(worksheetPrompt, req.GradeLevel, req.Subject, req.Topic, req.Difficulty, req.QuestionCount, req.Topic)
	raw, usage, err := t.llm.GenerateJSON(ctx, prompt, nil, "")
	if err != nil {
		return nil, usage, err
	}

	var ws GeneratedWorksheet
	if err := decodeJSON(raw, &ws); err != nil {
		return nil, usage, err
	}
	if len(ws.Questions) == 0 {
		return nil, usage, fmt.Errorf("%w: no questions", ErrUnparseable)
	}
	for i := range ws.Questions {
		if ws.Questions[i].Number == 0 {
			ws.Questions[i].Number = i + 1
		}
		if ws.Questions[i].Points == 0 {
			ws.Questions[i].Points = 1
		}
	}
	if ws.Title == "" {
		ws.Title = "Practice: " + req.Topic
	}
	if ws.EstimatedMinutes == 0 {
		ws.EstimatedMinutes = 15
	}
	return &ws, usage, nil
}

func (t *Tutor) GradeWorksheet(ctx context.Context, image []byte, mimeType string, key model.AnswerKey) (*model.Grading, Usage, error) {
	keyJSON, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return nil, Usage{}, err
	}
	raw, usage, err := t.llm.GenerateJSON(ctx, fmt.Sprintf(gradingPrompt, keyJSON), image, mimeType)
	if err != nil {
		return nil, usage, err
	}

	var g model.Grading
	if err := decodeJSON(raw, &g); err != nil {
		return nil, usage, err
	}
	if g.TotalQuestions == 0 {
		g.TotalQuestions = len(key)
	}
	if g.Score < 0 {
		g.Score = 0
	}
	if g.Score > 100 {
		g.Score = 100
	}
	return &g, usage, nil
}

// decodeJSON tolerates prose or code fences around the outermost object.
func decodeJSON(raw string, dst any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return ErrUnparseable
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return nil
}
