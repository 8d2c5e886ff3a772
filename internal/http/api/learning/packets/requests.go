package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type GenerateWorksheetRequest struct {
	UserID        *int    `json:"user_id"`
	TopicID       *int    `json:"topic_id"`
	TopicName     *string `json:"topic_name"`
	Subject       string  `json:"subject" binding:"required,max=100"`
	Difficulty    string  `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	QuestionCount int     `json:"question_count" binding:"omitempty,min=1,max=30"`
	GradeLevel    *string `json:"grade_level"`
}

type GeneratedWorksheetResponse struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Instructions     string          `json:"instructions"`
	Questions        model.Questions `json:"questions"`
	EstimatedMinutes int             `json:"estimated_time_minutes"`
	Status           string          `json:"status"`
}

type AssignWorksheetRequest struct {
	AssignedTo int        `json:"assigned_to" binding:"required"`
	DueDate    *time.Time `json:"due_date"`
}

type SubmitResponse struct {
	Message   string          `json:"message"`
	Worksheet model.Worksheet `json:"worksheet"`
	Grading   *model.Grading  `json:"grading"`
}

type ProficiencyResponse struct {
	UserID   int                        `json:"user_id"`
	Subjects []model.SubjectProficiency `json:"subjects"`
}

type WeakArea struct {
	Subject        string  `json:"subject"`
	Topic          string  `json:"topic"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation"`
}

type WeakAreasResponse struct {
	UserID    int        `json:"user_id"`
	WeakAreas []WeakArea `json:"weak_areas"`
}
