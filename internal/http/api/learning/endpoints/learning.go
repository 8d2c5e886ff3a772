package endpoints

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/ai"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
	"github.com/Nixie-Tech-LLC/familyhub/internal/storage"
)

const (
	defaultQuestionCount = 10
	defaultGradeLevel    = "6th"
	submissionFolder     = "worksheets"

	usageGenerate = "worksheet_generate"
	usageGrade    = "worksheet_grade"
)

// Tutor is the AI side of the module; *ai.Tutor satisfies it.
type Tutor interface {
	GenerateWorksheet(ctx context.Context, req ai.WorksheetRequest) (*ai.GeneratedWorksheet, ai.Usage, error)
	GradeWorksheet(ctx context.Context, image []byte, mimeType string, key model.AnswerKey) (*model.Grading, ai.Usage, error)
}

// Budget meters AI calls; *ai.Budget satisfies it.
type Budget interface {
	Check(familyID int) error
	Record(familyID int, userID *int, feature string, u ai.Usage)
}

type LearningController struct {
	store    db.Store
	features middleware.FeatureChecker
	tutor    Tutor
	budget   Budget
	files    storage.Storage
	events   notify.Publisher
	now      func() time.Time
}

type LearningDeps struct {
	Store    db.Store
	Features middleware.FeatureChecker
	Tutor    Tutor
	Budget   Budget
	Files    storage.Storage
	Events   notify.Publisher
}

func newLearningController(d LearningDeps) *LearningController {
	return &LearningController{
		store:    d.Store,
		features: d.Features,
		tutor:    d.Tutor,
		budget:   d.Budget,
		files:    d.Files,
		events:   d.Events,
		now:      time.Now,
	}
}

// LearningModule serves subjects, AI worksheets and proficiency tracking.
// A nil Tutor leaves generation unavailable and submissions ungraded.
func LearningModule(d LearningDeps) api.Module {
	return newLearningController(d).module()
}

func (l *LearningController) module() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		g := c.With(middleware.RequireFeature(l.features, model.FeatureLearning))
		g.GET("/subjects", l.subjects)

		g.With(middleware.RequireFeature(l.features, model.FeatureAI)).POST("/worksheet/generate", l.generate)
		g.POST("/worksheet/:id/assign", l.assign)
		g.GET("/worksheet/:id", l.worksheet)
		g.POST("/worksheet/:id/start", l.start)
		g.POST("/worksheet/:id/submit", l.submit)
		g.GET("/worksheets/assigned/:user_id", l.assigned)

		g.GET("/proficiency/:user_id", l.proficiency)
		g.GET("/weak-areas/:user_id", l.weakAreas)
	})
}

// aiError turns budget refusals into 403/429.
func aiError(err error) *api.APIError {
	switch {
	case errors.Is(err, ai.ErrAIDisabled):
		return api.Forbidden(err.Error())
	case errors.Is(err, ai.ErrBudgetExhausted):
		return &api.APIError{Code: http.StatusTooManyRequests, Message: "Monthly AI usage limit reached"}
	}
	return api.Internal(err, "learning.Budget")
}

// member resolves a :user_id path param to someone in the caller's family.
func (l *LearningController) member(ctx *gin.Context, user *model.User, familyID int) (*model.User, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "user_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if id == user.ID {
		return user, nil
	}
	member, err := l.store.GetFamilyMember(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "User not found in your family", "learning.GetFamilyMember")
	}
	return member, nil
}

func (l *LearningController) load(ctx *gin.Context, familyID int) (*model.Worksheet, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	ws, err := l.store.GetWorksheet(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Worksheet not found", "learning.GetWorksheet")
	}
	return ws, nil
}

// student is who the worksheet is for: the assignee, else whoever it was generated for.
func student(ws *model.Worksheet) int {
	if ws.AssignedTo != nil {
		return *ws.AssignedTo
	}
	return ws.UserID
}

// GET /api/learning/subjects
func (l *LearningController) subjects(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	subjects, err := l.store.ListSubjects()
	if err != nil {
		return nil, api.Internal(err, "learning.ListSubjects")
	}
	return subjects, nil
}
