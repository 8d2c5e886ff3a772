package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/ai"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/learning/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
	"github.com/Nixie-Tech-LLC/familyhub/internal/storage"
)

var errAIUnavailable = &api.APIError{Code: http.StatusServiceUnavailable, Message: "AI is not configured"}

// POST /api/learning/worksheet/generate
func (l *LearningController) generate(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.GenerateWorksheetRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if l.tutor == nil {
		return nil, errAIUnavailable
	}

	target := user
	if request.UserID != nil && *request.UserID != user.ID {
		member, err := l.store.GetFamilyMember(familyID, *request.UserID)
		if err != nil {
			return nil, api.StoreError(err, "User not found in your family", "learning.GetFamilyMember")
		}
		target = member
	}

	topicName := "General"
	if request.TopicName != nil && strings.TrimSpace(*request.TopicName) != "" {
		topicName = strings.TrimSpace(*request.TopicName)
	}
	if request.TopicID != nil {
		topic, err := l.store.GetTopic(*request.TopicID)
		if err != nil {
			return nil, api.StoreError(err, "Topic not found", "learning.GetTopic")
		}
		topicName = topic.Name
	}

	grade := defaultGradeLevel
	switch {
	case request.GradeLevel != nil && *request.GradeLevel != "":
		grade = *request.GradeLevel
	case target.Grade != nil && *target.Grade != "":
		grade = *target.Grade
	}
	difficulty := request.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	count := request.QuestionCount
	if count == 0 {
		count = defaultQuestionCount
	}

	if err := l.budget.Check(familyID); err != nil {
		return nil, aiError(err)
	}
	generated, usage, err := l.tutor.GenerateWorksheet(ctx.Request.Context(), ai.WorksheetRequest{
		Topic:         topicName,
		Subject:       request.Subject,
		Difficulty:    difficulty,
		QuestionCount: count,
		GradeLevel:    grade,
	})
	l.budget.Record(familyID, &user.ID, usageGenerate, usage)
	if err != nil {
		log.Error().Err(err).Int("family_id", familyID).Str("topic", topicName).Msg("worksheet generation failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "Failed to generate worksheet"}
	}

	instructions := generated.Instructions
	ws, err := l.store.CreateWorksheet(&model.Worksheet{
		FamilyID:     familyID,
		UserID:       target.ID,
		TopicID:      request.TopicID,
		Title:        generated.Title,
		Subject:      &request.Subject,
		Instructions: &instructions,
		Questions:    generated.Questions,
		AnswerKey:    generated.Questions.AnswerKey(),
		Difficulty:   difficulty,
		Status:       model.WorksheetGenerated,
		GeneratedAt:  l.now().UTC(),
	})
	if err != nil {
		return nil, api.Internal(err, "learning.CreateWorksheet")
	}
	return api.Created(packets.GeneratedWorksheetResponse{
		ID:               ws.ID,
		Title:            ws.Title,
		Instructions:     instructions,
		Questions:        ws.Questions,
		EstimatedMinutes: generated.EstimatedMinutes,
		Status:           ws.Status,
	}), nil
}

// POST /api/learning/worksheet/:id/assign
func (l *LearningController) assign(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	if apiErr := api.RequireParent(user); apiErr != nil {
		return nil, apiErr
	}
	ws, apiErr := l.load(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.AssignWorksheetRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if ws.Status != model.WorksheetGenerated && ws.Status != model.WorksheetAssigned {
		return nil, api.BadRequest("Worksheet has already been started")
	}
	if _, err := l.store.GetFamilyMember(familyID, request.AssignedTo); err != nil {
		return nil, api.StoreError(err, "User not found in your family", "learning.GetFamilyMember")
	}

	now := l.now().UTC()
	ws.AssignedTo = &request.AssignedTo
	ws.AssignedAt = &now
	ws.DueDate = request.DueDate
	ws.Status = model.WorksheetAssigned
	updated, err := l.store.UpdateWorksheet(ws)
	if err != nil {
		return nil, api.StoreError(err, "Worksheet not found", "learning.UpdateWorksheet")
	}
	return updated.ForStudent(), nil
}

// GET /api/learning/worksheet/:id
func (l *LearningController) worksheet(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	ws, apiErr := l.load(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	return ws.ForStudent(), nil
}

// POST /api/learning/worksheet/:id/start
func (l *LearningController) start(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	ws, apiErr := l.load(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	if student(ws) != user.ID {
		return nil, api.Forbidden("This worksheet is not assigned to you")
	}
	switch ws.Status {
	case model.WorksheetInProgress:
		return ws.ForStudent(), nil
	case model.WorksheetGenerated, model.WorksheetAssigned:
	default:
		return nil, api.BadRequest("Worksheet has already been submitted")
	}

	now := l.now().UTC()
	ws.Status = model.WorksheetInProgress
	ws.StartedAt = &now
	updated, err := l.store.UpdateWorksheet(ws)
	if err != nil {
		return nil, api.StoreError(err, "Worksheet not found", "learning.UpdateWorksheet")
	}
	return updated.ForStudent(), nil
}

// POST /api/learning/worksheet/:id/submit (multipart, field "file")
func (l *LearningController) submit(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	ws, apiErr := l.load(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	if student(ws) != user.ID && !user.IsParent() {
		return nil, api.Forbidden("This worksheet is not assigned to you")
	}
	if ws.Status == model.WorksheetSubmitted || ws.Status == model.WorksheetGraded {
		return nil, api.BadRequest("Worksheet has already been submitted")
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, api.BadRequest("file is required")
	}
	if !storage.IsImage(fh.Filename) {
		return nil, api.BadRequest("file must be an image")
	}
	image, err := storage.ReadUpload(fh)
	if err != nil {
		return nil, api.BadRequest(err.Error())
	}
	url, err := l.files.SaveBytes(image, fh.Filename, submissionFolder)
	if err != nil {
		return nil, api.Internal(err, "learning.SaveBytes")
	}

	now := l.now().UTC()
	ws.CompletedImageURL = &url
	ws.CompletedAt = &now
	ws.Status = model.WorksheetSubmitted
	ws, err = l.store.UpdateWorksheet(ws)
	if err != nil {
		return nil, api.StoreError(err, "Worksheet not found", "learning.UpdateWorksheet")
	}

	grading, apiErr := l.grade(ctx, familyID, user, ws, image, storage.ContentType(fh.Filename))
	if apiErr != nil {
		return nil, apiErr
	}
	if grading == nil {
		return packets.SubmitResponse{Message: "Worksheet submitted; grading is not available right now", Worksheet: ws.ForStudent()}, nil
	}
	return packets.SubmitResponse{Message: "Worksheet graded", Worksheet: ws.ForStudent(), Grading: grading}, nil
}

// grade runs AI grading on a submitted worksheet. A nil grading with no error
// means grading was skipped or failed and the worksheet stays submitted.
func (l *LearningController) grade(ctx *gin.Context, familyID int, user *model.User, ws *model.Worksheet, image []byte, mimeType string) (*model.Grading, *api.APIError) {
	if l.tutor == nil {
		return nil, nil
	}
	enabled, err := l.features.IsEnabled(ctx.Request.Context(), familyID, model.FeatureAI)
	if err != nil || !enabled {
		return nil, nil
	}
	if err := l.budget.Check(familyID); err != nil {
		log.Info().Err(err).Int("worksheet_id", ws.ID).Msg("skipping worksheet grading")
		return nil, nil
	}
	grading, usage, err := l.tutor.GradeWorksheet(ctx.Request.Context(), image, mimeType, ws.AnswerKey)
	l.budget.Record(familyID, &user.ID, usageGrade, usage)
	if err != nil {
		log.Error().Err(err).Int("worksheet_id", ws.ID).Msg("worksheet grading failed")
		return nil, nil
	}

	score := grading.Score
	ws.Grading = grading
	ws.Score = &score
	ws.Status = model.WorksheetGraded
	updated, err := l.store.UpdateWorksheet(ws)
	if err != nil {
		return nil, api.Internal(err, "learning.UpdateWorksheet")
	}
	*ws = *updated

	if ws.TopicID != nil {
		if err := l.absorb(student(ws), *ws.TopicID, grading); err != nil {
			log.Error().Err(err).Int("worksheet_id", ws.ID).Msg("failed to update proficiency")
		}
	}
	notify.Fire(l.events, familyID, notify.EventWorksheetGraded, gin.H{
		"worksheet_id": ws.ID,
		"user_id":      student(ws),
		"score":        score,
	})
	return grading, nil
}

func (l *LearningController) absorb(userID, topicID int, g *model.Grading) error {
	p, err := l.store.GetProficiency(userID, topicID)
	if errors.Is(err, db.ErrNotFound) {
		p, err = &model.Proficiency{UserID: userID, TopicID: topicID}, nil
	}
	if err != nil {
		return err
	}
	p.Absorb(g.TotalQuestions, g.CorrectAnswers, l.now().UTC())
	return l.store.SaveProficiency(p)
}

// GET /api/learning/worksheets/assigned/:user_id
func (l *LearningController) assigned(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	target, apiErr := l.member(ctx, user, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	worksheets, err := l.store.ListAssignedWorksheets(target.ID)
	if err != nil {
		return nil, api.Internal(err, "learning.ListAssignedWorksheets")
	}
	out := make([]model.Worksheet, 0, len(worksheets))
	for _, ws := range worksheets {
		if ws.FamilyID == familyID {
			out = append(out, ws.ForStudent())
		}
	}
	return out, nil
}
