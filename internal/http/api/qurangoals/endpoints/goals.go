package endpoints

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/qurangoals/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/storage"
)

const (
	defaultGoalTitle  = "Complete Quran in Ramadan"
	defaultTargetDays = 25
	uploadFolder      = "quran"
)

type GoalsController struct {
	store db.Store
	files storage.Storage
	now   func() time.Time
}

func newGoalsController(store db.Store, files storage.Storage) *GoalsController {
	return &GoalsController{store: store, files: files, now: time.Now}
}

func QuranGoalsModule(store db.Store, features middleware.FeatureChecker, files storage.Storage) api.Module {
	ctl := newGoalsController(store, files)
	return api.ModuleFunc(func(c *api.Controller) {
		g := c.With(middleware.RequireFeature(features, model.FeatureQuran))
		g.POST("/create", ctl.createGoal)
		g.GET("/active", ctl.activeGoal)
		g.PUT("/update/:id", ctl.updateGoal)
		g.DELETE("/delete/:id", ctl.deleteGoal)
		g.POST("/log", ctl.logReading)
		g.GET("/logs", ctl.listLogs)
		g.PUT("/logs/:id", ctl.updateLog)
		g.DELETE("/logs/:id", ctl.deleteLog)
		g.GET("/stats", ctl.stats)
	})
}

func (q *GoalsController) today() model.Date { return model.NewDate(q.now()) }

// targetUser resolves ?user_id= to a family member, defaulting to the caller.
func (q *GoalsController) targetUser(ctx *gin.Context, user *model.User) (int, *api.APIError) {
	id, apiErr := api.QueryInt(ctx, "user_id")
	if apiErr != nil {
		return 0, apiErr
	}
	if id == nil || *id == user.ID {
		return user.ID, nil
	}
	if user.FamilyID == nil {
		return 0, api.NotFound("User not found in your family")
	}
	if _, err := q.store.GetFamilyMember(*user.FamilyID, *id); err != nil {
		return 0, api.StoreError(err, "User not found in your family", "qurangoals.GetFamilyMember")
	}
	return *id, nil
}

// active returns nil without error when userID has no open goal.
func (q *GoalsController) active(userID int) (*model.QuranReadingGoal, *api.APIError) {
	goal, err := q.store.ActiveQuranGoal(userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, api.Internal(err, "qurangoals.ActiveQuranGoal")
	}
	return goal, nil
}

func (q *GoalsController) ownGoal(ctx *gin.Context, user *model.User) (*model.QuranReadingGoal, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	goal, err := q.store.GetQuranGoal(id)
	if err != nil {
		return nil, api.StoreError(err, "Goal not found", "qurangoals.GetQuranGoal")
	}
	if goal.UserID != user.ID {
		return nil, api.NotFound("Goal not found")
	}
	return goal, nil
}

func (q *GoalsController) ownLog(ctx *gin.Context, user *model.User) (*model.QuranReadingLog, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	entry, err := q.store.GetReadingLog(id)
	if err != nil {
		return nil, api.StoreError(err, "Log not found", "qurangoals.GetReadingLog")
	}
	if entry.UserID != user.ID {
		return nil, api.NotFound("Log not found")
	}
	return entry, nil
}

// sync recomputes current_page from the logs and opens or closes the goal to match.
func (q *GoalsController) sync(goal *model.QuranReadingGoal) (*model.QuranReadingGoal, error) {
	read, err := q.store.SumPagesRead(goal.ID)
	if err != nil {
		return nil, err
	}
	goal.CurrentPage = model.ClampPage(read, goal.TotalPages)
	setCompletion(goal, q.now())
	return q.store.UpdateQuranGoal(goal)
}

func setCompletion(goal *model.QuranReadingGoal, now time.Time) {
	if goal.CurrentPage >= goal.TotalPages {
		goal.IsCompleted = true
		if goal.CompletedAt == nil {
			goal.CompletedAt = &now
		}
		return
	}
	goal.IsCompleted = false
	goal.CompletedAt = nil
}

func (q *GoalsController) view(goal *model.QuranReadingGoal) (packets.Goal, error) {
	read, err := q.store.SumPagesRead(goal.ID)
	if err != nil {
		return packets.Goal{}, err
	}
	g := *goal
	g.CurrentPage = model.ClampPage(read, g.TotalPages)

	today := q.today()
	readToday := 0
	entry, err := q.store.GetReadingLogForDate(goal.ID, today)
	switch {
	case err == nil:
		readToday = entry.PagesRead
	case !errors.Is(err, db.ErrNotFound):
		return packets.Goal{}, err
	}

	return packets.Goal{QuranReadingGoal: g, GoalProgress: g.Progress(today), PagesReadToday: readToday}, nil
}

// POST /api/quran-goals/create
func (q *GoalsController) createGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateGoalRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	existing, apiErr := q.active(user.ID)
	if apiErr != nil {
		return nil, apiErr
	}
	if existing != nil {
		return nil, api.BadRequest("You already have an active goal")
	}

	goal := &model.QuranReadingGoal{
		UserID:     user.ID,
		Title:      request.Title,
		TotalPages: request.TotalPages,
		TargetDays: request.TargetDays,
		StartDate:  request.StartDate,
	}
	if goal.Title == "" {
		goal.Title = defaultGoalTitle
	}
	if goal.TotalPages == 0 {
		goal.TotalPages = model.QuranTotalPages
	}
	if goal.TargetDays == 0 {
		goal.TargetDays = defaultTargetDays
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = q.today()
	}
	goal.PagesPerDay = model.PagesPerDayFor(goal.TotalPages, goal.TargetDays)
	end := goal.StartDate.AddDays(goal.TargetDays)
	goal.EndDate = &end

	created, err := q.store.CreateQuranGoal(goal)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.CreateQuranGoal")
	}
	out, err := q.view(created)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.view")
	}
	return out, nil
}

// GET /api/quran-goals/active?user_id=
func (q *GoalsController) activeGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := q.targetUser(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	goal, apiErr := q.active(userID)
	if apiErr != nil || goal == nil {
		return nil, apiErr
	}
	out, err := q.view(goal)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.view")
	}
	return out, nil
}

// PUT /api/quran-goals/update/:id
func (q *GoalsController) updateGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	goal, apiErr := q.ownGoal(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateGoalRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}

	if request.Title != nil && *request.Title != "" {
		goal.Title = *request.Title
	}
	if request.TargetDays != nil {
		goal.TargetDays = *request.TargetDays
		goal.PagesPerDay = model.PagesPerDayFor(goal.TotalPages, goal.TargetDays)
	}
	if request.StartDate != nil && !request.StartDate.IsZero() {
		goal.StartDate = *request.StartDate
	}
	end := goal.StartDate.AddDays(goal.TargetDays)
	goal.EndDate = &end
	if request.CurrentPage != nil {
		goal.CurrentPage = model.ClampPage(*request.CurrentPage, goal.TotalPages)
		setCompletion(goal, q.now())
	}

	updated, err := q.store.UpdateQuranGoal(goal)
	if err != nil {
		return nil, api.StoreError(err, "Goal not found", "qurangoals.UpdateQuranGoal")
	}
	out, err := q.view(updated)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.view")
	}
	return out, nil
}

// DELETE /api/quran-goals/delete/:id
func (q *GoalsController) deleteGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	goal, apiErr := q.ownGoal(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := q.store.DeleteQuranGoal(goal.ID); err != nil {
		return nil, api.StoreError(err, "Goal not found", "qurangoals.DeleteQuranGoal")
	}
	return gin.H{"message": "Goal deleted successfully"}, nil
}

func optionalInt(ctx *gin.Context, name string) (*int, *api.APIError) {
	raw := strings.TrimSpace(ctx.PostForm(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, api.BadRequest("invalid " + name)
	}
	return &v, nil
}

func optionalString(ctx *gin.Context, name string) *string {
	raw := strings.TrimSpace(ctx.PostForm(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// POST /api/quran-goals/log (multipart)
func (q *GoalsController) logReading(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	pages, err := strconv.Atoi(strings.TrimSpace(ctx.PostForm("pages_read")))
	if err != nil || pages < 0 {
		return nil, api.BadRequest("pages_read must be a non-negative integer")
	}
	startPage, apiErr := optionalInt(ctx, "start_page")
	if apiErr != nil {
		return nil, apiErr
	}
	endPage, apiErr := optionalInt(ctx, "end_page")
	if apiErr != nil {
		return nil, apiErr
	}
	surah := optionalString(ctx, "surah_name")
	notes := optionalString(ctx, "notes")

	goal, apiErr := q.active(user.ID)
	if apiErr != nil {
		return nil, apiErr
	}
	if goal == nil {
		return nil, api.NotFound("No active goal found. Create one first.")
	}

	var imageURL *string
	if fh, err := ctx.FormFile("file"); err == nil {
		if !storage.IsImage(fh.Filename) {
			return nil, api.BadRequest("file must be an image")
		}
		url, err := q.files.SaveFile(fh, uploadFolder)
		if err != nil {
			log.Error().Err(err).Int("goal_id", goal.ID).Msg("quran page upload failed")
			return nil, api.Internal(err, "qurangoals.SaveFile")
		}
		imageURL = &url
	}

	today := q.today()
	entry, err := q.store.GetReadingLogForDate(goal.ID, today)
	switch {
	case err == nil:
		entry.PagesRead += pages
		if endPage != nil {
			entry.EndPage = endPage
		}
		if surah != nil {
			entry.SurahName = surah
		}
		if imageURL != nil {
			entry.ImageURL = imageURL
		}
		if notes != nil {
			entry.Notes = notes
		}
		entry, err = q.store.UpdateReadingLog(entry)
	case errors.Is(err, db.ErrNotFound):
		entry, err = q.store.CreateReadingLog(&model.QuranReadingLog{
			GoalID:    goal.ID,
			UserID:    user.ID,
			Date:      today,
			PagesRead: pages,
			StartPage: startPage,
			EndPage:   endPage,
			SurahName: surah,
			ImageURL:  imageURL,
			Notes:     notes,
		})
	}
	if err != nil {
		return nil, api.Internal(err, "qurangoals.saveReadingLog")
	}

	goal, err = q.sync(goal)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.sync")
	}
	progress := goal.Progress(today)
	return packets.LogResult{
		Message:            "Reading logged successfully!",
		PagesLogged:        pages,
		TotalPagesRead:     goal.CurrentPage,
		RemainingPages:     progress.RemainingPages,
		ProgressPercentage: progress.ProgressPercentage,
		IsCompleted:        goal.IsCompleted,
		Log:                entry,
	}, nil
}

// GET /api/quran-goals/logs?user_id=
func (q *GoalsController) listLogs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := q.targetUser(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	goal, apiErr := q.active(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	if goal == nil {
		return []model.QuranReadingLog{}, nil
	}
	logs, err := q.store.ListReadingLogs(goal.ID)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.ListReadingLogs")
	}
	return logs, nil
}

// PUT /api/quran-goals/logs/:id
func (q *GoalsController) updateLog(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	entry, apiErr := q.ownLog(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateLogRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	old := entry.PagesRead
	entry.PagesRead = request.PagesRead
	if _, err := q.store.UpdateReadingLog(entry); err != nil {
		return nil, api.StoreError(err, "Log not found", "qurangoals.UpdateReadingLog")
	}
	if apiErr := q.resync(entry.GoalID); apiErr != nil {
		return nil, apiErr
	}
	return gin.H{"message": "Log updated", "old_pages": old, "new_pages": entry.PagesRead}, nil
}

// DELETE /api/quran-goals/logs/:id
func (q *GoalsController) deleteLog(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	entry, apiErr := q.ownLog(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := q.store.DeleteReadingLog(entry.ID); err != nil {
		return nil, api.StoreError(err, "Log not found", "qurangoals.DeleteReadingLog")
	}
	if apiErr := q.resync(entry.GoalID); apiErr != nil {
		return nil, apiErr
	}
	return gin.H{"message": "Log deleted", "pages_removed": entry.PagesRead}, nil
}

func (q *GoalsController) resync(goalID int) *api.APIError {
	goal, err := q.store.GetQuranGoal(goalID)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return api.Internal(err, "qurangoals.GetQuranGoal")
	}
	if _, err := q.sync(goal); err != nil {
		return api.Internal(err, "qurangoals.sync")
	}
	return nil
}

// GET /api/quran-goals/stats?user_id=
func (q *GoalsController) stats(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := q.targetUser(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	goal, apiErr := q.active(userID)
	if apiErr != nil {
		return nil, apiErr
	}
	if goal == nil {
		return gin.H{"message": "No active goal"}, nil
	}
	view, err := q.view(goal)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.view")
	}
	logs, err := q.store.ListReadingLogs(goal.ID)
	if err != nil {
		return nil, api.Internal(err, "qurangoals.ListReadingLogs")
	}
	daily := make(map[string]int, len(logs))
	for _, l := range logs {
		daily[l.Date.String()] += l.PagesRead
	}
	return packets.Stats{Goal: view, DailyReading: daily, TotalDaysRead: len(daily)}, nil
}
