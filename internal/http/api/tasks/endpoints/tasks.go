package endpoints

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/tasks/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/notify"
)

const recentPointsLimit = 10

type TaskController struct {
	store  db.Store
	events notify.Publisher
	now    func() time.Time
}

func newTaskController(store db.Store, events notify.Publisher) *TaskController {
	return &TaskController{store: store, events: events, now: time.Now}
}

// TasksModule mounts family tasks behind the tasks flag and points/rewards behind the points flag.
func TasksModule(store db.Store, features middleware.FeatureChecker, events notify.Publisher) api.Module {
	ctl := newTaskController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		points := c.With(middleware.RequireFeature(features, model.FeaturePoints))
		points.GET("/points/:user_id", ctl.getPoints)
		points.GET("/rewards", ctl.listRewards)
		points.POST("/rewards", ctl.createReward)
		points.POST("/rewards/:id/redeem", ctl.redeemReward)

		tasks := c.With(middleware.RequireFeature(features, model.FeatureTasks))
		tasks.GET("", ctl.listTasks)
		tasks.POST("", ctl.createTask)
		tasks.PUT("/:id", ctl.updateTask)
		tasks.DELETE("/:id", ctl.deleteTask)
		tasks.POST("/:id/complete", ctl.completeTask)
		tasks.POST("/:id/verify", ctl.verifyTask)
	})
}

// GET /api/tasks?assigned_to=&status=&category=&due_date=
func (t *TaskController) listTasks(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	assigned, apiErr := api.QueryInt(ctx, "assigned_to")
	if apiErr != nil {
		return nil, apiErr
	}
	filter := model.TaskFilter{
		AssignedTo: assigned,
		Status:     api.QueryString(ctx, "status"),
		Category:   api.QueryString(ctx, "category"),
	}
	if raw := api.QueryString(ctx, "due_date"); raw != nil {
		d, err := model.ParseDate(*raw)
		if err != nil {
			return nil, api.BadRequest("invalid due_date, expected YYYY-MM-DD")
		}
		filter.DueDate = &d.Time
	}

	tasks, err := t.store.ListTasks(familyID, filter)
	if err != nil {
		return nil, api.Internal(err, "tasks.ListTasks")
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// POST /api/tasks
func (t *TaskController) createTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.CreateTaskRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if _, err := t.store.GetFamilyMember(familyID, request.AssignedTo); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, api.BadRequest("Invalid assignee - must be a family member")
		}
		return nil, api.Internal(err, "tasks.GetFamilyMember")
	}

	task := &model.Task{
		FamilyID:          familyID,
		Title:             request.Title,
		Description:       request.Description,
		AssignedTo:        request.AssignedTo,
		CreatedBy:         user.ID,
		DueDate:           request.DueDate,
		Points:            model.DefaultTaskPoints,
		Status:            model.TaskPending,
		Category:          request.Category,
		IsRecurring:       request.IsRecurring,
		RecurrencePattern: request.RecurrencePattern,
	}
	if request.Points != nil {
		task.Points = *request.Points
	}
	if task.Category == "" {
		task.Category = "other"
	}

	created, err := t.store.CreateTask(task)
	if err != nil {
		return nil, api.Internal(err, "tasks.CreateTask")
	}
	notify.Fire(t.events, familyID, notify.EventTaskCreated, created)
	return api.Created(created), nil
}

// PUT /api/tasks/:id
func (t *TaskController) updateTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	task, err := t.store.GetTask(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "tasks.GetTask")
	}

	var request packets.UpdateTaskRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.AssignedTo != nil && *request.AssignedTo != task.AssignedTo {
		if _, err := t.store.GetFamilyMember(familyID, *request.AssignedTo); err != nil {
			return nil, api.BadRequest("Invalid assignee - must be a family member")
		}
		task.AssignedTo = *request.AssignedTo
	}
	if request.Title != nil {
		task.Title = strings.TrimSpace(*request.Title)
	}
	if request.Description != nil {
		task.Description = request.Description
	}
	if request.DueDate != nil {
		task.DueDate = request.DueDate
	}
	if request.Points != nil {
		task.Points = *request.Points
	}
	if request.Status != nil && *request.Status != task.Status {
		// completed and verified are only reached through /complete and /verify
		if task.Status == model.TaskCompleted || task.Status == model.TaskVerified {
			return nil, api.BadRequest("Status of a completed task cannot be changed")
		}
		task.Status = *request.Status
	}
	if request.Category != nil {
		task.Category = *request.Category
	}
	if request.IsRecurring != nil {
		task.IsRecurring = *request.IsRecurring
	}
	if request.RecurrencePattern != nil {
		task.RecurrencePattern = request.RecurrencePattern
	}

	updated, err := t.store.UpdateTask(task)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "tasks.UpdateTask")
	}
	return updated, nil
}

// DELETE /api/tasks/:id
func (t *TaskController) deleteTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := t.store.DeleteTask(familyID, id); err != nil {
		return nil, api.StoreError(err, "Task not found", "tasks.DeleteTask")
	}
	return gin.H{"message": "Task deleted"}, nil
}

// POST /api/tasks/:id/complete
func (t *TaskController) completeTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}

	task, err := t.store.CompleteTask(familyID, id, t.now())
	if err != nil {
		if errors.Is(err, db.ErrAlreadyCompleted) {
			return nil, api.BadRequest("Task is already completed")
		}
		return nil, api.StoreError(err, "Task not found", "tasks.CompleteTask")
	}
	log.Info().Int("task_id", task.ID).Int("assignee", task.AssignedTo).Int("points", task.Points).Msg("task completed")
	notify.Fire(t.events, familyID, notify.EventTaskCompleted, task)
	return task, nil
}

// POST /api/tasks/:id/verify
func (t *TaskController) verifyTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsParent() {
		return nil, api.Forbidden("Only parents can verify tasks")
	}
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	task, err := t.store.VerifyTask(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "tasks.VerifyTask")
	}
	notify.Fire(t.events, familyID, notify.EventTaskVerified, task)
	return task, nil
}

// GET /api/tasks/points/:user_id
func (t *TaskController) getPoints(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	userID, apiErr := api.IDParam(ctx, "user_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := t.store.GetFamilyMember(familyID, userID); err != nil {
		return nil, api.StoreError(err, "User not found in your family", "tasks.GetFamilyMember")
	}

	total, err := t.store.TotalPoints(userID)
	if err != nil {
		return nil, api.Internal(err, "tasks.TotalPoints")
	}
	recent, err := t.store.RecentPoints(userID, recentPointsLimit)
	if err != nil {
		return nil, api.Internal(err, "tasks.RecentPoints")
	}
	if recent == nil {
		recent = []model.PointsEntry{}
	}
	return packets.PointsResponse{UserID: userID, TotalPoints: total, RecentHistory: recent}, nil
}

// GET /api/tasks/rewards
func (t *TaskController) listRewards(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if user.FamilyID == nil {
		return []model.Reward{}, nil
	}
	rewards, err := t.store.ListRewards(*user.FamilyID)
	if err != nil {
		return nil, api.Internal(err, "tasks.ListRewards")
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	return rewards, nil
}

// POST /api/tasks/rewards
func (t *TaskController) createReward(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if !user.IsParent() {
		return nil, api.Forbidden("Only parents can create rewards")
	}
	if user.FamilyID == nil {
		return nil, api.BadRequest("User must belong to a family to create rewards")
	}
	var request packets.CreateRewardRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, api.BadRequest("Reward name is required")
	}
	if request.PointsRequired <= 0 {
		return nil, api.BadRequest("Points required must be greater than 0")
	}

	reward, err := t.store.CreateReward(&model.Reward{
		FamilyID:       *user.FamilyID,
		Name:           name,
		Description:    request.Description,
		PointsRequired: request.PointsRequired,
		ImageURL:       request.ImageURL,
		IsAvailable:    true,
	})
	if err != nil {
		return nil, api.Internal(err, "tasks.CreateReward")
	}
	return api.Created(reward), nil
}

// POST /api/tasks/rewards/:id/redeem
func (t *TaskController) redeemReward(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	reward, err := t.store.GetReward(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Reward not found", "tasks.GetReward")
	}
	if !reward.IsAvailable {
		return nil, api.BadRequest("Reward not available")
	}

	redemption, err := t.store.RedeemReward(user.ID, reward)
	if err != nil {
		if errors.Is(err, db.ErrInsufficientPoints) {
			return nil, api.BadRequest("Not enough points")
		}
		return nil, api.Internal(err, "tasks.RedeemReward")
	}
	remaining, err := t.store.TotalPoints(user.ID)
	if err != nil {
		return nil, api.Internal(err, "tasks.TotalPoints")
	}
	notify.Fire(t.events, familyID, notify.EventRewardRedeemed, redemption)
	return packets.RedeemResponse{
		Message:         "Successfully redeemed " + reward.Name,
		Redemption:      *redemption,
		RemainingPoints: remaining,
	}, nil
}
