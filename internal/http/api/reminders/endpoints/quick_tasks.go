package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/reminders/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

func (rc *RemindersController) quickTask(ctx *gin.Context, user *model.User) (*model.QuickTask, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	task, err := rc.store.GetQuickTask(user.ID, id)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "reminders.GetQuickTask")
	}
	return task, nil
}

// POST /api/quick-tasks
func (rc *RemindersController) createQuickTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateQuickTaskRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	task := &model.QuickTask{
		UserID:    user.ID,
		Title:     request.Title,
		Category:  request.Category,
		Priority:  request.Priority,
		DueDate:   request.DueDate,
		DueTime:   request.DueTime,
		Notes:     request.Notes,
		IsToday:   request.IsToday,
		SortOrder: request.SortOrder,
	}
	if task.Category == "" {
		task.Category = "personal"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	created, err := rc.store.CreateQuickTask(task)
	if err != nil {
		return nil, api.Internal(err, "reminders.CreateQuickTask")
	}
	return api.Created(created), nil
}

// GET /api/quick-tasks?category=&include_completed=
func (rc *RemindersController) listQuickTasks(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	tasks, err := rc.store.ListQuickTasks(user.ID, api.QueryString(ctx, "category"), api.QueryBool(ctx, "include_completed"))
	if err != nil {
		return nil, api.Internal(err, "reminders.ListQuickTasks")
	}
	return tasks, nil
}

// GET /api/quick-tasks/by-category
func (rc *RemindersController) quickTasksByCategory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	tasks, err := rc.store.ListQuickTasks(user.ID, nil, false)
	if err != nil {
		return nil, api.Internal(err, "reminders.ListQuickTasks")
	}
	grouped := map[string][]packets.QuickTaskBrief{}
	for _, t := range tasks {
		grouped[t.Category] = append(grouped[t.Category], packets.QuickTaskBrief{
			ID:       t.ID,
			Title:    t.Title,
			Priority: t.Priority,
			DueDate:  t.DueDate,
			DueTime:  t.DueTime,
		})
	}
	return grouped, nil
}

// PUT /api/quick-tasks/:id/complete
func (rc *RemindersController) completeQuickTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	task, apiErr := rc.quickTask(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	now := rc.now().UTC()
	task.IsCompleted = true
	task.CompletedAt = &now
	updated, err := rc.store.UpdateQuickTask(task)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "reminders.UpdateQuickTask")
	}
	return updated, nil
}

// PUT /api/quick-tasks/:id
func (rc *RemindersController) updateQuickTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	task, apiErr := rc.quickTask(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	var r packets.UpdateQuickTaskRequest
	if apiErr := api.Bind(ctx, &r); apiErr != nil {
		return nil, apiErr
	}
	if r.Title != nil && *r.Title != "" {
		task.Title = *r.Title
	}
	if r.Category != nil {
		task.Category = *r.Category
	}
	if r.Priority != nil {
		task.Priority = *r.Priority
	}
	if r.DueDate != nil {
		task.DueDate = r.DueDate
	}
	if r.DueTime != nil {
		task.DueTime = r.DueTime
	}
	if r.Notes != nil {
		task.Notes = r.Notes
	}
	if r.IsToday != nil {
		task.IsToday = *r.IsToday
	}
	if r.SortOrder != nil {
		task.SortOrder = *r.SortOrder
	}
	updated, err := rc.store.UpdateQuickTask(task)
	if err != nil {
		return nil, api.StoreError(err, "Task not found", "reminders.UpdateQuickTask")
	}
	return updated, nil
}

// DELETE /api/quick-tasks/:id
func (rc *RemindersController) deleteQuickTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := rc.store.DeleteQuickTask(user.ID, id); err != nil {
		return nil, api.StoreError(err, "Task not found", "reminders.DeleteQuickTask")
	}
	return gin.H{"message": "Task deleted"}, nil
}
