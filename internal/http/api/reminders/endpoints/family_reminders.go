package endpoints

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/reminders/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// POST /api/reminders
func (rc *RemindersController) createReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.CreateReminderRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.RemindAt.IsZero() {
		return nil, api.BadRequest("remind_at is required")
	}
	if request.IsRecurring && request.RecurrencePattern == nil {
		return nil, api.BadRequest("recurrence_pattern is required for recurring reminders")
	}

	var forUsers pq.Int64Array
	for _, id := range request.ForUsers {
		if id != user.ID {
			if _, err := rc.store.GetFamilyMember(familyID, id); err != nil {
				return nil, api.StoreError(err, "User not found in your family", "reminders.GetFamilyMember")
			}
		}
		forUsers = append(forUsers, int64(id))
	}

	reminder := &model.Reminder{
		FamilyID:          familyID,
		Title:             request.Title,
		Description:       request.Description,
		RemindAt:          request.RemindAt.UTC(),
		ReminderType:      request.ReminderType,
		Priority:          request.Priority,
		IsRecurring:       request.IsRecurring,
		RecurrencePattern: request.RecurrencePattern,
		ForUsers:          forUsers,
		CreatedBy:         &user.ID,
	}
	if reminder.ReminderType == "" {
		reminder.ReminderType = "general"
	}
	if reminder.Priority == "" {
		reminder.Priority = "medium"
	}

	created, err := rc.store.CreateReminder(reminder)
	if err != nil {
		return nil, api.Internal(err, "reminders.CreateReminder")
	}
	return api.Created(created), nil
}

// GET /api/reminders?include_completed=&reminder_type=
func (rc *RemindersController) listReminders(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	reminders, err := rc.store.ListReminders(familyID, user.ID, api.QueryBool(ctx, "include_completed"), api.QueryString(ctx, "reminder_type"))
	if err != nil {
		return nil, api.Internal(err, "reminders.ListReminders")
	}
	return reminders, nil
}

// GET /api/reminders/upcoming?days=7
func (rc *RemindersController) upcomingReminders(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	days, apiErr := api.QueryInt(ctx, "days")
	if apiErr != nil {
		return nil, apiErr
	}
	n := defaultUpcomingDays
	if days != nil {
		n = *days
	}
	if n < 1 || n > maxUpcomingDays {
		return nil, api.BadRequest("days must be between 1 and 90")
	}
	reminders, err := rc.store.UpcomingReminders(familyID, user.ID, rc.now().AddDate(0, 0, n))
	if err != nil {
		return nil, api.Internal(err, "reminders.UpcomingReminders")
	}
	return reminders, nil
}

// PUT /api/reminders/:id/complete
func (rc *RemindersController) completeReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	reminder, err := rc.store.GetReminder(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Reminder not found", "reminders.GetReminder")
	}
	if reminder.IsCompleted {
		return nil, api.Conflict("Reminder already completed")
	}
	done, next, err := rc.store.CompleteReminder(reminder, rc.now().UTC())
	if errors.Is(err, db.ErrAlreadyCompleted) {
		return nil, api.Conflict("Reminder already completed")
	}
	if err != nil {
		return nil, api.Internal(err, "reminders.CompleteReminder")
	}
	return packets.CompleteReminderResponse{Message: "Reminder completed", Reminder: done, NextOccurrence: next}, nil
}

// DELETE /api/reminders/:id
func (rc *RemindersController) deleteReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := rc.store.DeleteReminder(familyID, id); err != nil {
		return nil, api.StoreError(err, "Reminder not found", "reminders.DeleteReminder")
	}
	return gin.H{"message": "Reminder deleted"}, nil
}
