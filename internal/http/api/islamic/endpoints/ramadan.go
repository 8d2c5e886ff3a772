package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

func (i *IslamicController) yearQuery(ctx *gin.Context) (int, *api.APIError) {
	year, apiErr := api.QueryInt(ctx, "year")
	if apiErr != nil {
		return 0, apiErr
	}
	if year == nil {
		return i.now().Year(), nil
	}
	return *year, nil
}

// GET /api/islamic/ramadan/:user_id?year=
func (i *IslamicController) listRamadanDays(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := i.memberParam(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	year, apiErr := i.yearQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	days, err := i.store.ListRamadanDays(userID, year)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListRamadanDays")
	}
	return days, nil
}

// POST /api/islamic/ramadan
func (i *IslamicController) upsertRamadanDay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RamadanDayRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := requireDate(request.Date); apiErr != nil {
		return nil, apiErr
	}
	if _, apiErr := i.member(user, request.UserID); apiErr != nil {
		return nil, apiErr
	}

	status := request.FastingStatus
	if status == "" {
		status = "not_tracked"
		if request.Fasted {
			status = "fasted"
		}
	}
	day, err := i.store.UpsertRamadanDay(&model.RamadanDay{
		UserID:         request.UserID,
		Date:           request.Date,
		HijriDay:       request.HijriDay,
		Fasted:         request.Fasted,
		FastingStatus:  status,
		MissedReason:   request.MissedReason,
		Suhoor:         request.Suhoor,
		Iftar:          request.Iftar,
		Taraweeh:       request.Taraweeh,
		TaraweehRakaat: request.TaraweehRakaat,
		QuranPages:     request.QuranPages,
		CharityGiven:   request.CharityGiven,
		Notes:          request.Notes,
	})
	if err != nil {
		return nil, api.Internal(err, "islamic.UpsertRamadanDay")
	}
	return day, nil
}

// PUT /api/islamic/ramadan/:id
func (i *IslamicController) updateRamadanDay(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	day, err := i.store.GetRamadanDay(id)
	if err != nil {
		return nil, api.StoreError(err, "Ramadan day not found", "islamic.GetRamadanDay")
	}
	if _, apiErr := i.member(user, day.UserID); apiErr != nil {
		return nil, apiErr
	}

	var r packets.UpdateRamadanDayRequest
	if apiErr := api.Bind(ctx, &r); apiErr != nil {
		return nil, apiErr
	}
	if r.HijriDay != nil {
		day.HijriDay = r.HijriDay
	}
	if r.Fasted != nil {
		day.Fasted = *r.Fasted
	}
	if r.FastingStatus != nil {
		day.FastingStatus = *r.FastingStatus
	}
	if r.MissedReason != nil {
		day.MissedReason = r.MissedReason
	}
	if r.Suhoor != nil {
		day.Suhoor = *r.Suhoor
	}
	if r.Iftar != nil {
		day.Iftar = *r.Iftar
	}
	if r.Taraweeh != nil {
		day.Taraweeh = *r.Taraweeh
	}
	if r.TaraweehRakaat != nil {
		day.TaraweehRakaat = *r.TaraweehRakaat
	}
	if r.QuranPages != nil {
		day.QuranPages = *r.QuranPages
	}
	if r.CharityGiven != nil {
		day.CharityGiven = *r.CharityGiven
	}
	if r.Notes != nil {
		day.Notes = r.Notes
	}

	updated, err := i.store.UpdateRamadanDay(day)
	if err != nil {
		return nil, api.StoreError(err, "Ramadan day not found", "islamic.UpdateRamadanDay")
	}
	return updated, nil
}

// GET /api/islamic/ramadan/:user_id/summary?year=
func (i *IslamicController) ramadanSummary(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := i.memberParam(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	year, apiErr := i.yearQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	summary, err := i.store.RamadanSummary(userID, year)
	if err != nil {
		return nil, api.Internal(err, "islamic.RamadanSummary")
	}
	summary.Year = year
	return summary, nil
}

// @ GOALS

// POST /api/islamic/ramadan-goals
func (i *IslamicController) createRamadanGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RamadanGoalRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	goal := &model.RamadanGoal{
		UserID:      user.ID,
		Year:        request.Year,
		Title:       request.Title,
		Description: request.Description,
		TargetValue: request.TargetValue,
		Unit:        request.Unit,
		GoalType:    request.GoalType,
	}
	if goal.Unit == "" {
		goal.Unit = "times"
	}
	if goal.GoalType == "" {
		goal.GoalType = "daily"
	}
	created, err := i.store.CreateRamadanGoal(goal)
	if err != nil {
		return nil, api.Internal(err, "islamic.CreateRamadanGoal")
	}
	return api.Created(created), nil
}

// GET /api/islamic/ramadan-goals?year=&user_id=
func (i *IslamicController) listRamadanGoals(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	year, apiErr := api.QueryInt(ctx, "year")
	if apiErr != nil {
		return nil, apiErr
	}
	target, apiErr := api.QueryInt(ctx, "user_id")
	if apiErr != nil {
		return nil, apiErr
	}
	if target == nil {
		target = &user.ID
	} else if _, apiErr := i.member(user, *target); apiErr != nil {
		return nil, apiErr
	}

	if user.FamilyID == nil {
		return []model.RamadanGoal{}, nil
	}
	goals, err := i.store.ListRamadanGoals(*user.FamilyID, target, year)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListRamadanGoals")
	}
	return goals, nil
}

// DELETE /api/islamic/ramadan-goals/:id
func (i *IslamicController) deleteRamadanGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	goal, err := i.store.GetRamadanGoal(id)
	if err != nil {
		return nil, api.StoreError(err, "Goal not found", "islamic.GetRamadanGoal")
	}
	if goal.UserID != user.ID {
		return nil, api.NotFound("Goal not found")
	}
	if err := i.store.DeleteRamadanGoal(id); err != nil {
		return nil, api.StoreError(err, "Goal not found", "islamic.DeleteRamadanGoal")
	}
	return gin.H{"message": "Goal deleted"}, nil
}

// POST /api/islamic/ramadan-goals/log
func (i *IslamicController) logRamadanGoal(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.RamadanGoalLogRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := requireDate(request.Date); apiErr != nil {
		return nil, apiErr
	}
	goal, err := i.store.GetRamadanGoal(request.GoalID)
	if err != nil {
		return nil, api.StoreError(err, "Goal not found", "islamic.GetRamadanGoal")
	}
	if _, apiErr := i.member(user, goal.UserID); apiErr != nil {
		return nil, api.NotFound("Goal not found")
	}

	entry, err := i.store.UpsertRamadanGoalLog(&model.RamadanGoalLog{
		GoalID: goal.ID,
		UserID: user.ID,
		Date:   request.Date,
		Value:  request.Value,
		Notes:  request.Notes,
	})
	if err != nil {
		return nil, api.Internal(err, "islamic.UpsertRamadanGoalLog")
	}
	return entry, nil
}

// GET /api/islamic/ramadan-goals/:id/logs
func (i *IslamicController) listRamadanGoalLogs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	goal, err := i.store.GetRamadanGoal(id)
	if err != nil {
		return nil, api.StoreError(err, "Goal not found", "islamic.GetRamadanGoal")
	}
	if _, apiErr := i.member(user, goal.UserID); apiErr != nil {
		return nil, api.NotFound("Goal not found")
	}
	logs, err := i.store.ListRamadanGoalLogs(id)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListRamadanGoalLogs")
	}
	return logs, nil
}

// DELETE /api/islamic/ramadan-goals/log/:id
func (i *IslamicController) deleteRamadanGoalLog(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	entry, err := i.store.GetRamadanGoalLog(id)
	if err != nil {
		return nil, api.StoreError(err, "Log not found", "islamic.GetRamadanGoalLog")
	}
	if entry.UserID != user.ID {
		return nil, api.NotFound("Log not found")
	}
	if err := i.store.DeleteRamadanGoalLog(id); err != nil {
		return nil, api.StoreError(err, "Log not found", "islamic.DeleteRamadanGoalLog")
	}
	return gin.H{"message": "Log deleted"}, nil
}
