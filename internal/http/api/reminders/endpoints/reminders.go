package endpoints

import (
	"time"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 90
)

type RemindersController struct {
	store db.Store
	now   func() time.Time
}

func newRemindersController(store db.Store) *RemindersController {
	return &RemindersController{store: store, now: time.Now}
}

// RemindersModule mounts family reminders, the MyTasks quick tasks and family settings.
func RemindersModule(store db.Store, features middleware.FeatureChecker) api.Module {
	return newRemindersController(store).module(features)
}

func (ctl *RemindersController) module(features middleware.FeatureChecker) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		r := c.With(middleware.RequireFeature(features, model.FeatureReminders))
		r.POST("/reminders", ctl.createReminder)
		r.GET("/reminders", ctl.listReminders)
		r.GET("/reminders/upcoming", ctl.upcomingReminders)
		r.PUT("/reminders/:id/complete", ctl.completeReminder)
		r.DELETE("/reminders/:id", ctl.deleteReminder)

		q := c.With(middleware.RequireFeature(features, model.FeatureMyTasks))
		q.POST("/quick-tasks", ctl.createQuickTask)
		q.GET("/quick-tasks", ctl.listQuickTasks)
		q.GET("/quick-tasks/by-category", ctl.quickTasksByCategory)
		q.PUT("/quick-tasks/:id/complete", ctl.completeQuickTask)
		q.PUT("/quick-tasks/:id", ctl.updateQuickTask)
		q.DELETE("/quick-tasks/:id", ctl.deleteQuickTask)

		c.GET("/settings", ctl.listSettings)
		c.GET("/settings/:key", ctl.getSetting)
		c.PUT("/settings/:key", ctl.putSetting)
	})
}
