package endpoints

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/currency"
	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// PrayerTimes looks up the day's prayer schedule for a location.
type PrayerTimes interface {
	Times(ctx context.Context, lat, lon float64, date model.Date) (*model.PrayerTimes, error)
}

type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error)
}

type IslamicController struct {
	store db.Store
	times PrayerTimes
	fx    Converter
	now   func() time.Time
}

func newIslamicController(store db.Store, times PrayerTimes, fx Converter) *IslamicController {
	return &IslamicController{store: store, times: times, fx: fx, now: time.Now}
}

// IslamicModule mounts prayers, memorization, Ramadan and zakat, each behind its own flag.
func IslamicModule(store db.Store, features middleware.FeatureChecker, times PrayerTimes, fx Converter) api.Module {
	ctl := newIslamicController(store, times, fx)
	return api.ModuleFunc(func(c *api.Controller) {
		prayers := c.With(middleware.RequireFeature(features, model.FeaturePrayers))
		prayers.GET("/prayers/:user_id/:date", ctl.getDailyPrayers)
		prayers.POST("/prayers", ctl.logPrayer)
		prayers.PUT("/prayers/:id", ctl.updatePrayer)
		prayers.GET("/prayer-times", ctl.getPrayerTimes)

		quran := c.With(middleware.RequireFeature(features, model.FeatureQuran))
		quran.GET("/quran/surahs", ctl.listSurahs)
		quran.GET("/quran/:user_id", ctl.getQuranProgress)
		quran.POST("/quran", ctl.upsertQuranProgress)
		quran.PUT("/quran/:id", ctl.updateQuranProgress)

		ramadan := c.With(middleware.RequireFeature(features, model.FeatureRamadan))
		ramadan.GET("/ramadan/:user_id", ctl.listRamadanDays)
		ramadan.GET("/ramadan/:user_id/summary", ctl.ramadanSummary)
		ramadan.POST("/ramadan", ctl.upsertRamadanDay)
		ramadan.PUT("/ramadan/:id", ctl.updateRamadanDay)
		ramadan.POST("/ramadan-goals", ctl.createRamadanGoal)
		ramadan.GET("/ramadan-goals", ctl.listRamadanGoals)
		ramadan.DELETE("/ramadan-goals/:id", ctl.deleteRamadanGoal)
		ramadan.POST("/ramadan-goals/log", ctl.logRamadanGoal)
		ramadan.GET("/ramadan-goals/:id/logs", ctl.listRamadanGoalLogs)
		ramadan.DELETE("/ramadan-goals/log/:id", ctl.deleteRamadanGoalLog)

		zakat := c.With(middleware.RequireFeature(features, model.FeatureZakat))
		zakat.POST("/zakat/config", ctl.upsertZakatConfig)
		zakat.GET("/zakat/config", ctl.listZakatConfigs)
		zakat.GET("/zakat/config/:id", ctl.getZakatConfig)
		zakat.PUT("/zakat/config/:id", ctl.updateZakatConfig)
		zakat.DELETE("/zakat/config/:id", ctl.deleteZakatConfig)
		zakat.GET("/zakat/config/:id/convert", ctl.convertZakatConfig)
		zakat.POST("/zakat/payment", ctl.addZakatPayment)
		zakat.GET("/zakat/payments/:id", ctl.listZakatPayments)
		zakat.DELETE("/zakat/payment/:id", ctl.deleteZakatPayment)
	})
}

// member loads userID when it belongs to the caller's family.
func (i *IslamicController) member(user *model.User, userID int) (*model.User, *api.APIError) {
	if userID == user.ID {
		return user, nil
	}
	if user.FamilyID == nil {
		return nil, api.NotFound("User not found in your family")
	}
	m, err := i.store.GetFamilyMember(*user.FamilyID, userID)
	if err != nil {
		return nil, api.StoreError(err, "User not found in your family", "islamic.GetFamilyMember")
	}
	return m, nil
}

func (i *IslamicController) memberParam(ctx *gin.Context, user *model.User) (int, *api.APIError) {
	userID, apiErr := api.IDParam(ctx, "user_id")
	if apiErr != nil {
		return 0, apiErr
	}
	if _, apiErr := i.member(user, userID); apiErr != nil {
		return 0, apiErr
	}
	return userID, nil
}

func requireDate(d model.Date) *api.APIError {
	if d.IsZero() {
		return api.BadRequest("date is required (YYYY-MM-DD)")
	}
	return nil
}
