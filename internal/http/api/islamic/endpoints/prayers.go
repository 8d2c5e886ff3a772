package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// GET /api/islamic/prayers/:user_id/:date
func (i *IslamicController) getDailyPrayers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := i.memberParam(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	date, apiErr := api.DateParam(ctx, "date")
	if apiErr != nil {
		return nil, apiErr
	}

	if err := i.store.EnsureDailyPrayers(userID, date); err != nil {
		return nil, api.Internal(err, "islamic.EnsureDailyPrayers")
	}
	prayers, err := i.store.ListPrayers(userID, date)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListPrayers")
	}

	completed := 0
	for _, p := range prayers {
		if p.PrayerName != model.PrayerTaraweeh && p.Done() {
			completed++
		}
	}
	return packets.DailyPrayers{
		Date:           date,
		UserID:         userID,
		Prayers:        prayers,
		CompletedCount: completed,
		TotalCount:     len(model.DailyPrayers),
	}, nil
}

// POST /api/islamic/prayers
func (i *IslamicController) logPrayer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.LogPrayerRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := requireDate(request.Date); apiErr != nil {
		return nil, apiErr
	}
	if _, apiErr := i.member(user, request.UserID); apiErr != nil {
		return nil, apiErr
	}

	prayer, err := i.store.UpsertPrayer(&model.Prayer{
		UserID:     request.UserID,
		PrayerName: request.PrayerName,
		Date:       request.Date,
		Status:     request.Status,
		TimePrayed: request.TimePrayed,
		InMasjid:   request.InMasjid,
	})
	if err != nil {
		return nil, api.Internal(err, "islamic.UpsertPrayer")
	}
	return prayer, nil
}

// PUT /api/islamic/prayers/:id
func (i *IslamicController) updatePrayer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	prayer, err := i.store.GetPrayer(id)
	if err != nil {
		return nil, api.StoreError(err, "Prayer not found", "islamic.GetPrayer")
	}
	if _, apiErr := i.member(user, prayer.UserID); apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdatePrayerRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.Status != nil {
		prayer.Status = *request.Status
	}
	if request.TimePrayed != nil {
		prayer.TimePrayed = request.TimePrayed
	}
	if request.InMasjid != nil {
		prayer.InMasjid = *request.InMasjid
	}

	updated, err := i.store.UpdatePrayer(prayer)
	if err != nil {
		return nil, api.StoreError(err, "Prayer not found", "islamic.UpdatePrayer")
	}
	return updated, nil
}

// GET /api/islamic/prayer-times?lat=&lon=&date=
func (i *IslamicController) getPrayerTimes(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, api.BadRequest("lat must be a number between -90 and 90")
	}
	lon, err := strconv.ParseFloat(ctx.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, api.BadRequest("lon must be a number between -180 and 180")
	}
	date := model.NewDate(i.now())
	if raw := api.QueryString(ctx, "date"); raw != nil {
		if date, err = model.ParseDate(*raw); err != nil {
			return nil, api.BadRequest("invalid date, expected YYYY-MM-DD")
		}
	}

	times, err := i.times.Times(ctx.Request.Context(), lat, lon, date)
	if err != nil {
		log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("prayer times lookup failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "Prayer times are unavailable right now"}
	}
	return times, nil
}
