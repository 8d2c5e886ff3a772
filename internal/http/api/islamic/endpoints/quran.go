package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

func withPercentage(p model.QuranProgress) packets.QuranProgress {
	pct := 0.0
	if p.TotalVerses > 0 {
		pct = model.Round1(float64(p.VersesMemorized) / float64(p.TotalVerses) * 100)
	}
	return packets.QuranProgress{QuranProgress: p, ProgressPercentage: pct}
}

// GET /api/islamic/quran/surahs
func (i *IslamicController) listSurahs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return model.Surahs, nil
}

// GET /api/islamic/quran/:user_id
func (i *IslamicController) getQuranProgress(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	userID, apiErr := i.memberParam(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	rows, err := i.store.ListQuranProgress(userID)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListQuranProgress")
	}
	out := make([]packets.QuranProgress, 0, len(rows))
	for _, p := range rows {
		out = append(out, withPercentage(p))
	}
	return out, nil
}

// POST /api/islamic/quran
func (i *IslamicController) upsertQuranProgress(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.QuranProgressRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if _, apiErr := i.member(user, request.UserID); apiErr != nil {
		return nil, apiErr
	}

	p := &model.QuranProgress{
		UserID:          request.UserID,
		SurahNumber:     request.SurahNumber,
		SurahName:       request.SurahName,
		TotalVerses:     request.TotalVerses,
		VersesMemorized: request.VersesMemorized,
		Status:          request.Status,
	}
	if surah, ok := model.LookupSurah(request.SurahNumber); ok {
		if p.SurahName == "" {
			p.SurahName = surah.Name
		}
		if p.TotalVerses == 0 {
			p.TotalVerses = surah.Verses
		}
	}
	if p.SurahName == "" || p.TotalVerses == 0 {
		return nil, api.BadRequest("surah_name and total_verses are required for this surah")
	}
	if p.Status == "" {
		p.Status = model.SurahInProgress
	}
	now := i.now()
	p.StartedAt = &now
	markMemorized(p, now)

	saved, err := i.store.UpsertQuranProgress(p)
	if err != nil {
		return nil, api.Internal(err, "islamic.UpsertQuranProgress")
	}
	return withPercentage(*saved), nil
}

// PUT /api/islamic/quran/:id
func (i *IslamicController) updateQuranProgress(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	p, err := i.store.GetQuranProgress(id)
	if err != nil {
		return nil, api.StoreError(err, "Progress not found", "islamic.GetQuranProgress")
	}
	if _, apiErr := i.member(user, p.UserID); apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateQuranProgressRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.VersesMemorized != nil {
		p.VersesMemorized = *request.VersesMemorized
	}
	if request.Status != nil {
		p.Status = *request.Status
	}
	if request.LastRevisionDate != nil {
		p.LastRevisionDate = request.LastRevisionDate
	}
	markMemorized(p, i.now())

	updated, err := i.store.UpdateQuranProgress(p)
	if err != nil {
		return nil, api.StoreError(err, "Progress not found", "islamic.UpdateQuranProgress")
	}
	return withPercentage(*updated), nil
}

// markMemorized completes a surah once every verse is memorized.
func markMemorized(p *model.QuranProgress, now time.Time) {
	if p.TotalVerses > 0 && p.VersesMemorized >= p.TotalVerses {
		p.VersesMemorized = p.TotalVerses
		p.Status = model.SurahMemorized
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
	}
}
