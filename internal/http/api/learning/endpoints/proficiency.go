package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/learning/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// GET /api/learning/proficiency/:user_id?subject=
func (l *LearningController) proficiency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	target, apiErr := l.member(ctx, user, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	rows, err := l.store.ListProficiency(target.ID, api.QueryString(ctx, "subject"))
	if err != nil {
		return nil, api.Internal(err, "learning.ListProficiency")
	}
	subjects := model.GroupProficiency(rows)
	if subjects == nil {
		subjects = []model.SubjectProficiency{}
	}
	return packets.ProficiencyResponse{UserID: target.ID, Subjects: subjects}, nil
}

// GET /api/learning/weak-areas/:user_id
func (l *LearningController) weakAreas(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	target, apiErr := l.member(ctx, user, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	rows, err := l.store.WeakAreas(target.ID)
	if err != nil {
		return nil, api.Internal(err, "learning.WeakAreas")
	}
	out := packets.WeakAreasResponse{UserID: target.ID, WeakAreas: make([]packets.WeakArea, 0, len(rows))}
	for _, p := range rows {
		out.WeakAreas = append(out.WeakAreas, packets.WeakArea{
			Subject:        p.SubjectName,
			Topic:          p.TopicName,
			Score:          model.Round1(p.Score),
			Recommendation: "Practice more " + p.TopicName + " problems",
		})
	}
	return out, nil
}
