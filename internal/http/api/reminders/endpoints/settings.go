package endpoints

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/reminders/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const maxSettingKey = 100

func settingKey(ctx *gin.Context) (string, *api.APIError) {
	key := strings.TrimSpace(ctx.Param("key"))
	if key == "" || len(key) > maxSettingKey {
		return "", api.BadRequest("invalid setting key")
	}
	return key, nil
}

// GET /api/settings
func (rc *RemindersController) listSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	settings, err := rc.store.ListSettings(familyID)
	if err != nil {
		return nil, api.Internal(err, "reminders.ListSettings")
	}
	out := make(map[string]*string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

// GET /api/settings/:key
func (rc *RemindersController) getSetting(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	key, apiErr := settingKey(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	setting, err := rc.store.GetSetting(familyID, key)
	if errors.Is(err, db.ErrNotFound) {
		return gin.H{"key": key, "value": nil}, nil
	}
	if err != nil {
		return nil, api.Internal(err, "reminders.GetSetting")
	}
	return gin.H{"key": setting.Key, "value": setting.Value}, nil
}

// PUT /api/settings/:key
func (rc *RemindersController) putSetting(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	if apiErr := api.RequireParent(user); apiErr != nil {
		return nil, apiErr
	}
	key, apiErr := settingKey(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.PutSettingRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	setting, err := rc.store.PutSetting(familyID, key, request.Value)
	if err != nil {
		return nil, api.Internal(err, "reminders.PutSetting")
	}
	return gin.H{"key": setting.Key, "value": setting.Value, "message": "Setting saved"}, nil
}
