package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// IDParam parses a positive integer path parameter.
func IDParam(ctx *gin.Context, name string) (int, *APIError) {
	raw := ctx.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		log.Error().Err(err).Str("id_raw", raw).Str("param", name).Msg("invalid id in request")
		return 0, BadRequest("invalid id")
	}
	return id, nil
}

// QueryInt returns nil when the query parameter is absent.
func QueryInt(ctx *gin.Context, name string) (*int, *APIError) {
	raw, ok := ctx.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, BadRequest("invalid " + name)
	}
	return &v, nil
}

func QueryString(ctx *gin.Context, name string) *string {
	raw, ok := ctx.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	return &raw
}

func QueryBool(ctx *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(ctx.Query(name))
	return v
}

func DateParam(ctx *gin.Context, name string) (model.Date, *APIError) {
	d, err := model.ParseDate(ctx.Param(name))
	if err != nil {
		return model.Date{}, BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}

// Bind decodes the JSON body, reporting validation failures as 400.
func Bind(ctx *gin.Context, dst any) *APIError {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		log.Debug().Err(err).Str("path", ctx.FullPath()).Msg("invalid request body")
		return BadRequest(err.Error())
	}
	return nil
}

// FamilyOf returns the caller's family id or a 400 when the caller has none.
func FamilyOf(user *model.User) (int, *APIError) {
	if user.FamilyID == nil {
		return 0, BadRequest("You are not part of a family")
	}
	return *user.FamilyID, nil
}

func RequireParent(user *model.User) *APIError {
	if !user.IsParent() {
		return Forbidden("Only parents can perform this action")
	}
	return nil
}
