package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Status lets a handler answer with something other than 200.
type Status struct {
	Code int
	Body any
}

func Created(body any) Status { return Status{Code: http.StatusCreated, Body: body} }

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFuncWithAdmin func(ctx *gin.Context, admin *model.Admin) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func BadRequest(msg string) *APIError { return &APIError{Code: http.StatusBadRequest, Message: msg} }
func Forbidden(msg string) *APIError  { return &APIError{Code: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *APIError   { return &APIError{Code: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *APIError   { return &APIError{Code: http.StatusConflict, Message: msg} }

// Internal logs err and hides it behind a generic message.
func Internal(err error, op string) *APIError {
	log.Error().Err(err).Str("op", op).Msg("request failed")
	return &APIError{Code: http.StatusInternalServerError, Message: "Something went wrong, please try again"}
}

// StoreError maps db.ErrNotFound to 404 and everything else to 500.
func StoreError(err error, notFound string, op string) *APIError {
	if errors.Is(err, db.ErrNotFound) {
		return NotFound(notFound)
	}
	return Internal(err, op)
}

// Taken maps a uniqueness lookup to msg when the row exists. Not found means the value is free.
func Taken(err error, msg string, op string) *APIError {
	switch {
	case err == nil:
		return BadRequest(msg)
	case errors.Is(err, db.ErrNotFound):
		return nil
	default:
		return Internal(err, op)
	}
}

func respond(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if s, ok := result.(Status); ok {
		ctx.JSON(s.Code, s.Body)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpointWithAdmin(h HandlerFuncWithAdmin) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		admin, ok := middleware.GetCurrentAdmin(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, admin)
		respond(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, result, apiErr)
	}
}
