package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/db"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/notes/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

type NotesController struct {
	store db.Store
}

func NotesModule(store db.Store, features middleware.FeatureChecker) api.Module {
	ctl := &NotesController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		n := c.With(middleware.RequireFeature(features, model.FeatureNotes))
		n.GET("", ctl.listNotes)
		n.POST("", ctl.createNote)
		n.GET("/:id", ctl.getNote)
		n.PUT("/:id", ctl.updateNote)
		n.DELETE("/:id", ctl.deleteNote)
		n.POST("/:id/pin", ctl.togglePin)
		n.GET("/:id/versions", ctl.listVersions)
		n.POST("/:id/undo", ctl.undo)
	})
}

func (n *NotesController) note(ctx *gin.Context, user *model.User) (*model.Note, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	note, err := n.store.GetNote(user.ID, id)
	if err != nil {
		return nil, api.StoreError(err, "Note not found", "notes.GetNote")
	}
	return note, nil
}

// GET /api/notes?q=
func (n *NotesController) listNotes(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	notes, err := n.store.ListNotes(user.ID, strings.TrimSpace(ctx.Query("q")))
	if err != nil {
		return nil, api.Internal(err, "notes.ListNotes")
	}
	return notes, nil
}

// GET /api/notes/:id
func (n *NotesController) getNote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	note, apiErr := n.note(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return note, nil
}

// POST /api/notes
func (n *NotesController) createNote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateNoteRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if strings.TrimSpace(request.Title) == "" && strings.TrimSpace(request.Content) == "" {
		return nil, api.BadRequest("A note needs a title or content")
	}
	note, err := n.store.CreateNote(&model.Note{
		UserID:   user.ID,
		Title:    request.Title,
		Content:  request.Content,
		Color:    request.Color,
		IsPinned: request.IsPinned,
	})
	if err != nil {
		return nil, api.Internal(err, "notes.CreateNote")
	}
	return api.Created(note), nil
}

// PUT /api/notes/:id
// A stale version answers 409 with the stored note so the client can merge.
func (n *NotesController) updateNote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	note, apiErr := n.note(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateNoteRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.Title != nil {
		note.Title = *request.Title
	}
	if request.Content != nil {
		note.Content = *request.Content
	}
	if request.Color != nil {
		note.Color = request.Color
	}
	if request.IsPinned != nil {
		note.IsPinned = *request.IsPinned
	}

	updated, err := n.store.UpdateNote(note, request.Version)
	if errors.Is(err, db.ErrVersionConflict) {
		log.Info().Int("note_id", note.ID).Int("client_version", request.Version).Int("stored_version", updated.Version).Msg("note edit conflict")
		return api.Status{Code: http.StatusConflict, Body: packets.ConflictResponse{
			Error: "This note was changed somewhere else. Reload it before saving again.",
			Note:  *updated,
		}}, nil
	}
	if err != nil {
		return nil, api.StoreError(err, "Note not found", "notes.UpdateNote")
	}
	return updated, nil
}

// DELETE /api/notes/:id
func (n *NotesController) deleteNote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := n.store.DeleteNote(user.ID, id); err != nil {
		return nil, api.StoreError(err, "Note not found", "notes.DeleteNote")
	}
	return gin.H{"message": "Note deleted"}, nil
}

// POST /api/notes/:id/pin
func (n *NotesController) togglePin(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	note, apiErr := n.note(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	updated, err := n.store.SetNotePinned(user.ID, note.ID, !note.IsPinned)
	if err != nil {
		return nil, api.StoreError(err, "Note not found", "notes.SetNotePinned")
	}
	return updated, nil
}

// GET /api/notes/:id/versions
func (n *NotesController) listVersions(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	note, apiErr := n.note(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	versions, err := n.store.ListNoteVersions(note.ID)
	if err != nil {
		return nil, api.Internal(err, "notes.ListNoteVersions")
	}
	return versions, nil
}

// POST /api/notes/:id/undo
func (n *NotesController) undo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	note, err := n.store.UndoNote(user.ID, id)
	if errors.Is(err, db.ErrNothingToUndo) {
		return nil, api.BadRequest("Nothing to undo")
	}
	if err != nil {
		return nil, api.StoreError(err, "Note not found", "notes.UndoNote")
	}
	return note, nil
}
