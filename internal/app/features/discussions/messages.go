// internal/app/features/discussions/messages.go
package discussions

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/policy/discussionpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type postMessageRequest struct {
	Content       string `json:"content"`
	ParentMessage string `json:"parent_message"`
}

// HandlePostMessage adds a message, optionally as a reply to an existing
// message of the same discussion.
//
// POST /api/discussions/{id}/messages
func (h *Handler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	d, err := h.loadDiscussion(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	parent, err := h.resolveParent(r, d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !discussionpolicy.CanPost(parent, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you may not post in this discussion"))
		return
	}

	var req postMessageRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "message content is required"))
		return
	}

	m := models.Message{
		DiscussionID: d.ID,
		Author:       uid,
		Content:      content,
	}
	if req.ParentMessage != "" {
		pid, err := primitive.ObjectIDFromHex(req.ParentMessage)
		if err != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "parent message not found"))
			return
		}
		pm, err := h.Messages.GetByID(r.Context(), pid)
		if err != nil {
			webjson.Error(w, h.Log, err)
			return
		}
		if pm.DiscussionID != d.ID {
			webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the parent message belongs to another discussion"))
			return
		}
		m.ParentMessage = &pid
	}

	created, err := h.Messages.Create(r.Context(), m)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if err := h.Discussions.PushMessage(r.Context(), d.ID, created.ID); err != nil {
		h.Log.Warn("message not linked to discussion",
			zap.String("message_id", created.ID.Hex()), zap.Error(err))
	}
	if created.ParentMessage != nil {
		if err := h.Messages.PushReply(r.Context(), *created.ParentMessage, created.ID); err != nil {
			h.Log.Warn("reply not linked to parent",
				zap.String("message_id", created.ID.Hex()), zap.Error(err))
		}
	}
	webjson.Created(w, "message posted", map[string]any{"msg": created})
}

// loadMessage resolves the {messageID} URL parameter against the
// discussion already loaded: a message reached through the wrong
// discussion reads as not found.
func (h *Handler) loadMessage(r *http.Request, d models.Discussion) (models.Message, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "messageID"))
	if err != nil {
		return models.Message{}, apperr.New(apperr.NotFound, "message not found")
	}
	m, err := h.Messages.GetByID(r.Context(), id)
	if err != nil {
		return models.Message{}, err
	}
	if m.DiscussionID != d.ID {
		return models.Message{}, apperr.New(apperr.NotFound, "message not found")
	}
	return m, nil
}

type updateMessageRequest struct {
	Content string `json:"content"`
}

// HandleUpdateMessage edits a message's content; authors only.
//
// PUT /api/discussions/{id}/messages/{messageID}
func (h *Handler) HandleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	d, err := h.loadDiscussion(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	m, err := h.loadMessage(r, d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if m.Author != uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the author may edit a message"))
		return
	}

	var req updateMessageRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "message content is required"))
		return
	}

	updated, err := h.Messages.UpdateContent(r.Context(), m.ID, content)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "message updated", map[string]any{"msg": updated})
}

// HandleDeleteMessage removes a message; authors only. The message is
// pulled from the discussion list and its parent's replies; its own
// replies stay with a dangling parent reference.
//
// DELETE /api/discussions/{id}/messages/{messageID}
func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	d, err := h.loadDiscussion(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	m, err := h.loadMessage(r, d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if m.Author != uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the author may delete a message"))
		return
	}

	if err := h.Messages.Delete(r.Context(), m.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if err := h.Discussions.PullMessage(r.Context(), d.ID, m.ID); err != nil {
		h.Log.Warn("message not unlinked from discussion",
			zap.String("message_id", m.ID.Hex()), zap.Error(err))
	}
	if m.ParentMessage != nil {
		if err := h.Messages.PullReply(r.Context(), *m.ParentMessage, m.ID); err != nil {
			h.Log.Warn("reply not unlinked from parent",
				zap.String("message_id", m.ID.Hex()), zap.Error(err))
		}
	}
	webjson.OK(w, "message deleted", nil)
}
