// internal/app/features/polls/polls.go
package polls

import (
	"net/http"
	"strings"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadPoll resolves the {id} URL parameter together with its event.
func (h *Handler) loadPoll(r *http.Request) (models.Poll, models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Poll{}, models.Event{}, apperr.New(apperr.NotFound, "poll not found")
	}
	p, err := h.Polls.GetByID(r.Context(), id)
	if err != nil {
		return models.Poll{}, models.Event{}, err
	}
	ev, err := h.Events.GetByID(r.Context(), p.EventID)
	if err != nil {
		return models.Poll{}, models.Event{}, err
	}
	return p, ev, nil
}

type createPollQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type createPollRequest struct {
	EventID   string               `json:"event_id"`
	Title     string               `json:"title"`
	Questions []createPollQuestion `json:"questions"`
}

// HandleCreatePoll opens a poll on an event; organizers only.
//
// POST /api/polls
func (h *Handler) HandleCreatePoll(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createPollRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	eid, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	ev, err := h.Events.GetByID(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may create polls"))
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "poll title is required"))
		return
	}
	if len(req.Questions) == 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a poll needs at least one question"))
		return
	}
	questions := make([]models.PollQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 {
			webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "every question needs text and at least two options"))
			return
		}
		questions = append(questions, models.PollQuestion{
			Question: q.Question,
			Options:  q.Options,
		})
	}

	p, err := h.Polls.Create(r.Context(), models.Poll{
		EventID:   eid,
		CreatedBy: uid,
		Title:     req.Title,
		Questions: questions,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "poll created", map[string]any{"poll": p})
}

// ServePollsList lists the polls of one event.
//
// GET /api/polls?event_id=…
func (h *Handler) ServePollsList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	eid, err := primitive.ObjectIDFromHex(r.URL.Query().Get("event_id"))
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	ev, err := h.Events.GetByID(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}

	polls, err := h.Polls.ListByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if polls == nil {
		polls = []models.Poll{}
	}
	webjson.Write(w, http.StatusOK, polls)
}

// ServePoll returns one poll with its responses.
//
// GET /api/polls/{id}
func (h *Handler) ServePoll(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	p, ev, err := h.loadPoll(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}
	webjson.OK(w, "poll", map[string]any{"poll": p})
}

// HandleDeletePoll removes a poll; organizers only.
//
// DELETE /api/polls/{id}
func (h *Handler) HandleDeletePoll(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	p, ev, err := h.loadPoll(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may delete polls"))
		return
	}

	if err := h.Polls.Delete(r.Context(), p.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "poll deleted", nil)
}

type answerPollRequest struct {
	Answers []string `json:"answers"`
}

// HandleAnswerPoll records the caller's ballot: one answer per question,
// all at once, at most once ever. The store applies the ballot as a single
// document update, so two racing submissions cannot both land.
//
// POST /api/polls/{id}/answers
func (h *Handler) HandleAnswerPoll(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	p, ev, err := h.loadPoll(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsMember(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may answer polls"))
		return
	}

	var req answerPollRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if len(req.Answers) != len(p.Questions) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "answer every question of the poll"))
		return
	}
	for i, answer := range req.Answers {
		if !validOption(p.Questions[i].Options, answer) {
			webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "answers must pick one of the question's options"))
			return
		}
	}
	if p.HasAnswered(uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you have already answered this poll"))
		return
	}

	if err := h.Polls.RecordBallot(r.Context(), p.ID, uid, req.Answers); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "ballot recorded", nil)
}

func validOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
