// internal/app/features/tickets/types.go
package tickets

import (
	"net/http"
	"strings"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/store/tickets"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createTypeRequest struct {
	EventID       string  `json:"event_id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	QuantityLimit int     `json:"quantity_limit"`
}

// HandleCreateType opens a ticket class on a public event; organizers
// only. Private events cannot sell tickets.
//
// POST /api/tickets/types
func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createTypeRequest
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
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may sell tickets"))
		return
	}
	if ev.IsPrivate {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "tickets can only be sold for public events"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "ticket type name is required"))
		return
	case req.Amount < 0:
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "ticket price cannot be negative"))
		return
	case req.QuantityLimit < 1:
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "quantity limit must be at least 1"))
		return
	}

	t, err := h.Tickets.CreateType(r.Context(), models.TicketType{
		EventID:       eid,
		Name:          req.Name,
		Amount:        req.Amount,
		QuantityLimit: req.QuantityLimit,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "ticket type created", map[string]any{"ticket_type": t})
}

// ServeTypesList lists an event's ticket classes. Buying is open to the
// public, so browsing is too; the only check is that the event exists.
//
// GET /api/tickets/types?event_id=…
func (h *Handler) ServeTypesList(w http.ResponseWriter, r *http.Request) {
	eid, err := primitive.ObjectIDFromHex(r.URL.Query().Get("event_id"))
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	if _, err := h.Events.GetByID(r.Context(), eid); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	types, err := h.Tickets.ListTypesByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if types == nil {
		types = []models.TicketType{}
	}
	webjson.Write(w, http.StatusOK, types)
}

// loadType resolves the {id} URL parameter together with its event.
func (h *Handler) loadType(r *http.Request) (models.TicketType, models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.TicketType{}, models.Event{}, apperr.New(apperr.NotFound, "ticket type not found")
	}
	t, err := h.Tickets.GetType(r.Context(), id)
	if err != nil {
		return models.TicketType{}, models.Event{}, err
	}
	ev, err := h.Events.GetByID(r.Context(), t.EventID)
	if err != nil {
		return models.TicketType{}, models.Event{}, err
	}
	return t, ev, nil
}

type updateTypeRequest struct {
	Name          *string  `json:"name"`
	Amount        *float64 `json:"amount"`
	QuantityLimit *int     `json:"quantity_limit"`
}

// HandleUpdateType edits a ticket class; organizers only. The quantity
// limit can never drop below what has already been sold.
//
// PUT /api/tickets/types/{id}
func (h *Handler) HandleUpdateType(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	t, ev, err := h.loadType(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may edit ticket types"))
		return
	}

	var req updateTypeRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "ticket type name cannot be empty"))
		return
	}
	if req.Amount != nil && *req.Amount < 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "ticket price cannot be negative"))
		return
	}
	if req.QuantityLimit != nil && *req.QuantityLimit < t.SoldQuantity {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "quantity limit cannot drop below tickets already sold"))
		return
	}

	updated, err := h.Tickets.UpdateType(r.Context(), t.ID, ticketstore.TypeUpdate{
		Name:          req.Name,
		Amount:        req.Amount,
		QuantityLimit: req.QuantityLimit,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "ticket type updated", map[string]any{"ticket_type": updated})
}

// HandleDeleteType removes a ticket class; organizers only, and only while
// nothing has been sold against it.
//
// DELETE /api/tickets/types/{id}
func (h *Handler) HandleDeleteType(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	t, ev, err := h.loadType(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may delete ticket types"))
		return
	}
	if t.SoldQuantity > 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "tickets have already been sold for this type"))
		return
	}

	if err := h.Tickets.DeleteType(r.Context(), t.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "ticket type deleted", nil)
}
