// internal/app/features/shoppinglist/items.go
package shoppinglist

import (
	"net/http"
	"strings"
	"time"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/store/shoppinglist"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addItemRequest struct {
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	ArrivalTime time.Time `json:"arrival_time"`
}

// HandleAddItem puts an item on the event's shopping list; event members
// only, and only while the feature is enabled. Item names are unique per
// event, ignoring case.
//
// POST /api/shopping-list
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req addItemRequest
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
	if !eventpolicy.IsMember(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may use the shopping list"))
		return
	}
	if !ev.ShoppingListEnabled {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the shopping list is disabled for this event"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "item name is required"))
		return
	}
	if req.Quantity < 1 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "quantity must be at least 1"))
		return
	}

	item, err := h.Items.Create(r.Context(), models.ShoppingListItem{
		EventID:     eid,
		BroughtBy:   uid,
		Name:        req.Name,
		Quantity:    req.Quantity,
		ArrivalTime: req.ArrivalTime,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "item added", map[string]any{"item": item})
}

// ServeItemsList lists the event's shopping list.
//
// GET /api/shopping-list?event_id=…
func (h *Handler) ServeItemsList(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.Items.ListByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if items == nil {
		items = []models.ShoppingListItem{}
	}
	webjson.Write(w, http.StatusOK, items)
}

// loadItem resolves the {id} URL parameter together with its event.
func (h *Handler) loadItem(r *http.Request) (models.ShoppingListItem, models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.ShoppingListItem{}, models.Event{}, apperr.New(apperr.NotFound, "shopping list item not found")
	}
	item, err := h.Items.GetByID(r.Context(), id)
	if err != nil {
		return models.ShoppingListItem{}, models.Event{}, err
	}
	ev, err := h.Events.GetByID(r.Context(), item.EventID)
	if err != nil {
		return models.ShoppingListItem{}, models.Event{}, err
	}
	return item, ev, nil
}

type updateItemRequest struct {
	Quantity    *int       `json:"quantity"`
	ArrivalTime *time.Time `json:"arrival_time"`
}

// HandleUpdateItem edits an item's quantity or arrival time; the user who
// brings it only. The name stays fixed so the per-event uniqueness cannot
// be raced through renames.
//
// PUT /api/shopping-list/{id}
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	item, _, err := h.loadItem(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if item.BroughtBy != uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the person bringing the item may edit it"))
		return
	}

	var req updateItemRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "quantity must be at least 1"))
		return
	}

	updated, err := h.Items.Update(r.Context(), item.ID, shoppingliststore.ItemUpdate{
		Quantity:    req.Quantity,
		ArrivalTime: req.ArrivalTime,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "item updated", map[string]any{"item": updated})
}

// HandleDeleteItem removes an item; the person bringing it or an event
// organizer.
//
// DELETE /api/shopping-list/{id}
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	item, ev, err := h.loadItem(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if item.BroughtBy != uid && !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the person bringing the item or an organizer may remove it"))
		return
	}

	if err := h.Items.Delete(r.Context(), item.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "item deleted", nil)
}
