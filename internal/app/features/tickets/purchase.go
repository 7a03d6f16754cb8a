// internal/app/features/tickets/purchase.go
package tickets

import (
	"net/http"
	"strings"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type purchaseRequest struct {
	TicketTypeID   string `json:"ticket_type_id"`
	BuyerFirstName string `json:"buyer_first_name"`
	BuyerLastName  string `json:"buyer_last_name"`
	BuyerAddress   string `json:"buyer_address"`
}

// HandlePurchase sells one ticket to a named buyer; no account required.
// A seat is reserved with a guarded counter increment before the ticket is
// written, so concurrent purchases can never oversell; if the buyer turns
// out to already hold a ticket the reservation is released again.
//
// POST /api/tickets/purchase
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	tid, err := primitive.ObjectIDFromHex(req.TicketTypeID)
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "ticket type not found"))
		return
	}
	t, err := h.Tickets.GetType(r.Context(), tid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if _, err := h.Events.GetByID(r.Context(), t.EventID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	req.BuyerFirstName = strings.TrimSpace(req.BuyerFirstName)
	req.BuyerLastName = strings.TrimSpace(req.BuyerLastName)
	req.BuyerAddress = strings.TrimSpace(req.BuyerAddress)
	if req.BuyerFirstName == "" || req.BuyerLastName == "" || req.BuyerAddress == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "buyer name and address are required"))
		return
	}

	if err := h.Tickets.IncrementSold(r.Context(), t.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	ticket, err := h.Tickets.CreateTicket(r.Context(), models.Ticket{
		TicketTypeID:   t.ID,
		EventID:        t.EventID,
		BuyerFirstName: req.BuyerFirstName,
		BuyerLastName:  req.BuyerLastName,
		BuyerAddress:   req.BuyerAddress,
	})
	if err != nil {
		// Give the reserved seat back; the sale did not happen.
		if derr := h.Tickets.DecrementSold(r.Context(), t.ID); derr != nil {
			h.Log.Error("seat reservation not released",
				zap.String("ticket_type_id", t.ID.Hex()), zap.Error(derr))
		}
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "ticket purchased", map[string]any{"ticket": ticket})
}

// ServeTicketsList lists an event's sold tickets; organizers only.
//
// GET /api/tickets?event_id=…
func (h *Handler) ServeTicketsList(w http.ResponseWriter, r *http.Request) {
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
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may list sold tickets"))
		return
	}

	tickets, err := h.Tickets.ListTicketsByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	webjson.Write(w, http.StatusOK, tickets)
}
