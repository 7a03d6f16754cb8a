// internal/app/features/carpooling/rides.go
package carpooling

import (
	"net/http"
	"strings"
	"time"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/store/carpooling"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type offerRideRequest struct {
	EventID           string    `json:"event_id"`
	DepartureLocation string    `json:"departure_location"`
	DepartureTime     time.Time `json:"departure_time"`
	Price             float64   `json:"price"`
	AvailableSeats    int       `json:"available_seats"`
	MaxTimeDeviation  int       `json:"max_time_deviation"`
}

// HandleOfferRide publishes a ride offer for an event; event members only,
// and only while carpooling is enabled for the event.
//
// POST /api/carpooling
func (h *Handler) HandleOfferRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req offerRideRequest
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
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may offer rides"))
		return
	}
	if !ev.CarpoolingEnabled {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "carpooling is disabled for this event"))
		return
	}
	req.DepartureLocation = strings.TrimSpace(req.DepartureLocation)
	if req.DepartureLocation == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "departure location is required"))
		return
	}
	if req.DepartureTime.IsZero() {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "departure time is required"))
		return
	}
	if req.AvailableSeats < 1 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a ride needs at least one seat"))
		return
	}
	if req.Price < 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "price cannot be negative"))
		return
	}
	if req.MaxTimeDeviation < 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "time deviation cannot be negative"))
		return
	}

	ride, err := h.Rides.Create(r.Context(), models.Carpooling{
		EventID:           eid,
		Driver:            uid,
		DepartureLocation: req.DepartureLocation,
		DepartureTime:     req.DepartureTime,
		Price:             req.Price,
		AvailableSeats:    req.AvailableSeats,
		MaxTimeDeviation:  req.MaxTimeDeviation,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "ride offered", map[string]any{"ride": ride})
}

// ServeRidesList lists the event's ride offers, soonest departure first.
//
// GET /api/carpooling?event_id=…
func (h *Handler) ServeRidesList(w http.ResponseWriter, r *http.Request) {
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

	rides, err := h.Rides.ListByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if rides == nil {
		rides = []models.Carpooling{}
	}
	webjson.Write(w, http.StatusOK, rides)
}

// loadRide resolves the {id} URL parameter together with its event.
func (h *Handler) loadRide(r *http.Request) (models.Carpooling, models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Carpooling{}, models.Event{}, apperr.New(apperr.NotFound, "ride not found")
	}
	ride, err := h.Rides.GetByID(r.Context(), id)
	if err != nil {
		return models.Carpooling{}, models.Event{}, err
	}
	ev, err := h.Events.GetByID(r.Context(), ride.EventID)
	if err != nil {
		return models.Carpooling{}, models.Event{}, err
	}
	return ride, ev, nil
}

// ServeRide returns a single ride offer.
//
// GET /api/carpooling/{id}
func (h *Handler) ServeRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ride, ev, err := h.loadRide(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}
	webjson.OK(w, "ride", map[string]any{"ride": ride})
}

type updateRideRequest struct {
	DepartureLocation *string    `json:"departure_location"`
	DepartureTime     *time.Time `json:"departure_time"`
	Price             *float64   `json:"price"`
	AvailableSeats    *int       `json:"available_seats"`
	MaxTimeDeviation  *int       `json:"max_time_deviation"`
}

// HandleUpdateRide edits a ride offer; driver only. The seat count can
// never drop below the passengers already on board.
//
// PUT /api/carpooling/{id}
func (h *Handler) HandleUpdateRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ride, _, err := h.loadRide(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if ride.Driver != uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the driver may edit this ride"))
		return
	}

	var req updateRideRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.DepartureLocation != nil {
		loc := strings.TrimSpace(*req.DepartureLocation)
		if loc == "" {
			webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "departure location is required"))
			return
		}
		req.DepartureLocation = &loc
	}
	if req.DepartureTime != nil && req.DepartureTime.IsZero() {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "departure time is required"))
		return
	}
	if req.AvailableSeats != nil && *req.AvailableSeats < 1 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a ride needs at least one seat"))
		return
	}
	if req.Price != nil && *req.Price < 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "price cannot be negative"))
		return
	}
	if req.MaxTimeDeviation != nil && *req.MaxTimeDeviation < 0 {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "time deviation cannot be negative"))
		return
	}

	updated, err := h.Rides.UpdateOffer(r.Context(), ride.ID, carpoolingstore.OfferUpdate{
		DepartureLocation: req.DepartureLocation,
		DepartureTime:     req.DepartureTime,
		Price:             req.Price,
		AvailableSeats:    req.AvailableSeats,
		MaxTimeDeviation:  req.MaxTimeDeviation,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "ride updated", map[string]any{"ride": updated})
}

// HandleDeleteRide withdraws a ride offer; driver only, passengers
// simply lose their seat.
//
// DELETE /api/carpooling/{id}
func (h *Handler) HandleDeleteRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ride, _, err := h.loadRide(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if ride.Driver != uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the driver may withdraw this ride"))
		return
	}
	if err := h.Rides.Delete(r.Context(), ride.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "ride withdrawn", nil)
}

// HandleJoinRide books a seat. Anyone with an account may ride along,
// attending the event is not required; the guarded update keeps the
// driver out of the passenger list and never overbooks.
//
// POST /api/carpooling/{id}/join
func (h *Handler) HandleJoinRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ride, _, err := h.loadRide(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if ride.Driver == uid {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the driver already has a seat"))
		return
	}
	if ride.HasPassenger(uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you are already on this ride"))
		return
	}
	updated, err := h.Rides.Join(r.Context(), ride.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "seat booked", map[string]any{"ride": updated})
}

// HandleLeaveRide gives a booked seat back.
//
// POST /api/carpooling/{id}/leave
func (h *Handler) HandleLeaveRide(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ride, _, err := h.loadRide(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !ride.HasPassenger(uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you are not on this ride"))
		return
	}
	updated, err := h.Rides.Leave(r.Context(), ride.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "seat released", map[string]any{"ride": updated})
}
