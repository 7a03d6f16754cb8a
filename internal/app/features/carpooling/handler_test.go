package carpooling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convenehq/convene/internal/app/store/carpooling"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/convenehq/convene/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRideStore struct {
	rides map[primitive.ObjectID]models.Carpooling
}

func (f *fakeRideStore) Create(_ context.Context, cp models.Carpooling) (models.Carpooling, error) {
	cp.ID = primitive.NewObjectID()
	if cp.Passengers == nil {
		cp.Passengers = []primitive.ObjectID{}
	}
	f.rides[cp.ID] = cp
	return cp, nil
}

func (f *fakeRideStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Carpooling, error) {
	cp, ok := f.rides[id]
	if !ok {
		return models.Carpooling{}, apperr.New(apperr.NotFound, "ride not found")
	}
	return cp, nil
}

func (f *fakeRideStore) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.Carpooling, error) {
	var out []models.Carpooling
	for _, cp := range f.rides {
		if cp.EventID == eventID {
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeRideStore) UpdateOffer(_ context.Context, id primitive.ObjectID, upd carpoolingstore.OfferUpdate) (models.Carpooling, error) {
	cp, ok := f.rides[id]
	if !ok {
		return models.Carpooling{}, apperr.New(apperr.NotFound, "ride not found")
	}
	if upd.AvailableSeats != nil {
		if *upd.AvailableSeats < len(cp.Passengers) {
			return models.Carpooling{}, apperr.New(apperr.Invalid, "seat count cannot drop below booked passengers")
		}
		cp.AvailableSeats = *upd.AvailableSeats
	}
	if upd.DepartureLocation != nil {
		cp.DepartureLocation = *upd.DepartureLocation
	}
	if upd.DepartureTime != nil {
		cp.DepartureTime = *upd.DepartureTime
	}
	if upd.Price != nil {
		cp.Price = *upd.Price
	}
	if upd.MaxTimeDeviation != nil {
		cp.MaxTimeDeviation = *upd.MaxTimeDeviation
	}
	f.rides[id] = cp
	return cp, nil
}

func (f *fakeRideStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.rides[id]; !ok {
		return apperr.New(apperr.NotFound, "ride not found")
	}
	delete(f.rides, id)
	return nil
}

func (f *fakeRideStore) Join(_ context.Context, id, userID primitive.ObjectID) (models.Carpooling, error) {
	cp, ok := f.rides[id]
	if !ok || cp.Driver == userID || cp.HasPassenger(userID) || cp.SeatsLeft() < 1 {
		return models.Carpooling{}, apperr.New(apperr.Invalid, "no seat available on this ride")
	}
	cp.Passengers = append(cp.Passengers, userID)
	f.rides[id] = cp
	return cp, nil
}

func (f *fakeRideStore) Leave(_ context.Context, id, userID primitive.ObjectID) (models.Carpooling, error) {
	cp, ok := f.rides[id]
	if !ok || !cp.HasPassenger(userID) {
		return models.Carpooling{}, apperr.New(apperr.Invalid, "you are not on this ride")
	}
	kept := cp.Passengers[:0:0]
	for _, p := range cp.Passengers {
		if p != userID {
			kept = append(kept, p)
		}
	}
	cp.Passengers = kept
	f.rides[id] = cp
	return cp, nil
}

type fakeEventReader struct {
	events map[primitive.ObjectID]models.Event
}

func (f *fakeEventReader) GetByID(_ context.Context, id primitive.ObjectID) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	return ev, nil
}

type fixture struct {
	h      *Handler
	store  *fakeRideStore
	events *fakeEventReader
}

func newFixture() *fixture {
	f := &fixture{
		store:  &fakeRideStore{rides: map[primitive.ObjectID]models.Carpooling{}},
		events: &fakeEventReader{events: map[primitive.ObjectID]models.Event{}},
	}
	f.h = NewHandler(f.store, f.events, zap.NewNop())
	return f
}

func (f *fixture) seedRide(ev models.Event, driver primitive.ObjectID, seats int) models.Carpooling {
	f.events.events[ev.ID] = ev
	cp, _ := f.store.Create(context.Background(), models.Carpooling{
		EventID:           ev.ID,
		Driver:            driver,
		DepartureLocation: "main station",
		DepartureTime:     time.Now().Add(48 * time.Hour),
		AvailableSeats:    seats,
	})
	return cp
}

func (f *fixture) join(t *testing.T, rideID, userID primitive.ObjectID) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/join", nil), userID)
	req = testutil.WithChiURLParam(req, "id", rideID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleJoinRide(rec, req)
	return rec
}

func carpoolEvent(participants ...primitive.ObjectID) models.Event {
	return models.Event{
		ID:                primitive.NewObjectID(),
		Organizers:        []primitive.ObjectID{primitive.NewObjectID()},
		Participants:      participants,
		CarpoolingEnabled: true,
	}
}

func TestOfferRideMembersOnly(t *testing.T) {
	f := newFixture()
	ev := carpoolEvent()
	f.events.events[ev.ID] = ev

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"event_id":           ev.ID.Hex(),
		"departure_location": "main station",
		"departure_time":     time.Now().Add(24 * time.Hour),
		"available_seats":    3,
	})
	req = testutil.WithUser(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()
	f.h.HandleOfferRide(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestOfferRideNeedsCarpoolingEnabled(t *testing.T) {
	f := newFixture()
	member := primitive.NewObjectID()
	ev := carpoolEvent(member)
	ev.CarpoolingEnabled = false
	f.events.events[ev.ID] = ev

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"event_id":           ev.ID.Hex(),
		"departure_location": "main station",
		"departure_time":     time.Now().Add(24 * time.Hour),
		"available_seats":    3,
	})
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()
	f.h.HandleOfferRide(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestJoinRideOpenToAnyAccount(t *testing.T) {
	f := newFixture()
	ride := f.seedRide(carpoolEvent(), primitive.NewObjectID(), 2)
	stranger := primitive.NewObjectID()

	rec := f.join(t, ride.ID, stranger)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !f.store.rides[ride.ID].HasPassenger(stranger) {
		t.Fatal("rider not on passenger list after join")
	}
}

func TestJoinRideFullCar(t *testing.T) {
	f := newFixture()
	ride := f.seedRide(carpoolEvent(), primitive.NewObjectID(), 1)

	if rec := f.join(t, ride.ID, primitive.NewObjectID()); rec.Code != http.StatusOK {
		t.Fatalf("first join status = %d", rec.Code)
	}
	rec := f.join(t, ride.ID, primitive.NewObjectID())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("full-car join status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestJoinRideDriverRejected(t *testing.T) {
	f := newFixture()
	driver := primitive.NewObjectID()
	ride := f.seedRide(carpoolEvent(), driver, 2)

	rec := f.join(t, ride.ID, driver)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateRideSeatsNeverBelowBooked(t *testing.T) {
	f := newFixture()
	driver := primitive.NewObjectID()
	ride := f.seedRide(carpoolEvent(), driver, 3)
	f.join(t, ride.ID, primitive.NewObjectID())
	f.join(t, ride.ID, primitive.NewObjectID())

	req := testutil.NewJSONRequest(t, http.MethodPut, "/x", map[string]any{"available_seats": 1})
	req = testutil.WithUser(req, driver)
	req = testutil.WithChiURLParam(req, "id", ride.ID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleUpdateRide(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestUpdateRideDriverOnly(t *testing.T) {
	f := newFixture()
	ride := f.seedRide(carpoolEvent(), primitive.NewObjectID(), 3)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/x", map[string]any{"price": 10})
	req = testutil.WithUser(req, primitive.NewObjectID())
	req = testutil.WithChiURLParam(req, "id", ride.ID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleUpdateRide(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestDeleteRideDriverOnly(t *testing.T) {
	f := newFixture()
	ev := carpoolEvent()
	driver := primitive.NewObjectID()
	ride := f.seedRide(ev, driver, 3)

	// An organizer is not the driver and may not withdraw the offer.
	req := testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/x", nil), ev.Organizers[0])
	req = testutil.WithChiURLParam(req, "id", ride.ID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleDeleteRide(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("organizer delete status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/x", nil), driver)
	req = testutil.WithChiURLParam(req, "id", ride.ID.Hex())
	rec = httptest.NewRecorder()
	f.h.HandleDeleteRide(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("driver delete status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := f.store.rides[ride.ID]; ok {
		t.Fatal("ride still present after delete")
	}
}

func TestLeaveRideFreesSeat(t *testing.T) {
	f := newFixture()
	ride := f.seedRide(carpoolEvent(), primitive.NewObjectID(), 1)
	rider := primitive.NewObjectID()
	f.join(t, ride.ID, rider)

	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/leave", nil), rider)
	req = testutil.WithChiURLParam(req, "id", ride.ID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleLeaveRide(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("leave status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec2 := f.join(t, ride.ID, primitive.NewObjectID()); rec2.Code != http.StatusOK {
		t.Fatalf("seat not freed, join status = %d", rec2.Code)
	}
}
