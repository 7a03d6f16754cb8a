package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convenehq/convene/internal/app/store/events"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/convenehq/convene/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeEventStore struct {
	events map[primitive.ObjectID]models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[primitive.ObjectID]models.Event{}}
}

func (f *fakeEventStore) Create(_ context.Context, ev models.Event) (models.Event, error) {
	ev.ID = primitive.NewObjectID()
	if ev.Participants == nil {
		ev.Participants = []primitive.ObjectID{}
	}
	f.events[ev.ID] = ev
	return ev, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	return ev, nil
}

func (f *fakeEventStore) ListVisible(_ context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	var out []models.Event
	for _, ev := range f.events {
		if !ev.IsPrivate || has(ev.Participants, userID) || has(ev.Organizers, userID) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventStore) UpdateInfo(_ context.Context, id primitive.ObjectID, upd eventstore.InfoUpdate) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	if upd.Name != nil {
		ev.Name = *upd.Name
	}
	if upd.Description != nil {
		ev.Description = *upd.Description
	}
	if upd.IsPrivate != nil {
		ev.IsPrivate = *upd.IsPrivate
	}
	f.events[id] = ev
	return ev, nil
}

func (f *fakeEventStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.events[id]; !ok {
		return apperr.New(apperr.NotFound, "event not found")
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) Join(_ context.Context, id, userID primitive.ObjectID) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok || has(ev.Participants, userID) {
		return models.Event{}, apperr.New(apperr.Invalid, "you already participate in this event")
	}
	ev.Participants = append(ev.Participants, userID)
	f.events[id] = ev
	return ev, nil
}

func (f *fakeEventStore) Leave(_ context.Context, id, userID primitive.ObjectID) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok || !has(ev.Participants, userID) || has(ev.Organizers, userID) {
		return models.Event{}, apperr.New(apperr.Invalid, "you are not a participant of this event")
	}
	out := ev.Participants[:0:0]
	for _, p := range ev.Participants {
		if p != userID {
			out = append(out, p)
		}
	}
	ev.Participants = out
	f.events[id] = ev
	return ev, nil
}

func (f *fakeEventStore) SetShoppingList(_ context.Context, id primitive.ObjectID, enabled bool) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	ev.ShoppingListEnabled = enabled
	f.events[id] = ev
	return ev, nil
}

func (f *fakeEventStore) SetCarpooling(_ context.Context, id primitive.ObjectID, enabled bool) (models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	ev.CarpoolingEnabled = enabled
	f.events[id] = ev
	return ev, nil
}

type fakeGroupReader struct {
	groups map[primitive.ObjectID]models.Group
}

func (f *fakeGroupReader) GetByID(_ context.Context, id primitive.ObjectID) (models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return models.Group{}, apperr.New(apperr.NotFound, "group not found")
	}
	return g, nil
}

type fakeCleaner struct {
	calls int
}

func (f *fakeCleaner) DeleteByEvent(_ context.Context, _ primitive.ObjectID) error {
	f.calls++
	return nil
}

func has(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func newTestHandler(store *fakeEventStore, groups *fakeGroupReader) (*Handler, *fakeCleaner, *fakeCleaner) {
	if groups == nil {
		groups = &fakeGroupReader{groups: map[primitive.ObjectID]models.Group{}}
	}
	shopping, rides := &fakeCleaner{}, &fakeCleaner{}
	return NewHandler(store, groups, shopping, rides, zap.NewNop()), shopping, rides
}

func seedEvent(store *fakeEventStore, organizer primitive.ObjectID, private bool, participants ...primitive.ObjectID) models.Event {
	ev, _ := store.Create(context.Background(), models.Event{
		Name:         "picnic",
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(2 * time.Hour),
		IsPrivate:    private,
		Organizers:   []primitive.ObjectID{organizer},
		Participants: participants,
	})
	return ev
}

func TestJoinPrivateEventMakesItReadable(t *testing.T) {
	store := newFakeEventStore()
	organizer, user := primitive.NewObjectID(), primitive.NewObjectID()
	ev := seedEvent(store, organizer, true)
	h, _, _ := newTestHandler(store, nil)

	// Before joining, the private event cannot be read.
	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/x", nil), user)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeEvent(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("read before join status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Joining is open to any account; privacy gates reading, not joining.
	req = testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/join", nil), user)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleJoinEvent(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("join status = %d: %s", rec.Code, rec.Body.String())
	}
	if !has(store.events[ev.ID].Participants, user) {
		t.Fatal("user missing from participants after join")
	}

	// As a participant the private event is now readable.
	req = testutil.WithUser(httptest.NewRequest(http.MethodGet, "/x", nil), user)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeEvent(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("read after join status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestJoinPublicEventAddsParticipant(t *testing.T) {
	store := newFakeEventStore()
	organizer, user := primitive.NewObjectID(), primitive.NewObjectID()
	ev := seedEvent(store, organizer, false)
	h, _, _ := newTestHandler(store, nil)

	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/join", nil), user)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleJoinEvent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !has(store.events[ev.ID].Participants, user) {
		t.Fatal("user missing from participants after join")
	}

	// A second join is a plain business-rule rejection.
	req = testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/join", nil), user)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleJoinEvent(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("double join status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestOrganizerCannotLeave(t *testing.T) {
	store := newFakeEventStore()
	organizer := primitive.NewObjectID()
	ev := seedEvent(store, organizer, false, organizer)
	h, _, _ := newTestHandler(store, nil)

	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/x/leave", nil), organizer)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleLeaveEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDeleteEventRequiresOrganizerAndCleansUp(t *testing.T) {
	store := newFakeEventStore()
	organizer, participant := primitive.NewObjectID(), primitive.NewObjectID()
	ev := seedEvent(store, organizer, false, participant)
	h, shopping, rides := newTestHandler(store, nil)

	req := testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/x", nil), participant)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDeleteEvent(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("participant delete status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/x", nil), organizer)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleDeleteEvent(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("organizer delete status = %d: %s", rec.Code, rec.Body.String())
	}
	if shopping.calls != 1 || rides.calls != 1 {
		t.Fatalf("cleanup calls = %d/%d, want 1/1", shopping.calls, rides.calls)
	}
}

func TestCreateEventFromGroupSeedsParticipants(t *testing.T) {
	store := newFakeEventStore()
	admin, member, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	gid := primitive.NewObjectID()
	groups := &fakeGroupReader{groups: map[primitive.ObjectID]models.Group{
		gid: {
			ID:                gid,
			Type:              models.GroupTypePublic,
			AllowMemberEvents: true,
			Administrators:    []primitive.ObjectID{admin},
			Members:           []primitive.ObjectID{member, other},
		},
	}}
	h, _, _ := newTestHandler(store, groups)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":       "group outing",
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"group_id":   gid.Hex(),
	})
	req = testutil.WithUser(req, member)
	rec := httptest.NewRecorder()
	h.HandleCreateEvent(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Event
	for _, ev := range store.events {
		created = ev
	}
	if !has(created.Organizers, member) {
		t.Fatal("creator must be an organizer")
	}
	if has(created.Participants, member) {
		t.Fatal("creator must not also be a participant")
	}
	if !has(created.Participants, admin) || !has(created.Participants, other) {
		t.Fatalf("group members missing from participants: %v", created.Participants)
	}
}

func TestCreateEventFromGroupForbiddenForNonMember(t *testing.T) {
	store := newFakeEventStore()
	gid := primitive.NewObjectID()
	groups := &fakeGroupReader{groups: map[primitive.ObjectID]models.Group{
		gid: {ID: gid, Type: models.GroupTypePublic, AllowMemberEvents: true},
	}}
	h, _, _ := newTestHandler(store, groups)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":       "party",
		"start_date": time.Now().Format(time.RFC3339),
		"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"group_id":   gid.Hex(),
	})
	req = testutil.WithUser(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.HandleCreateEvent(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestCreateEventRejectsBackwardsDates(t *testing.T) {
	h, _, _ := newTestHandler(newFakeEventStore(), nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":       "time warp",
		"start_date": time.Now().Add(time.Hour).Format(time.RFC3339),
		"end_date":   time.Now().Format(time.RFC3339),
	})
	req = testutil.WithUser(req, primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.HandleCreateEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeEventHidesPrivateFromStranger(t *testing.T) {
	store := newFakeEventStore()
	ev := seedEvent(store, primitive.NewObjectID(), true)
	h, _, _ := newTestHandler(store, nil)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/x", nil), primitive.NewObjectID())
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeEvent(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Malformed ids read as missing documents, not server errors.
	req = testutil.WithUser(httptest.NewRequest(http.MethodGet, "/zzz", nil), primitive.NewObjectID())
	req = testutil.WithChiURLParam(req, "id", "zzz")
	rec = httptest.NewRecorder()
	h.ServeEvent(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("malformed id status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestToggleShoppingListOrganizerOnly(t *testing.T) {
	store := newFakeEventStore()
	organizer, participant := primitive.NewObjectID(), primitive.NewObjectID()
	ev := seedEvent(store, organizer, false, participant)
	h, _, _ := newTestHandler(store, nil)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/x/shopping-list", map[string]any{"enabled": true})
	req = testutil.WithUser(req, participant)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleToggleShoppingList(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("participant toggle status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = testutil.NewJSONRequest(t, http.MethodPut, "/x/shopping-list", map[string]any{"enabled": true})
	req = testutil.WithUser(req, organizer)
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleToggleShoppingList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("organizer toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	if !store.events[ev.ID].ShoppingListEnabled {
		t.Fatal("shopping list not enabled after toggle")
	}
}
