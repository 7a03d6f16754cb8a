package shoppinglist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/convenehq/convene/internal/app/store/shoppinglist"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/convenehq/convene/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeItemStore struct {
	items map[primitive.ObjectID]models.ShoppingListItem
}

func (f *fakeItemStore) Create(_ context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	key := strings.ToLower(item.Name)
	for _, existing := range f.items {
		if existing.EventID == item.EventID && strings.ToLower(existing.Name) == key {
			return models.ShoppingListItem{}, apperr.New(apperr.Conflict, "this item is already on the list")
		}
	}
	item.ID = primitive.NewObjectID()
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemStore) GetByID(_ context.Context, id primitive.ObjectID) (models.ShoppingListItem, error) {
	item, ok := f.items[id]
	if !ok {
		return models.ShoppingListItem{}, apperr.New(apperr.NotFound, "shopping list item not found")
	}
	return item, nil
}

func (f *fakeItemStore) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.ShoppingListItem, error) {
	var out []models.ShoppingListItem
	for _, item := range f.items {
		if item.EventID == eventID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemStore) Update(_ context.Context, id primitive.ObjectID, upd shoppingliststore.ItemUpdate) (models.ShoppingListItem, error) {
	item, ok := f.items[id]
	if !ok {
		return models.ShoppingListItem{}, apperr.New(apperr.NotFound, "shopping list item not found")
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.ArrivalTime != nil {
		item.ArrivalTime = *upd.ArrivalTime
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeItemStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.New(apperr.NotFound, "shopping list item not found")
	}
	delete(f.items, id)
	return nil
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
	items  *fakeItemStore
	events *fakeEventReader
}

func newFixture() *fixture {
	f := &fixture{
		items:  &fakeItemStore{items: map[primitive.ObjectID]models.ShoppingListItem{}},
		events: &fakeEventReader{events: map[primitive.ObjectID]models.Event{}},
	}
	f.h = NewHandler(f.items, f.events, zap.NewNop())
	return f
}

func (f *fixture) addItem(t *testing.T, user primitive.ObjectID, eventID primitive.ObjectID, name string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"event_id": eventID.Hex(),
		"name":     name,
		"quantity": 2,
	})
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	f.h.HandleAddItem(rec, req)
	return rec
}

func TestAddItemDuplicateNameConflicts(t *testing.T) {
	f := newFixture()
	member := primitive.NewObjectID()
	ev := models.Event{
		ID:                  primitive.NewObjectID(),
		Organizers:          []primitive.ObjectID{primitive.NewObjectID()},
		Participants:        []primitive.ObjectID{member},
		ShoppingListEnabled: true,
	}
	f.events.events[ev.ID] = ev

	if rec := f.addItem(t, member, ev.ID, "Lemonade"); rec.Code != http.StatusCreated {
		t.Fatalf("first add status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := f.addItem(t, member, ev.ID, "lemonade"); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate add status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestAddItemRequiresToggleAndMembership(t *testing.T) {
	f := newFixture()
	member, stranger := primitive.NewObjectID(), primitive.NewObjectID()
	ev := models.Event{
		ID:           primitive.NewObjectID(),
		Organizers:   []primitive.ObjectID{primitive.NewObjectID()},
		Participants: []primitive.ObjectID{member},
	}
	f.events.events[ev.ID] = ev

	// Membership is checked before the feature toggle.
	if rec := f.addItem(t, stranger, ev.ID, "chips"); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger add status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := f.addItem(t, member, ev.ID, "chips"); rec.Code != http.StatusBadRequest {
		t.Fatalf("disabled list add status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateItemAuthorOnly(t *testing.T) {
	f := newFixture()
	bringer, other := primitive.NewObjectID(), primitive.NewObjectID()
	ev := models.Event{
		ID:                  primitive.NewObjectID(),
		Organizers:          []primitive.ObjectID{other},
		Participants:        []primitive.ObjectID{bringer},
		ShoppingListEnabled: true,
	}
	f.events.events[ev.ID] = ev
	item, _ := f.items.Create(context.Background(), models.ShoppingListItem{
		EventID: ev.ID, BroughtBy: bringer, Name: "cake", Quantity: 1,
	})

	req := testutil.NewJSONRequest(t, http.MethodPut, "/x", map[string]any{"quantity": 3})
	req = testutil.WithUser(req, other)
	req = testutil.WithChiURLParam(req, "id", item.ID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleUpdateItem(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("organizer edit status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = testutil.NewJSONRequest(t, http.MethodPut, "/x", map[string]any{"quantity": 3})
	req = testutil.WithUser(req, bringer)
	req = testutil.WithChiURLParam(req, "id", item.ID.Hex())
	rec = httptest.NewRecorder()
	f.h.HandleUpdateItem(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bringer edit status = %d: %s", rec.Code, rec.Body.String())
	}
	if f.items.items[item.ID].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", f.items.items[item.ID].Quantity)
	}
}

func TestDeleteItemBringerOrOrganizer(t *testing.T) {
	f := newFixture()
	organizer, bringer, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	ev := models.Event{
		ID:                  primitive.NewObjectID(),
		Organizers:          []primitive.ObjectID{organizer},
		Participants:        []primitive.ObjectID{bringer, other},
		ShoppingListEnabled: true,
	}
	f.events.events[ev.ID] = ev
	item, _ := f.items.Create(context.Background(), models.ShoppingListItem{
		EventID: ev.ID, BroughtBy: bringer, Name: "cake", Quantity: 1,
	})

	del := func(user primitive.ObjectID) *httptest.ResponseRecorder {
		req := testutil.WithUser(httptest.NewRequest(http.MethodDelete, "/x", nil), user)
		req = testutil.WithChiURLParam(req, "id", item.ID.Hex())
		rec := httptest.NewRecorder()
		f.h.HandleDeleteItem(rec, req)
		return rec
	}

	if rec := del(other); rec.Code != http.StatusForbidden {
		t.Fatalf("bystander delete status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if rec := del(organizer); rec.Code != http.StatusOK {
		t.Fatalf("organizer delete status = %d: %s", rec.Code, rec.Body.String())
	}
}
