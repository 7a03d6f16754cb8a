package polls

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/convenehq/convene/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakePollStore struct {
	polls map[primitive.ObjectID]models.Poll
}

func (f *fakePollStore) Create(_ context.Context, p models.Poll) (models.Poll, error) {
	p.ID = primitive.NewObjectID()
	for i := range p.Questions {
		if p.Questions[i].Responses == nil {
			p.Questions[i].Responses = []models.PollResponse{}
		}
	}
	f.polls[p.ID] = p
	return p, nil
}

func (f *fakePollStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Poll, error) {
	p, ok := f.polls[id]
	if !ok {
		return models.Poll{}, apperr.New(apperr.NotFound, "poll not found")
	}
	return p, nil
}

func (f *fakePollStore) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.Poll, error) {
	var out []models.Poll
	for _, p := range f.polls {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePollStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.polls[id]; !ok {
		return apperr.New(apperr.NotFound, "poll not found")
	}
	delete(f.polls, id)
	return nil
}

// RecordBallot mirrors the real store's all-or-nothing guard: a
// participant already present on any question blocks the whole ballot.
func (f *fakePollStore) RecordBallot(_ context.Context, id, participant primitive.ObjectID, answers []string) error {
	p, ok := f.polls[id]
	if !ok || p.HasAnswered(participant) {
		return apperr.New(apperr.Invalid, "you have already answered this poll")
	}
	now := time.Now().UTC()
	for i, answer := range answers {
		p.Questions[i].Responses = append(p.Questions[i].Responses, models.PollResponse{
			Participant:    participant,
			SelectedOption: answer,
			AnsweredAt:     now,
		})
	}
	f.polls[id] = p
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
	polls  *fakePollStore
	events *fakeEventReader
}

func newFixture() *fixture {
	f := &fixture{
		polls:  &fakePollStore{polls: map[primitive.ObjectID]models.Poll{}},
		events: &fakeEventReader{events: map[primitive.ObjectID]models.Event{}},
	}
	f.h = NewHandler(f.polls, f.events, zap.NewNop())
	return f
}

func (f *fixture) seed(ev models.Event) models.Poll {
	f.events.events[ev.ID] = ev
	p, _ := f.polls.Create(context.Background(), models.Poll{
		EventID:   ev.ID,
		CreatedBy: ev.Organizers[0],
		Title:     "venue",
		Questions: []models.PollQuestion{
			{Question: "where", Options: []string{"park", "beach"}},
			{Question: "when", Options: []string{"noon", "evening"}},
		},
	})
	return p
}

func (f *fixture) answer(t *testing.T, pollID primitive.ObjectID, user primitive.ObjectID, answers []string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/x/answers", map[string]any{"answers": answers})
	req = testutil.WithUser(req, user)
	req = testutil.WithChiURLParam(req, "id", pollID.Hex())
	rec := httptest.NewRecorder()
	f.h.HandleAnswerPoll(rec, req)
	return rec
}

func TestAnswerPollRecordsOneBallot(t *testing.T) {
	f := newFixture()
	organizer, member := primitive.NewObjectID(), primitive.NewObjectID()
	p := f.seed(models.Event{
		ID:           primitive.NewObjectID(),
		Organizers:   []primitive.ObjectID{organizer},
		Participants: []primitive.ObjectID{member},
	})

	if rec := f.answer(t, p.ID, member, []string{"park", "noon"}); rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := f.polls.polls[p.ID]
	if len(got.Questions[0].Responses) != 1 || len(got.Questions[1].Responses) != 1 {
		t.Fatal("ballot did not land on every question")
	}

	// One ballot ever: the second submission is rejected whole.
	if rec := f.answer(t, p.ID, member, []string{"beach", "evening"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("second ballot status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	got = f.polls.polls[p.ID]
	if len(got.Questions[0].Responses) != 1 {
		t.Fatal("second ballot partially applied")
	}
}

func TestAnswerPollValidatesShape(t *testing.T) {
	f := newFixture()
	member := primitive.NewObjectID()
	p := f.seed(models.Event{
		ID:           primitive.NewObjectID(),
		Organizers:   []primitive.ObjectID{primitive.NewObjectID()},
		Participants: []primitive.ObjectID{member},
	})

	// Too few answers.
	if rec := f.answer(t, p.ID, member, []string{"park"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("short ballot status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	// An answer outside the question's options.
	if rec := f.answer(t, p.ID, member, []string{"park", "midnight"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad option status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(f.polls.polls[p.ID].Questions[0].Responses) != 0 {
		t.Fatal("invalid ballot left responses behind")
	}
}

func TestAnswerPollMembersOnly(t *testing.T) {
	f := newFixture()
	p := f.seed(models.Event{
		ID:         primitive.NewObjectID(),
		Organizers: []primitive.ObjectID{primitive.NewObjectID()},
	})

	if rec := f.answer(t, p.ID, primitive.NewObjectID(), []string{"park", "noon"}); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCreatePollOrganizerOnly(t *testing.T) {
	f := newFixture()
	organizer, member := primitive.NewObjectID(), primitive.NewObjectID()
	ev := models.Event{
		ID:           primitive.NewObjectID(),
		Organizers:   []primitive.ObjectID{organizer},
		Participants: []primitive.ObjectID{member},
	}
	f.events.events[ev.ID] = ev

	payload := map[string]any{
		"event_id": ev.ID.Hex(),
		"title":    "venue",
		"questions": []map[string]any{
			{"question": "where", "options": []string{"park", "beach"}},
		},
	}

	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", payload), member)
	rec := httptest.NewRecorder()
	f.h.HandleCreatePoll(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member create status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", payload), organizer)
	rec = httptest.NewRecorder()
	f.h.HandleCreatePoll(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("organizer create status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePollNeedsTwoOptions(t *testing.T) {
	f := newFixture()
	organizer := primitive.NewObjectID()
	ev := models.Event{ID: primitive.NewObjectID(), Organizers: []primitive.ObjectID{organizer}}
	f.events.events[ev.ID] = ev

	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"event_id": ev.ID.Hex(),
		"title":    "venue",
		"questions": []map[string]any{
			{"question": "where", "options": []string{"park"}},
		},
	}), organizer)
	rec := httptest.NewRecorder()
	f.h.HandleCreatePoll(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
