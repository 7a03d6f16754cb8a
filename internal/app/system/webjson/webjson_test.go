package webjson_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"go.uber.org/zap"
)

func TestRead_UnknownField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"nope":1}`))
	rec := httptest.NewRecorder()

	var dst struct {
		Name string `json:"name"`
	}
	err := webjson.Read(rec, req, &dst)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if apperr.KindOf(err) != apperr.Invalid {
		t.Errorf("kind: got %v, want Invalid", apperr.KindOf(err))
	}
}

func TestOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	webjson.OK(rec, "event updated", map[string]any{"event": map[string]any{"name": "picnic"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body["message"] != "event updated" {
		t.Errorf("message: got %v", body["message"])
	}
	if _, ok := body["event"]; !ok {
		t.Error("missing event payload")
	}
}

func TestError_KindMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	webjson.Error(rec, zap.NewNop(), apperr.New(apperr.Forbidden, "access denied to this private event"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "access denied to this private event" {
		t.Errorf("message: got %v", body["message"])
	}
}

func TestError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	webjson.Error(rec, zap.NewNop(), errors.New("connection reset by peer"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Error("internal cause leaked into response body")
	}
}
