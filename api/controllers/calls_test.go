package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/teamdesk/calldesk-backend/api/middleware"
	"github.com/teamdesk/calldesk-backend/internal/calls"
	"github.com/teamdesk/calldesk-backend/internal/views"
	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

type testCallsService struct {
	listFn       func(ctx context.Context) ([]calls.CallDTO, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*calls.CallDTO, error)
	createFn     func(ctx context.Context, input calls.CreateInput) (*calls.CallDTO, *calls.Conflict, error)
	bulkCreateFn func(ctx context.Context, inputs []calls.CreateInput) ([]calls.CallDTO, error)
	updateFn     func(ctx context.Context, id uuid.UUID, editor string, patch calls.UpdateInput) (*calls.CallDTO, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	expireFn     func(ctx context.Context) (int64, error)
	duplicatesFn func(ctx context.Context) ([]string, error)
	alertsFn     func(ctx context.Context) (*calls.Alerts, error)
}

func (s *testCallsService) List(ctx context.Context) ([]calls.CallDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *testCallsService) Get(ctx context.Context, id uuid.UUID) (*calls.CallDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *testCallsService) Create(ctx context.Context, input calls.CreateInput) (*calls.CallDTO, *calls.Conflict, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil, nil
}

func (s *testCallsService) BulkCreate(ctx context.Context, inputs []calls.CreateInput) ([]calls.CallDTO, error) {
	if s.bulkCreateFn != nil {
		return s.bulkCreateFn(ctx, inputs)
	}
	return nil, nil
}

func (s *testCallsService) Update(ctx context.Context, id uuid.UUID, editor string, patch calls.UpdateInput) (*calls.CallDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, editor, patch)
	}
	return nil, nil
}

func (s *testCallsService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testCallsService) ExpireCompleted(ctx context.Context) (int64, error) {
	if s.expireFn != nil {
		return s.expireFn(ctx)
	}
	return 0, nil
}

func (s *testCallsService) DuplicateIDs(ctx context.Context) ([]string, error) {
	if s.duplicatesFn != nil {
		return s.duplicatesFn(ctx)
	}
	return nil, nil
}

func (s *testCallsService) Alerts(ctx context.Context) (*calls.Alerts, error) {
	if s.alertsFn != nil {
		return s.alertsFn(ctx)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestCallCreateSuccess(t *testing.T) {
	svc := &testCallsService{
		createFn: func(ctx context.Context, input calls.CreateInput) (*calls.CallDTO, *calls.Conflict, error) {
			if input.CustomerID != "C-100" {
				t.Fatalf("unexpected customer id %q", input.CustomerID)
			}
			return &calls.CallDTO{ID: uuid.New(), CustomerID: input.CustomerID}, nil, nil
		},
	}

	body := `{"customer_id":"C-100","requester":"Alice","assignee":"Bob","rank":"follow_up","date_time":"2026-09-01T1030"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CallCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCallCreateConflictReturns409(t *testing.T) {
	svc := &testCallsService{
		createFn: func(ctx context.Context, input calls.CreateInput) (*calls.CallDTO, *calls.Conflict, error) {
			return nil, &calls.Conflict{
				Reason:   calls.ConflictDuplicateCustomer,
				Existing: []calls.CallDTO{{CustomerID: "C-100"}},
			}, nil
		},
	}

	body := `{"customer_id":"C-100","requester":"Alice","assignee":"Bob","rank":"follow_up","date_time":"2026-09-01T1030"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CallCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Reason string `json:"reason"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Details.Reason != string(calls.ConflictDuplicateCustomer) {
		t.Fatalf("expected duplicate_customer reason, got %q", envelope.Error.Details.Reason)
	}
}

func TestCallCreateRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls", strings.NewReader(`{"customer_id":`))
	resp := httptest.NewRecorder()
	CallCreate(&testCallsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCallUpdatePassesEditorFromContext(t *testing.T) {
	id := uuid.New()
	var gotEditor string
	svc := &testCallsService{
		updateFn: func(ctx context.Context, gotID uuid.UUID, editor string, patch calls.UpdateInput) (*calls.CallDTO, error) {
			if gotID != id {
				t.Fatalf("unexpected id %s", gotID)
			}
			gotEditor = editor
			return &calls.CallDTO{ID: id}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/calls/"+id.String(), strings.NewReader(`{"notes":"call back"}`))
	req = req.WithContext(middleware.WithUserName(req.Context(), "Alice"))
	req = addRouteParam(req, "callId", id.String())
	resp := httptest.NewRecorder()
	CallUpdate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotEditor != "Alice" {
		t.Fatalf("expected editor Alice, got %q", gotEditor)
	}
}

func TestCallDetailInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calls/invalid", nil)
	req = addRouteParam(req, "callId", "invalid")
	resp := httptest.NewRecorder()
	CallDetail(&testCallsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCallBulkCreateRejectsEmptyBatch(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls/bulk", strings.NewReader(`[]`))
	resp := httptest.NewRecorder()
	CallBulkCreate(&testCallsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCallExpireReportsDeleted(t *testing.T) {
	svc := &testCallsService{
		expireFn: func(ctx context.Context) (int64, error) { return 3, nil },
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calls/expire", nil)
	resp := httptest.NewRecorder()
	CallExpire(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["deleted"] != 3 {
		t.Fatalf("expected deleted=3 got %v", envelope.Data["deleted"])
	}
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCallUnreadCountsSplitsBoards(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	svc := &testCallsService{
		listFn: func(ctx context.Context) ([]calls.CallDTO, error) {
			return []calls.CallDTO{
				{CustomerID: "C-1", Assignee: "Alice", CreatedAt: base.Add(time.Hour)},
				{CustomerID: "C-2", Assignee: "Bob", CreatedAt: base.Add(time.Hour)},
				{CustomerID: "C-3", Assignee: "precheck", CreatedAt: base.Add(2 * time.Hour)},
			}, nil
		},
	}
	viewsSvc := &testViewsService{
		lastViewedFn: func(ctx context.Context, userName string, board views.Board) (*time.Time, error) {
			if board == views.BoardMine {
				return &base, nil
			}
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calls/unread", nil)
	req = req.WithContext(middleware.WithUserName(req.Context(), "Alice"))
	resp := httptest.NewRecorder()
	CallUnreadCounts(svc, viewsSvc, "precheck", testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["mine"] != 1 {
		t.Fatalf("expected 1 unread on mine, got %d", envelope.Data["mine"])
	}
	if envelope.Data["precheck"] != 1 {
		t.Fatalf("expected 1 unread on precheck, got %d", envelope.Data["precheck"])
	}
}
