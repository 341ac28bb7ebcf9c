package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-itemstore/internal/cacheinfra"
	"github.com/goliatone/go-itemstore/internal/storeinfra"
	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/query"
	"github.com/goliatone/go-itemstore/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *storeinfra.FileStore
	logs   *bytes.Buffer
}

func newTestServer(t *testing.T, seed ...item.Item) *testServer {
	t.Helper()

	s := storeinfra.NewFileStore(filepath.Join(t.TempDir(), "items.json"), time.Second)
	if len(seed) > 0 {
		if err := s.Persist(context.Background(), seed); err != nil {
			t.Fatal(err)
		}
	}
	c := cacheinfra.NewMemoryCache[item.Aggregate]()

	var logs bytes.Buffer
	router := NewRouter(
		service.NewItemService(s, c, service.WithSerializedWrites()),
		service.NewStatsService(s, c),
		Options{
			Prefix:         "/api",
			AllowedOrigins: []string{"http://localhost:3000"},
			Logger:         zerolog.New(&logs),
		},
	)
	return &testServer{router: router, store: s, logs: &logs}
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Message
}

func seed() []item.Item {
	return []item.Item{
		{ID: 1, Name: "Laptop Pro", Category: "Electronics", Price: 2499},
		{ID: 2, Name: "Standing Desk", Category: "Furniture", Price: 1199},
		{ID: 3, Name: "Laptop Stand", Category: "Accessories", Price: 49},
	}
}

func TestListItems(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantIDs []int64
	}{
		{name: "all", target: "/api/items", wantIDs: []int64{1, 2, 3}},
		{name: "search", target: "/api/items?q=laptop", wantIDs: []int64{1, 3}},
		{name: "paginate", target: "/api/items?limit=2&page=2", wantIDs: []int64{3}},
		{name: "invalid page defaults to first", target: "/api/items?limit=2&page=abc", wantIDs: []int64{1, 2}},
		{name: "invalid limit returns all", target: "/api/items?limit=x", wantIDs: []int64{1, 2, 3}},
		{name: "out of range", target: "/api/items?limit=2&page=9", wantIDs: []int64{}},
	}

	ts := newTestServer(t, seed()...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, tt.target, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var got []item.Item
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d items, got %d: %s", len(tt.wantIDs), len(got), w.Body.String())
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestListItems_EmptyStoreIsArray(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/items", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected [], got %s", w.Body.String())
	}
}

func TestGetItem(t *testing.T) {
	ts := newTestServer(t, seed()...)

	w := ts.do(http.MethodGet, "/api/items/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got item.Item
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Standing Desk" {
		t.Errorf("expected Standing Desk, got %s", got.Name)
	}

	for _, target := range []string{"/api/items/99", "/api/items/abc", "/api/items/1.5"} {
		w := ts.do(http.MethodGet, target, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, w.Code)
			continue
		}
		if msg := decodeMessage(t, w); msg != "Item not found" {
			t.Errorf("%s: expected 'Item not found', got %q", target, msg)
		}
	}
}

func TestCreateItem(t *testing.T) {
	ts := newTestServer(t, seed()...)

	w := ts.do(http.MethodPost, "/api/items", `{"id": 1, "name": "Webcam", "category": "Electronics", "price": 89.5, "color": "black"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created item.Item
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 1 || created.ID <= 3 {
		t.Errorf("expected a fresh server assigned id, got %d", created.ID)
	}
	if string(created.Extra["color"]) != `"black"` {
		t.Errorf("expected color to pass through, got %s", created.Extra["color"])
	}

	w = ts.do(http.MethodGet, "/api/items/"+jsonNumber(created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected created item to be retrievable, got %d", w.Code)
	}

	stored, err := ts.store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 4 || stored[3].ID != created.ID {
		t.Errorf("expected created item appended to the store, got %+v", stored)
	}
}

func TestCreateItem_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "empty body", body: "", wantMsg: "Invalid item"},
		{name: "malformed", body: "{", wantMsg: "Invalid item"},
		{name: "array", body: "[1]", wantMsg: "Invalid item"},
		{name: "null", body: "null", wantMsg: "Invalid item"},
		{name: "missing name", body: `{"category":"c","price":1}`, wantMsg: "Invalid item 'name'"},
		{name: "empty name", body: `{"name":"","category":"c","price":1}`, wantMsg: "Invalid item 'name'"},
		{name: "numeric category", body: `{"name":"n","category":5,"price":1}`, wantMsg: "Invalid item 'category'"},
		{name: "string price", body: `{"name":"n","category":"c","price":"1"}`, wantMsg: "Invalid item 'price'"},
		{name: "negative price", body: `{"name":"n","category":"c","price":-0.01}`, wantMsg: "Invalid item 'price'"},
		{name: "first failure wins", body: `{"price":-1}`, wantMsg: "Invalid item 'name'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, seed()...)

			w := ts.do(http.MethodPost, "/api/items", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if msg := decodeMessage(t, w); msg != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, msg)
			}

			stored, err := ts.store.Load(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(stored) != len(seed()) {
				t.Errorf("expected store untouched, got %d items", len(stored))
			}
		})
	}
}

func TestCreateZeroPriceThenSearch(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/items", `{"name":"x","category":"y","price":0}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(http.MethodGet, "/api/items?q=x", "")
	var got []item.Item
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "x" || got[0].Price != 0 {
		t.Errorf("expected the created item, got %+v", got)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, seed()...)

	w := ts.do(http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var agg item.Aggregate
	if err := json.Unmarshal(w.Body.Bytes(), &agg); err != nil {
		t.Fatal(err)
	}
	if agg.Total != 3 {
		t.Errorf("expected total 3, got %d", agg.Total)
	}

	if w := ts.do(http.MethodPost, "/api/items", `{"name":"Pen","category":"Office","price":1}`); w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}

	w = ts.do(http.MethodGet, "/api/stats", "")
	if err := json.Unmarshal(w.Body.Bytes(), &agg); err != nil {
		t.Fatal(err)
	}
	if agg.Total != 4 {
		t.Errorf("expected stats refreshed after create, got total %d", agg.Total)
	}
}

func TestStats_EmptyCollection(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := `{"total":0,"averagePrice":null}`
	if strings.TrimSpace(w.Body.String()) != want {
		t.Errorf("expected %s, got %s", want, w.Body.String())
	}
}

type failingItems struct{ err error }

func (f failingItems) List(context.Context, query.Params) ([]item.Item, error) { return nil, f.err }
func (f failingItems) Get(context.Context, int64) (item.Item, error)         { return item.Item{}, f.err }
func (f failingItems) Create(context.Context, any) (item.Item, error)        { return item.Item{}, f.err }

type failingStats struct{ err error }

func (f failingStats) Stats(context.Context) (item.Aggregate, error) { return item.Aggregate{}, f.err }

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "io", err: item.NewIOError(errors.New("ENOENT: no such file")), wantStatus: 500, wantMsg: "ENOENT: no such file"},
		{name: "unknown", err: errors.New("boom"), wantStatus: 500, wantMsg: "Internal server error"},
		{name: "validation", err: item.NewValidationError("price", nil), wantStatus: 400, wantMsg: "Invalid item 'price'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(failingItems{tt.err}, failingStats{tt.err}, Options{Prefix: "/api", Logger: zerolog.Nop()})

			for _, target := range []string{"/api/items", "/api/stats"} {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
				if w.Code != tt.wantStatus {
					t.Errorf("%s: expected %d, got %d", target, tt.wantStatus, w.Code)
				}
				if msg := decodeMessage(t, w); msg != tt.wantMsg {
					t.Errorf("%s: expected %q, got %q", target, tt.wantMsg, msg)
				}
			}
		})
	}
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("expected 200 ok, got %d %q", w.Code, w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/healthcheck", "")
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("expected a generated request id")
	}

	inbound := "6f1c1b8e-4d0c-4c59-9a4a-0d3c2d1e5f70"
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(RequestIDHeader, inbound)
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != inbound {
		t.Errorf("expected inbound id %s, got %s", inbound, got)
	}
	if !strings.Contains(ts.logs.String(), inbound) {
		t.Errorf("expected request log to carry the id, got: %s", ts.logs.String())
	}
}

func TestCreateLogCarriesRequestAndItemIDs(t *testing.T) {
	ts := newTestServer(t)

	inbound := "0b7e9a52-3f0e-4f1c-8a55-51d6d1f0c3aa"
	req := httptest.NewRequest(http.MethodPost, "/api/items",
		strings.NewReader(`{"name":"Lamp","category":"Lighting","price":35}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, inbound)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created item.Item
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, line := range strings.Split(strings.TrimSpace(ts.logs.String()), "\n") {
		var entry struct {
			RequestID string `json:"request_id"`
			ItemID    int64  `json:"item_id"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry.Message != "item created" {
			continue
		}
		found = true
		if entry.RequestID != inbound {
			t.Errorf("expected request_id %s, got %s", inbound, entry.RequestID)
		}
		if entry.ItemID != created.ID {
			t.Errorf("expected item_id %d, got %d", created.ID, entry.ItemID)
		}
	}
	if !found {
		t.Errorf("expected an item created log line, got: %s", ts.logs.String())
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/items", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}

func TestCustomPrefix(t *testing.T) {
	router := NewRouter(failingItems{}, failingStats{}, Options{Prefix: "/v2", Logger: zerolog.Nop()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/items", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 under custom prefix, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 under default prefix, got %d", w.Code)
	}
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
