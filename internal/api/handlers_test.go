// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/dishpick/internal/analytics"
	"github.com/tomtom215/dishpick/internal/catalog"
	"github.com/tomtom215/dishpick/internal/enrich"
	"github.com/tomtom215/dishpick/internal/events"
	"github.com/tomtom215/dishpick/internal/filterstore"
	"github.com/tomtom215/dishpick/internal/recommend"
	"github.com/tomtom215/dishpick/internal/session"
)

// testEnvelope decodes APIResponse with raw data.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*events.DishRecommended
	err    error
}

func (p *fakePublisher) PublishDishRecommended(_ context.Context, e *events.DishRecommended) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) published() []*events.DishRecommended {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.DishRecommended(nil), p.events...)
}

type fakeStats struct {
	popular []analytics.DishCount
	limit   int
}

func (s *fakeStats) PopularDishes(_ context.Context, limit int) ([]analytics.DishCount, error) {
	s.limit = limit
	return s.popular, nil
}

func (s *fakeStats) StageCounts(context.Context) ([]analytics.StageCount, error) {
	return []analytics.StageCount{{Stage: "full", Count: 3}}, nil
}

func (s *fakeStats) Summary(context.Context) (analytics.Summary, error) {
	return analytics.Summary{Events: 3, Sessions: 1}, nil
}

type fakeEnricher struct {
	rec *enrich.Record
	err error
}

func (f *fakeEnricher) Lookup(_ context.Context, source, _ string) (*enrich.Record, error) {
	if source != enrich.SourceTakeout && source != enrich.SourceRecipe {
		return nil, enrich.ErrUnknownSource
	}
	return f.rec, f.err
}

func (f *fakeEnricher) Sources() []string {
	return []string{enrich.SourceRecipe, enrich.SourceTakeout}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Dish{
		{
			ID:   "peanut",
			Name: "花生鸡丁",
			Desc: "宫保风味",
			Tags: []catalog.Tag{{Type: catalog.TagIngredient, Value: "花生"}},
		},
		{
			ID:        "soup",
			Name:      "老火靓汤",
			Desc:      "慢火煲汤",
			Nutrition: &catalog.Nutrition{Calories: 180, Level: catalog.LevelGreen},
			Safety:    &catalog.Safety{WaterIndex: 4},
		},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

type testServer struct {
	handler   http.Handler
	sessions  *session.MemoryStore
	guard     *session.Guard
	publisher *fakePublisher
	stats     *fakeStats
}

func newTestServer(t *testing.T, deps Deps, cfg HandlerConfig) *testServer {
	t.Helper()

	engineCfg := recommend.DefaultConfig()
	engineCfg.Seed = 7
	engine, err := recommend.NewEngine(engineCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	ts := &testServer{
		sessions:  session.NewMemoryStore(time.Hour),
		guard:     session.NewGuard(),
		publisher: &fakePublisher{},
		stats:     &fakeStats{},
	}
	if deps.Catalog == nil {
		deps.Catalog = testCatalog(t)
	}
	deps.Engine = engine
	deps.Sessions = ts.sessions
	deps.Guard = ts.guard
	if deps.Filters == nil {
		deps.Filters = filterstore.NewMemoryStore()
	}
	if deps.Publisher == nil {
		deps.Publisher = ts.publisher
	}
	if deps.Stats == nil {
		deps.Stats = ts.stats
	}

	h, err := NewHandler(deps, cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	ts.handler = NewRouter(h, mw).Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, header ...string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Code != http.StatusNoContent && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env testEnvelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func TestNewHandler_RequiresCoreDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{}, HandlerConfig{}); err == nil {
		t.Error("NewHandler() with no deps should fail")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{Checks: []ReadinessCheck{
		{Name: "sessions", Check: func(context.Context) error { return nil }},
	}}, HandlerConfig{Version: "test"})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("live = %d %s, want 200", rec.Code, rec.Body.String())
	}
	var live HealthStatus
	decodeData(t, env, &live)
	if live.Dishes != 2 || live.Version != "test" {
		t.Errorf("live = %+v, want 2 dishes and version test", live)
	}

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHealthReady_FailingCheck(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{Checks: []ReadinessCheck{
		{Name: "analytics", Check: func(context.Context) error { return errors.New("closed") }},
	}}, HandlerConfig{})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v, want SERVICE_UNAVAILABLE", env.Error)
	}
}

func TestDishes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{"list", "/api/v1/dishes", http.StatusOK, 2},
		{"search", "/api/v1/dishes?q=%E6%B1%A4", http.StatusOK, 1},
		{"search no match", "/api/v1/dishes?q=pizza", http.StatusOK, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
			}
			var list DishList
			decodeData(t, env, &list)
			if list.Count != tt.wantCount || len(list.Dishes) != tt.wantCount {
				t.Errorf("GET %s count = %d, want %d", tt.path, list.Count, tt.wantCount)
			}
		})
	}
}

func TestGetDish_NotFoundRedirectsHome(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})

	rec, env := ts.do(t, http.MethodGet, "/api/v1/dishes/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET missing dish = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Fatalf("error = %+v, want NOT_FOUND", env.Error)
	}
	details, ok := env.Error.Details.(map[string]interface{})
	if !ok || details["redirect"] != "/" {
		t.Errorf("details = %#v, want redirect /", env.Error.Details)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/dishes/soup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET soup = %d, want 200", rec.Code)
	}
	var d catalog.Dish
	decodeData(t, env, &d)
	if d.Name != "老火靓汤" {
		t.Errorf("dish name = %q, want 老火靓汤", d.Name)
	}
}

func TestGetDishHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})

	_, env := ts.do(t, http.MethodGet, "/api/v1/dishes/soup/health", "")
	var h DishHealth
	decodeData(t, env, &h)
	if len(h.Exercise) != 3 {
		t.Errorf("exercise = %v, want 3 entries", h.Exercise)
	}
	if h.Water == nil || h.Water.ML != 800 {
		t.Errorf("water = %+v, want 800 ml", h.Water)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/dishes/peanut/health", "")
	h = DishHealth{}
	decodeData(t, env, &h)
	if h.Nutrition != nil || len(h.Exercise) != 0 || h.Water != nil {
		t.Errorf("health without data = %+v, want empty panel", h)
	}
}

func TestGetDishEnrichment(t *testing.T) {
	t.Parallel()

	rec := &enrich.Record{ID: "soup", Name: "老火靓汤", Source: "外卖平台"}
	tests := []struct {
		name       string
		enricher   Enricher
		query      string
		wantStatus int
		wantRecord bool
		wantNotice bool
	}{
		{"found", &fakeEnricher{rec: rec}, "", http.StatusOK, true, false},
		{"unavailable", &fakeEnricher{err: enrich.ErrUnavailable}, "?source=recipe", http.StatusOK, false, true},
		{"unknown source", &fakeEnricher{rec: rec}, "?source=fax", http.StatusBadRequest, false, false},
		{"disabled", nil, "", http.StatusOK, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, Deps{Enricher: tt.enricher}, HandlerConfig{})
			res, env := ts.do(t, http.MethodGet, "/api/v1/dishes/soup/enrichment"+tt.query, "")
			if res.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", res.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var out DishEnrichment
			decodeData(t, env, &out)
			if (out.Enrichment != nil) != tt.wantRecord {
				t.Errorf("enrichment = %+v, want present=%v", out.Enrichment, tt.wantRecord)
			}
			if (out.Notice != nil) != tt.wantNotice {
				t.Errorf("notice = %+v, want present=%v", out.Notice, tt.wantNotice)
			}
		})
	}
}

func TestKnowledge(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})

	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/knowledge", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("knowledge without phase = %d, want 400", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/knowledge?phase=acute&condition=unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("knowledge for unknown condition = %d, want 404", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/filters/options", ""); rec.Code != http.StatusOK {
		t.Errorf("filter options = %d, want 200", rec.Code)
	}
}

func TestFilters_Lifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	const path = "/api/v1/filters/cooking"
	client := []string{ClientIDHeader, "alice"}

	if rec, _ := ts.do(t, http.MethodGet, path, "", client...); rec.Code != http.StatusNotFound {
		t.Fatalf("GET before save = %d, want 404", rec.Code)
	}

	body := `{"criteria":{"allergens":["花生"],"restriction":{"level":"strict","phase":"acute"}},` +
		`"cooking":{"time":"15min","skill_level":2}}`
	rec, _ := ts.do(t, http.MethodPut, path, body, client...)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d %s, want 200", rec.Code, rec.Body.String())
	}

	rec, env := ts.do(t, http.MethodGet, path, "", client...)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET after save = %d, want 200", rec.Code)
	}
	var state filterstore.State
	decodeData(t, env, &state)
	if len(state.Criteria.Allergens) != 1 || state.Criteria.Restriction.Level != recommend.SeverityStrict {
		t.Errorf("state criteria = %+v, want saved selection", state.Criteria)
	}
	if state.Cooking == nil || state.Cooking.SkillLevel != 2 {
		t.Errorf("state cooking = %+v, want skill 2", state.Cooking)
	}

	// other clients do not see it
	if rec, _ := ts.do(t, http.MethodGet, path, "", ClientIDHeader, "bob"); rec.Code != http.StatusNotFound {
		t.Errorf("GET as other client = %d, want 404", rec.Code)
	}

	if rec, _ := ts.do(t, http.MethodDelete, path, "", client...); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d, want 204", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodGet, path, "", client...); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
}

func TestFilters_Rejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})

	tests := []struct {
		name     string
		path     string
		body     string
		header   []string
		wantCode string
	}{
		{"unknown page", "/api/v1/filters/dessert", `{}`, nil, ErrCodeBadRequest},
		{"bad severity", "/api/v1/filters/takeout", `{"criteria":{"restriction":{"level":"extreme"}}}`, nil, ErrCodeValidation},
		{"skill out of range", "/api/v1/filters/cooking", `{"cooking":{"skill_level":9}}`, nil, ErrCodeValidation},
		{"cooking on takeout", "/api/v1/filters/takeout", `{"cooking":{"time":"15min"}}`, nil, ErrCodeBadRequest},
		{"malformed json", "/api/v1/filters/takeout", `{"criteria":`, nil, ErrCodeBadRequest},
		{"bad client id", "/api/v1/filters/takeout", `{}`, []string{ClientIDHeader, "a:b"}, ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPut, tt.path, tt.body, tt.header...)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("PUT %s = %d, want 400", tt.path, rec.Code)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func createSession(t *testing.T, ts *testServer) recommend.Session {
	t.Helper()
	rec, env := ts.do(t, http.MethodPost, "/api/v1/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session = %d, want 201", rec.Code)
	}
	var sess recommend.Session
	decodeData(t, env, &sess)
	if sess.ID == "" || !sess.IsFirst {
		t.Fatalf("new session = %+v, want id and IsFirst", sess)
	}
	return sess
}

func TestSessions_Lifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	sess := createSession(t, ts)
	path := "/api/v1/sessions/" + sess.ID

	if rec, _ := ts.do(t, http.MethodGet, path, ""); rec.Code != http.StatusOK {
		t.Errorf("GET session = %d, want 200", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE session = %d, want 204", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted session = %d, want 404", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodPost, path+"/recommendations", ""); rec.Code != http.StatusNotFound {
		t.Errorf("recommend on deleted session = %d, want 404", rec.Code)
	}
}

func TestRecommend_UpdatesSessionAndPublishes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	sess := createSession(t, ts)
	path := "/api/v1/sessions/" + sess.ID + "/recommendations"

	for i := 1; i <= 3; i++ {
		rec, env := ts.do(t, http.MethodPost, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d = %d %s, want 200", i, rec.Code, rec.Body.String())
		}
		var out Recommendation
		decodeData(t, env, &out)
		if out.Session.IsFirst {
			t.Errorf("call %d: session still marked first", i)
		}
		if len(out.Session.History) == 0 || out.Session.History[len(out.Session.History)-1] != out.Dish.ID {
			t.Errorf("call %d: history %v does not end with %s", i, out.Session.History, out.Dish.ID)
		}
	}

	stored, err := ts.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}
	if len(stored.History) == 0 {
		t.Error("stored history is empty after three calls")
	}

	published := ts.publisher.published()
	if len(published) != 3 {
		t.Fatalf("published %d events, want 3", len(published))
	}
	for _, e := range published {
		if e.SessionID != sess.ID || e.EventID == "" {
			t.Errorf("event = %+v, want session %s and an id", e, sess.ID)
		}
	}
}

func TestRecommend_UsesCriteria(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		saved  string
		body   string
		header []string
	}{
		{
			name: "body criteria",
			body: `{"criteria":{"allergens":["花生"]}}`,
		},
		{
			name:  "saved page filters",
			saved: `{"criteria":{"allergens":["花生"]}}`,
			body:  `{"page":"takeout"}`,
		},
		{
			name:   "saved filters of the calling client",
			saved:  `{"criteria":{"avoid_foods":["宫保"]}}`,
			body:   `{"page":"takeout"}`,
			header: []string{ClientIDHeader, "carol"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, Deps{}, HandlerConfig{})
			if tt.saved != "" {
				if rec, _ := ts.do(t, http.MethodPut, "/api/v1/filters/takeout", tt.saved, tt.header...); rec.Code != http.StatusOK {
					t.Fatalf("save filters = %d, want 200", rec.Code)
				}
			}
			sess := createSession(t, ts)
			path := "/api/v1/sessions/" + sess.ID + "/recommendations"
			for i := 0; i < 10; i++ {
				rec, env := ts.do(t, http.MethodPost, path, tt.body, tt.header...)
				if rec.Code != http.StatusOK {
					t.Fatalf("recommend = %d %s, want 200", rec.Code, rec.Body.String())
				}
				var out Recommendation
				decodeData(t, env, &out)
				if out.Dish.ID != "soup" {
					t.Fatalf("call %d picked %s, want soup", i, out.Dish.ID)
				}
			}
		})
	}
}

func TestRecommend_InvalidBody(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	sess := createSession(t, ts)
	path := "/api/v1/sessions/" + sess.ID + "/recommendations"

	rec, env := ts.do(t, http.MethodPost, path, `{"page":"dessert"}`)
	if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("recommend with bad page = %d %+v, want 400 VALIDATION_ERROR", rec.Code, env.Error)
	}
}

func TestRecommend_InProgress(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	sess := createSession(t, ts)

	release, ok := ts.guard.TryAcquire(sess.ID)
	if !ok {
		t.Fatal("TryAcquire() = false on an idle session")
	}
	rec, env := ts.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/recommendations", "")
	release()

	if rec.Code != http.StatusConflict {
		t.Fatalf("overlapping recommend = %d, want 409", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeRecommendationInProgress || !env.Error.Retryable {
		t.Errorf("error = %+v, want retryable RECOMMENDATION_IN_PROGRESS", env.Error)
	}
}

func TestRecommend_TimeoutLeavesSessionUnchanged(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{
		RecommendTimeout: 20 * time.Millisecond,
		RecommendDelay:   time.Second,
	})
	sess := createSession(t, ts)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/recommendations", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("slow recommend = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeRecommendationTimeout || !env.Error.Retryable {
		t.Errorf("error = %+v, want retryable RECOMMENDATION_TIMEOUT", env.Error)
	}

	stored, err := ts.sessions.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("sessions.Get() error = %v", err)
	}
	if !stored.IsFirst || len(stored.History) != 0 {
		t.Errorf("session after timeout = %+v, want unchanged", stored)
	}
	if n := len(ts.publisher.published()); n != 0 {
		t.Errorf("published %d events after timeout, want 0", n)
	}
}

func TestRecommend_PublishFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("bus down")}
	ts := newTestServer(t, Deps{Publisher: pub}, HandlerConfig{})
	sess := createSession(t, ts)

	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/recommendations", ""); rec.Code != http.StatusOK {
		t.Errorf("recommend with failing publisher = %d, want 200", rec.Code)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	ts.stats.popular = []analytics.DishCount{{DishID: "soup", DishName: "老火靓汤", Count: 3}}

	rec, env := ts.do(t, http.MethodGet, "/api/v1/stats/popular?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("popular = %d, want 200", rec.Code)
	}
	var pop PopularDishes
	decodeData(t, env, &pop)
	if pop.Limit != 5 || ts.stats.limit != 5 || len(pop.Dishes) != 1 {
		t.Errorf("popular = %+v, want limit 5 and one dish", pop)
	}

	for _, q := range []string{"0", "101", "ten"} {
		if rec, _ := ts.do(t, http.MethodGet, "/api/v1/stats/popular?limit="+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("popular?limit=%s = %d, want 400", q, rec.Code)
		}
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/stats/stages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stages = %d, want 200", rec.Code)
	}
	var stages StageStats
	decodeData(t, env, &stages)
	if len(stages.Stages) != 1 || stages.Stages[0].Count != 3 {
		t.Errorf("stages = %+v, want one full stage", stages)
	}

	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/stats/summary", ""); rec.Code != http.StatusOK {
		t.Errorf("summary = %d, want 200", rec.Code)
	}
}

func TestStats_Disabled(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Deps{
		Catalog:  testCatalog(t),
		Engine:   mustEngine(t),
		Sessions: session.NewMemoryStore(time.Hour),
		Filters:  filterstore.NewMemoryStore(),
	}, HandlerConfig{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	ts := &testServer{handler: NewRouter(h, NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})).Handler()}

	for _, path := range []string{"/api/v1/stats/popular", "/api/v1/stats/stages", "/api/v1/stats/summary"} {
		rec, _ := ts.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s without analytics = %d, want 503", path, rec.Code)
		}
	}
	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/ws", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ws without hub = %d, want 503", rec.Code)
	}
}

func mustEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	e, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, Deps{}, HandlerConfig{})
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dishpick_") {
		t.Error("metrics output has no dishpick_ series")
	}
}
