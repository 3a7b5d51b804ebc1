package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/observability"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/session"
	"github.com/matzehuels/skilltree/pkg/skilltree"
)

func combat(t *testing.T, id string) skilltree.Tree {
	t.Helper()
	tree, err := skilltree.New(skilltree.Tree{
		ID:              id,
		Name:            "Combat Mastery",
		PlayerLevel:     10,
		AvailablePoints: 15,
		Skills: []skilltree.Skill{
			{ID: "sword-mastery", Name: "Sword Mastery", MaxLevel: 5, Cost: 3},
			{ID: "shield-defense", Name: "Shield Defense", MaxLevel: 3, Cost: 2, RequiredSkills: []string{"sword-mastery"}},
		},
		Connections: []skilltree.Connection{{Source: "sword-mastery", Target: "shield-defense"}},
	})
	require.NoError(t, err)
	return tree
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(nil)
	require.NoError(t, mgr.Add(combat(t, "combat")))
	require.NoError(t, mgr.Add(combat(t, "backup")))
	return New(mgr, nil, Config{}), mgr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec, env := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data["status"])
	assert.EqualValues(t, 2, data["trees"])
}

func TestListAndActivate(t *testing.T) {
	s, mgr := newTestServer(t)
	h := s.Handler()

	_, env := do(t, h, http.MethodGet, "/trees", nil)
	var trees []TreeInfo
	require.NoError(t, json.Unmarshal(env.Data, &trees))
	require.Len(t, trees, 2)
	assert.Equal(t, "combat", trees[0].ID)
	assert.True(t, trees[0].Active)
	assert.False(t, trees[1].Active)
	assert.Equal(t, 2, trees[0].Summary.Skills)

	rec, _ := do(t, h, http.MethodPost, "/trees/active", strings.NewReader(`{"id":"backup"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backup", mgr.ActiveID())

	rec, env = do(t, h, http.MethodPost, "/trees/active", strings.NewReader(`{"id":"ghost"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TREE_NOT_FOUND", env.Error.Code)

	rec, env = do(t, h, http.MethodPost, "/trees/active", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestGetTree(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec, env := do(t, h, http.MethodGet, "/trees/combat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap pipeline.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "combat", snap.TreeID)
	assert.Equal(t, "TB", snap.Direction)
	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, 0, snap.Nodes[0].Rank)
	assert.Equal(t, 1, snap.Nodes[1].Rank)

	_, env = do(t, h, http.MethodGet, "/trees/combat?direction=lr", nil)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "LR", snap.Direction)

	rec, env = do(t, h, http.MethodGet, "/trees/combat?direction=diagonal", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DIRECTION", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/trees/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpgradeDowngrade(t *testing.T) {
	s, mgr := newTestServer(t)
	h := s.Handler()

	rec, env := do(t, h, http.MethodPost, "/trees/combat/skills/shield-defense/upgrade", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_OPERATION", env.Error.Code)
	assert.NotEmpty(t, env.Error.Message)

	rec, env = do(t, h, http.MethodPost, "/trees/combat/skills/sword-mastery/upgrade", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap pipeline.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 12, snap.AvailablePoints)
	assert.Equal(t, 1, snap.Nodes[0].Level)

	got, err := mgr.Get("combat")
	require.NoError(t, err)
	assert.Equal(t, 12, got.AvailablePoints)

	rec, _ = do(t, h, http.MethodPost, "/trees/combat/skills/sword-mastery/downgrade", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got, _ = mgr.Get("combat")
	assert.Equal(t, 15, got.AvailablePoints)

	rec, env = do(t, h, http.MethodPost, "/trees/combat/skills/ghost/upgrade", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SKILL_NOT_FOUND", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/trees/combat/skills/sword-mastery/upgrade", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRender(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec, _ := do(t, h, http.MethodGet, "/trees/combat/render?format=dot&detailed=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "digraph G {"))
	assert.Contains(t, body, `"sword-mastery" -> "shield-defense";`)
	assert.Contains(t, body, "cost 3")

	rec, _ = do(t, h, http.MethodGet, "/trees/combat/render?format=json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap pipeline.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "combat", snap.TreeID)

	rec, env := do(t, h, http.MethodGet, "/trees/combat/render?format=png", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", env.Error.Code)
}

func TestLayout(t *testing.T) {
	s, mgr := newTestServer(t)
	h := s.Handler()

	yamlCatalog := `
id: posted
name: Posted
player_level: 1
available_points: 3
skills:
  - id: a
    name: A
    max_level: 1
    cost: 1
  - id: b
    name: B
    max_level: 1
    cost: 1
    required_skills: [a]
`
	req := httptest.NewRequest(http.MethodPost, "/layout", strings.NewReader(yamlCatalog))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var snap pipeline.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "posted", snap.TreeID)
	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, 1, snap.Nodes[1].Rank)
	assert.Equal(t, 2, mgr.Len(), "posted catalogs are not hosted")

	rec, env = do(t, h, http.MethodPost, "/layout?format=json", strings.NewReader(`{"id": "x", "skills": [`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, env = do(t, h, http.MethodPost, "/layout?format=xml", strings.NewReader(`<tree/>`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", env.Error.Code)
}

func TestOversizedBody(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	big := strings.Repeat(" ", maxCatalogBytes+1)

	for _, target := range []string{"/layout?format=json", "/layout?format=yaml", "/trees/active"} {
		t.Run(target, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, target, strings.NewReader(big))
			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "TOO_LARGE", env.Error.Code)
		})
	}
}

// Each upgrade response shows the state that upgrade produced, so
// concurrent upgrades report every level exactly once.
func TestConcurrentUpgradesReportOwnState(t *testing.T) {
	s, mgr := newTestServer(t)
	h := s.Handler()

	const upgrades = 20
	grind, err := skilltree.New(skilltree.Tree{
		ID:              "grind",
		PlayerLevel:     upgrades * 5,
		AvailablePoints: upgrades,
		Skills:          []skilltree.Skill{{ID: "focus", MaxLevel: upgrades, Cost: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, mgr.Put(grind))

	levels := make([]int, upgrades)
	var wg sync.WaitGroup
	for i := range upgrades {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/trees/grind/skills/focus/upgrade", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			var env envelope
			var snap pipeline.Snapshot
			if json.Unmarshal(rec.Body.Bytes(), &env) == nil && json.Unmarshal(env.Data, &snap) == nil && len(snap.Nodes) == 1 {
				levels[i] = snap.Nodes[0].Level
				assert.Equal(t, upgrades-levels[i], snap.AvailablePoints)
			}
		}()
	}
	wg.Wait()

	slices.Sort(levels)
	for i, lv := range levels {
		assert.Equal(t, i+1, lv, "levels reported: %v", levels)
	}
}

type httpRecorder struct {
	mu        sync.Mutex
	requests  []string
	responses []string
	statuses  []int
}

func (r *httpRecorder) OnRequest(_ context.Context, method, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, method+" "+route)
}

func (r *httpRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, method+" "+route)
	r.statuses = append(r.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, http.MethodGet, "/trees/combat", nil)
	do(t, h, http.MethodGet, "/trees/ghost", nil)

	assert.Equal(t, []string{"GET /trees/combat", "GET /trees/ghost"}, rec.requests)
	assert.Equal(t, []string{"GET /trees/{id}", "GET /trees/{id}"}, rec.responses)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, rec.statuses)
}

func TestServe(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"TREE_NOT_FOUND", http.StatusNotFound},
		{"SKILL_NOT_FOUND", http.StatusNotFound},
		{"INVALID_OPERATION", http.StatusConflict},
		{"CYCLIC_GRAPH", http.StatusBadRequest},
		{"INVALID_CATALOG", http.StatusBadRequest},
		{"TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"UNSUPPORTED", http.StatusUnsupportedMediaType},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(errs.Code(tt.code)))
		})
	}
}
