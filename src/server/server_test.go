package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-pulse/src/config"
	"token-pulse/src/data_source/mock"
	"token-pulse/src/display"
	"token-pulse/src/feed"
	"token-pulse/src/models"
	"token-pulse/src/observability"
	"token-pulse/src/storage"
)

type testEnv struct {
	cfg      *models.MConfig
	sim      *feed.Simulator
	settings *display.SettingsHolder
	srv      *FastAPIServer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &models.MConfig{
		Name:     "token-pulse",
		Host:     "127.0.0.1",
		Port:     8000,
		LogLevel: "ERROR",
		Feed: models.MFeedConfig{
			Source:         "mock",
			Seed:           3,
			MaxChangePct:   0.04,
			TickIntervalMs: 1000,
			HistorySize:    20,
			Columns:        config.DefaultColumnLayout(),
		},
	}

	metrics := observability.NewMetrics("test")
	sim := feed.NewSimulator(mock.NewMockSource(cfg, nil), cfg.Feed.HistorySize, metrics, nil)
	_, err := sim.Initialize(context.Background())
	require.NoError(t, err)

	settings := display.NewSettingsHolder(nil, metrics, nil)
	srv := NewFastAPIServer(cfg, sim, settings, metrics, nil)
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{cfg: cfg, sim: sim, settings: settings, srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// -----------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 0.0, body["tick"])
}

func TestColumns_DefaultSort(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/columns", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Columns []models.MColumnView `json:"columns"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Columns, 3)
	assert.Equal(t, 15, body.Columns[0].Count)
	assert.Equal(t, 8, body.Columns[1].Count)
	assert.Equal(t, 25, body.Columns[2].Count)
	assert.Equal(t, "marketCap", body.Columns[0].SortField)
	assert.Equal(t, "desc", body.Columns[0].SortDirection)
}

func TestColumns_FilterAndBadSort(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/columns?columns=Migrated&sort=txCount&dir=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Columns []models.MColumnView `json:"columns"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Columns, 1)
	assert.Equal(t, "Migrated", body.Columns[0].Title)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/columns?sort=holders", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/columns?dir=up", nil).Code)
}

func TestColumn_ByTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/columns/Final%20Stretch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.MColumnView
	decode(t, rec, &view)
	assert.Equal(t, "Final Stretch", view.Title)
	assert.Len(t, view.Cards, 8)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/columns/Nope", nil).Code)
}

func TestToken_DetailAndCandles(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		_, err := env.sim.Step(context.Background())
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/tokens/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.MTokenDetail
	decode(t, rec, &detail)
	assert.Equal(t, "0", detail.Record.ID)
	assert.Len(t, detail.History, 4)
	assert.Greater(t, detail.MeanPrice, 0.0)

	rec = env.do(t, http.MethodGet, "/api/tokens/0/candles?window=1h", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var candles struct {
		Candles []models.MCandle `json:"candles"`
	}
	decode(t, rec, &candles)
	require.NotEmpty(t, candles.Candles)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/tokens/9999", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/tokens/9999/candles", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/tokens/0/candles?window=forever", nil).Code)
}

func TestArchiveRoutes_WithoutDatabase(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/tokens", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/api/tokens/0/ticks", nil).Code)
}

func TestArchiveRoutes_WithDatabase(t *testing.T) {
	env := newTestEnv(t)
	dbCfg := &models.MConfig{Storage: models.MStorageConfig{DBType: "sqlite", DBPath: filepath.Join(t.TempDir(), "pulse.db")}}
	db, err := storage.NewDatabase(dbCfg, nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	env.srv.DB = db

	ctx := context.Background()
	require.NoError(t, db.SaveTokens(ctx, env.sim.Snapshot().Columns))
	require.NoError(t, db.SavePriceTicksBulk(ctx, []models.MPriceTick{
		{TokenID: "0", Symbol: "PEPE", Price: 0.000001, Direction: models.DirectionUp, Timestamp: 1000},
		{TokenID: "0", Symbol: "PEPE", Price: 0.000002, Direction: models.DirectionUp, Timestamp: 2000},
	}))

	rec := env.do(t, http.MethodGet, "/api/tokens", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens []models.MTokenMetadata
	decode(t, rec, &tokens)
	assert.Len(t, tokens, 48)

	rec = env.do(t, http.MethodGet, "/api/tokens/0/ticks?since=1500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ticks []models.MPriceTick
	decode(t, rec, &ticks)
	require.Len(t, ticks, 1)
	assert.Equal(t, int64(2000), ticks[0].Timestamp)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/tokens/0/ticks?since=yesterday", nil).Code)
}

func TestSettings_GetAndPut(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current models.MDisplaySettings
	decode(t, rec, &current)
	assert.Equal(t, models.DefaultDisplaySettings(), current)

	next := models.DefaultDisplaySettings()
	next.NoDecimals = true
	raw, _ := json.Marshal(next)
	rec = env.do(t, http.MethodPut, "/api/settings", raw)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.settings.Get().NoDecimals)

	// cards now render without decimals
	rec = env.do(t, http.MethodGet, "/api/columns/New%20Pairs", nil)
	var view models.MColumnView
	decode(t, rec, &view)
	for _, c := range view.Cards {
		assert.NotContains(t, c.MarketCap, ".")
	}

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/settings", []byte(`{"theme":"neon"}`)).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/settings", []byte(`{`)).Code)
	assert.True(t, env.settings.Get().NoDecimals)
}

func TestConfigAndMetricsRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tick_interval_ms":1000`)

	rec = env.do(t, http.MethodGet, "/api/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":48`)

	rec = env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_server_http_requests_total")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

// -----------------------------------------------------------------------------

func dialWS(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(env.srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readView(t *testing.T, conn *websocket.Conn) models.MFeedView {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var view models.MFeedView
	require.NoError(t, conn.ReadJSON(&view))
	return view
}

func TestWebSocket_InitialSubscribeAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	conn := dialWS(t, env)

	initial := readView(t, conn)
	assert.Equal(t, models.SnapshotInitial, initial.Type)
	require.Len(t, initial.Columns, 3)

	require.NoError(t, conn.WriteJSON(models.MSubscribeCommand{
		Command:       "subscribe",
		Columns:       []string{"Migrated"},
		SortField:     "txCount",
		SortDirection: "asc",
	}))
	subscribed := readView(t, conn)
	assert.Equal(t, models.SnapshotInitial, subscribed.Type)
	require.Len(t, subscribed.Columns, 1)
	assert.Equal(t, "txCount", subscribed.Columns[0].SortField)

	snap, err := env.sim.Step(context.Background())
	require.NoError(t, err)
	env.srv.Broadcast(snap)

	update := readView(t, conn)
	assert.Equal(t, models.SnapshotUpdate, update.Type)
	assert.Equal(t, int64(1), update.Tick)
	require.Len(t, update.Columns, 1)
	assert.Equal(t, "Migrated", update.Columns[0].Title)
	assert.Equal(t, 25, update.Columns[0].Count)
}

func TestWebSocket_RejectsUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	conn := dialWS(t, env)
	_ = readView(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"command": "unsubscribe"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.MErrorMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "ERROR", msg.Type)
	assert.Contains(t, msg.Error, "unsubscribe")

	require.NoError(t, conn.WriteJSON(models.MSubscribeCommand{Command: "subscribe", SortField: "bogus"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "ERROR", msg.Type)
}
