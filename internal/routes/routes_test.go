package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/realtime"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, *realtime.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stores := testutil.NewJSONStores(t)
	hub := realtime.NewHub()
	return SetupRoutes(Dependencies{Users: stores.Users, Tools: stores.Tools, Hub: hub}), hub
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func requireCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	require.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHealth(t *testing.T) {
	r, _ := setup(t)
	w := serve(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCollections_PreflightAndHeaders(t *testing.T) {
	r, _ := setup(t)
	for _, path := range []string{"/users", "/werkzeuge", NetlifyPrefix + "/users", NetlifyPrefix + "/werkzeuge"} {
		w := serve(r, http.MethodOptions, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Empty(t, w.Body.String(), path)
		requireCORS(t, w)

		w = serve(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		requireCORS(t, w)
	}
}

func TestCollections_UnsupportedMethod(t *testing.T) {
	r, _ := setup(t)
	for _, method := range []string{http.MethodPatch, http.MethodHead} {
		w := serve(r, method, "/werkzeuge", "")
		require.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		requireCORS(t, w)
	}

	w := serve(r, http.MethodPatch, "/users", "")
	require.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestNetlifyPathsShareTheStore(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodPost, NetlifyPrefix+"/werkzeuge", `{"name":"Saw","owner":"max"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodGet, "/werkzeuge", "")
	require.Contains(t, w.Body.String(), `"Saw"`)
}

func TestEvents_StreamsChanges(t *testing.T) {
	r, hub := setup(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?collection=werkzeuge"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Subscribers("werkzeuge") == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/werkzeuge", "application/json", strings.NewReader(`{"name":"Saw","owner":"max"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(msg), `"type":"werkzeug_created"`)
	require.Contains(t, string(msg), `"id":3`)
}

func TestEvents_UnknownCollection(t *testing.T) {
	r, _ := setup(t)
	w := serve(r, http.MethodGet, "/events?collection=orders", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
