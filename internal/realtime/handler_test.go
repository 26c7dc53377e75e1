package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/centerapp/backend/internal/auth"
	"github.com/centerapp/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, Registry, *auth.Verifier) {
	t.Helper()
	verifier := auth.NewVerifier()
	registry := NewRegistry()
	handler := NewHandler(registry, verifier)

	e := echo.New()
	handler.RegisterRoutes(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, registry, verifier
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := ws.ReadMessage()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestHandlerRejectsInvalidToken(t *testing.T) {
	srv, registry, _ := newTestServer(t)
	ws := dial(t, srv)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": "garbage"}))

	reply := readEvent(t, ws)
	require.Equal(t, "auth_error", reply["type"])
	require.Equal(t, "Invalid token", reply["message"])

	// A failed attempt never registers anything.
	require.Empty(t, registry.Connections())
}

func TestHandlerAuthenticatesAndRegisters(t *testing.T) {
	srv, registry, verifier := newTestServer(t)
	ws := dial(t, srv)

	token, err := verifier.Issue(&models.User{ID: 7, Email: "user@example.com"})
	require.NoError(t, err)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))

	reply := readEvent(t, ws)
	require.Equal(t, "auth_success", reply["type"])
	require.Equal(t, float64(7), reply["userId"])
	require.Equal(t, "user@example.com", reply["email"])

	// Registration is visible to the rest of the process.
	require.Eventually(t, func() bool {
		_, ok := registry.Lookup(7)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestHandlerIgnoresMalformedMessages(t *testing.T) {
	srv, _, verifier := newTestServer(t)
	ws := dial(t, srv)

	// Malformed JSON is ignored; the channel stays usable.
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))

	token, err := verifier.Issue(&models.User{ID: 3, Email: "three@example.com"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))

	reply := readEvent(t, ws)
	require.Equal(t, "auth_success", reply["type"])
}

func TestHandlerFailedAuthAllowsRetry(t *testing.T) {
	srv, _, verifier := newTestServer(t)
	ws := dial(t, srv)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": "bad"}))
	require.Equal(t, "auth_error", readEvent(t, ws)["type"])

	token, err := verifier.Issue(&models.User{ID: 9, Email: "nine@example.com"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))
	require.Equal(t, "auth_success", readEvent(t, ws)["type"])
}

func TestHandlerDeliversTargetedEvents(t *testing.T) {
	srv, registry, verifier := newTestServer(t)
	ws := dial(t, srv)

	token, err := verifier.Issue(&models.User{ID: 5, Email: "five@example.com"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))
	require.Equal(t, "auth_success", readEvent(t, ws)["type"])

	bus := NewBus(registry)
	require.Eventually(t, func() bool {
		return bus.SendToUser(5, New(KindNewEmployee, map[string]any{"employeeId": 12}))
	}, time.Second, 10*time.Millisecond)

	event := readEvent(t, ws)
	require.Equal(t, "new_employee", event["type"])
	require.Equal(t, float64(12), event["employeeId"])
}

func TestConnSerializesConcurrentSends(t *testing.T) {
	srv, registry, verifier := newTestServer(t)
	ws := dial(t, srv)

	token, err := verifier.Issue(&models.User{ID: 6, Email: "six@example.com"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))
	require.Equal(t, "auth_success", readEvent(t, ws)["type"])

	var conn Conn
	require.Eventually(t, func() bool {
		var ok bool
		conn, ok = registry.Lookup(6)
		return ok
	}, time.Second, 10*time.Millisecond)

	// Concurrent sends to the same connection must come out as whole frames,
	// one per send. Unserialized writes would corrupt or drop frames and the
	// reads below would come up short.
	const sends = 25
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn.Send(New(KindNewEmployee, map[string]any{"employeeId": n}))
		}(i)
	}

	seen := make(map[float64]bool)
	for i := 0; i < sends; i++ {
		event := readEvent(t, ws)
		require.Equal(t, "new_employee", event["type"])
		seen[event["employeeId"].(float64)] = true
	}
	require.Len(t, seen, sends)
	wg.Wait()
}

func TestHandlerDisconnectUnregisters(t *testing.T) {
	srv, registry, verifier := newTestServer(t)
	ws := dial(t, srv)

	token, err := verifier.Issue(&models.User{ID: 4, Email: "four@example.com"})
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{"type": "auth", "token": token}))
	require.Equal(t, "auth_success", readEvent(t, ws)["type"])

	require.Eventually(t, func() bool {
		_, ok := registry.Lookup(4)
		return ok
	}, time.Second, 10*time.Millisecond)

	ws.Close()

	require.Eventually(t, func() bool {
		_, ok := registry.Lookup(4)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
