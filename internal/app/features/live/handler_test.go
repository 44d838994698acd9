package live_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	livefeature "github.com/marcuwynu23/gitshelf/internal/app/features/live"
	"github.com/marcuwynu23/gitshelf/internal/app/notify"
	"github.com/marcuwynu23/gitshelf/internal/app/system/auth"
)

// newTestServer serves HandleConnect behind a shim that injects the given
// identity, or leaves the request anonymous when id is nil.
func newTestServer(t *testing.T, hub *notify.Hub, id *auth.Identity) *httptest.Server {
	t.Helper()
	h := livefeature.NewHandler(hub, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id != nil {
			r = auth.WithIdentity(r, *id)
		}
		h.HandleConnect(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitForSessions(t *testing.T, hub *notify.Hub, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SessionCount(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("SessionCount(%q) = %d, want %d", userID, hub.SessionCount(userID), want)
}

func TestHandleConnect_DeliversHubEvents(t *testing.T) {
	hub := notify.NewHub(4, zap.NewNop())
	defer hub.Close()
	srv := newTestServer(t, hub, &auth.Identity{UserID: "u-1", Username: "alice"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForSessions(t, hub, "u-1", 1)
	hub.NotifyUser("u-1", "new_activity", map[string]string{"title": "Created repository demo.git"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if ev.Event != "new_activity" {
		t.Errorf("event = %q, want %q", ev.Event, "new_activity")
	}
	if !strings.Contains(string(ev.Payload), "demo.git") {
		t.Errorf("payload %s does not carry the activity", ev.Payload)
	}
}

func TestHandleConnect_AnonymousIsNeverRegistered(t *testing.T) {
	hub := notify.NewHub(4, zap.NewNop())
	defer hub.Close()
	srv := newTestServer(t, hub, nil)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected the anonymous dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
	if got := hub.SessionCount(""); got != 0 {
		t.Errorf("SessionCount = %d, want 0", got)
	}
}

func TestHandleConnect_DisconnectUnregisters(t *testing.T) {
	hub := notify.NewHub(4, zap.NewNop())
	defer hub.Close()
	srv := newTestServer(t, hub, &auth.Identity{UserID: "u-2", Username: "bob"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForSessions(t, hub, "u-2", 1)

	conn.Close()
	waitForSessions(t, hub, "u-2", 0)
}
