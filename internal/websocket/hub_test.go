package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"codejourney-backend/internal/middleware"
	"codejourney-backend/internal/models"
)

func dial(t *testing.T, srv *httptest.Server, query string) (*gws.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws" + query
	return gws.DefaultDialer.Dial(url, nil)
}

func waitForConnections(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connections, have %d", n, h.ConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_BroadcastWithoutRedis(t *testing.T) {
	hub := NewHub(nil, "tracker_updates", middleware.NewJWTAuth("", time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn, _, err := dial(t, srv, "")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForConnections(t, hub, 1)

	hub.Send(models.WSMessage{Type: models.WSTrackerUpdated, Payload: models.TrackerUpdate{Resource: "logs"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type    string               `json:"type"`
		Payload models.TrackerUpdate `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != models.WSTrackerUpdated || msg.Payload.Resource != "logs" {
		t.Fatalf("unexpected message %+v", msg)
	}

	conn.Close()
	waitForConnections(t, hub, 0)
}

func TestHub_RequiresTokenWhenAuthEnabled(t *testing.T) {
	auth := middleware.NewJWTAuth("secret", time.Hour)
	hub := NewHub(nil, "tracker_updates", auth)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	_, resp, err := dial(t, srv, "")
	if err == nil {
		t.Fatalf("expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp)
	}

	token, _ := auth.GenerateAccessToken(middleware.AdminSubject)
	conn, _, err := dial(t, srv, "?token="+token)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	conn.Close()
}
