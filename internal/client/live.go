package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"codejourney-backend/internal/models"
)

// WebSocketURL maps the API base URL onto the /ws endpoint, carrying the token as a
// query parameter.
func (c *Client) WebSocketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if token := c.bearer(); token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Watch blocks until ctx ends or the connection drops, calling onUpdate for every
// tracker_updated push.
func (c *Client) Watch(ctx context.Context, onUpdate func(models.TrackerUpdate)) error {
	target, err := c.WebSocketURL()
	if err != nil {
		return err
	}

	// Ends the closer goroutine when the connection drops first.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg struct {
			Type    string               `json:"type"`
			Payload models.TrackerUpdate `json:"payload"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != models.WSTrackerUpdated {
			continue
		}
		onUpdate(msg.Payload)
	}
}

// ResourcesFor maps a pushed update onto the cached resources it invalidates.
func ResourcesFor(u models.TrackerUpdate) []Resource {
	switch u.Resource {
	case "courses":
		return []Resource{ResourceCourses, ResourceSummary}
	case "logs":
		return []Resource{ResourceLogs, ResourceCourses, ResourceSummary}
	case "planned":
		return []Resource{ResourcePlanned, ResourceSummary}
	}
	return allResources
}

// Apply re-fetches what an update touched.
func (s *Store) Apply(ctx context.Context, u models.TrackerUpdate) {
	s.refetch(ctx, ResourcesFor(u)...)
}
