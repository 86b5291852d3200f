package sse

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ab3d1/moneygrid/internal/api/response"
	"github.com/ab3d1/moneygrid/internal/model"
	"github.com/ab3d1/moneygrid/internal/services/roster"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 16
)

var errSlowClient = errors.New("client too slow for roster feed")

// Event names pushed to clients
const (
	EventConnected = "connected"
	EventRoster    = "roster"
	EventSyncError = "sync-error"
)

// ServeRoster handles an SSE connection streaming full roster snapshots.
//
// The client receives a connected event, the current roster, and then the
// complete roster again on every change. A sync-error event means the feed
// is terminated and the client must reconnect to recover.
func ServeRoster(w http.ResponseWriter, r *http.Request, rosterService *roster.Service, logger *slog.Logger) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	send := make(chan []byte, sendBufferSize)
	errCh := make(chan error, 1)

	sub := rosterService.Subscribe(
		func(snapshot model.Roster) {
			msg, err := rosterEvent(snapshot)
			if err != nil {
				return
			}
			select {
			case send <- msg:
			default:
				// A client that cannot keep up with full snapshots is
				// broken; terminate so it reconnects with fresh state
				logger.Warn("sse client buffer full, terminating stream")
				select {
				case errCh <- errSlowClient:
				default:
				}
			}
		},
		func(err error) {
			select {
			case errCh <- err:
			default:
			}
		},
	)
	defer sub.Cancel()

	// Send initial connection event and the current roster
	_, _ = w.Write(formatEvent(EventConnected, `{"status":"connected"}`))
	if snapshot, err := rosterService.Snapshot(r.Context()); err == nil {
		if msg, err := rosterEvent(snapshot); err == nil {
			_, _ = w.Write(msg)
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-send:
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case err := <-errCh:
			// Subscription terminated; distinct from operation errors
			_, _ = w.Write(formatEvent(EventSyncError, err.Error()))
			flusher.Flush()
			return

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// rosterEvent marshals a snapshot into an SSE roster event
func rosterEvent(snapshot model.Roster) ([]byte, error) {
	data, err := json.Marshal(response.RosterFromModel(snapshot))
	if err != nil {
		return nil, err
	}
	return formatEvent(EventRoster, string(data)), nil
}

// formatEvent formats an SSE message with event name and data.
// Multi-line data is properly formatted with "data: " prefix on each line.
func formatEvent(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r", ""), "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
