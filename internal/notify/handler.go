package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
)

// Handler serves the event-stream endpoint.
type Handler struct {
	logger *slog.Logger
	hub    *Hub
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, hub *Hub) *Handler {
	return &Handler{logger: logger, hub: hub}
}

// MountRoutes registers the stream route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/events", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// the stream outlives the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	userID := identity.UserID(r.Context())
	clientID := fmt.Sprintf("%s_%d", userID, time.Now().UnixNano())
	client := &Client{ID: clientID, UserID: userID, Events: make(chan Event, 64)}
	h.hub.Register(client)
	defer h.hub.Unregister(clientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"clientId\":%q}\n\n", clientID)
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.EventType, event.Data)
			flusher.Flush()
		}
	}
}
