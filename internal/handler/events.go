package handler

import (
	"fmt"
	"net/http"
	"time"
)

// streamRefresh handles GET /api/reservations/events.
// It writes Server-Sent Events: one "ready" event with the listing's current
// version, then one "refresh" event each time the listing applies a fetch.
// Events are sent only after the listing holds the new rows, so a client
// reading the fragment on "refresh" never sees the state before it. Signals
// are coalesced, so a slow client sees only the latest.
func (s *Server) streamRefresh(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server's WriteTimeout.
	_ = rc.SetWriteDeadline(time.Time{})

	sub := s.listing.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, "ready", s.listing.View().Version); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.streamsDone:
			return
		case _, ok := <-sub.C():
			if !ok {
				return
			}
			if err := writeEvent(w, rc, "refresh", s.listing.View().Version); err != nil {
				s.log.DebugContext(r.Context(), "refresh stream closed", "error", err)
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, version uint64) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %d\n\n", event, version); err != nil {
		return err
	}
	return rc.Flush()
}
