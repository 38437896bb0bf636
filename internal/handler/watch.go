package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
	"github.com/tripfolio/tripfolio/backend/internal/live"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second
	// pongWait is how long the peer may stay silent before the read side
	// gives up; pings go out at pingPeriod to keep the window refreshed.
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// upgrader accepts any handshake origin: sessions are bearer-token based,
// not cookie based, so a cross-origin handshake carries no ambient
// credentials and still has to present a valid token to reach this handler.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watchMessage is one emission on a watch socket. Type is "snapshot",
// "not_found", or "error"; the payload field matching the watched resource
// is set only for snapshots.
type watchMessage struct {
	Type    string           `json:"type"`
	Message string           `json:"message,omitempty"`
	Trip    *tripResponse    `json:"trip,omitempty"`
	Profile *profileResponse `json:"profile,omitempty"`
}

// WatchTrip handles GET /trips/{tripID}/watch. It upgrades to a websocket
// and streams one snapshot message per committed change to the trip, from
// this session or any other, starting with the current state. A trip that
// does not exist (or belongs to someone else) streams a not_found message
// and stays open: the document may come into existence later.
func (s *Server) WatchTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	// Surface errors other than not-found before committing to the upgrade.
	if _, err := s.trips.GetByID(r.Context(), owner, tripID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		writeError(w, err)
		return
	}

	s.serveWatch(w, r, func(ctx context.Context) <-chan watchMessage {
		events := s.watcher.WatchTrip(ctx, tripID)
		out := make(chan watchMessage)
		go func() {
			defer close(out)
			for ev := range events {
				msg := tripEventToMessage(ev, owner)
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// WatchProfile handles GET /profile/watch with the same streaming contract
// as WatchTrip, for the caller's own profile document.
func (s *Server) WatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity(w, r)
	if !ok {
		return
	}

	s.serveWatch(w, r, func(ctx context.Context) <-chan watchMessage {
		events := s.watcher.WatchUser(ctx, userID)
		out := make(chan watchMessage)
		go func() {
			defer close(out)
			for ev := range events {
				msg := userEventToMessage(ev)
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out
	})
}

// serveWatch runs the shared websocket pump: upgrade, spawn a reader whose
// only job is detecting the peer going away, then forward messages until
// either side closes. Closing is idempotent by construction — the context
// cancel and the deferred Close tolerate repetition.
func (s *Server) serveWatch(w http.ResponseWriter, r *http.Request, stream func(context.Context) <-chan watchMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The client never sends data messages; this loop exists to notice the
	// close frame (or a dead connection) and tear the stream down.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	messages := stream(ctx)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// tripEventToMessage maps a live emission onto the wire message, applying
// the ownership filter: someone else's trip looks exactly like a missing one.
func tripEventToMessage(ev live.TripEvent, owner uuid.UUID) watchMessage {
	switch {
	case ev.Err != nil:
		return watchMessage{Type: "error", Message: "failed to load trip"}
	case ev.NotFound:
		return watchMessage{Type: "not_found"}
	case ev.Value.Owner != owner:
		return watchMessage{Type: "not_found"}
	default:
		resp := tripToResponse(*ev.Value)
		return watchMessage{Type: "snapshot", Trip: &resp}
	}
}

// userEventToMessage maps a profile emission onto the wire message.
func userEventToMessage(ev live.UserEvent) watchMessage {
	switch {
	case ev.Err != nil:
		return watchMessage{Type: "error", Message: "failed to load profile"}
	case ev.NotFound:
		return watchMessage{Type: "not_found"}
	default:
		resp := userToResponse(*ev.Value)
		return watchMessage{Type: "snapshot", Profile: &resp}
	}
}
