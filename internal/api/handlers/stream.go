package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/xuefei993/renewables/internal/store"
)

const (
	streamBuffer    = 64
	streamWriteWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS middleware
	},
}

// streamMessage is one websocket frame. The first frame is a snapshot of the session.
type streamMessage struct {
	Type    string       `json:"type"`
	Session interface{}  `json:"session,omitempty"`
	Event   *store.Event `json:"event,omitempty"`
}

// Stream handles GET /api/v1/sessions/:id/stream
func (h *SessionHandler) Stream(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("SessionHandler: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan store.Event, streamBuffer)
	cancel := s.Store.Subscribe(func(ev store.Event) {
		select {
		case events <- ev:
		default:
			log.Printf("SessionHandler: stream %s is slow, dropping %s event", s.ID, ev.Kind)
		}
	})
	defer cancel()

	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(streamMessage{Type: "snapshot", Session: sessionResponse(s)}); err != nil {
		return
	}

	// Keep reading so close frames are noticed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(streamMessage{Type: "event", Event: &ev}); err != nil {
				log.Printf("SessionHandler: stream write error: %v", err)
				return
			}
		}
	}
}
