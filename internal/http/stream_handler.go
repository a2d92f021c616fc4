package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
)

const (
	streamBuffer = 64
	writeWait    = 5 * time.Second
)

type CartFeed interface {
	Snapshot() domain.CartSnapshot
	Subscribe(fn cart.Listener) (unsubscribe func())
}

type SessionFeed interface {
	Snapshot() session.Snapshot
	Subscribe(fn session.Listener) (unsubscribe func())
}

// StreamMessage is one frame on the live stream: either the cart or the
// session changed.
type StreamMessage struct {
	Type    string            `json:"type"`
	Cart    *CartResponse     `json:"cart,omitempty"`
	Session *session.Snapshot `json:"session,omitempty"`
}

// StreamHandler pushes cart and session snapshots to websocket clients as the
// stores change. A client that falls streamBuffer frames behind is dropped.
type StreamHandler struct {
	cart         CartFeed
	sessions     SessionFeed
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

func NewStreamHandler(c CartFeed, s SessionFeed) *StreamHandler {
	return &StreamHandler{
		cart:     c,
		sessions: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: 30 * time.Second,
	}
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan StreamMessage, streamBuffer)
	push := func(m StreamMessage) {
		select {
		case out <- m:
		default:
			cancel()
		}
	}

	defer h.cart.Subscribe(func(s domain.CartSnapshot) {
		push(cartMessage(s))
	})()
	defer h.sessions.Subscribe(func(s session.Snapshot) {
		push(sessionMessage(s))
	})()
	push(cartMessage(h.cart.Snapshot()))
	push(sessionMessage(h.sessions.Snapshot()))

	// the reader only notices the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case m := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func cartMessage(s domain.CartSnapshot) StreamMessage {
	c := toCartResponse(s)
	return StreamMessage{Type: "cart", Cart: &c}
}

func sessionMessage(s session.Snapshot) StreamMessage {
	return StreamMessage{Type: "session", Session: &s}
}
