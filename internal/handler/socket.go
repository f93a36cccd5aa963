package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the envelope for everything the server pushes over a socket.
type wsMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeMessage(conn *websocket.Conn, msg wsMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func readFailed(err error) bool {
	return websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure)
}

// pushUpdates writes every value from updates as a message of the given type until the
// channel closes or a write fails. Incoming messages are drained and ignored; the session
// ends when the peer goes away.
func pushUpdates[T any](ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, kind string, updates <-chan T) {
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if readFailed(err) {
					log.Warn().Err(err).Str("stream", kind).Msg("WebSocket read failed")
				}
				return
			}
		}
	}()

	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return
			}
			if err := writeMessage(conn, wsMessage{Type: kind, Data: v}); err != nil {
				log.Warn().Err(err).Str("stream", kind).Msg("WebSocket write failed")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
