package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/internal/hub"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 8
)

// Handler streams ranking snapshots to the connected client until either side
// goes away. Messages from the client are read and discarded.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan hub.Snapshot, outboxSize)
		subID := randID(8)

		// the inbox is buffered, so a Subscribe can outlive the hub
		select {
		case <-h.Done():
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		default:
		}
		select {
		case h.Inbox() <- hub.Subscribe{ID: subID, Outbox: out}:
		case <-h.Done():
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		}
		defer func() {
			select {
			case h.Inbox() <- hub.Unsubscribe{ID: subID}:
			case <-h.Done():
			}
		}()

		// reader: CloseRead discards client frames and cancels ctx on close
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				return
			case <-h.Done():
				conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			case snap, ok := <-out:
				if !ok {
					// dropped by the hub or hub shut down
					conn.Close(websocket.StatusTryAgainLater, "feed closed")
					return
				}
				if err := write(ctx, conn, snap); err != nil {
					log.Debug("feed write failed", zap.String("subscriber", subID), zap.Error(err))
					return
				}
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, snap hub.Snapshot) error {
	msg := types.FeedMessage{Type: types.FeedRankingSnapshot, Version: snap.Version, Rankings: snap.Rankings}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
