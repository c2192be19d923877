package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Stream upgrades to a WebSocket and writes every announcement event as a
// JSON text frame until the client goes away.
func Stream(b *Board, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Debugw("websocket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		events, unsubscribe := b.Subscribe()
		defer unsubscribe()

		// reads only serve to notice the client closing
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				err = conn.Write(writeCtx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					logger.Debugw("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
