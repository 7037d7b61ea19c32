package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/types"
	wire "github.com/DoyleJ11/lolnotes/pkg/types"
)

// ClientHandler accepts the in-game hook. Frames are handed to the pipe on this
// goroutine, so a slow subscriber slows down reading instead of queueing.
func ClientHandler(pipe *connection.Pipe, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pipe.IsConnected() {
			http.Error(w, connection.ErrBusy.Error(), http.StatusConflict)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(1 << 20)

		session, err := pipe.Attach(r.RemoteAddr)
		if err != nil {
			conn.Close(websocket.StatusTryAgainLater, err.Error())
			return
		}
		defer pipe.Detach(session)

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("game client read ended", zap.Error(err))
					}
				}
				return
			}

			var env wire.Envelope
			if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
				log.Warn("dropping malformed frame", zap.Int("bytes", len(data)), zap.Error(err))
				continue
			}
			pipe.Deliver(env)
		}
	}
}

// WatchHandler streams the presented lobby to a UI watcher.
func WatchHandler(lb *lobby.Lobby, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()

		select {
		case lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}:
		case <-lb.Done():
			conn.Close(websocket.StatusTryAgainLater, "lobby closed")
			return
		case <-r.Context().Done():
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{ClientID: clientID}:
			case <-lb.Done():
			case <-time.After(time.Second):
			}
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			defer writeCancel()
			for {
				var (
					snap lobby.Snapshot
					ok   bool
				)
				select {
				case snap, ok = <-out:
				case <-lb.Done():
				case <-writeCtx.Done():
					return
				}
				if !ok {
					// Lobby dropped us (slow) or shut down
					conn.Close(websocket.StatusTryAgainLater, "lobby closed")
					return
				}

				msg := types.ServerMessage{Type: "LobbyView", Version: snap.Version, State: &snap.State}
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("marshal lobby view", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				err = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					return
				}
			}
		}()

		// Watchers only listen; reading keeps control frames flowing and
		// notices when they go away.
		for {
			if _, _, err := conn.Read(writeCtx); err != nil {
				return
			}
		}
	}
}
