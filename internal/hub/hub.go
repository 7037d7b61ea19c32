package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/internal/status"
)

// Correlator is the part of the engine the hub drives.
type Correlator interface {
	OnSnapshot(ctx context.Context, g game.GameDTO) error
}

// StatusSink is told about every status transition.
type StatusSink interface {
	PresentStatus(s status.Status)
}

type HubMsg interface{ isHubMsg() }

type SnapshotArrived struct {
	Game game.GameDTO
	Done chan error // optional; receives the resolution result
}

type ConnectedChanged struct {
	Connected bool
}

type GetStatus struct {
	Reply chan status.Status
}

type ShutdownHub struct{}

func (SnapshotArrived) isHubMsg()  {}
func (ConnectedChanged) isHubMsg() {}
func (GetStatus) isHubMsg()        {}
func (ShutdownHub) isHubMsg()      {}

// Hub is the single consumption context. Snapshot resolution and status
// changes arriving from I/O goroutines are queued here and run one at a time,
// so presenters never see two updates interleaved.
type Hub struct {
	inbox     chan HubMsg
	engine    Correlator
	indicator *status.Indicator
	sink      StatusSink
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewHub(parent context.Context, engine Correlator, indicator *status.Indicator, sink StatusSink, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		engine:    engine,
		indicator: indicator,
		sink:      sink,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	sink.PresentStatus(indicator.Current())
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case SnapshotArrived:
				err := h.engine.OnSnapshot(h.ctx, msg.Game)
				if err != nil {
					h.log.Warn("snapshot resolved with errors", zap.Int64("game_id", msg.Game.ID), zap.Error(err))
				}
				if msg.Done != nil {
					msg.Done <- err
				}

			case ConnectedChanged:
				s := h.indicator.OnConnectedChanged(msg.Connected)
				h.log.Info("connection status", zap.Stringer("status", s))
				h.sink.PresentStatus(s)

			case GetStatus:
				msg.Reply <- h.indicator.Current()

			case ShutdownHub:
				h.cancel()
				return
			}
		}
	}
}

// OnSnapshot marshals a snapshot onto the hub and waits until it has been
// resolved, so the caller's next delivery cannot overtake it.
func (h *Hub) OnSnapshot(ctx context.Context, g game.GameDTO) {
	done := make(chan error, 1)
	select {
	case h.inbox <- SnapshotArrived{Game: g, Done: done}:
	case <-ctx.Done():
		return
	case <-h.ctx.Done():
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	case <-h.ctx.Done():
	}
}

func (h *Hub) OnConnectedChanged(connected bool) {
	select {
	case h.inbox <- ConnectedChanged{Connected: connected}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Status(ctx context.Context) (status.Status, error) {
	reply := make(chan status.Status, 1)
	select {
	case h.inbox <- GetStatus{Reply: reply}:
	case <-ctx.Done():
		return status.NotInstalled, ctx.Err()
	case <-h.ctx.Done():
		return status.NotInstalled, h.ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return status.NotInstalled, ctx.Err()
	case <-h.ctx.Done():
		return status.NotInstalled, h.ctx.Err()
	}
}

// Close stops the loop and waits for the current message to finish.
func (h *Hub) Close() {
	h.cancel()
	<-h.done
}
