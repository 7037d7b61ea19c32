package snapshot

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/pkg/types"
)

// Callback receives snapshots one at a time, in arrival order.
type Callback func(ctx context.Context, g game.GameDTO)

// Source decodes GameDTO frames from the channel and hands them to a single
// callback. The handoff slot is unbuffered: while a snapshot is being delivered
// the channel's reader waits instead of queueing or dropping the next one.
type Source struct {
	frames  chan json.RawMessage
	deliver Callback
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSource(parent context.Context, ch connection.Channel, deliver Callback, log *zap.Logger) *Source {
	ctx, cancel := context.WithCancel(parent)
	s := &Source{
		frames:  make(chan json.RawMessage),
		deliver: deliver,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	ch.OnFrame(s.onFrame)

	go s.loop()
	return s
}

func (s *Source) onFrame(env types.Envelope) {
	if env.Type != types.TypeGameDTO {
		return
	}
	select {
	case s.frames <- env.Body:
	case <-s.ctx.Done():
	}
}

func (s *Source) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return

		case raw := <-s.frames:
			g, err := game.DecodeGameDTO(raw)
			if err != nil {
				s.log.Warn("dropping malformed snapshot", zap.Error(err))
				break
			}
			s.deliver(s.ctx, g)
		}
	}
}

// Close stops delivery and waits for an in-flight callback to return.
func (s *Source) Close() {
	s.cancel()
	<-s.done
}
