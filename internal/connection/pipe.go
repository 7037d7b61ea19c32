package connection

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/pkg/types"
)

var ErrBusy = errors.New("a game client is already connected")

type FrameHandler func(types.Envelope)
type StatusHandler func(connected bool)

// Channel is the consumer side of the link to the game client.
type Channel interface {
	OnFrame(FrameHandler)
	OnConnectedChanged(StatusHandler)
	IsConnected() bool
}

// Pipe is the link to the in-game hook. Exactly one client may be attached at a
// time. Handlers run on the attached client's read goroutine, in registration
// order; a handler that blocks holds up the next frame.
type Pipe struct {
	mu       sync.Mutex
	frames   []FrameHandler
	statuses []StatusHandler
	session  string

	// serializes attach/detach including their notifications so listeners
	// never observe connected/disconnected out of order
	statusMu sync.Mutex

	log *zap.Logger
}

var _ Channel = (*Pipe)(nil)

func NewPipe(log *zap.Logger) *Pipe {
	return &Pipe{log: log}
}

func (p *Pipe) OnFrame(h FrameHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, h)
}

func (p *Pipe) OnConnectedChanged(h StatusHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, h)
}

func (p *Pipe) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != ""
}

// Attach claims the pipe for a new client and returns its session id.
func (p *Pipe) Attach(remote string) (string, error) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()

	p.mu.Lock()
	if p.session != "" {
		p.mu.Unlock()
		return "", ErrBusy
	}
	p.session = uuid.NewString()
	session := p.session
	handlers := append([]StatusHandler(nil), p.statuses...)
	p.mu.Unlock()

	p.log.Info("game client connected", zap.String("session", session), zap.String("remote", remote))
	for _, h := range handlers {
		h(true)
	}
	return session, nil
}

// Detach releases the pipe. Unknown or stale sessions are ignored.
func (p *Pipe) Detach(session string) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()

	p.mu.Lock()
	if session == "" || p.session != session {
		p.mu.Unlock()
		return
	}
	p.session = ""
	handlers := append([]StatusHandler(nil), p.statuses...)
	p.mu.Unlock()

	p.log.Info("game client disconnected", zap.String("session", session))
	for _, h := range handlers {
		h(false)
	}
}

// Deliver hands one decoded envelope to every frame handler.
func (p *Pipe) Deliver(env types.Envelope) {
	p.mu.Lock()
	handlers := append([]FrameHandler(nil), p.frames...)
	p.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}
