package lobby

import (
	"context"

	"github.com/DoyleJ11/lolnotes/internal/engine"
	"github.com/DoyleJ11/lolnotes/internal/status"
)

type Msg interface{ isLobbyMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this watcher wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type SetTeam struct {
	Team    int
	Visible bool
}

func (SetTeam) isLobbyMsg() {}

type SetSlot struct {
	Team   int
	Slot   int
	Update engine.SlotUpdate
}

func (SetSlot) isLobbyMsg() {}

type SetStatus struct{ Status status.Status }

func (SetStatus) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type TeamView struct {
	Visible bool                `json:"visible"`
	Slots   []engine.SlotUpdate `json:"slots"`
}

type State struct {
	Status status.Status `json:"status"`
	Teams  [2]TeamView   `json:"teams"`
}

// Export fields
type Snapshot struct {
	Version int
	State   State
}

type View struct {
	Version    int
	NumClients int
	State      State
}

// Lobby is the presented view of the live game. It applies slot updates in the
// order they arrive and fans a versioned snapshot out to every watcher.
type Lobby struct {
	inbox   chan Msg
	state   State
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ engine.Presenter = (*Lobby)(nil)

func NewLobby(parent context.Context, slots int) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64), // Small buffer
		state:   newState(slots),
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
	}

	go l.loop()
	return l
}

func newState(slots int) State {
	var s State
	for i := range s.Teams {
		s.Teams[i] = TeamView{Slots: make([]engine.SlotUpdate, slots)}
	}
	return s
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register watcher + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: l.version, State: l.copyState()}

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
				}

			case SetTeam:
				if !validTeam(msg.Team) {
					break
				}
				l.state.Teams[msg.Team].Visible = msg.Visible
				l.commit()

			case SetSlot:
				if !validTeam(msg.Team) || msg.Slot < 0 || msg.Slot >= len(l.state.Teams[msg.Team].Slots) {
					break
				}
				l.state.Teams[msg.Team].Slots[msg.Slot] = msg.Update
				l.commit()

			case SetStatus:
				if l.state.Status == msg.Status {
					break
				}
				l.state.Status = msg.Status
				l.commit()

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.copyState(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func validTeam(team int) bool { return team >= 0 && team < 2 }

func (l *Lobby) commit() {
	l.version++
	l.broadcast(Snapshot{Version: l.version, State: l.copyState()})
}

// copyState detaches the slot slices so watchers never share them with the loop.
func (l *Lobby) copyState() State {
	s := l.state
	for i := range s.Teams {
		s.Teams[i].Slots = append([]engine.SlotUpdate(nil), l.state.Teams[i].Slots...)
	}
	return s
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell watcher no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Watcher is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
		}
	}
}

func (l *Lobby) send(m Msg) {
	select {
	case l.inbox <- m:
	case <-l.ctx.Done():
	}
}

func (l *Lobby) PresentTeam(team int, visible bool) {
	l.send(SetTeam{Team: team, Visible: visible})
}

func (l *Lobby) PresentSlot(team, slot int, update engine.SlotUpdate) {
	l.send(SetSlot{Team: team, Slot: slot, Update: update})
}

func (l *Lobby) PresentStatus(s status.Status) {
	l.send(SetStatus{Status: s})
}

// Current returns the latest view, or false if the lobby has shut down.
func (l *Lobby) Current(ctx context.Context) (View, bool) {
	reply := make(chan View, 1)
	select {
	case l.inbox <- GetState{Reply: reply}:
	case <-l.ctx.Done():
		return View{}, false
	case <-ctx.Done():
		return View{}, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-l.ctx.Done():
		return View{}, false
	case <-ctx.Done():
		return View{}, false
	}
}

// Done is closed once the lobby has shut down and stopped reading its inbox.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }
