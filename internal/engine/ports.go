package engine

import (
	"context"
	"time"

	"github.com/DoyleJ11/lolnotes/internal/game"
)

// Store is the narrow read contract the engine needs from the stats store.
// found=false with a nil error means the user has no history.
type Store interface {
	FindLatestByUserID(ctx context.Context, userID int64) (rec game.EndOfGameStats, found bool, err error)
}

// Presenter receives slot updates in team/slot order.
type Presenter interface {
	PresentTeam(team int, visible bool)
	PresentSlot(team, slot int, update SlotUpdate)
}

// Observer is notified of engine decisions. Implementations must not block.
type Observer interface {
	GameChanged(gameID int64)
	PlayerResolved(gameID int64, team, slot int, r Resolved)
}

type Source string

const (
	SourceHistorical Source = "historical"
	SourceLive       Source = "live"
)

// Resolved is what reaches the presenter for an occupied slot: either the
// player's entry from their latest record, or the live participant itself.
type Resolved struct {
	Source     Source            `json:"source"`
	RecordID   string            `json:"recordId,omitempty"`
	RecordTime time.Time         `json:"recordTime,omitzero"`
	Stats      *game.PlayerStats `json:"stats,omitempty"`
	Live       *game.Participant `json:"live,omitempty"`
}

type SlotUpdate struct {
	Visible bool      `json:"visible"`
	Player  *Resolved `json:"player,omitempty"`
}
