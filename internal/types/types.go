package types

import (
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/status"
)

// Server -> Watcher
type ServerMessage struct {
	Type    string       `json:"type"` // "LobbyView" | "Error"
	Version int          `json:"version,omitempty"`
	State   *lobby.State `json:"state,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type StatusResponse struct {
	Status    status.Status `json:"status"`
	GameID    int64         `json:"gameId"`
	CachedFor int           `json:"cachedPlayers"`
	Records   int64         `json:"records"`
}

type LatestResponse struct {
	UserID int64               `json:"userId"`
	Record game.EndOfGameStats `json:"record"`
	Stats  game.PlayerStats    `json:"stats"`
}
