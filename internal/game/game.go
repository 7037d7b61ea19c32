package game

import (
	"fmt"
	"time"
)

type ParticipantKind int

const (
	KindEmpty ParticipantKind = iota
	KindPlayer
	KindOther
)

func (k ParticipantKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindOther:
		return "other"
	default:
		return "empty"
	}
}

func (k ParticipantKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ParticipantKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*k = KindEmpty
	case "player":
		*k = KindPlayer
	case "other":
		*k = KindOther
	default:
		return fmt.Errorf("unknown participant kind %q", b)
	}
	return nil
}

// Participant is a tagged union: exactly one of Player/Other is set, matching Kind.
// The zero value is an empty slot.
type Participant struct {
	Kind   ParticipantKind    `json:"kind"`
	Player *PlayerParticipant `json:"player,omitempty"`
	Other  *OtherParticipant  `json:"other,omitempty"`
}

type PlayerParticipant struct {
	UserID            int64  `json:"userId"`
	SummonerName      string `json:"summonerName"`
	ProfileIconID     int    `json:"profileIconId"`
	PickTurn          int    `json:"pickTurn"`
	TeamParticipantID int64  `json:"teamParticipantId"`
}

type OtherParticipant struct {
	Name     string `json:"name"`
	Variant  string `json:"variant"` // bot | obfuscated
	BotSkill string `json:"botSkill,omitempty"`
}

func NewPlayer(p PlayerParticipant) Participant {
	return Participant{Kind: KindPlayer, Player: &p}
}

func NewOther(o OtherParticipant) Participant {
	return Participant{Kind: KindOther, Other: &o}
}

func (p Participant) AsPlayer() (PlayerParticipant, bool) {
	if p.Kind != KindPlayer || p.Player == nil {
		return PlayerParticipant{}, false
	}
	return *p.Player, true
}

func (p Participant) IsEmpty() bool { return p.Kind == KindEmpty }

// TeamParticipants is one side of the lobby in slot order. A nil team means the
// snapshot did not carry that side at all.
type TeamParticipants []Participant

// GameDTO is one live snapshot of a lobby or match. Immutable once delivered.
type GameDTO struct {
	ID      int64
	TeamOne TeamParticipants
	TeamTwo TeamParticipants
}

func (g GameDTO) Teams() [2]TeamParticipants {
	return [2]TeamParticipants{g.TeamOne, g.TeamTwo}
}

type PlayerStats struct {
	UserID       int64  `json:"userId"`
	SummonerName string `json:"summonerName"`
	ChampionName string `json:"championName"`
	Level        int    `json:"level"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Leaves       int    `json:"leaves"`
	EloChange    int    `json:"eloChange"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	BotPlayer    bool   `json:"botPlayer"`
}

// EndOfGameStats is a persisted post-game record. ID is opaque.
type EndOfGameStats struct {
	ID                   string        `json:"id"`
	GameID               int64         `json:"gameId"`
	GameMode             string        `json:"gameMode"`
	GameType             string        `json:"gameType"`
	GameLength           int           `json:"gameLength"`
	TimeStamp            time.Time     `json:"timeStamp"`
	TeamPlayerStats      []PlayerStats `json:"teamPlayerStats"`
	OtherTeamPlayerStats []PlayerStats `json:"otherTeamPlayerStats"`
}

// StatsFor returns the first entry for userID, scanning TeamPlayerStats then
// OtherTeamPlayerStats in stored order, and how many entries matched in total.
func (r EndOfGameStats) StatsFor(userID int64) (PlayerStats, int) {
	var (
		first   PlayerStats
		matches int
	)
	for _, side := range [][]PlayerStats{r.TeamPlayerStats, r.OtherTeamPlayerStats} {
		for _, ps := range side {
			if ps.UserID != userID {
				continue
			}
			if matches == 0 {
				first = ps
			}
			matches++
		}
	}
	return first, matches
}
