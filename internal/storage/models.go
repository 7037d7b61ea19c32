package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/DoyleJ11/lolnotes/internal/game"
)

const (
	sideTeam  = 0
	sideOther = 1
)

type recordRow struct {
	ID         string `gorm:"primaryKey"`
	GameID     int64
	GameMode   string
	GameType   string
	GameLength int
	TimeStamp  time.Time
	Players    []playerRow `gorm:"foreignKey:RecordID"`
}

func (recordRow) TableName() string { return "end_of_game_stats" }

type playerRow struct {
	ID           string `gorm:"primaryKey"`
	RecordID     string
	Side         int
	Position     int
	UserID       int64
	SummonerName string
	ChampionName string
	Level        int
	Wins         int
	Losses       int
	Leaves       int
	EloChange    int
	Kills        int
	Deaths       int
	Assists      int
	BotPlayer    bool
}

func (playerRow) TableName() string { return "player_stats" }

func toRow(r game.EndOfGameStats) recordRow {
	row := recordRow{
		ID:         r.ID,
		GameID:     r.GameID,
		GameMode:   r.GameMode,
		GameType:   r.GameType,
		GameLength: r.GameLength,
		TimeStamp:  r.TimeStamp.UTC(),
	}
	for side, stats := range [][]game.PlayerStats{sideTeam: r.TeamPlayerStats, sideOther: r.OtherTeamPlayerStats} {
		for pos, s := range stats {
			row.Players = append(row.Players, playerRow{
				ID:           uuid.NewString(),
				RecordID:     r.ID,
				Side:         side,
				Position:     pos,
				UserID:       s.UserID,
				SummonerName: s.SummonerName,
				ChampionName: s.ChampionName,
				Level:        s.Level,
				Wins:         s.Wins,
				Losses:       s.Losses,
				Leaves:       s.Leaves,
				EloChange:    s.EloChange,
				Kills:        s.Kills,
				Deaths:       s.Deaths,
				Assists:      s.Assists,
				BotPlayer:    s.BotPlayer,
			})
		}
	}
	return row
}

// fromRow expects Players ordered by side, then position.
func fromRow(row recordRow) game.EndOfGameStats {
	r := game.EndOfGameStats{
		ID:                   row.ID,
		GameID:               row.GameID,
		GameMode:             row.GameMode,
		GameType:             row.GameType,
		GameLength:           row.GameLength,
		TimeStamp:            row.TimeStamp.UTC(),
		TeamPlayerStats:      []game.PlayerStats{},
		OtherTeamPlayerStats: []game.PlayerStats{},
	}
	for _, p := range row.Players {
		s := game.PlayerStats{
			UserID:       p.UserID,
			SummonerName: p.SummonerName,
			ChampionName: p.ChampionName,
			Level:        p.Level,
			Wins:         p.Wins,
			Losses:       p.Losses,
			Leaves:       p.Leaves,
			EloChange:    p.EloChange,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			BotPlayer:    p.BotPlayer,
		}
		if p.Side == sideOther {
			r.OtherTeamPlayerStats = append(r.OtherTeamPlayerStats, s)
		} else {
			r.TeamPlayerStats = append(r.TeamPlayerStats, s)
		}
	}
	return r
}
