package types

import "time"

const (
	KindPlayer     = "player"
	KindBot        = "bot"
	KindObfuscated = "obfuscated"
)

type GameDTO struct {
	ID      int64          `json:"id"`
	TeamOne []*Participant `json:"teamOne"`
	TeamTwo []*Participant `json:"teamTwo"`
}

// Participant is flat on the wire; Kind says which fields are meaningful.
type Participant struct {
	Kind string `json:"kind"`

	// player
	UserID            int64  `json:"userId,omitempty"`
	SummonerName      string `json:"summonerName,omitempty"`
	ProfileIconID     int    `json:"profileIconId,omitempty"`
	PickTurn          int    `json:"pickTurn,omitempty"`
	TeamParticipantID int64  `json:"teamParticipantId,omitempty"`

	// bot / obfuscated
	Name     string `json:"name,omitempty"`
	BotSkill string `json:"botSkillLevel,omitempty"`
}

type EndOfGameStats struct {
	GameID               int64         `json:"gameId"`
	GameMode             string        `json:"gameMode"`
	GameType             string        `json:"gameType"`
	GameLength           int           `json:"gameLength"`
	TimeStamp            time.Time     `json:"timeStamp"`
	TeamPlayerStats      []PlayerStats `json:"teamPlayerStats"`
	OtherTeamPlayerStats []PlayerStats `json:"otherTeamPlayerStats"`
}

type PlayerStats struct {
	UserID       int64  `json:"userId"`
	SummonerName string `json:"summonerName"`
	ChampionName string `json:"skinName"`
	Level        int    `json:"level"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Leaves       int    `json:"leaves"`
	EloChange    int    `json:"eloChange"`
	Kills        int    `json:"championsKilled"`
	Deaths       int    `json:"numDeaths"`
	Assists      int    `json:"assists"`
	BotPlayer    bool   `json:"botPlayer"`
}
