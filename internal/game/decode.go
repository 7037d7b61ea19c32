package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/lolnotes/pkg/types"
)

var ErrDecodeFailure = errors.New("decode failure")
var ErrUnknownParticipant = errors.New("unknown participant kind")

// DecodeGameDTO turns a GameDTO envelope body into the domain snapshot.
func DecodeGameDTO(raw json.RawMessage) (GameDTO, error) {
	var wire types.GameDTO
	if err := json.Unmarshal(raw, &wire); err != nil {
		return GameDTO{}, fmt.Errorf("%w: game: %v", ErrDecodeFailure, err)
	}
	if wire.ID == 0 {
		return GameDTO{}, fmt.Errorf("%w: game: missing id", ErrDecodeFailure)
	}

	one, err := decodeTeam(wire.TeamOne)
	if err != nil {
		return GameDTO{}, err
	}
	two, err := decodeTeam(wire.TeamTwo)
	if err != nil {
		return GameDTO{}, err
	}
	return GameDTO{ID: wire.ID, TeamOne: one, TeamTwo: two}, nil
}

func decodeTeam(slots []*types.Participant) (TeamParticipants, error) {
	if slots == nil {
		return nil, nil
	}
	team := make(TeamParticipants, len(slots))
	for i, p := range slots {
		if p == nil {
			continue // empty slot
		}
		switch p.Kind {
		case types.KindPlayer:
			if p.UserID == 0 {
				return nil, fmt.Errorf("%w: slot %d: player without userId", ErrDecodeFailure, i)
			}
			team[i] = NewPlayer(PlayerParticipant{
				UserID:            p.UserID,
				SummonerName:      p.SummonerName,
				ProfileIconID:     p.ProfileIconID,
				PickTurn:          p.PickTurn,
				TeamParticipantID: p.TeamParticipantID,
			})
		case types.KindBot, types.KindObfuscated:
			team[i] = NewOther(OtherParticipant{Name: p.Name, Variant: p.Kind, BotSkill: p.BotSkill})
		default:
			return nil, fmt.Errorf("%w: slot %d: %w %q", ErrDecodeFailure, i, ErrUnknownParticipant, p.Kind)
		}
	}
	return team, nil
}

func DecodeEndOfGameStats(raw json.RawMessage) (EndOfGameStats, error) {
	var wire types.EndOfGameStats
	if err := json.Unmarshal(raw, &wire); err != nil {
		return EndOfGameStats{}, fmt.Errorf("%w: stats: %v", ErrDecodeFailure, err)
	}
	if wire.TimeStamp.IsZero() {
		return EndOfGameStats{}, fmt.Errorf("%w: stats: missing timeStamp", ErrDecodeFailure)
	}
	return EndOfGameStats{
		GameID:               wire.GameID,
		GameMode:             wire.GameMode,
		GameType:             wire.GameType,
		GameLength:           wire.GameLength,
		TimeStamp:            wire.TimeStamp.UTC(),
		TeamPlayerStats:      convertStats(wire.TeamPlayerStats),
		OtherTeamPlayerStats: convertStats(wire.OtherTeamPlayerStats),
	}, nil
}

func convertStats(in []types.PlayerStats) []PlayerStats {
	out := make([]PlayerStats, 0, len(in))
	for _, s := range in {
		out = append(out, PlayerStats{
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
	return out
}
