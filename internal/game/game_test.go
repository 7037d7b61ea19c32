package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGameDTO(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 100,
		"teamOne": [
			{"kind": "player", "userId": 11, "summonerName": "Annie Bot"},
			null,
			{"kind": "bot", "name": "Ezreal Bot", "botSkillLevel": "INTRO"}
		],
		"teamTwo": []
	}`)

	g, err := DecodeGameDTO(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(100), g.ID)
	require.Len(t, g.TeamOne, 3)

	p, ok := g.TeamOne[0].AsPlayer()
	require.True(t, ok)
	assert.Equal(t, int64(11), p.UserID)

	assert.True(t, g.TeamOne[1].IsEmpty())
	assert.Equal(t, KindOther, g.TeamOne[2].Kind)
	assert.Equal(t, "bot", g.TeamOne[2].Other.Variant)

	// [] is a present team with no participants, not an absent one
	assert.NotNil(t, g.TeamTwo)
	assert.Len(t, g.TeamTwo, 0)
}

func TestDecodeGameDTO_AbsentTeamIsNil(t *testing.T) {
	g, err := DecodeGameDTO(json.RawMessage(`{"id": 7, "teamOne": null}`))
	require.NoError(t, err)
	assert.Nil(t, g.TeamOne)
	assert.Nil(t, g.TeamTwo)
}

func TestDecodeGameDTO_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{"id": `},
		{name: "missing id", raw: `{"teamOne": []}`},
		{name: "player without user", raw: `{"id": 1, "teamOne": [{"kind": "player"}]}`},
		{name: "unknown kind", raw: `{"id": 1, "teamTwo": [{"kind": "spectator"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeGameDTO(json.RawMessage(tc.raw))
			require.ErrorIs(t, err, ErrDecodeFailure)
		})
	}
}

func TestDecodeEndOfGameStats(t *testing.T) {
	raw := json.RawMessage(`{
		"gameId": 100,
		"gameMode": "CLASSIC",
		"timeStamp": "2011-09-01T20:15:00+02:00",
		"teamPlayerStats": [{"userId": 1, "skinName": "Annie", "wins": 10}],
		"otherTeamPlayerStats": [{"userId": 2, "skinName": "Ashe", "losses": 3}]
	}`)

	rec, err := DecodeEndOfGameStats(raw)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, rec.TimeStamp.Location())
	assert.Equal(t, "Annie", rec.TeamPlayerStats[0].ChampionName)
	assert.Equal(t, 3, rec.OtherTeamPlayerStats[0].Losses)

	_, err = DecodeEndOfGameStats(json.RawMessage(`{"gameId": 1}`))
	require.ErrorIs(t, err, ErrDecodeFailure)
}

func TestStatsFor(t *testing.T) {
	rec := EndOfGameStats{
		TeamPlayerStats:      []PlayerStats{{UserID: 1, Wins: 1}, {UserID: 2, Wins: 2}},
		OtherTeamPlayerStats: []PlayerStats{{UserID: 3, Wins: 3}, {UserID: 2, Wins: 99}},
	}

	ps, n := rec.StatsFor(3)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, ps.Wins)

	// duplicate entries: own team wins, count reports the anomaly
	ps, n = rec.StatsFor(2)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, ps.Wins)

	_, n = rec.StatsFor(42)
	assert.Zero(t, n)
}

func TestParticipantJSON_KindIsNamed(t *testing.T) {
	p := NewPlayer(PlayerParticipant{UserID: 5, SummonerName: "five"})
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"player"`)

	var back Participant
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, p, back)

	b, err = json.Marshal(NewOther(OtherParticipant{Name: "Ezreal Bot", Variant: "bot"}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"other"`)

	var k ParticipantKind
	assert.Error(t, json.Unmarshal([]byte(`"spectator"`), &k))
}
