package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/engine"
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/snapshot"
	"github.com/DoyleJ11/lolnotes/internal/status"
	"github.com/DoyleJ11/lolnotes/pkg/types"
)

type historyStore struct {
	mu      sync.Mutex
	byUser  map[int64]game.EndOfGameStats
	queries int
}

func (s *historyStore) FindLatestByUserID(_ context.Context, userID int64) (game.EndOfGameStats, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	r, ok := s.byUser[userID]
	return r, ok, nil
}

func (s *historyStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

func frame(body string) types.Envelope {
	return types.Envelope{Type: types.TypeGameDTO, Body: []byte(body)}
}

func TestPipeline_MalformedFrameLeavesCacheUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &historyStore{byUser: map[int64]game.EndOfGameStats{
		7: {
			ID:              "rec-7",
			TimeStamp:       time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			TeamPlayerStats: []game.PlayerStats{{UserID: 7, ChampionName: "Annie"}},
		},
	}}

	pipe := connection.NewPipe(zap.NewNop())
	lb := lobby.NewLobby(ctx, 5)
	eng := engine.New(store, lb, engine.Options{Slots: 5, QueryTimeout: time.Second})
	h := NewHub(ctx, eng, status.NewIndicator(installed(true)), lb, zap.NewNop())
	defer h.Close()
	src := snapshot.NewSource(ctx, pipe, h.OnSnapshot, zap.NewNop())
	defer src.Close()

	valid := `{"id": 1, "teamOne": [{"kind": "player", "userId": 7, "summonerName": "seven"}]}`

	// Deliver returns once the source has taken the frame, so each call also
	// waits for the previous frame to be fully handled.
	pipe.Deliver(frame(valid))
	pipe.Deliver(frame(`{"teamOne": []}`))
	pipe.Deliver(frame(`not json`))
	pipe.Deliver(frame(`{"id": 1, "teamOne": [{"kind": "wizard"}]}`))

	cache := eng.Cache()
	assert.Equal(t, int64(1), cache.CurrentGameID())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Resets())
	assert.Equal(t, 1, store.count())

	// the same game again is served from the cache
	pipe.Deliver(frame(valid))
	pipe.Deliver(frame(`not json`))
	assert.Equal(t, 1, store.count())
	assert.Equal(t, 1, cache.Resets())

	var view lobby.View
	require.Eventually(t, func() bool {
		v, ok := lb.Current(ctx)
		view = v
		return ok && v.State.Teams[0].Slots[0].Player != nil
	}, time.Second, 10*time.Millisecond)

	slot := view.State.Teams[0].Slots[0]
	assert.True(t, slot.Visible)
	assert.Equal(t, engine.SourceHistorical, slot.Player.Source)
	assert.Equal(t, "rec-7", slot.Player.RecordID)
	assert.False(t, view.State.Teams[1].Visible, "absent team stays hidden")
	assert.Equal(t, status.WaitingForConnection, view.State.Status)
}
