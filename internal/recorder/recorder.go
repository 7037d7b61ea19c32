package recorder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/pkg/types"
)

const DefaultSaveTimeout = 5 * time.Second

type Saver interface {
	Save(ctx context.Context, r game.EndOfGameStats) (game.EndOfGameStats, error)
}

// Recorder persists end-of-game stats as the game client reports them, which is
// what later lookups for the same players find.
type Recorder struct {
	store   Saver
	timeout time.Duration
	log     *zap.Logger
}

func New(store Saver, ch connection.Channel, log *zap.Logger) *Recorder {
	r := &Recorder{store: store, timeout: DefaultSaveTimeout, log: log}
	ch.OnFrame(r.onFrame)
	return r
}

func (r *Recorder) onFrame(env types.Envelope) {
	if env.Type != types.TypeEndOfGameStats {
		return
	}
	stats, err := game.DecodeEndOfGameStats(env.Body)
	if err != nil {
		r.log.Warn("dropping malformed end of game stats", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	saved, err := r.store.Save(ctx, stats)
	if err != nil {
		r.log.Error("recording game failed", zap.Int64("game_id", stats.GameID), zap.Error(err))
		return
	}
	r.log.Info("game recorded", zap.String("record_id", saved.ID), zap.Int64("game_id", saved.GameID))
}
