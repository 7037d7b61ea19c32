package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/game"
)

var ErrStoreUnavailable = errors.New("stats store unavailable")
var ErrAmbiguousRecord = errors.New("ambiguous stats record")

const (
	DefaultSlots        = 5
	DefaultQueryTimeout = 2 * time.Second
)

type Options struct {
	Slots        int           // rows per team the presenter renders
	QueryTimeout time.Duration // per store lookup
	Observer     Observer
	Logger       *zap.Logger
}

// Engine correlates live lobby snapshots with the latest historical record of
// each player. It owns the MatchCache; OnSnapshot is expected to be called from
// a single consumption context.
type Engine struct {
	store     Store
	presenter Presenter
	observer  Observer
	cache     *MatchCache
	slots     int
	timeout   time.Duration
	log       *zap.Logger
}

func New(store Store, presenter Presenter, opts Options) *Engine {
	if opts.Slots <= 0 {
		opts.Slots = DefaultSlots
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		store:     store,
		presenter: presenter,
		observer:  opts.Observer,
		cache:     NewMatchCache(),
		slots:     opts.Slots,
		timeout:   opts.QueryTimeout,
		log:       opts.Logger,
	}
}

func (e *Engine) Cache() *MatchCache { return e.cache }

// OnSnapshot invalidates the cache on a game change, then resolves and presents
// every slot of both teams in order. Store failures degrade the affected slot to
// live data; they are returned combined once every slot has been presented.
func (e *Engine) OnSnapshot(ctx context.Context, g game.GameDTO) error {
	if prev, changed := e.cache.Observe(g.ID); changed {
		e.log.Info("game changed, player cache cleared",
			zap.Int64("previous_game_id", prev), zap.Int64("game_id", g.ID))
		e.observer.GameChanged(g.ID)
	}

	var errs error
	for ti, team := range g.Teams() {
		if team == nil {
			e.presenter.PresentTeam(ti, false)
			continue
		}
		e.presenter.PresentTeam(ti, true)

		for slot := 0; slot < e.slots; slot++ {
			if slot >= len(team) || team[slot].IsEmpty() {
				e.presenter.PresentSlot(ti, slot, SlotUpdate{Visible: false})
				continue
			}

			resolved, err := e.resolve(ctx, g.ID, team[slot])
			if err != nil {
				e.log.Warn("player resolution failed, showing live data",
					zap.Int64("game_id", g.ID), zap.Int("team", ti), zap.Int("slot", slot), zap.Error(err))
				errs = multierr.Append(errs, err)
			}
			e.presenter.PresentSlot(ti, slot, SlotUpdate{Visible: true, Player: &resolved})
			e.observer.PlayerResolved(g.ID, ti, slot, resolved)
		}
	}
	return errs
}

func (e *Engine) resolve(ctx context.Context, gameID int64, p game.Participant) (Resolved, error) {
	ply, ok := p.AsPlayer()
	if !ok {
		return liveResolved(p), nil
	}

	if entry, ok := e.cache.Lookup(gameID, ply.UserID); ok {
		if entry.Historical == nil {
			return liveResolved(p), nil
		}
		return *entry.Historical, nil
	}

	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	start := time.Now()
	rec, found, err := e.store.FindLatestByUserID(qctx, ply.UserID)
	cancel()
	e.log.Debug("player query",
		zap.Int64("user_id", ply.UserID), zap.Duration("took", time.Since(start)), zap.Bool("found", found))
	if err != nil {
		// single top-level %w: each failed slot is exactly one entry once combined
		return liveResolved(p), fmt.Errorf("resolve user %d: %w", ply.UserID, fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}

	if !found {
		e.cache.Store(gameID, ply.UserID, CacheEntry{})
		return liveResolved(p), nil
	}

	stats, matches := rec.StatsFor(ply.UserID)
	switch {
	case matches == 0:
		// The store matched on a user the record does not carry; treat as no history.
		e.log.Warn("record returned without an entry for user",
			zap.String("record_id", rec.ID), zap.Int64("user_id", ply.UserID))
		return liveResolved(p), nil
	case matches > 1:
		e.log.Warn("duplicate stat entries, using first",
			zap.String("record_id", rec.ID), zap.Int64("user_id", ply.UserID),
			zap.Int("matches", matches), zap.NamedError("anomaly", ErrAmbiguousRecord))
	}

	resolved := historicalResolved(rec, stats)
	e.cache.Store(gameID, ply.UserID, CacheEntry{Historical: &resolved})
	return resolved, nil
}
