package engine

import "github.com/DoyleJ11/lolnotes/internal/game"

func liveResolved(p game.Participant) Resolved {
	return Resolved{Source: SourceLive, Live: &p}
}

func historicalResolved(rec game.EndOfGameStats, stats game.PlayerStats) Resolved {
	return Resolved{
		Source:     SourceHistorical,
		RecordID:   rec.ID,
		RecordTime: rec.TimeStamp,
		Stats:      &stats,
	}
}

type noopObserver struct{}

func (noopObserver) GameChanged(int64)                       {}
func (noopObserver) PlayerResolved(int64, int, int, Resolved) {}
