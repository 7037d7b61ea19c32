package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/engine"
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/status"
	"github.com/DoyleJ11/lolnotes/internal/ws"
)

type StatsReader interface {
	FindLatestByUserID(ctx context.Context, userID int64) (game.EndOfGameStats, bool, error)
	Count(ctx context.Context) (int64, error)
}

type StatusSource interface {
	Status(ctx context.Context) (status.Status, error)
}

type Deps struct {
	Store  StatsReader
	Status StatusSource
	Cache  *engine.MatchCache
	Lobby  *lobby.Lobby
	Pipe   *connection.Pipe
	Log    *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/status", GetStatus(d))
	r.Get("/lobby", GetLobby(d.Lobby))
	r.Get("/players/{userID}/latest", GetLatest(d.Store))

	r.Get("/ws/client", ws.ClientHandler(d.Pipe, d.Log))
	r.Get("/ws/watch", ws.WatchHandler(d.Lobby, d.Log))
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
