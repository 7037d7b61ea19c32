package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/types"
)

func GetStatus(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Status.Status(r.Context())
		if err != nil {
			http.Error(w, "status unavailable", http.StatusServiceUnavailable)
			return
		}
		records, err := d.Store.Count(r.Context())
		if err != nil {
			http.Error(w, "stats store unavailable", http.StatusServiceUnavailable)
			return
		}

		respondJSON(w, http.StatusOK, types.StatusResponse{
			Status:    st,
			GameID:    d.Cache.CurrentGameID(),
			CachedFor: d.Cache.Len(),
			Records:   records,
		})
	}
}

func GetLobby(lb *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := lb.Current(r.Context())
		if !ok {
			http.Error(w, "lobby closed", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, http.StatusOK, types.ServerMessage{Type: "LobbyView", Version: v.Version, State: &v.State})
	}
}

func GetLatest(store StatsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		rec, found, err := store.FindLatestByUserID(r.Context(), userID)
		if err != nil {
			http.Error(w, "stats store unavailable", http.StatusServiceUnavailable)
			return
		}
		if !found {
			http.Error(w, "no history for user", http.StatusNotFound)
			return
		}

		stats, _ := rec.StatsFor(userID)
		respondJSON(w, http.StatusOK, types.LatestResponse{UserID: userID, Record: rec, Stats: stats})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func respondJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
