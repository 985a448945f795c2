package apihttp

import (
	"net/http"

	"mediastream/internal/domain"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		writeNotConfigured(w, "watch history")
		return
	}

	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	if limit <= 0 {
		limit = 20
	}

	entries, err := s.history.ListRecent(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err, "watch history")
		return
	}
	if entries == nil {
		entries = []domain.WatchEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type upsertHistoryRequest struct {
	PositionSeconds float64 `json:"positionSeconds"`
	DurationSeconds float64 `json:"durationSeconds"`
}

func (s *Server) handleHistoryByName(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotConfigured(w, "watch history")
		return
	}

	name := videoNameFromPath(r.URL.Path, "/history/")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := s.history.Get(r.Context(), name)
		if err != nil {
			writeStoreError(w, err, "watch entry")
			return
		}
		writeJSON(w, http.StatusOK, entry)

	case http.MethodPut:
		var body upsertHistoryRequest
		if err := decodeStrictJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
			return
		}
		if body.PositionSeconds < 0 || body.DurationSeconds < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "positions must not be negative")
			return
		}

		entry := domain.WatchEntry{
			VideoName:       name,
			PositionSeconds: body.PositionSeconds,
			DurationSeconds: body.DurationSeconds,
		}
		if err := s.history.Upsert(r.Context(), entry); err != nil {
			writeStoreError(w, err, "watch entry")
			return
		}
		s.BroadcastHistory(entry)
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := s.history.Delete(r.Context(), name); err != nil {
			writeStoreError(w, err, "watch entry")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.favorites == nil {
		writeNotConfigured(w, "favorites")
		return
	}

	favorites, err := s.favorites.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "favorites")
		return
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	writeJSON(w, http.StatusOK, favorites)
}

func (s *Server) handleFavoriteByName(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		writeNotConfigured(w, "favorites")
		return
	}

	name := videoNameFromPath(r.URL.Path, "/favorites/")
	if name == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		if err := s.favorites.Add(r.Context(), name); err != nil {
			writeStoreError(w, err, "favorite")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := s.favorites.Remove(r.Context(), name); err != nil {
			writeStoreError(w, err, "favorite")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
