package apihttp

import (
	"net/http"

	"mediastream/internal/domain"
)

func (s *Server) handlePlayerSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetPlayerSettings(w, r)
	case http.MethodPut:
		s.handleReplacePlayerSettings(w, r)
	case http.MethodPatch:
		s.handlePatchPlayerSettings(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGetPlayerSettings(w http.ResponseWriter, r *http.Request) {
	if s.playerSettings == nil {
		writeNotConfigured(w, "player settings")
		return
	}
	settings, err := s.playerSettings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err, "player settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type replacePlayerSettingsRequest struct {
	Volume       float64 `json:"volume"`
	PlaybackRate float64 `json:"playbackRate"`
	Muted        bool    `json:"muted"`
}

func (s *Server) handleReplacePlayerSettings(w http.ResponseWriter, r *http.Request) {
	if s.playerSettings == nil {
		writeNotConfigured(w, "player settings")
		return
	}

	var body replacePlayerSettingsRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	settings := domain.PlayerSettings{
		Volume:       body.Volume,
		PlaybackRate: body.PlaybackRate,
		Muted:        body.Muted,
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := s.playerSettings.Put(r.Context(), settings); err != nil {
		writeStoreError(w, err, "player settings")
		return
	}

	stored, err := s.playerSettings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err, "player settings")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// patchPlayerSettingsRequest uses pointers so an omitted field keeps
// its stored value. Zero is a legal volume, so zero-means-keep would
// not work here.
type patchPlayerSettingsRequest struct {
	Volume       *float64 `json:"volume"`
	PlaybackRate *float64 `json:"playbackRate"`
	Muted        *bool    `json:"muted"`
}

func (s *Server) handlePatchPlayerSettings(w http.ResponseWriter, r *http.Request) {
	if s.playerSettings == nil {
		writeNotConfigured(w, "player settings")
		return
	}

	var body patchPlayerSettingsRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if body.Volume == nil && body.PlaybackRate == nil && body.Muted == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}

	settings, err := s.playerSettings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err, "player settings")
		return
	}

	if body.Volume != nil {
		settings.Volume = *body.Volume
	}
	if body.PlaybackRate != nil {
		settings.PlaybackRate = *body.PlaybackRate
	}
	if body.Muted != nil {
		settings.Muted = *body.Muted
	}

	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := s.playerSettings.Put(r.Context(), settings); err != nil {
		writeStoreError(w, err, "player settings")
		return
	}

	stored, err := s.playerSettings.Get(r.Context())
	if err != nil {
		writeStoreError(w, err, "player settings")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
