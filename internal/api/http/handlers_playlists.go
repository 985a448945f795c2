package apihttp

import (
	"net/http"
	"strings"
	"time"

	"mediastream/internal/domain"
)

type playlistSummary struct {
	Name       string    `json:"name"`
	VideoCount int       `json:"videoCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPlaylists(w, r)
	case http.MethodPost:
		s.handleCreatePlaylist(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	if s.playlists == nil {
		writeNotConfigured(w, "playlists")
		return
	}

	playlists, err := s.playlists.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "playlists")
		return
	}

	summaries := make([]playlistSummary, 0, len(playlists))
	for _, playlist := range playlists {
		summaries = append(summaries, playlistSummary{
			Name:       playlist.Name,
			VideoCount: len(playlist.Videos),
			CreatedAt:  playlist.CreatedAt,
			UpdatedAt:  playlist.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

type createPlaylistRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if s.playlists == nil {
		writeNotConfigured(w, "playlists")
		return
	}

	var body createPlaylistRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	playlist := domain.Playlist{Name: strings.TrimSpace(body.Name)}
	if err := playlist.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := s.playlists.Create(r.Context(), playlist); err != nil {
		writeStoreError(w, err, "playlist")
		return
	}

	created, err := s.playlists.Get(r.Context(), playlist.Name)
	if err != nil {
		writeStoreError(w, err, "playlist")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handlePlaylistByName(w http.ResponseWriter, r *http.Request) {
	if s.playlists == nil {
		writeNotConfigured(w, "playlists")
		return
	}

	tail := videoNameFromPath(r.URL.Path, "/playlists/")
	if tail == "" {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(tail, "/videos") {
		name := strings.TrimSuffix(tail, "/videos")
		if name == "" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodPost:
			s.handlePlaylistAddVideo(w, r, name)
		case http.MethodDelete:
			s.handlePlaylistRemoveVideo(w, r, name)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		playlist, err := s.playlists.Get(r.Context(), tail)
		if err != nil {
			writeStoreError(w, err, "playlist")
			return
		}
		writeJSON(w, http.StatusOK, playlist)

	case http.MethodPatch:
		s.handleRenamePlaylist(w, r, tail)

	case http.MethodDelete:
		if err := s.playlists.Delete(r.Context(), tail); err != nil {
			writeStoreError(w, err, "playlist")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type renamePlaylistRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenamePlaylist(w http.ResponseWriter, r *http.Request, name string) {
	var body renamePlaylistRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	newName := strings.TrimSpace(body.Name)
	if newName == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	if err := s.playlists.Rename(r.Context(), name, newName); err != nil {
		writeStoreError(w, err, "playlist")
		return
	}

	renamed, err := s.playlists.Get(r.Context(), newName)
	if err != nil {
		writeStoreError(w, err, "playlist")
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

type playlistVideoRequest struct {
	Video string `json:"video"`
}

func (s *Server) handlePlaylistAddVideo(w http.ResponseWriter, r *http.Request, name string) {
	var body playlistVideoRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	video := strings.TrimSpace(body.Video)
	if video == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "video is required")
		return
	}

	// Playlists hold only videos the library knows about.
	if s.library != nil {
		if _, err := s.library.Get(video); err != nil {
			writeStoreError(w, err, "video")
			return
		}
	}

	if err := s.playlists.AddVideo(r.Context(), name, video); err != nil {
		writeStoreError(w, err, "playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaylistRemoveVideo(w http.ResponseWriter, r *http.Request, name string) {
	var body playlistVideoRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	video := strings.TrimSpace(body.Video)
	if video == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "video is required")
		return
	}

	if err := s.playlists.RemoveVideo(r.Context(), name, video); err != nil {
		writeStoreError(w, err, "playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
