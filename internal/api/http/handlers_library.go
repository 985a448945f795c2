package apihttp

import (
	"net/http"
)

func (s *Server) handleLibraryRescan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.refreshLibrary == nil {
		writeNotConfigured(w, "library refresh")
		return
	}

	result, err := s.refreshLibrary.Execute(r.Context())
	if err != nil {
		writeStoreError(w, err, "library")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLibraryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.library == nil {
		writeNotConfigured(w, "library")
		return
	}
	writeJSON(w, http.StatusOK, s.library.Stats())
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.names == nil {
		writeNotConfigured(w, "name index")
		return
	}
	writeJSON(w, http.StatusOK, s.names.Index())
}

type healthzResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Videos int    `json:"videos"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := healthzResponse{Status: "ok", Store: s.storeMode}
	if s.library != nil {
		resp.Videos = s.library.Stats().Videos
	}
	writeJSON(w, http.StatusOK, resp)
}
