package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mediastream/internal/domain"
	"mediastream/internal/usecase"
)

const defaultPerPage = 32

const maxPerPage = 200

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorPayload{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeStoreError maps domain and usecase sentinels onto wire statuses.
// resource names the thing the handler was working on ("video",
// "playlist", ...) so 404 bodies stay specific.
func writeStoreError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", resource+" not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", resource+" already exists")
	case errors.Is(err, usecase.ErrStore):
		writeError(w, http.StatusInternalServerError, "store_error", err.Error())
	case errors.Is(err, usecase.ErrLibrary):
		writeError(w, http.StatusInternalServerError, "library_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotConfigured(w http.ResponseWriter, what string) {
	writeError(w, http.StatusNotImplemented, "not_configured", what+" not configured")
}

func parsePositiveInt(value string, requirePositive bool) (int, error) {
	if strings.TrimSpace(value) == "" {
		return -1, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if requirePositive && parsed <= 0 {
		return 0, errors.New("must be > 0")
	}
	if !requirePositive && parsed < 0 {
		return 0, errors.New("must be >= 0")
	}
	return parsed, nil
}

func parseBoolQuery(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	switch strings.ToLower(value) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, errors.New("invalid bool")
	}
}

func parseInt64Query(value string) (int64, bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return parsed, true, nil
}

// decodeStrictJSON decodes a request body rejecting unknown fields.
func decodeStrictJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// videoNameFromPath extracts the name segment after the given route
// prefix. Returns "" when nothing follows the prefix.
func videoNameFromPath(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
