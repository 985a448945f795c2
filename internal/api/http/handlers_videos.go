package apihttp

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mediastream/internal/domain"
)

type videoItem struct {
	domain.Video
	PositionSeconds float64 `json:"positionSeconds,omitempty"`
	Progress        float64 `json:"progress,omitempty"`
}

type videoListResponse struct {
	Videos     []videoItem `json:"videos"`
	Page       int         `json:"page"`
	PerPage    int         `json:"perPage"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Seed       *int64      `json:"seed,omitempty"`
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.listVideos == nil {
		writeNotConfigured(w, "video listing")
		return
	}

	query := r.URL.Query()

	page, err := parsePositiveInt(query.Get("page"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	if page <= 0 {
		page = 1
	}

	perPage, err := parsePositiveInt(query.Get("perPage"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid perPage")
		return
	}
	if perPage <= 0 {
		perPage = s.perPageDefault
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	favorites, err := parseBoolQuery(query.Get("favorites"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid favorites")
		return
	}
	shuffle, err := parseBoolQuery(query.Get("shuffle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid shuffle")
		return
	}
	seed, seedSet, err := parseInt64Query(query.Get("seed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid seed")
		return
	}
	// A stable seed keeps the shuffled order consistent across pages;
	// generate one when the first shuffled request arrives without it.
	if shuffle && !seedSet {
		seed = time.Now().UnixNano()
	}

	filter := domain.LibraryFilter{
		Search:    strings.TrimSpace(query.Get("search")),
		Playlist:  strings.TrimSpace(query.Get("playlist")),
		Favorites: favorites,
		Shuffle:   shuffle,
		Limit:     perPage,
		Offset:    (page - 1) * perPage,
	}
	if shuffle {
		filter.ShuffleSeed = seed
	}

	pageResult, err := s.listVideos.Execute(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err, "playlist")
		return
	}

	items := s.attachProgress(r, pageResult.Videos)

	totalPages := pageResult.Total / perPage
	if pageResult.Total%perPage != 0 {
		totalPages++
	}

	resp := videoListResponse{
		Videos:     items,
		Page:       page,
		PerPage:    perPage,
		Total:      pageResult.Total,
		TotalPages: totalPages,
	}
	if shuffle {
		resp.Seed = &seed
	}
	writeJSON(w, http.StatusOK, resp)
}

// attachProgress joins watch history onto the listed videos. History
// failures degrade the listing to bare videos instead of failing it.
func (s *Server) attachProgress(r *http.Request, videos []domain.Video) []videoItem {
	items := make([]videoItem, 0, len(videos))
	for _, video := range videos {
		items = append(items, videoItem{Video: video})
	}
	if s.history == nil || len(videos) == 0 {
		return items
	}

	videoNames := make([]string, 0, len(videos))
	for _, video := range videos {
		videoNames = append(videoNames, video.Name)
	}
	entries, err := s.history.GetMany(r.Context(), videoNames)
	if err != nil {
		s.logger.Warn("videos: history lookup failed", slog.String("error", err.Error()))
		return items
	}

	byName := make(map[string]domain.WatchEntry, len(entries))
	for _, entry := range entries {
		byName[entry.VideoName] = entry
	}
	for i := range items {
		if entry, ok := byName[items[i].Name]; ok {
			items[i].PositionSeconds = entry.PositionSeconds
			items[i].Progress = entry.Progress()
		}
	}
	return items
}

func (s *Server) handleVideoByName(w http.ResponseWriter, r *http.Request) {
	tail := videoNameFromPath(r.URL.Path, "/videos/")
	if tail == "" {
		http.NotFound(w, r)
		return
	}

	name, action := splitNameRoute(tail)
	if name == "" {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "data":
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleStreamData(w, r, name)
	case "thumbnail":
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleThumbnail(w, r, name)
	case "comments":
		switch r.Method {
		case http.MethodGet:
			s.handleListComments(w, r, name)
		case http.MethodPost:
			s.handleAddComment(w, r, name)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleVideoDetail(w, r, name)
	}
}

func (s *Server) handleVideoDetail(w http.ResponseWriter, r *http.Request, name string) {
	if s.library == nil {
		writeNotConfigured(w, "library")
		return
	}

	video, err := s.library.Get(name)
	if err != nil {
		writeStoreError(w, err, "video")
		return
	}

	if s.durations != nil && video.DurationSeconds == 0 {
		if seconds, ok, cacheErr := s.durations.Get(r.Context(), name); cacheErr == nil && ok {
			video.DurationSeconds = seconds
		}
	}
	if s.thumbs != nil {
		video.HasThumbnail = s.thumbs.Has(name)
	}

	item := videoItem{Video: video}
	if s.history != nil {
		entry, histErr := s.history.Get(r.Context(), name)
		if histErr == nil {
			item.PositionSeconds = entry.PositionSeconds
			item.Progress = entry.Progress()
		} else if !errors.Is(histErr, domain.ErrNotFound) {
			s.logger.Warn("videos: history lookup failed", slog.String("error", histErr.Error()))
		}
	}

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request, name string) {
	if s.thumbs == nil {
		writeNotConfigured(w, "thumbnails")
		return
	}
	if !s.thumbs.Has(name) {
		writeError(w, http.StatusNotFound, "not_found", "thumbnail not found")
		return
	}
	http.ServeFile(w, r, s.thumbs.Path(name))
}

type addCommentRequest struct {
	Text             string  `json:"text"`
	TimestampSeconds float64 `json:"timestampSeconds"`
	Username         string  `json:"username"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, name string) {
	if s.comments == nil {
		writeNotConfigured(w, "comments")
		return
	}
	list, err := s.comments.ListByVideo(r.Context(), name)
	if err != nil {
		writeStoreError(w, err, "comments")
		return
	}
	if list == nil {
		list = []domain.Comment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, name string) {
	if s.comments == nil {
		writeNotConfigured(w, "comments")
		return
	}

	var body addCommentRequest
	if err := decodeStrictJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" {
		username = domain.AnonymousUsername
	}

	comment := domain.Comment{
		VideoName:        name,
		Username:         username,
		Text:             strings.TrimSpace(body.Text),
		TimestampSeconds: body.TimestampSeconds,
	}
	if err := comment.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	stored, err := s.comments.Add(r.Context(), comment)
	if err != nil {
		writeStoreError(w, err, "comment")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
