package domain

// LibraryFilter narrows and pages a library listing. Zero value lists
// everything newest-first.
type LibraryFilter struct {
	Search      string `json:"search,omitempty"`
	Playlist    string `json:"playlist,omitempty"`
	Favorites   bool   `json:"favorites,omitempty"`
	Shuffle     bool   `json:"shuffle,omitempty"`
	ShuffleSeed int64  `json:"shuffleSeed,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}
