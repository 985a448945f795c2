package usecase

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"strings"

	"mediastream/internal/domain"
	"mediastream/internal/domain/ports"
)

// StreamSource is an open, ready-to-stream video file. The caller owns
// File and must close it on every path, including aborted transfers.
type StreamSource struct {
	File        *os.File
	Video       domain.Video
	ContentType string
}

// StreamVideo opens a library video for byte serving. Size and mod
// time come from a fresh Stat so a file grown or touched since the
// last scan is served with current metadata.
type StreamVideo struct {
	Library ports.Library
	Logger  *slog.Logger
}

func (uc StreamVideo) Execute(ctx context.Context, name string) (StreamSource, error) {
	if uc.Library == nil {
		return StreamSource{}, errors.New("library not configured")
	}

	video, err := uc.Library.Get(name)
	if err != nil {
		return StreamSource{}, err
	}

	filePath, err := uc.Library.ResolvePath(name)
	if err != nil {
		// An indexed name that no longer resolves is treated as unknown
		// rather than leaking path details to the client.
		return StreamSource{}, domain.ErrNotFound
	}

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StreamSource{}, domain.ErrNotFound
		}
		return StreamSource{}, wrapLibrary(err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return StreamSource{}, wrapLibrary(err)
	}
	video.Size = info.Size()
	video.ModTime = info.ModTime()

	return StreamSource{
		File:        file,
		Video:       video,
		ContentType: contentTypeFor(name),
	}, nil
}

var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
}

// contentTypeFor prefers the fixed video table so the served type does
// not vary with the host's mime database.
func contentTypeFor(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ctype, ok := videoContentTypes[ext]; ok {
		return ctype
	}
	if ctype := mime.TypeByExtension(ext); ctype != "" {
		return ctype
	}
	return "application/octet-stream"
}
