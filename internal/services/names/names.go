// Package names guesses which people appear in a video from its file
// name stem. It stands in for a proper entity recognizer: runs of two
// or three TitleCase words are taken as person names.
package names

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"mediastream/internal/domain"
	"mediastream/internal/domain/ports"
)

// Index maps an extracted person name to the sorted video names it
// appears in.
type Index map[string][]string

type Service struct {
	library ports.Library
}

func NewService(library ports.Library) *Service {
	return &Service{library: library}
}

func (s *Service) Index() Index {
	videos, _ := s.library.List(domain.LibraryFilter{}, nil)
	return BuildIndex(videos)
}

// BuildIndex extracts person names from every video title and inverts
// the result into a name-to-videos index.
func BuildIndex(videos []domain.Video) Index {
	idx := Index{}
	for _, v := range videos {
		title := strings.TrimSuffix(path.Base(v.Name), path.Ext(v.Name))
		added := map[string]struct{}{}
		for _, name := range Extract(title) {
			if _, ok := added[name]; ok {
				continue
			}
			added[name] = struct{}{}
			idx[name] = append(idx[name], v.Name)
		}
	}
	for name := range idx {
		sort.Strings(idx[name])
	}
	return idx
}

// Extract returns candidate person names in a title: runs of two or
// three TitleCase words joined by single separator characters. Longer
// runs read as title phrases rather than names and are skipped, and
// any wider gap between words, digits included, breaks the run.
func Extract(title string) []string {
	var names []string
	run := make([]string, 0, 4)
	flush := func() {
		if len(run) == 2 || len(run) == 3 {
			names = append(names, strings.Join(run, " "))
		}
		run = run[:0]
	}

	runes := []rune(title)
	prevEnd := -1
	for i := 0; i < len(runes); {
		if !unicode.IsLetter(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && unicode.IsLetter(runes[i]) {
			i++
		}
		word := string(runes[start:i])

		if prevEnd >= 0 && !connects(runes[prevEnd:start]) {
			flush()
		}
		prevEnd = i

		if isNameWord(word) {
			run = append(run, word)
		} else {
			flush()
		}
	}
	flush()
	return names
}

func connects(sep []rune) bool {
	if len(sep) != 1 {
		return false
	}
	switch sep[0] {
	case ' ', '.', '_', '-':
		return true
	}
	return false
}

func isNameWord(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
