package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mediastream/internal/domain"
)

func writeFile(t *testing.T, root, name string, size int, mtime time.Time) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func makeIndex(t *testing.T, root string) *Index {
	t.Helper()
	idx, err := NewIndex(root, nil, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if _, err := idx.Rescan(context.Background()); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	return idx
}

func names(videos []domain.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Name
	}
	return out
}

func TestScanKeepsAllowedExtensions(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFile(t, root, "a.mp4", 10, base)
	writeFile(t, root, "b.mkv", 20, base.Add(time.Minute))
	writeFile(t, root, "notes.txt", 5, base)
	writeFile(t, root, "sub/c.webm", 30, base.Add(2*time.Minute))
	writeFile(t, root, ".thumbs/d.mp4", 40, base)

	idx := makeIndex(t, root)
	videos, total := idx.List(domain.LibraryFilter{}, nil)

	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	want := []string{"sub/c.webm", "b.mkv", "a.mp4"}
	if got := names(videos); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestRescanSwapsSnapshot(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFile(t, root, "a.mp4", 10, base)
	writeFile(t, root, "b.mp4", 10, base)

	idx := makeIndex(t, root)
	if _, err := idx.Get("c.mp4"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get before rescan err = %v, want %v", err, domain.ErrNotFound)
	}

	writeFile(t, root, "c.mp4", 10, base.Add(time.Minute))
	count, err := idx.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	v, err := idx.Get("c.mp4")
	if err != nil {
		t.Fatalf("Get after rescan: %v", err)
	}
	if v.Name != "c.mp4" || v.Size != 10 {
		t.Fatalf("unexpected video %+v", v)
	}
}

func TestListSearch(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFile(t, root, "Holiday Trip.mp4", 10, base)
	writeFile(t, root, "holiday party.mkv", 10, base.Add(time.Minute))
	writeFile(t, root, "work demo.mp4", 10, base.Add(2*time.Minute))

	idx := makeIndex(t, root)
	videos, total := idx.List(domain.LibraryFilter{Search: "HOLIDAY"}, nil)

	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	want := []string{"holiday party.mkv", "Holiday Trip.mp4"}
	if got := names(videos); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestListRestrict(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFile(t, root, "a.mp4", 10, base)
	writeFile(t, root, "b.mp4", 10, base.Add(time.Minute))
	writeFile(t, root, "c.mp4", 10, base.Add(2*time.Minute))

	idx := makeIndex(t, root)
	restrict := map[string]struct{}{"a.mp4": {}, "c.mp4": {}}
	videos, total := idx.List(domain.LibraryFilter{}, restrict)

	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	want := []string{"c.mp4", "a.mp4"}
	if got := names(videos); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}

	if videos, total = idx.List(domain.LibraryFilter{}, map[string]struct{}{}); total != 0 || len(videos) != 0 {
		t.Fatalf("empty restrict: got %d videos, total %d", len(videos), total)
	}
}

func TestListShuffleDeterministic(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"} {
		writeFile(t, root, name, 10, base)
		base = base.Add(time.Minute)
	}

	idx := makeIndex(t, root)
	filter := domain.LibraryFilter{Shuffle: true, ShuffleSeed: 42}

	first, _ := idx.List(filter, nil)
	second, _ := idx.List(filter, nil)

	if !reflect.DeepEqual(names(first), names(second)) {
		t.Fatalf("same seed produced different orders: %v vs %v", names(first), names(second))
	}

	seen := map[string]struct{}{}
	for _, v := range first {
		seen[v.Name] = struct{}{}
	}
	if len(seen) != 6 {
		t.Fatalf("shuffle lost videos: %v", names(first))
	}
}

func TestListLimitOffset(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"} {
		writeFile(t, root, name, 10, base)
		base = base.Add(time.Minute)
	}

	idx := makeIndex(t, root)

	videos, total := idx.List(domain.LibraryFilter{Limit: 2, Offset: 2}, nil)
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	want := []string{"c.mp4", "b.mp4"}
	if got := names(videos); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}

	videos, total = idx.List(domain.LibraryFilter{Limit: 2, Offset: 10}, nil)
	if total != 5 || len(videos) != 0 {
		t.Fatalf("offset past end: got %d videos, total %d", len(videos), total)
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/c.webm", 10, time.Now())

	idx := makeIndex(t, root)

	got, err := idx.ResolvePath("sub/c.webm")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	want := filepath.Join(idx.root, "sub", "c.webm")
	if got != want {
		t.Fatalf("ResolvePath = %q, want %q", got, want)
	}

	for _, name := range []string{"../escape.mp4", "sub/../../escape.mp4", "", "."} {
		if _, err := idx.ResolvePath(name); err == nil {
			t.Fatalf("ResolvePath(%q) succeeded, want error", name)
		}
	}
}

func TestStats(t *testing.T) {
	root := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFile(t, root, "a.mp4", 100, base)
	writeFile(t, root, "b.mp4", 250, base.Add(time.Minute))

	idx := makeIndex(t, root)
	stats := idx.Stats()

	if stats.Videos != 2 {
		t.Fatalf("Videos = %d, want 2", stats.Videos)
	}
	if stats.TotalBytes != 350 {
		t.Fatalf("TotalBytes = %d, want 350", stats.TotalBytes)
	}
	if stats.LastScanAt.IsZero() {
		t.Fatal("LastScanAt not set")
	}
	if stats.DiskFreeBytes < 0 {
		t.Fatalf("DiskFreeBytes = %d", stats.DiskFreeBytes)
	}
}
