// Package media inspects fetched media files on the local disk.
package media

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// Tags is what we can tell about a local media file without decoding it.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Format string
}

// ReadTags reads embedded ID3 tags from an mp3 and falls back to the
// "Artist - Title" filename convention for everything else.
func ReadTags(path string) Tags {
	t := Tags{Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")}

	if t.Format == "mp3" {
		if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
			t.Title = tag.Title()
			t.Artist = tag.Artist()
			t.Album = tag.Album()
			tag.Close()
		}
	}

	if t.Title == "" {
		t.Title, t.Artist = splitName(path, t.Artist)
	}
	return t
}

// splitName guesses title and artist from the file name. The downloader
// names files "Title # Artist"; plain rips often use "Artist - Title".
func splitName(path, artist string) (string, string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if parts := strings.SplitN(name, " # ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[0]), pick(artist, strings.TrimSpace(parts[1]))
	}
	if parts := strings.SplitN(name, " - ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[1]), pick(artist, strings.TrimSpace(parts[0]))
	}
	return name, artist
}

func pick(existing, guessed string) string {
	if existing != "" {
		return existing
	}
	return guessed
}
