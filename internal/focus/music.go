package focus

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions are the file extensions collected into a playlist.
var AudioExtensions = []string{".mp3", ".flac", ".ogg", ".wav", ".m4a", ".opus"}

// IsAudioFile reports whether path has a known audio extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range AudioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// ScanMusic returns the audio files under dir, recursively, sorted by path.
// An empty dir or one that does not exist yields an empty playlist.
func ScanMusic(dir string) ([]string, error) {
	if dir == "" {
		return []string{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	tracks := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, not fatal.
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if IsAudioFile(path) {
			tracks = append(tracks, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(tracks)
	return tracks, nil
}
