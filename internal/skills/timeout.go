package skills

import (
	"os"
	"path/filepath"
)

// EventsTimeout plays the latest local events digest, a pre-rendered mp3
// refreshed by an offline generator.
func EventsTimeout(dataDir string) Result {
	mp3 := filepath.Join(dataDir, "events", "cache", "cagliari", "timeout.latest.mp3")

	if _, err := os.Stat(mp3); err != nil {
		return Result{
			OK:   false,
			Text: "Non ho ancora preparato gli eventi di oggi.",
			Meta: map[string]string{"missing": mp3},
		}
	}
	return Result{OK: true, LocalPath: mp3, Meta: map[string]string{"kind": "timeout"}}
}
