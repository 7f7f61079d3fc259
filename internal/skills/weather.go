package skills

import (
	"os"
	"path/filepath"
)

// Weather hands back the pre-generated forecast bulletin; a separate feed
// job refreshes the mp3.
func Weather(dataDir string) Result {
	mp3 := filepath.Join(dataDir, "cache", "meteo", "cache_meteo.mp3")

	st, err := os.Stat(mp3)
	if err != nil || st.Size() == 0 {
		return Result{OK: false, Err: "WEATHER_MP3_MISSING", Meta: map[string]string{"path": mp3}}
	}
	return Result{OK: true, LocalPath: mp3}
}
