package agent

import (
	"math/rand"
	"os"
	"path/filepath"
)

// Latency maskers: a short ack plus a random pre-recorded intro cover the
// silence while the LLM or study path is working. All assets are optional;
// a missing file just skips the masker.

func (a *Agent) ack() {
	wav := filepath.Join(a.assetsDir, "ack", "ack_neutral_ok.wav")
	if _, err := os.Stat(wav); err == nil {
		a.player.PlayWAV(wav)
	}
}

func pickRandom(glob string) string {
	files, err := filepath.Glob(glob)
	if err != nil || len(files) == 0 {
		return ""
	}
	return files[rand.Intn(len(files))]
}

func (a *Agent) preLLM() {
	a.ack()
	if mp3 := pickRandom(filepath.Join(a.assetsDir, "intros_mp3", "*.mp3")); mp3 != "" {
		a.player.PlayMP3(mp3)
	}
}

func (a *Agent) preStudy() {
	a.ack()
	if mp3 := pickRandom(filepath.Join(a.assetsDir, "intros_study_mp3", "*.mp3")); mp3 != "" {
		a.player.PlayMP3(mp3)
	}
}
