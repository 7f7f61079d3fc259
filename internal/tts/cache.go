package tts

import (
	"context"
	"crypto/sha1"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxTextRunes keeps spoken replies short and cache keys stable.
const maxTextRunes = 900

// minArtifactBytes guards against a truncated previous write being served
// as a valid hit.
const minArtifactBytes = 1000

var wsRun = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace and bounds the length before hashing.
func NormalizeText(t string) string {
	t = strings.TrimSpace(wsRun.ReplaceAllString(t, " "))
	r := []rune(t)
	if len(r) > maxTextRunes {
		r = r[:maxTextRunes]
	}
	return string(r)
}

type CacheResult struct {
	Path   string
	Cached bool
}

// Cache maps (model, voice, normalized text) to an mp3 file on disk.
// Append-only: nothing here ever deletes an entry.
type Cache struct {
	dir   string
	model string
	voice string
	synth Synthesizer
}

func NewCache(dir, model, voice string, synth Synthesizer) *Cache {
	return &Cache{dir: dir, model: model, voice: voice, synth: synth}
}

// GetOrSynthesize returns the cached artifact for text, synthesizing at
// most once per key. A present file above the minimum plausible size is
// valid forever.
func (c *Cache) GetOrSynthesize(ctx context.Context, text string) (CacheResult, error) {
	text = NormalizeText(text)
	if text == "" {
		return CacheResult{}, fmt.Errorf("empty text")
	}

	if err := os.MkdirAll(c.dir, 0o777); err != nil {
		return CacheResult{}, fmt.Errorf("create tts cache dir: %w", err)
	}

	hash := sha1.Sum([]byte(c.model + "|" + c.voice + "|" + text))
	out := filepath.Join(c.dir, fmt.Sprintf("tts_%x.mp3", hash))

	if st, err := os.Stat(out); err == nil && st.Size() > minArtifactBytes {
		return CacheResult{Path: out, Cached: true}, nil
	}

	bin, err := c.synth.Synthesize(ctx, c.model, c.voice, text)
	if err != nil {
		return CacheResult{}, err
	}

	if err := os.WriteFile(out, bin, 0o666); err != nil {
		return CacheResult{}, fmt.Errorf("write tts artifact: %w", err)
	}

	// Verify after writing: a too-small artifact is a synthesis failure,
	// not a cache entry.
	st, err := os.Stat(out)
	if err != nil || st.Size() < minArtifactBytes {
		os.Remove(out)
		return CacheResult{}, fmt.Errorf("tts artifact too small (%d bytes)", len(bin))
	}

	log.Debug("tts synthesized", "path", out, "bytes", st.Size())
	return CacheResult{Path: out, Cached: false}, nil
}
