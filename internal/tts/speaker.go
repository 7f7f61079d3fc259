package tts

import (
	"context"

	"voxie/internal/bus"
)

// Player is the slice of the audio bus the speaker needs.
type Player interface {
	PlayMP3(path string) bus.Reply
}

// Speaker synthesizes (with caching) and plays the result.
type Speaker struct {
	cache  *Cache
	player Player
}

func NewSpeaker(cache *Cache, player Player) *Speaker {
	return &Speaker{cache: cache, player: player}
}

type SpokenResult struct {
	OK     bool
	Path   string
	Cached bool
	Err    string
}

// Say speaks text through the audio daemon. Failures come back as values;
// the caller decides whether they matter.
func (s *Speaker) Say(ctx context.Context, text string) SpokenResult {
	res, err := s.cache.GetOrSynthesize(ctx, text)
	if err != nil {
		return SpokenResult{OK: false, Err: err.Error()}
	}

	rep := s.player.PlayMP3(res.Path)
	return SpokenResult{OK: rep.OK, Path: res.Path, Cached: res.Cached, Err: rep.Err}
}
