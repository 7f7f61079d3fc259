package tts

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxie/internal/bus"
)

type fakeSynth struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeSynth) Synthesize(_ context.Context, _, _, _ string) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func bigMP3() []byte {
	return bytes.Repeat([]byte{0xff}, 4096)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "ciao come va", NormalizeText("  ciao\n\tcome   va "))

	long := strings.Repeat("à", 2000)
	got := NormalizeText(long)
	assert.Len(t, []rune(got), 900)
}

func TestGetOrSynthesizeSynthesizesOnce(t *testing.T) {
	synth := &fakeSynth{out: bigMP3()}
	c := NewCache(t.TempDir(), "tts-1", "alloy", synth)

	first, err := c.GetOrSynthesize(context.Background(), "Buongiorno!")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := c.GetOrSynthesize(context.Background(), "  Buongiorno! ")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Path, second.Path)

	assert.Equal(t, 1, synth.calls, "cache hit must not call the provider")
}

func TestGetOrSynthesizeDistinctKeys(t *testing.T) {
	synth := &fakeSynth{out: bigMP3()}
	dir := t.TempDir()

	a, err := NewCache(dir, "tts-1", "alloy", synth).GetOrSynthesize(context.Background(), "ciao")
	require.NoError(t, err)
	b, err := NewCache(dir, "tts-1", "nova", synth).GetOrSynthesize(context.Background(), "ciao")
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path, "voice is part of the cache key")
}

func TestGetOrSynthesizeRejectsTinyArtifact(t *testing.T) {
	synth := &fakeSynth{out: []byte("oops")}
	c := NewCache(t.TempDir(), "tts-1", "alloy", synth)

	_, err := c.GetOrSynthesize(context.Background(), "ciao")
	assert.ErrorContains(t, err, "too small")

	// The failed artifact must not become a hit.
	synth.out = bigMP3()
	res, err := c.GetOrSynthesize(context.Background(), "ciao")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, synth.calls)
}

func TestGetOrSynthesizeEmptyText(t *testing.T) {
	synth := &fakeSynth{out: bigMP3()}
	c := NewCache(t.TempDir(), "tts-1", "alloy", synth)

	_, err := c.GetOrSynthesize(context.Background(), "   ")
	assert.Error(t, err)
	assert.Zero(t, synth.calls)
}

func TestGetOrSynthesizePropagatesProviderError(t *testing.T) {
	synth := &fakeSynth{err: errors.New("status 500")}
	c := NewCache(t.TempDir(), "tts-1", "alloy", synth)

	_, err := c.GetOrSynthesize(context.Background(), "ciao")
	assert.ErrorContains(t, err, "status 500")
}

type fakePlayer struct {
	paths []string
	rep   bus.Reply
}

func (f *fakePlayer) PlayMP3(path string) bus.Reply {
	f.paths = append(f.paths, path)
	return f.rep
}

func TestSpeakerSay(t *testing.T) {
	synth := &fakeSynth{out: bigMP3()}
	player := &fakePlayer{rep: bus.Reply{OK: true}}
	s := NewSpeaker(NewCache(t.TempDir(), "tts-1", "alloy", synth), player)

	got := s.Say(context.Background(), "Sono le 10:30")
	assert.True(t, got.OK)
	require.Len(t, player.paths, 1)
	assert.Equal(t, got.Path, player.paths[0])
}

func TestSpeakerSaySynthFailureSkipsPlayback(t *testing.T) {
	synth := &fakeSynth{err: errors.New("down")}
	player := &fakePlayer{}
	s := NewSpeaker(NewCache(t.TempDir(), "tts-1", "alloy", synth), player)

	got := s.Say(context.Background(), "ciao")
	assert.False(t, got.OK)
	assert.Empty(t, player.paths)
}
