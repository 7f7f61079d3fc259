package skills

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxie/internal/bus"
	"voxie/internal/llm"
	"voxie/internal/state"
)

type fakeChatter struct {
	reply llm.Reply
	err   error
	sys   string
	user  string
}

func (f *fakeChatter) Chat(_ context.Context, system, userText string) (llm.Reply, error) {
	f.sys, f.user = system, userText
	return f.reply, f.err
}

func TestChat(t *testing.T) {
	c := &fakeChatter{reply: llm.Reply{Text: "Certo, ecco qua.", Ms: 420}}

	res := Chat(context.Background(), c, "raccontami qualcosa")
	require.True(t, res.OK)
	assert.Equal(t, "Certo, ecco qua.", res.Text)
	assert.Equal(t, int64(420), res.LLMMs)
	assert.Equal(t, "raccontami qualcosa", c.user)
	assert.Contains(t, c.sys, "italiano")
}

func TestChatProviderFailure(t *testing.T) {
	c := &fakeChatter{err: errors.New("timeout")}

	res := Chat(context.Background(), c, "ciao")
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "LLM_FAIL")
}

func TestWeather(t *testing.T) {
	dataDir := t.TempDir()
	mp3 := filepath.Join(dataDir, "cache", "meteo", "cache_meteo.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(mp3), 0o777))
	require.NoError(t, os.WriteFile(mp3, bytes.Repeat([]byte{1}, 2048), 0o666))

	res := Weather(dataDir)
	require.True(t, res.OK)
	assert.Equal(t, mp3, res.LocalPath)
}

func TestWeatherMissingArtifact(t *testing.T) {
	res := Weather(t.TempDir())
	assert.False(t, res.OK)
	assert.Equal(t, "WEATHER_MP3_MISSING", res.Err)
}

func TestEventsTimeout(t *testing.T) {
	dataDir := t.TempDir()
	mp3 := filepath.Join(dataDir, "events", "cache", "cagliari", "timeout.latest.mp3")
	require.NoError(t, os.MkdirAll(filepath.Dir(mp3), 0o777))
	require.NoError(t, os.WriteFile(mp3, []byte("x"), 0o666))

	res := EventsTimeout(dataDir)
	require.True(t, res.OK)
	assert.Equal(t, mp3, res.LocalPath)
}

func TestEventsTimeoutMissingSpeaksApology(t *testing.T) {
	res := EventsTimeout(t.TempDir())
	assert.False(t, res.OK)
	assert.Empty(t, res.LocalPath)
	assert.NotEmpty(t, res.Text)
}

func TestMentorOnOff(t *testing.T) {
	store := state.NewStore(t.TempDir())

	res := MentorOn(store)
	require.True(t, res.OK)
	assert.Contains(t, res.Text, "mentore")
	st := store.LoadStudy()
	assert.True(t, st.Enabled)
	assert.True(t, st.PendingConfirm)

	res = MentorOff(store)
	require.True(t, res.OK)
	assert.False(t, store.LoadStudy().Enabled)
}

func TestClarify(t *testing.T) {
	store := state.NewStore(t.TempDir())

	res := Clarify(store)
	require.True(t, res.OK)
	assert.NotEmpty(t, res.Text)

	c := store.GetClarify()
	require.NotNil(t, c)
	assert.Equal(t, []string{"news", "weather"}, c.Options)
}

func TestStudioDirectStream(t *testing.T) {
	player := &stubPlayer{}
	store := state.NewStore(t.TempDir())
	s := NewStudio(player, nil, store, "http://focus.example/stream", false)
	s.WithClock(func() time.Time { return time.Unix(1700000000, 0) })

	res := s.Run()
	require.True(t, res.OK)
	require.Len(t, player.cmds, 2)
	assert.Equal(t, bus.CmdStop, player.cmds[0].Cmd)
	assert.Equal(t, bus.CmdPlayStream, player.cmds[1].Cmd)
	assert.Equal(t, "http://focus.example/stream", player.cmds[1].URL)

	var doc TimerDoc
	assert.False(t, store.Load("timers", &doc), "pomodoro off must not write timers")
}

func TestStudioPomodoroTimer(t *testing.T) {
	player := &stubPlayer{}
	store := state.NewStore(t.TempDir())
	at := time.Unix(1700000000, 0)
	s := NewStudio(player, nil, store, "http://focus.example/stream", true)
	s.WithClock(func() time.Time { return at })

	require.True(t, s.Run().OK)

	var doc TimerDoc
	require.True(t, store.Load("timers", &doc))
	require.Len(t, doc.Timers, 1)
	assert.Equal(t, pomodoroLabel, doc.Timers[0].Label)
	assert.Equal(t, at.Add(25*time.Minute).Unix(), doc.Timers[0].DueTS)
}

func TestStudioFallsBackToRadio(t *testing.T) {
	dataDir := t.TempDir()
	writeStations(t, dataDir, `{
		"st1": {"name": "Focus Beats", "url": "http://beats.example", "tags": ["focus"]}
	}`)

	player := &stubPlayer{}
	radio := NewRadio(dataDir, player).WithDeterministic()
	s := NewStudio(player, radio, state.NewStore(t.TempDir()), "", false)
	s.WithClock(func() time.Time { return time.Unix(1700000000, 0) })

	res := s.Run()
	require.True(t, res.OK)
	assert.Equal(t, []string{"http://beats.example"}, player.streamed())
}
