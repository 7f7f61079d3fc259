package skills

import (
	"fmt"
	"time"

	"voxie/internal/state"
)

const (
	timersDoc     = "timers"
	maxTimers     = 20
	pomodoroLabel = "Pomodoro"
)

type TimerEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	DueTS int64  `json:"due_ts"`
	Type  string `json:"type"`
}

type TimerDoc struct {
	Timers []TimerEntry `json:"timers"`
}

// Studio starts a focus-friendly background stream; "soundscape" is the
// current name for the same behavior. A direct stream URL skips station
// matching entirely.
type Studio struct {
	player    Player
	radio     *Radio
	store     *state.Store
	streamURL string
	pomodoro  bool
	now       func() time.Time
	pause     func()
}

func NewStudio(player Player, radio *Radio, store *state.Store, streamURL string, pomodoro bool) *Studio {
	return &Studio{
		player:    player,
		radio:     radio,
		store:     store,
		streamURL: streamURL,
		pomodoro:  pomodoro,
		now:       time.Now,
		pause:     func() { time.Sleep(100 * time.Millisecond) },
	}
}

// WithClock pins the clock and removes the pre-play pause. Used by tests.
func (s *Studio) WithClock(now func() time.Time) *Studio {
	s.now = now
	s.pause = func() {}
	return s
}

func (s *Studio) Run() Result {
	var res Result
	if s.streamURL != "" {
		s.player.Stop()
		s.pause()
		rep := s.player.PlayStream(s.streamURL)
		res = Result{OK: rep.OK, Err: rep.Err}
	} else {
		res = s.radio.Run("focus")
	}

	if s.pomodoro {
		var doc TimerDoc
		s.store.Load(timersDoc, &doc)
		doc.Timers = append(doc.Timers, TimerEntry{
			ID:    fmt.Sprintf("pomodoro_%d", s.now().Unix()),
			Label: pomodoroLabel,
			DueTS: s.now().Add(25 * time.Minute).Unix(),
			Type:  "timer",
		})
		if len(doc.Timers) > maxTimers {
			doc.Timers = doc.Timers[len(doc.Timers)-maxTimers:]
		}
		s.store.Save(timersDoc, doc)
	}

	return res
}
