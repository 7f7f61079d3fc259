package skills

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"voxie/internal/state"
)

const (
	alarmsDoc   = "alarms"
	maxAlarms   = 50
	minTimerMin = 1
	maxTimerMin = 240
)

var reHHMM = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type AlarmEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	DueTS int64  `json:"due_ts"`
	Type  string `json:"type"`
	Done  bool   `json:"done"`
}

type AlarmInfo struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Due   string `json:"due"`
	Done  bool   `json:"done"`
}

type AlarmDoc struct {
	Alarms []AlarmEntry `json:"alarms"`
}

// Alarms persists alarms and timers in one bounded JSON document. The
// scheduled tick process is the other reader/writer.
type Alarms struct {
	store *state.Store
	now   func() time.Time
}

func NewAlarms(store *state.Store) *Alarms {
	return &Alarms{store: store, now: time.Now}
}

// WithClock pins the clock. Used by tests.
func (a *Alarms) WithClock(now func() time.Time) *Alarms {
	a.now = now
	return a
}

func (a *Alarms) load() AlarmDoc {
	var doc AlarmDoc
	a.store.Load(alarmsDoc, &doc)
	return doc
}

func (a *Alarms) save(doc AlarmDoc) error {
	if len(doc.Alarms) > maxAlarms {
		doc.Alarms = doc.Alarms[len(doc.Alarms)-maxAlarms:]
	}
	return a.store.Save(alarmsDoc, doc)
}

// SetHHMM schedules an alarm at HH:MM today, or tomorrow when that moment
// has already passed.
func (a *Alarms) SetHHMM(hhmm string) Result {
	m := reHHMM.FindStringSubmatch(hhmm)
	if m == nil {
		return Fail("BAD_TIME_FORMAT")
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])

	now := a.now()
	due := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if !due.After(now) {
		due = due.Add(24 * time.Hour)
	}

	id := fmt.Sprintf("alarm_%d_%d", due.Unix(), 100+rand.Intn(900))

	doc := a.load()
	doc.Alarms = append(doc.Alarms, AlarmEntry{
		ID: id, Label: "Sveglia", DueTS: due.Unix(), Type: "alarm",
	})
	if err := a.save(doc); err != nil {
		return Fail("ALARM_SAVE_FAIL")
	}

	return Result{OK: true, Text: "Impostata sveglia alle " + hhmm, ID: id}
}

// SetTimerMinutes schedules a countdown timer. The router accepts any
// 1-3 digit count; the 1..240 range is enforced here.
func (a *Alarms) SetTimerMinutes(minutes int) Result {
	if minutes < minTimerMin || minutes > maxTimerMin {
		return Fail("BAD_TIMER_RANGE")
	}

	due := a.now().Add(time.Duration(minutes) * time.Minute)
	id := fmt.Sprintf("timer_%d_%d", due.Unix(), 100+rand.Intn(900))

	doc := a.load()
	doc.Alarms = append(doc.Alarms, AlarmEntry{
		ID: id, Label: "Timer", DueTS: due.Unix(), Type: "timer",
	})
	if err := a.save(doc); err != nil {
		return Fail("ALARM_SAVE_FAIL")
	}

	return Result{OK: true, Text: fmt.Sprintf("Timer impostato: %d minuti", minutes), ID: id}
}

func (a *Alarms) List() Result {
	doc := a.load()
	out := make([]AlarmInfo, 0, len(doc.Alarms))
	for _, e := range doc.Alarms {
		out = append(out, AlarmInfo{
			ID:    e.ID,
			Type:  e.Type,
			Label: e.Label,
			Due:   time.Unix(e.DueTS, 0).Format("2006-01-02 15:04"),
			Done:  e.Done,
		})
	}
	return Result{OK: true, Alarms: out}
}

func (a *Alarms) Cancel(id string) Result {
	doc := a.load()
	kept := doc.Alarms[:0]
	for _, e := range doc.Alarms {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(doc.Alarms)
	doc.Alarms = kept
	if err := a.save(doc); err != nil {
		return Fail("ALARM_SAVE_FAIL")
	}

	if !removed {
		return Say("Nessuna sveglia trovata")
	}
	return Say("Sveglia rimossa")
}

// Due returns the pending entries whose time has come, for the tick
// process.
func (a *Alarms) Due(now time.Time) []AlarmEntry {
	doc := a.load()
	var due []AlarmEntry
	for _, e := range doc.Alarms {
		if !e.Done && e.DueTS > 0 && e.DueTS <= now.Unix() {
			due = append(due, e)
		}
	}
	return due
}

// MarkDone flags the given ids as fired.
func (a *Alarms) MarkDone(ids []string) error {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	doc := a.load()
	for i := range doc.Alarms {
		if set[doc.Alarms[i].ID] {
			doc.Alarms[i].Done = true
		}
	}
	return a.save(doc)
}
