package skills

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Radio matches a query against the station catalog and drives the player
// directly: a dead stream falls through to the next candidate.
type Radio struct {
	dataDir string
	player  Player
	shuffle func([]stationMatch)
	pause   func()
}

type stationMatch struct {
	url   string
	name  string
	score int
}

func NewRadio(dataDir string, player Player) *Radio {
	return &Radio{
		dataDir: dataDir,
		player:  player,
		shuffle: func(m []stationMatch) {
			rand.Shuffle(len(m), func(i, j int) { m[i], m[j] = m[j], m[i] })
		},
		pause: func() { time.Sleep(200 * time.Millisecond) },
	}
}

// WithDeterministic removes shuffle and inter-attempt pauses. Used by tests.
func (r *Radio) WithDeterministic() *Radio {
	r.shuffle = func([]stationMatch) {}
	r.pause = func() {}
	return r
}

func (r *Radio) stationsPath() string {
	return filepath.Join(r.dataDir, "stations", "stations.json")
}

func (r *Radio) playlistsPath() string {
	return filepath.Join(r.dataDir, "stations", "playlists.json")
}

func asText(v gjson.Result) string {
	if v.IsArray() {
		var parts []string
		v.ForEach(func(_, e gjson.Result) bool {
			parts = append(parts, e.String())
			return true
		})
		return strings.TrimSpace(strings.Join(parts, " "))
	}
	return strings.TrimSpace(v.String())
}

func stationURL(st gjson.Result) string {
	for _, k := range []string{"url", "stream", "stream_url", "link"} {
		if u := asText(st.Get(k)); u != "" {
			return u
		}
	}
	return ""
}

// resolvePlaylist maps a query to (stationKey, playlistKey) via the
// optional playlists file. Italian phrasing collapses onto playlist keys.
func (r *Radio) resolvePlaylist(q string) (string, string) {
	ql := strings.ToLower(q)
	switch {
	case strings.Contains(ql, "stud") || strings.Contains(ql, "concentr"):
		ql = "study"
	case strings.Contains(ql, "rilass") || strings.Contains(ql, "calm"):
		ql = "chill"
	case strings.Contains(ql, "indie") || strings.Contains(ql, "alternative"):
		ql = "indie"
	}

	raw, err := os.ReadFile(r.playlistsPath())
	if err != nil || !gjson.ValidBytes(raw) {
		return "", ""
	}

	keys := gjson.ParseBytes(raw).Get(ql)
	if !keys.IsArray() {
		return "", ""
	}
	var stations []string
	keys.ForEach(func(_, k gjson.Result) bool {
		stations = append(stations, k.String())
		return true
	})
	if len(stations) == 0 {
		return "", ""
	}
	return stations[rand.Intn(len(stations))], ql
}

func (r *Radio) Run(query string) Result {
	raw, err := os.ReadFile(r.stationsPath())
	if err != nil {
		return Fail("STATIONS_MISSING")
	}
	if !gjson.ValidBytes(raw) {
		return Fail("STATIONS_BAD_JSON")
	}
	doc := gjson.ParseBytes(raw)

	q := normText(query)

	if q != "" {
		if stationKey, playlistKey := r.resolvePlaylist(q); stationKey != "" {
			if u := stationURL(doc.Get(stationKey)); u != "" {
				r.player.Stop()
				r.player.PlayStream(u)
				return Result{OK: true, Meta: map[string]string{
					"playlist": playlistKey, "station": stationKey,
				}}
			}
		}
	}

	var (
		matches       []stationMatch
		fallbackFirst string
	)

	var wordRe *regexp.Regexp
	if q != "" {
		wordRe = regexp.MustCompile(`\b` + regexp.QuoteMeta(q) + `\b`)
	}

	doc.ForEach(func(key, st gjson.Result) bool {
		name := asText(st.Get("name"))
		if name == "" {
			name = asText(st.Get("title"))
		}
		if name == "" {
			name = key.String()
		}

		url := stationURL(st)
		if url == "" {
			return true
		}
		if fallbackFirst == "" {
			fallbackFirst = url
		}
		if q == "" {
			return true
		}

		hay := strings.ToLower(strings.TrimSpace(
			name + " " + asText(st.Get("tags")) + " " + asText(st.Get("moods"))))
		if hay == "" {
			return true
		}

		score := 0
		if wordRe.MatchString(hay) {
			score += 3
		}
		if strings.Contains(hay, q) {
			score++
		}
		if score > 0 {
			matches = append(matches, stationMatch{url: url, name: name, score: score})
		}
		return true
	})

	if q == "" {
		if fallbackFirst == "" {
			return Fail("NO_STATION_FOUND")
		}
		rep := r.player.PlayStream(fallbackFirst)
		return Result{OK: rep.OK, Err: rep.Err}
	}

	if len(matches) == 0 {
		return Result{OK: false, Err: "NO_STATION_MATCH", Meta: map[string]string{"q": q}}
	}

	// Best scores first, then some variety among the top picks.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	top := matches
	if len(top) > 8 {
		top = top[:8]
	}
	r.shuffle(top)

	attempts := len(top)
	if attempts > 3 {
		attempts = 3
	}
	for i := 0; i < attempts; i++ {
		if rep := r.player.PlayStream(top[i].url); rep.OK {
			return Result{OK: true, Meta: map[string]string{"station": top[i].name}}
		}
		r.pause()
	}

	return Result{OK: false, Err: "STREAM_FAILED_FOR_MATCHES", Meta: map[string]string{"q": q}}
}
