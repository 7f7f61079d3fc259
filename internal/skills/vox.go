package skills

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"voxie/internal/state"
)

// VoxRomana serves pre-recorded Latin quotes: an ambience cue, the author
// signature, then the quote itself, each played to completion through the
// daemon. Audio-only, no synthesis involved.
type VoxRomana struct {
	dataDir   string
	assetsDir string
	player    Player
	store     *state.Store
	pick      func(n int) int
	sleep     func(d time.Duration)
}

type voxEntry struct {
	ID          string   `json:"id"`
	Philosopher string   `json:"philosopher"`
	File        string   `json:"file"`
	Tags        []string `json:"tags"`
	Latin       string   `json:"latin"`
	Italian     string   `json:"italian"`
}

var (
	reVoxAuthor = regexp.MustCompile(`\b(seneca|cicerone|marco\s*aurelio|aurelio)\b`)

	voxStopwords = regexp.MustCompile(`\b(vox|romana|dimmi|dammi|dai|fammi|parlami|` +
		`raccontami|spiegami|qualcosa|qualcuno|una|un|frase|massima|pensiero|consiglio|` +
		`serio|seria|profondo|profonda|per\s+favore|grazie|che|mi|ti|ci|vi|me|te|se|` +
		`gli|le|lo|la|il|i|dia|dare|dimi|dicci|di|del|della|dei|degli|delle|da|a|ad|` +
		`al|alla|alle|agli|ai|per|su|con|in|nel|nella|nelle|nei|sul|sulla|sulle|oggi|adesso)\b`)

	voxThemes = map[string][]string{
		"motivazione":    {"coraggio", "azione", "forza"},
		"forza":          {"resilienza", "forza"},
		"coraggio":       {"coraggio", "audacia"},
		"calma":          {"pace", "accettazione"},
		"ansia":          {"pace", "accettazione"},
		"stress":         {"pace", "accettazione"},
		"tristezza":      {"impermanenza", "speranza"},
		"pazienza":       {"pazienza", "resilienza"},
		"destino":        {"destino", "accettazione"},
		"tempo":          {"tempo", "impermanenza"},
		"desiderio":      {"desiderio", "ricchezza"},
		"avidità":        {"desiderio", "ricchezza"},
		"difficoltà":     {"resilienza", "forza"},
		"carica":         {"coraggio", "azione", "forza"},
		"energia":        {"azione", "forza"},
		"grinta":         {"coraggio", "azione"},
		"concentrazione": {"disciplina", "tempo"},
		"focus":          {"disciplina", "tempo"},
	}

	voxCues = []string{"forum_hit", "senate_murmur", "scroll_tap", "shield_knock", "camp_echo"}
)

func NewVoxRomana(dataDir, assetsDir string, player Player, store *state.Store) *VoxRomana {
	return &VoxRomana{
		dataDir:   dataDir,
		assetsDir: assetsDir,
		player:    player,
		store:     store,
		pick:      rand.Intn,
		sleep:     time.Sleep,
	}
}

// WithDeterministic pins the random pick and removes sleeps. Used by tests.
func (v *VoxRomana) WithDeterministic(pick func(int) int) *VoxRomana {
	v.pick = pick
	v.sleep = func(time.Duration) {}
	return v
}

// playBlocking stops current audio, starts the file and polls STATUS until
// playback ends or the timeout passes. If the daemon never reports
// "playing" we wait a short fixed grace period instead.
func (v *VoxRomana) playBlocking(file string, timeout time.Duration) {
	if _, err := os.Stat(file); err != nil {
		return
	}

	v.player.Stop()
	v.sleep(80 * time.Millisecond)

	v.player.PlayMP3(file)
	v.sleep(120 * time.Millisecond)

	started := false
	deadline := time.Now().Add(350 * time.Millisecond)
	for time.Now().Before(deadline) {
		if v.player.Status().Playing {
			started = true
			break
		}
		v.sleep(70 * time.Millisecond)
	}

	if !started {
		v.sleep(2 * time.Second)
		return
	}

	end := time.Now().Add(timeout)
	for time.Now().Before(end) {
		if !v.player.Status().Playing {
			return
		}
		v.sleep(90 * time.Millisecond)
	}
}

type voxLastCue struct {
	Cue string `json:"cue"`
}

func (v *VoxRomana) Run(q string) Result {
	jsonPath := filepath.Join(v.dataDir, "vox_romana", "vox_romana_demo.json")
	mp3Dir := filepath.Join(v.assetsDir, "vox_romana_mp3")

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{OK: false, Text: "Vox Romana: JSON missing."}
	}
	var entries []voxEntry
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return Result{OK: false, Text: "Vox Romana: invalid JSON."}
	}

	t := normText(q)

	// Explicit author request, then strip the author token.
	author := ""
	switch m := reVoxAuthor.FindString(t); {
	case strings.Contains(m, "seneca"):
		author = "seneca"
	case strings.Contains(m, "aurelio"):
		author = "marco aurelio"
	case strings.Contains(m, "cicerone"):
		author = "cicerone"
	}
	t = reVoxAuthor.ReplaceAllString(t, " ")
	t = strings.TrimSpace(reSpace.ReplaceAllString(voxStopwords.ReplaceAllString(t, " "), " "))

	kw := ""
	if t != "" {
		kw = strings.Fields(t)[0]
	}
	wantedTags := voxThemes[kw]

	var candidates []voxEntry
	for _, e := range entries {
		if author != "" && !strings.Contains(normText(e.Philosopher), author) {
			continue
		}
		if len(wantedTags) == 0 {
			candidates = append(candidates, e)
			continue
		}
		for _, wt := range wantedTags {
			found := false
			for _, tag := range e.Tags {
				if normText(tag) == wt {
					found = true
					break
				}
			}
			if found {
				candidates = append(candidates, e)
				break
			}
		}
	}
	if len(candidates) == 0 {
		candidates = entries
	}

	picked := candidates[v.pick(len(candidates))]

	// Ambience cue with a one-step anti-repeat.
	var last voxLastCue
	v.store.Load("vox_last_cue", &last)
	cue := voxCues[v.pick(len(voxCues))]
	if cue == last.Cue {
		cue = voxCues[v.pick(len(voxCues))]
	}
	v.store.Save("vox_last_cue", voxLastCue{Cue: cue})

	v.playBlocking(filepath.Join(mp3Dir, "cues", cue+".mp3"), 3*time.Second)

	// Author signature.
	who := ""
	switch ph := normText(picked.Philosopher); {
	case strings.Contains(ph, "seneca"):
		who = "seneca"
	case strings.Contains(ph, "marco"), strings.Contains(ph, "aurelio"):
		who = "aurelio"
	case strings.Contains(ph, "cicer"):
		who = "cicerone"
	}
	if who != "" {
		sig := filepath.Join(mp3Dir, "signatures", who,
			fmt.Sprintf("sig_%d.mp3", 1+v.pick(3)))
		v.playBlocking(sig, 5*time.Second)
	}

	v.playBlocking(filepath.Join(mp3Dir, picked.File), 45*time.Second)

	return Result{OK: true, Meta: map[string]string{
		"picked":      picked.ID,
		"philosopher": picked.Philosopher,
		"kw":          kw,
		"cue":         cue,
		"file":        picked.File,
		"latin":       picked.Latin,
		"italian":     picked.Italian,
	}}
}
