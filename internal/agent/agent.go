// Package agent sequences one request: resolve the intent, run the skill,
// then route the result to audio output. STOP short-circuits everything.
package agent

import (
	"context"
	log "log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"voxie/internal/router"
	"voxie/internal/skills"
	"voxie/internal/state"
	"voxie/internal/tts"
)

// Speaker turns reply text into played audio. The tts speaker satisfies
// it; tests substitute a recorder.
type Speaker interface {
	Say(ctx context.Context, text string) tts.SpokenResult
}

type Deps struct {
	Resolver *router.Resolver
	Player   skills.Player
	Speaker  Speaker
	Chatter  skills.Chatter
	Store    *state.Store

	Alarms *skills.Alarms
	News   *skills.News
	Radio  *skills.Radio
	Studio *skills.Studio
	Vox    *skills.VoxRomana

	DataDir   string
	AssetsDir string
	Clock     skills.Clock
}

type Agent struct {
	resolver *router.Resolver
	player   skills.Player
	speaker  Speaker
	chatter  skills.Chatter
	store    *state.Store

	alarms *skills.Alarms
	news   *skills.News
	radio  *skills.Radio
	studio *skills.Studio
	vox    *skills.VoxRomana

	dataDir   string
	assetsDir string
	clock     skills.Clock
}

func New(d Deps) *Agent {
	return &Agent{
		resolver:  d.Resolver,
		player:    d.Player,
		speaker:   d.Speaker,
		chatter:   d.Chatter,
		store:     d.Store,
		alarms:    d.Alarms,
		news:      d.News,
		radio:     d.Radio,
		studio:    d.Studio,
		vox:       d.Vox,
		dataDir:   d.DataDir,
		assetsDir: d.AssetsDir,
		clock:     d.Clock,
	}
}

// Output is the skill result plus what was actually played or spoken.
type Output struct {
	skills.Result
	Spoken *tts.SpokenResult `json:"spoken,omitempty"`
}

type Response struct {
	OK     bool   `json:"ok"`
	Intent string `json:"intent"`
	Result Output `json:"result"`
}

// Handle processes one utterance end to end. It never returns an error:
// every failure is a value inside the response.
func (a *Agent) Handle(ctx context.Context, input string) Response {
	ctx = WithStartTime(ctx, time.Now())

	route := a.resolver.Resolve(ctx, input)
	log.Info("routed", "intent", route.Intent, "ms", ElapsedMs(ctx))

	// A pending clarify question binds the next otherwise-unclaimed
	// utterance: "la prima" picks the first offered option.
	if route.Intent == router.IntentChat || route.Intent == router.IntentClarify {
		if picked, ok := a.clarifyAnswer(input); ok {
			log.Info("clarify answered", "intent", picked)
			route = router.Route{Intent: picked, Payload: map[string]string{}}
		}
	}

	// STOP is the one hard real-time guarantee: one transport command,
	// nothing else.
	if route.Intent == router.IntentStop {
		a.player.Stop()
		return Response{OK: true, Intent: route.Intent, Result: Output{Result: skills.Result{OK: true}}}
	}

	res := a.dispatch(ctx, route, input)
	out := a.audioOut(ctx, res)

	return Response{OK: true, Intent: route.Intent, Result: out}
}

func (a *Agent) dispatch(ctx context.Context, route router.Route, input string) skills.Result {
	switch route.Intent {
	case router.IntentWeather:
		return skills.Weather(a.dataDir)

	case router.IntentNews:
		return a.news.Run(route.Payload["category"])

	case router.IntentRadio:
		return a.radio.Run(route.Payload["q"])

	case router.IntentTime:
		return skills.TimeNow(a.clock)

	case router.IntentStudio, router.IntentSoundscape:
		return a.studio.Run()

	case router.IntentAlarmSet:
		return a.alarms.SetHHMM(route.Payload["hhmm"])

	case router.IntentTimerSet:
		minutes, _ := strconv.Atoi(route.Payload["minutes"])
		return a.alarms.SetTimerMinutes(minutes)

	case router.IntentAlarmList:
		return a.alarms.List()

	case router.IntentAlarmCancel:
		return a.alarms.Cancel(route.Payload["id"])

	case router.IntentVox:
		return a.vox.Run(route.Payload["q"])

	case router.IntentTimeout:
		return skills.EventsTimeout(a.dataDir)

	case router.IntentClarify:
		return skills.Clarify(a.store)

	case router.IntentMentor, router.IntentStudyOn, router.IntentStudyAuto:
		a.preStudy()
		log.Info("intro done", "ms", ElapsedMs(ctx))
		return skills.MentorOn(a.store)

	case router.IntentStudyOff:
		a.preLLM()
		log.Info("intro done", "ms", ElapsedMs(ctx))
		return skills.MentorOff(a.store)

	default:
		return a.converse(ctx, input)
	}
}

// clarifyAnswer maps a short reply onto a pending clarify option. Only
// options that were actually offered are honored; consuming the answer
// clears the pending state.
func (a *Agent) clarifyAnswer(input string) (string, bool) {
	c := a.store.GetClarify()
	if c == nil {
		return "", false
	}

	low := strings.ToLower(input)
	pick := ""
	switch {
	case strings.Contains(low, "prim") || strings.Contains(low, "notiz") ||
		strings.Contains(low, "aggiorn"):
		pick = "news"
	case strings.Contains(low, "second") || strings.Contains(low, "meteo") ||
		strings.Contains(low, "tempo"):
		pick = "weather"
	}
	if pick == "" {
		return "", false
	}

	for _, opt := range c.Options {
		if opt == pick {
			a.store.ClearClarify()
			switch pick {
			case "news":
				return router.IntentNews, true
			case "weather":
				return router.IntentWeather, true
			}
		}
	}
	return "", false
}

// converse is the LLM-backed default path. Barge-in applies here and only
// here: cut off whatever is still playing before the new reply begins.
func (a *Agent) converse(ctx context.Context, input string) skills.Result {
	st := a.store.LoadStudy()

	a.player.Stop()

	if st.Enabled {
		a.preStudy()
		log.Info("intro done", "ms", ElapsedMs(ctx))
		return skills.Say("Dimmi cosa vuoi capire e ti guido passo-passo.")
	}

	a.preLLM()
	log.Info("intro done", "ms", ElapsedMs(ctx))
	return skills.Chat(ctx, a.chatter, input)
}

// audioOut plays a returned local artifact, or speaks returned text.
// A result with neither is a final, silent success.
func (a *Agent) audioOut(ctx context.Context, res skills.Result) Output {
	out := Output{Result: res}

	if strings.TrimSpace(res.Text) == "" && res.LocalPath != "" {
		if _, err := os.Stat(res.LocalPath); err != nil {
			out.Result = skills.Result{
				OK:   false,
				Text: "File audio non trovato.",
				Meta: map[string]string{"missing": res.LocalPath},
			}
		} else {
			rep := a.player.PlayMP3(res.LocalPath)
			out.Spoken = &tts.SpokenResult{OK: rep.OK, Path: res.LocalPath, Err: rep.Err}
			return out
		}
	}

	if text := strings.TrimSpace(out.Result.Text); text != "" {
		spoken := a.speaker.Say(ctx, text)
		log.Info("tts play", "ms", ElapsedMs(ctx), "cached", spoken.Cached)
		out.Spoken = &spoken
	}
	return out
}
