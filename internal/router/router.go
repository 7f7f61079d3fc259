// Package router maps raw utterance text to an intent plus extracted
// payload fields. The deterministic cascade runs first; the semantic
// fallback is consulted only when no rule fires.
package router

import (
	"regexp"
	"strings"
)

// Intent names. The empty string is the "no rule fired" sentinel.
const (
	IntentNone        = ""
	IntentStop        = "stop"
	IntentTime        = "time"
	IntentMentor      = "mentor"
	IntentSoundscape  = "soundscape"
	IntentStudio      = "studio"
	IntentAlarmList   = "alarm_list"
	IntentAlarmCancel = "alarm_cancel"
	IntentAlarmSet    = "alarm_set"
	IntentTimerSet    = "timer_set"
	IntentWeather     = "weather"
	IntentNews        = "news"
	IntentRadio       = "radio"
	IntentVox         = "vox"
	IntentTimeout     = "events_timeout"
	IntentChat        = "chat"
	IntentClarify     = "clarify"
	IntentStudyOn     = "study_on"
	IntentStudyAuto   = "study_auto"
	IntentStudyOff    = "study_off"
)

type Route struct {
	Intent  string
	Payload map[string]string
}

// rule is one predicate+extractor pair. The cascade is an ordered priority
// list, not a menu: the first rule that fires wins and the order must not
// be changed. In particular "mentor" is checked before the legacy "studio"
// rule because their vocabularies overlap.
type rule struct {
	intent string
	match  func(raw, lower string) (map[string]string, bool)
}

var (
	reStop       = regexp.MustCompile(`\b(stop|ferma|basta|silenzio)\b`)
	reTime       = regexp.MustCompile(`\b(che ore sono|ore|dimmi l'ora|dimmi l’ora)\b`)
	reMentor     = regexp.MustCompile(`\b(mentor|mentore|modalit[aà]\s*mentore|guidami|passo\s*passo)\b`)
	reSoundscape = regexp.MustCompile(`\b(soundscape|sottofondo|background|ambiente)\b`)
	reStudio     = regexp.MustCompile(`\b(studio|modalit[aà] studio|focus)\b`)
	reAlarmList  = regexp.MustCompile(`\b(lista sveglie|mostra sveglie|sveglie)\b`)
	reAlarmDel   = regexp.MustCompile(`\b(cancella|rimuovi)\s+(alarm_\S+|timer_\S+)\b`)
	reAlarmSet   = regexp.MustCompile(`\b(sveglia)\b.*\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	reTimerSet   = regexp.MustCompile(`\b(timer)\b.*\b(\d{1,3})\s*(min|minuti)\b`)
	reWeather    = regexp.MustCompile(`\b(meteo|che tempo|temperatura|piove|vento)\b`)
	reNews       = regexp.MustCompile(`\b(news|notizie|ultime)\b`)
	reNewsCat    = regexp.MustCompile(`(?i)\b(?:news|notizie|ultime)\s+(.+)$`)
	reNewsLead   = regexp.MustCompile(`^(?:news|notizie|ultime|di|del|della|dei|degli)\s+`)
	reNewsOnly   = regexp.MustCompile(`^(?:news|notizie|ultime)$`)
	reRadio      = regexp.MustCompile(`\b(radio|musica|metti|play)\b`)
	reRadioQ     = regexp.MustCompile(`(?i)\b(?:radio|musica)\s+(.+)$`)
	reVox        = regexp.MustCompile(`\bvox\b`)
	reVoxQ       = regexp.MustCompile(`(?i)\bvox(?:\s+romana)?\s*(.*)$`)
)

func plain(intent string, re *regexp.Regexp) rule {
	return rule{intent, func(_, lower string) (map[string]string, bool) {
		if re.MatchString(lower) {
			return map[string]string{}, true
		}
		return nil, false
	}}
}

var rules = []rule{
	plain(IntentStop, reStop),
	plain(IntentTime, reTime),
	plain(IntentMentor, reMentor),
	plain(IntentSoundscape, reSoundscape),
	plain(IntentStudio, reStudio),
	plain(IntentAlarmList, reAlarmList),

	// "cancella alarm_..." keeps the id as typed, so it matches raw input
	{IntentAlarmCancel, func(raw, _ string) (map[string]string, bool) {
		m := reAlarmDel.FindStringSubmatch(raw)
		if m == nil {
			return nil, false
		}
		return map[string]string{"id": strings.TrimSpace(m[2])}, true
	}},

	{IntentAlarmSet, func(_, lower string) (map[string]string, bool) {
		m := reAlarmSet.FindStringSubmatch(lower)
		if m == nil {
			return nil, false
		}
		hh := m[2]
		if len(hh) == 1 {
			hh = "0" + hh
		}
		return map[string]string{"hhmm": hh + ":" + m[3]}, true
	}},

	{IntentTimerSet, func(_, lower string) (map[string]string, bool) {
		m := reTimerSet.FindStringSubmatch(lower)
		if m == nil {
			return nil, false
		}
		return map[string]string{"minutes": m[2]}, true
	}},

	plain(IntentWeather, reWeather),

	{IntentNews, func(raw, lower string) (map[string]string, bool) {
		if !reNews.MatchString(lower) {
			return nil, false
		}
		cat := ""
		if m := reNewsCat.FindStringSubmatch(raw); m != nil {
			cat = strings.ToLower(strings.TrimSpace(m[1]))
			// Leading keywords and articles are phrasing, not category:
			// "ultime notizie di tecnologia" means category "tecnologia".
			for {
				next := reNewsLead.ReplaceAllString(cat, "")
				if next == cat {
					break
				}
				cat = next
			}
			if reNewsOnly.MatchString(cat) {
				cat = ""
			}
		}
		return map[string]string{"category": cat}, true
	}},

	{IntentRadio, func(raw, lower string) (map[string]string, bool) {
		if !reRadio.MatchString(lower) {
			return nil, false
		}
		q := ""
		if m := reRadioQ.FindStringSubmatch(raw); m != nil {
			q = strings.ToLower(strings.TrimSpace(m[1]))
		}
		return map[string]string{"q": q}, true
	}},

	{IntentVox, func(raw, lower string) (map[string]string, bool) {
		if !reVox.MatchString(lower) {
			return nil, false
		}
		q := ""
		if m := reVoxQ.FindStringSubmatch(raw); m != nil {
			q = strings.TrimSpace(m[1])
		}
		return map[string]string{"q": q}, true
	}},
}

// Match runs the deterministic cascade. On no match the returned route
// carries IntentNone; this is a normal outcome, never an error.
func Match(text string) Route {
	raw := strings.TrimSpace(text)
	lower := strings.ToLower(raw)

	for _, r := range rules {
		if payload, ok := r.match(raw, lower); ok {
			return Route{Intent: r.intent, Payload: payload}
		}
	}
	return Route{Intent: IntentNone, Payload: map[string]string{}}
}
