// Package semantic is the embedding-based fallback classifier. It only
// runs when no deterministic rule fired, costs one embeddings round trip
// per query, and refuses to guess when the best score is weak or the gap
// to the runner-up is too small.
package semantic

import (
	"context"
	log "log/slog"
	"sort"
	"strings"
)

// Embedder produces one query vector per text. Implemented by the OpenAI
// embeddings adapter; tests substitute a fake.
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float64, error)
}

// Match is the accepted classification with its confidence evidence.
type Match struct {
	Intent       string
	Score        float64
	SecondIntent string
	SecondScore  float64
	Margin       float64
}

// Legacy intent names remapped when alias mode is on. study_off is kept
// as-is: it is an explicit command, not a legacy spelling.
var aliases = map[string]string{
	"studio":     "soundscape",
	"study_on":   "mentor",
	"study_auto": "mentor",
}

type Matcher struct {
	store     *Store
	embedder  Embedder
	MinScore  float64
	MinMargin float64

	// ConversationalIntent is accepted on score alone, skipping the margin
	// test: it sits close to generic chit-chat in embedding space and would
	// rarely clear a margin check against the chat centroid.
	ConversationalIntent string

	UseAliases bool
}

func NewMatcher(store *Store, embedder Embedder) *Matcher {
	return &Matcher{
		store:                store,
		embedder:             embedder,
		MinScore:             0.55,
		MinMargin:            0.04,
		ConversationalIntent: "events_timeout",
	}
}

// Guess classifies text against the centroid store. Three outcomes:
// a match, (nil, nil) for "no confident match", or (nil, err) when the
// embedding provider failed. Callers collapse the last two into the same
// fallback path but log them differently.
func (m *Matcher) Guess(ctx context.Context, text string) (*Match, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" || m.store == nil || len(m.store.Intents) == 0 {
		return nil, nil
	}

	qv, err := m.embedder.Embed(ctx, m.store.Meta.Model, text)
	if err != nil {
		return nil, err
	}

	type scored struct {
		intent string
		score  float64
	}
	ranked := make([]scored, 0, len(m.store.Intents))
	for _, iv := range m.store.Intents {
		if iv.Intent == "" || len(iv.Centroid) == 0 {
			continue
		}
		ranked = append(ranked, scored{iv.Intent, Cosine(qv, iv.Centroid)})
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	best := ranked[0]
	var second scored
	if len(ranked) > 1 {
		second = ranked[1]
	}

	res := &Match{
		Intent:       best.intent,
		Score:        best.score,
		SecondIntent: second.intent,
		SecondScore:  second.score,
		Margin:       best.score - second.score,
	}

	if best.intent == m.ConversationalIntent && best.score >= m.MinScore {
		return res, nil
	}
	if best.score < m.MinScore {
		log.Debug("semantic guess below score floor",
			"intent", best.intent, "score", best.score, "min", m.MinScore)
		return nil, nil
	}
	if res.Margin < m.MinMargin {
		log.Debug("semantic guess too ambiguous",
			"intent", best.intent, "second", second.intent, "margin", res.Margin)
		return nil, nil
	}

	if m.UseAliases {
		if to, ok := aliases[res.Intent]; ok {
			res.Intent = to
		}
		if to, ok := aliases[res.SecondIntent]; ok {
			res.SecondIntent = to
		}
	}
	return res, nil
}
