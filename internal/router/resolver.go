package router

import (
	"context"
	log "log/slog"

	"voxie/internal/semantic"
)

// Guesser is the semantic fallback hook. Nil means the feature is off or
// no centroid store is available; in that case unmatched input goes
// straight to the default intent with no external call.
type Guesser interface {
	Guess(ctx context.Context, text string) (*semantic.Match, error)
}

type Resolver struct {
	guesser Guesser
	clarify bool
}

func NewResolver(guesser Guesser, clarify bool) *Resolver {
	return &Resolver{guesser: guesser, clarify: clarify}
}

// Resolve runs the deterministic cascade, then the semantic fallback, then
// the default conversational intent. It never fails: a provider error is
// logged and absorbed into the default path.
func (r *Resolver) Resolve(ctx context.Context, text string) Route {
	if route := Match(text); route.Intent != IntentNone {
		return route
	}

	if r.guesser != nil {
		m, err := r.guesser.Guess(ctx, text)
		switch {
		case err != nil:
			log.Warn("semantic fallback unavailable", "err", err)
		case m != nil:
			log.Info("semantic match",
				"intent", m.Intent, "score", m.Score,
				"second", m.SecondIntent, "margin", m.Margin)
			return Route{Intent: m.Intent, Payload: map[string]string{}}
		}
	}

	def := IntentChat
	if r.clarify {
		def = IntentClarify
	}
	return Route{Intent: def, Payload: map[string]string{}}
}
