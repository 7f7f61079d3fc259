package state

import "time"

// Clarify is the short-lived disambiguation micro-state: the options the
// assistant just offered, auto-expiring so a stale question can never bind
// a later utterance.
type Clarify struct {
	TS      int64    `json:"ts"`
	Options []string `json:"options"`
}

const clarifyDoc = "clarify"

const clarifyTTL = 30 * time.Second

func (s *Store) SetClarify(options []string) error {
	return s.Save(clarifyDoc, Clarify{TS: time.Now().Unix(), Options: options})
}

// GetClarify returns the pending options, or nil when none are pending.
// An expired document is removed on read.
func (s *Store) GetClarify() *Clarify {
	var c Clarify
	if !s.Load(clarifyDoc, &c) {
		return nil
	}
	if c.TS <= 0 || time.Since(time.Unix(c.TS, 0)) > clarifyTTL {
		s.Delete(clarifyDoc)
		return nil
	}
	return &c
}

func (s *Store) ClearClarify() {
	s.Delete(clarifyDoc)
}
