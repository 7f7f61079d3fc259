// Package skills holds the domain collaborators behind the orchestrator.
// Every skill returns a Result value; the orchestrator decides the audio
// path from it (play a local artifact, start a stream, or speak text).
package skills

import "voxie/internal/bus"

type Result struct {
	OK        bool              `json:"ok"`
	Text      string            `json:"text,omitempty"`
	Err       string            `json:"err,omitempty"`
	LocalPath string            `json:"local_path,omitempty"`
	ID        string            `json:"id,omitempty"`
	Alarms    []AlarmInfo       `json:"alarms,omitempty"`
	LLMMs     int64             `json:"llm_ms,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

func Fail(err string) Result { return Result{OK: false, Err: err} }

func Say(text string) Result { return Result{OK: true, Text: text} }

// Player is the slice of the audio bus that stream- and playback-driven
// skills use directly.
type Player interface {
	PlayMP3(path string) bus.Reply
	PlayWAV(path string) bus.Reply
	PlayStream(url string) bus.Reply
	Stop() bus.Reply
	Status() bus.Reply
}
