package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"voxie/internal/bus"
	"voxie/internal/config"
	"voxie/internal/skills"
	"voxie/internal/state"
)

// voxie-tick runs from a scheduler: every due alarm or timer gets a local
// beep through the audio daemon and is marked done.

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	levels := map[string]log.Level{
		"debug": log.LevelDebug,
		"info":  log.LevelInfo,
		"warn":  log.LevelWarn,
		"error": log.LevelError,
	}
	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: levels[*logLevel],
	})))

	godotenv.Load(*envFile)
	cfg := config.Load()

	store := state.NewStore(cfg.StateDir())
	player := bus.NewClient(cfg.AudioSock, cfg.AudioTries, cfg.AudioRetry)
	alarms := skills.NewAlarms(store)

	due := alarms.Due(time.Now())
	if len(due) == 0 {
		return
	}

	beep := filepath.Join(cfg.AssetsDir(), "ack", "ack_neutral_ok.wav")
	fired := make([]string, 0, len(due))
	for _, e := range due {
		log.Info("alarm due", "id", e.ID, "label", e.Label)
		if rep := player.PlayWAV(beep); !rep.OK {
			log.Warn("beep not confirmed", "id", e.ID, "err", rep.Err)
		}
		fired = append(fired, e.ID)
	}

	if err := alarms.MarkDone(fired); err != nil {
		log.Error("mark alarms done", "err", err)
	}
}
