package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"voxie/internal/agent"
	"voxie/internal/bus"
	"voxie/internal/config"
	"voxie/internal/embed"
	"voxie/internal/llm"
	"voxie/internal/proxy"
	"voxie/internal/router"
	"voxie/internal/semantic"
	"voxie/internal/skills"
	"voxie/internal/state"
	"voxie/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	// Diagnostics go to stderr; stdout carries only the JSON result.
	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	godotenv.Load(*envFile)
	cfg := config.Load()

	input := ""
	if args := cli.Args(); len(args) > 0 {
		input = args[0]
	}

	resp := run(cfg, input)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		log.Error("encode response", "err", err)
		fmt.Println(`{"ok":false}`)
		return
	}
	fmt.Println(string(out))
}

func run(cfg config.Config, input string) agent.Response {
	httpClient := providerHTTPClient(cfg)

	player := bus.NewClient(cfg.AudioSock, cfg.AudioTries, cfg.AudioRetry)
	store := state.NewStore(cfg.StateDir())

	chat := llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
		HTTPClient:  httpClient,
	})

	cache := tts.NewCache(
		filepath.Join(cfg.CacheDir(), "tts"), cfg.TTSModel, cfg.TTSVoice,
		tts.NewOpenAISynth(cfg.APIKey, httpClient),
	)
	speaker := tts.NewSpeaker(cache, player)

	resolver := router.NewResolver(buildGuesser(cfg, httpClient), cfg.ClarifyEnabled)

	radio := skills.NewRadio(cfg.DataDir(), player)

	a := agent.New(agent.Deps{
		Resolver:  resolver,
		Player:    player,
		Speaker:   speaker,
		Chatter:   chat,
		Store:     store,
		Alarms:    skills.NewAlarms(store),
		News:      skills.NewNews(cfg.DataDir(), store),
		Radio:     radio,
		Studio:    skills.NewStudio(player, radio, store, cfg.StudioStreamURL, cfg.StudioPomodoro),
		Vox:       skills.NewVoxRomana(cfg.DataDir(), cfg.AssetsDir(), player, store),
		DataDir:   cfg.DataDir(),
		AssetsDir: cfg.AssetsDir(),
	})

	return a.Handle(context.Background(), input)
}

// buildGuesser wires the semantic fallback only when the feature is on,
// the centroid store is readable and an API key exists. Anything else
// means the resolver skips straight to the default intent.
func buildGuesser(cfg config.Config, httpClient *http.Client) router.Guesser {
	if !cfg.SemanticEnabled || cfg.APIKey == "" {
		return nil
	}

	store, err := semantic.LoadStore(cfg.VecStore())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("centroid store unusable", "err", err)
		}
		return nil
	}
	if store.Meta.Model == "" {
		store.Meta.Model = cfg.EmbedModel
	}

	m := semantic.NewMatcher(store, embed.NewClient(cfg.APIKey, httpClient))
	m.MinScore = cfg.SemanticMinScore
	m.MinMargin = cfg.SemanticMinMargin
	m.UseAliases = cfg.IntentAliases
	return m
}

func providerHTTPClient(cfg config.Config) *http.Client {
	if cfg.SocksProxy == "" {
		return nil
	}
	c, err := proxy.NewSocksClient(cfg.SocksProxy, 0)
	if err != nil {
		log.Error("socks proxy unusable, going direct", "proxy", cfg.SocksProxy, "err", err)
		return nil
	}
	return c
}
