// Package config reads server settings from flags, falling back to CHECKERS_*
// environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr          string
	Origins       string
	BotDelay      time.Duration
	Difficulty    model.Difficulty
	QuietPlyLimit int
	LogLevel      log.Level
	Seed          uint64
}

// Load parses args (without the program name). getenv supplies the defaults and is
// usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("checkers", flag.ContinueOnError)
	addr := fs.String("addr", env("CHECKERS_ADDR", ":3000"), "listen address")
	origins := fs.String("origins", env("CHECKERS_ORIGINS", "http://localhost:5173"), "comma-separated CORS and websocket origins")
	botDelay := fs.String("bot-delay", env("CHECKERS_BOT_DELAY", "500ms"), "pause before each bot step")
	difficulty := fs.String("difficulty", env("CHECKERS_DIFFICULTY", "medium"), "default bot difficulty: low|mid|high (easy|medium|hard)")
	quiet := fs.String("quiet-ply-limit", env("CHECKERS_QUIET_PLY_LIMIT", "0"), "declare a draw after this many turns without capture or promotion (0 = never)")
	logLevel := fs.String("log-level", env("CHECKERS_LOG_LEVEL", "info"), "trace|debug|info|warn|error")
	seed := fs.String("seed", env("CHECKERS_SEED", "0"), "bot random seed (0 = time based)")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := Config{
		Addr:    strings.TrimSpace(*addr),
		Origins: strings.TrimSpace(*origins),
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}

	d, err := time.ParseDuration(*botDelay)
	if err != nil || d < 0 {
		return Config{}, fmt.Errorf("%w: bot-delay %q", ErrInvalidConfig, *botDelay)
	}
	cfg.BotDelay = d

	diff, ok := model.ParseDifficulty(*difficulty)
	if !ok {
		return Config{}, fmt.Errorf("%w: difficulty %q", ErrInvalidConfig, *difficulty)
	}
	cfg.Difficulty = diff

	limit, err := strconv.Atoi(*quiet)
	if err != nil || limit < 0 {
		return Config{}, fmt.Errorf("%w: quiet-ply-limit %q", ErrInvalidConfig, *quiet)
	}
	cfg.QuietPlyLimit = limit

	level, ok := parseLevel(*logLevel)
	if !ok {
		return Config{}, fmt.Errorf("%w: log-level %q", ErrInvalidConfig, *logLevel)
	}
	cfg.LogLevel = level

	cfg.Seed, err = strconv.ParseUint(*seed, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("%w: seed %q", ErrInvalidConfig, *seed)
	}
	return cfg, nil
}

// OriginList splits Origins for the websocket upgrader.
func (c Config) OriginList() []string {
	var out []string
	for _, o := range strings.Split(c.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.LevelTrace, true
	case "debug":
		return log.LevelDebug, true
	case "info":
		return log.LevelInfo, true
	case "warn", "warning":
		return log.LevelWarn, true
	case "error":
		return log.LevelError, true
	}
	return log.LevelInfo, false
}
