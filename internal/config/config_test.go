package config

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envMap(nil))
	require.NoError(t, err)

	want := Config{
		Addr:       ":3000",
		Origins:    "http://localhost:5173",
		BotDelay:   500 * time.Millisecond,
		Difficulty: model.Mid,
		LogLevel:   log.LevelInfo,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	env := envMap(map[string]string{
		"CHECKERS_ADDR":            ":8080",
		"CHECKERS_DIFFICULTY":      "hard",
		"CHECKERS_QUIET_PLY_LIMIT": "40",
		"CHECKERS_SEED":            "42",
	})

	cfg, err := Load([]string{"-addr", ":9090", "-bot-delay", "0s", "-log-level", "debug"}, env)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Duration(0), cfg.BotDelay)
	assert.Equal(t, model.High, cfg.Difficulty)
	assert.Equal(t, 40, cfg.QuietPlyLimit)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "bad delay", args: []string{"-bot-delay", "soon"}},
		{name: "negative delay", args: []string{"-bot-delay", "-1s"}},
		{name: "bad difficulty", args: []string{"-difficulty", "brutal"}},
		{name: "negative quiet limit", args: []string{"-quiet-ply-limit", "-3"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
		{name: "bad seed", args: []string{"-seed", "abc"}},
		{name: "empty addr", args: []string{"-addr", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, envMap(nil))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOriginList(t *testing.T) {
	cfg := Config{Origins: "http://a.test, http://b.test,,"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.OriginList())
}
