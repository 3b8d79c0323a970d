package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeToken(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "token.txt")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestResolveTokenOrder(t *testing.T) {
	file := writeToken(t, "from-file\n")

	tok, src := ResolveToken("from-env", "from-state", file)
	assert.Equal(t, "from-env", tok)
	assert.Equal(t, TokenFromEnv, src)

	tok, src = ResolveToken("", "from-state", file)
	assert.Equal(t, "from-state", tok)
	assert.Equal(t, TokenFromStateFile, src)

	tok, src = ResolveToken("  ", "", file)
	assert.Equal(t, "from-file", tok)
	assert.Equal(t, TokenFromTokenFile, src)
}

func TestResolveTokenNone(t *testing.T) {
	tok, src := ResolveToken("", "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Empty(t, tok)
	assert.Empty(t, src)

	tok, _ = ResolveToken("", "", writeToken(t, "   \n"))
	assert.Empty(t, tok)
}

func TestBotAuth(t *testing.T) {
	assert.Equal(t, "Bot abc", BotAuth("abc"))
	assert.Equal(t, "Bot abc", BotAuth(" Bot abc "))
	assert.Equal(t, "bot abc", BotAuth("bot abc"))
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DISCORD_TOKEN", "STATE_FILE", "TOKEN_FILE", "HTTP_ADDR", "COMMAND_PREFIX",
		"ADMIN_ROLE_IDS", "SWEEP_INTERVAL", "LOG_LEVEL", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "config.json", cfg.StateFile)
	assert.Equal(t, "token.txt", cfg.TokenFile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "!", cfg.Prefix)
	assert.Empty(t, cfg.AdminRoleIDs)
	assert.Zero(t, cfg.SweepInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_ROLE_IDS", " 1, 2 ,,3")
	t.Setenv("SWEEP_INTERVAL", "30m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STATE_FILE", "/data/state.json")
	cfg := Load()
	assert.Equal(t, []string{"1", "2", "3"}, cfg.AdminRoleIDs)
	assert.Equal(t, 30*time.Minute, cfg.SweepInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/data/state.json", cfg.StateFile)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "nope")
	t.Setenv("LOG_LEVEL", "loud")
	cfg := Load()
	assert.Zero(t, cfg.SweepInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
