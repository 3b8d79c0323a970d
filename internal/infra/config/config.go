package config

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	DiscordToken string // puede venir vacío: ver ResolveToken
	DiscordGuild string // opcional: registra los comandos sólo en ese guild
	AdminRoleIDs []string
	Prefix       string

	StateFile   string // default config.json
	TokenFile   string // default token.txt
	DatabaseURL string // si está, se usa Postgres en vez del JSON
	HTTPAddr    string // default :8080

	SweepInterval time.Duration
	LogLevel      slog.Level

	CategoryName string
	VoiceName    string
	TextName     string
	WelcomeMsg   string
}

func Load() Config {
	get := func(k string, req bool) string {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	def := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}

	cfg := Config{
		DiscordToken: get("DISCORD_TOKEN", false),
		DiscordGuild: get("DISCORD_GUILD_ID", false),
		AdminRoleIDs: splitList(get("ADMIN_ROLE_IDS", false)),
		Prefix:       def(get("COMMAND_PREFIX", false), "!"),
		StateFile:    def(get("STATE_FILE", false), "config.json"),
		TokenFile:    def(get("TOKEN_FILE", false), "token.txt"),
		DatabaseURL:  get("DATABASE_URL", false),
		HTTPAddr:     def(get("HTTP_ADDR", false), ":8080"),
		CategoryName: get("ROOM_CATEGORY_NAME", false),
		VoiceName:    get("ROOM_VOICE_NAME", false),
		TextName:     get("ROOM_TEXT_NAME", false),
		WelcomeMsg:   get("ROOM_WELCOME", false),
		LogLevel:     parseLevel(get("LOG_LEVEL", false)),
	}

	if v := get("SWEEP_INTERVAL", false); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("SWEEP_INTERVAL inválido (%q), uso el default", v)
		} else {
			cfg.SweepInterval = d
		}
	}
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		log.Printf("LOG_LEVEL inválido (%q), uso info", s)
		return slog.LevelInfo
	}
	return lvl
}
