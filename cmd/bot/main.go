package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	discordrouter "github.com/jose-valero/tempvoice-bot/internal/adapters/discord"
	"github.com/jose-valero/tempvoice-bot/internal/adapters/httpapi"
	"github.com/jose-valero/tempvoice-bot/internal/app/service"
	"github.com/jose-valero/tempvoice-bot/internal/infra/config"
	"github.com/jose-valero/tempvoice-bot/internal/infra/storage"
	"github.com/jose-valero/tempvoice-bot/internal/telemetry"
)

type roomStore interface {
	service.RoomStore
	Close() error
}

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	flags := pflag.NewFlagSet("tempvoice-bot", pflag.ExitOnError)
	flags.StringVar(&cfg.StateFile, "state-file", cfg.StateFile, "archivo JSON de estado")
	flags.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "archivo con el token del bot")
	flags.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "dirección de /healthz, /readyz y /metrics (vacío = apagado)")
	_ = flags.Parse(os.Args[1:])

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	telemetry.Init()

	token, source := config.ResolveToken(cfg.DiscordToken, storage.ReadToken(cfg.StateFile), cfg.TokenFile)
	if token == "" {
		log.Fatalf("no encontré el token del bot. Opciones:\n"+
			"  1) variable de entorno DISCORD_TOKEN (o en .env)\n"+
			"  2) campo \"token\" en %s\n"+
			"  3) archivo %s con el token", cfg.StateFile, cfg.TokenFile)
	}
	slog.Info("token resolved", slog.String("source", source))

	store := openStore(cfg)
	defer store.Close()

	s, err := discordgo.New(config.BotAuth(token))
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordrouter.Intents

	rooms := service.NewRoomsService(store, discordrouter.NewPlatform(s), service.WithNaming(naming(cfg)))
	gate := service.NewGate()

	// Router: los handlers van antes de Open para no perder el Ready
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, cfg.Prefix, cfg.AdminRoleIDs, rooms, gate)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	if cfg.DiscordGuild != "" {
		log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)
	} else {
		log.Printf("✅ comandos registrados globalmente")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.NewSweeper(rooms, gate, cfg.SweepInterval).Run(gctx)
	})
	if cfg.HTTPAddr != "" {
		g.Go(func() error {
			return httpapi.New(gate).Start(gctx, cfg.HTTPAddr)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("shutdown", slog.Any("err", err))
	}
	log.Println("👋 apagando")
}

// openStore: Postgres si hay DATABASE_URL, si no el JSON de siempre.
func openStore(cfg config.Config) roomStore {
	if cfg.DatabaseURL == "" {
		return storage.OpenFile(cfg.StateFile)
	}
	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")
	return storage.NewPGStore(db)
}

func naming(cfg config.Config) service.Naming {
	n := service.DefaultNaming()
	if cfg.CategoryName != "" {
		n.Category = cfg.CategoryName
	}
	if cfg.VoiceName != "" {
		n.Voice = cfg.VoiceName
	}
	if cfg.TextName != "" {
		n.Text = cfg.TextName
	}
	if cfg.WelcomeMsg != "" {
		n.Welcome = cfg.WelcomeMsg
	}
	return n
}
