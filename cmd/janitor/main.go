package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/tempvoice-bot/internal/adapters/discord"
	"github.com/jose-valero/tempvoice-bot/internal/app/service"
	"github.com/jose-valero/tempvoice-bot/internal/infra/config"
	"github.com/jose-valero/tempvoice-bot/internal/infra/storage"
	"github.com/jose-valero/tempvoice-bot/internal/telemetry"
)

// handler corre un barrido contra Postgres usando sólo REST (sin gateway).
func handler(ctx context.Context) (string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "no DATABASE_URL", nil
	}
	token := strings.TrimSpace(os.Getenv("DISCORD_TOKEN"))
	if token == "" {
		return "no DISCORD_TOKEN", nil
	}

	db, err := storage.Open(ctx, dsn)
	if err != nil {
		return fmt.Sprintf("db: %v", err), nil
	}
	defer db.Close()
	if err := storage.Migrate(ctx, db); err != nil {
		return fmt.Sprintf("migrate: %v", err), nil
	}

	s, err := discordgo.New(config.BotAuth(token))
	if err != nil {
		return fmt.Sprintf("discord: %v", err), nil
	}

	telemetry.Init()
	rooms := service.NewRoomsService(storage.NewPGStore(db), discordrouter.NewPlatform(s))

	// sin gateway no hay Ready: el gate arranca abierto
	gate := service.NewGate()
	gate.Open()

	cctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	rep := service.NewSweeper(rooms, gate, 0).RunOnce(cctx)

	return fmt.Sprintf("ok guilds=%d checked=%d reclaimed=%d delete_failures=%d",
		rep.Guilds, rep.Checked, rep.Reclaimed, rep.DeleteFailures), nil
}

func main() {
	_ = godotenv.Load()
	lambda.Start(handler)
}
