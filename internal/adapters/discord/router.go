package discord

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tempvoice-bot/internal/app/service"
)

const eventTimeout = 20 * time.Second

// Intents que necesita el Router: estados de voz, mensajes (actividad en el
// texto y comando de prefijo) y el contenido de los mensajes.
const Intents = discordgo.IntentGuilds |
	discordgo.IntentGuildVoiceStates |
	discordgo.IntentGuildMessages |
	discordgo.IntentMessageContent

type Router struct {
	s            *discordgo.Session
	guildID      string // vacío = comandos globales
	prefix       string
	adminRoleIDs []string

	rooms *service.RoomsService
	gate  *service.Gate
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	prefix string,
	adminRoleIDs []string,
	rooms *service.RoomsService,
	gate *service.Gate,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		prefix:       prefix,
		adminRoleIDs: adminRoleIDs,
		rooms:        rooms,
		gate:         gate,
	}
}

// Register reemplaza los slash commands de la app (requiere sesión abierta).
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	_, err := r.s.ApplicationCommandBulkOverwrite(appID, r.guildID, Commands)
	return err
}

// Handlers hay que llamarlo antes de s.Open() para no perder el Ready.
func (r *Router) Handlers() {
	r.s.AddHandler(r.onReady)
	r.s.AddHandler(r.onVoiceStateUpdate)
	r.s.AddHandler(r.onMessageCreate)
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.handleSlashCommand(s, ic)
	})
}

func (r *Router) onReady(s *discordgo.Session, ev *discordgo.Ready) {
	slog.Info("gateway ready",
		slog.String("user", ev.User.Username),
		slog.String("id", ev.User.ID),
		slog.Int("guilds", len(ev.Guilds)))
	r.gate.Open()
}

func (r *Router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	r.rooms.HandleMessage(ctx, service.MessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Bot:       m.Author.Bot,
	})

	if r.prefix != "" && strings.HasPrefix(m.Content, r.prefix) {
		r.handlePrefixCommand(s, m)
	}
}
