// lógica de los comandos: acá sólo se interpreta la interacción/mensaje y se
// despacha a RoomsService
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tempvoice-bot/internal/app/service"
)

const (
	msgNeedChannel = "Por favor, mencione um canal de voz ou esteja em um canal de voz."
	msgUnexpected  = "❌ Ocorreu um erro inesperado processando o comando."
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	log := slog.With(slog.String("cmd", cmd.Name), slog.String("guild", ic.GuildID))
	log.Info("slash command")

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in slash command", slog.Any("panic", rec))
			ReplyEphemeral(s, ic, msgUnexpected)
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {
	case cmdSetJoinChannel:
		defer step("cmd.setjoinchannel")()
		if !r.requireAdmin(s, ic) {
			return
		}
		channelID, _ := optChannel(ic, "canal")
		ReplyEphemeral(s, ic, r.setJoinChannel(ctx, ic.GuildID, ic.Member.User.ID, channelID))
	default:
		ReplyEphemeral(s, ic, "Comando desconhecido.")
	}
}

// handlePrefixCommand: "!setjoinchannel [#canal|id]". Mismo comportamiento que el slash command.
func (r *Router) handlePrefixCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, r.prefix))
	if len(fields) == 0 || !strings.EqualFold(fields[0], cmdSetJoinChannel) {
		return
	}
	if !r.messageAuthorIsAdmin(s, m) {
		ReplyInChannel(s, m, msgNoPerms)
		return
	}
	arg := ""
	if len(fields) > 1 {
		arg = parseChannelArg(fields[1])
		if arg == "" {
			ReplyInChannel(s, m, msgNeedChannel)
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	ReplyInChannel(s, m, r.setJoinChannel(ctx, m.GuildID, m.Author.ID, arg))
}

// setJoinChannel resuelve el canal (argumento o el de voz del usuario),
// valida que sea de voz del mismo guild y lo guarda. Devuelve la respuesta.
func (r *Router) setJoinChannel(ctx context.Context, guildID, userID, channelID string) string {
	if channelID == "" {
		channelID = r.userVoiceChannel(guildID, userID)
	}
	if channelID == "" {
		return msgNeedChannel
	}
	ch, err := r.safeGetChannel(channelID)
	if err != nil || ch.GuildID != guildID || ch.Type != discordgo.ChannelTypeGuildVoice {
		return msgNeedChannel
	}
	if err := r.rooms.SetJoinChannel(ctx, guildID, ch.ID); err != nil {
		if errors.Is(err, service.ErrNoChannel) {
			return msgNeedChannel
		}
		slog.Error("set join channel", slog.String("guild", guildID), slog.Any("err", err))
		return "⚠️ Não consegui salvar a configuração: " + err.Error()
	}
	return fmt.Sprintf("Canal 'join to create' definido como: %s", ch.Name)
}
