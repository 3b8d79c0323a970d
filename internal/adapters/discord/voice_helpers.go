package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tempvoice-bot/internal/app/service"
)

func (r *Router) safeGetChannel(id string) (*discordgo.Channel, error) {
	if ch, err := r.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := r.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = r.s.State.ChannelAdd(ch)
	return ch, nil
}

// userVoiceChannel devuelve el canal de voz actual del usuario según el State.
func (r *Router) userVoiceChannel(guildID, userID string) string {
	vs, err := r.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}

func (r *Router) member(guildID, userID string, hint *discordgo.Member) *discordgo.Member {
	if hint != nil && hint.User != nil {
		return hint
	}
	if m, err := r.s.State.Member(guildID, userID); err == nil {
		return m
	}
	m, err := r.s.GuildMember(guildID, userID)
	if err != nil {
		slog.Warn("resolve member", slog.String("guild", guildID), slog.String("user", userID), slog.Any("err", err))
		return nil
	}
	return m
}

func (r *Router) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.VoiceState == nil || vs.GuildID == "" {
		return
	}
	// salió de voz: nada que hacer
	if vs.ChannelID == "" {
		return
	}

	ev := service.VoiceEvent{
		GuildID:   vs.GuildID,
		UserID:    vs.UserID,
		ChannelID: vs.ChannelID,
	}
	if vs.BeforeUpdate != nil {
		ev.PrevChannelID = vs.BeforeUpdate.ChannelID
	}
	if m := r.member(vs.GuildID, vs.UserID, vs.Member); m != nil {
		ev.DisplayName = displayName(m, nil)
		ev.Bot = m.User != nil && m.User.Bot
	}

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	r.rooms.HandleVoiceState(ctx, ev)
}
