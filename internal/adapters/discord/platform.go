package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/tempvoice-bot/internal/app/service"
)

// Platform implementa service.Platform sobre la API REST de discordgo
// (con el State como cache cuando hay gateway).
type Platform struct {
	s *discordgo.Session
}

func NewPlatform(s *discordgo.Session) *Platform { return &Platform{s: s} }

var channelTypes = map[service.ChannelKind]discordgo.ChannelType{
	service.ChannelCategory: discordgo.ChannelTypeGuildCategory,
	service.ChannelVoice:    discordgo.ChannelTypeGuildVoice,
	service.ChannelText:     discordgo.ChannelTypeGuildText,
}

func (p *Platform) CreateChannel(ctx context.Context, guildID string, spec service.ChannelSpec) (string, error) {
	typ, ok := channelTypes[spec.Kind]
	if !ok {
		return "", fmt.Errorf("unknown channel kind %d", spec.Kind)
	}
	data := discordgo.GuildChannelCreateData{
		Name:     spec.Name,
		Type:     typ,
		ParentID: spec.ParentID,
	}
	if spec.OwnerID != "" {
		data.PermissionOverwrites = ownerOverwrites(guildID, spec.OwnerID)
	}
	ch, err := p.s.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create %s channel %q: %w", spec.Kind, spec.Name, err)
	}
	return ch.ID, nil
}

// ownerOverwrites: @everyone (rol con el ID del guild) sólo ve; el dueño
// gestiona canal y mensajes.
func ownerOverwrites(guildID, ownerID string) []*discordgo.PermissionOverwrite {
	return []*discordgo.PermissionOverwrite{
		{
			ID:    guildID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel,
		},
		{
			ID:    ownerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionManageChannels | discordgo.PermissionManageMessages,
		},
	}
}

// DeleteChannel trata "ya no existe" como éxito.
func (p *Platform) DeleteChannel(ctx context.Context, channelID string) error {
	if _, err := p.s.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete channel %s: %w", channelID, err)
	}
	return nil
}

func (p *Platform) ChannelExists(ctx context.Context, channelID string) (bool, error) {
	if ch, err := p.s.State.Channel(channelID); err == nil && ch != nil {
		return true, nil
	}
	ch, err := p.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("resolve channel %s: %w", channelID, err)
	}
	_ = p.s.State.ChannelAdd(ch)
	return true, nil
}

func (p *Platform) GuildExists(ctx context.Context, guildID string) (bool, error) {
	if g, err := p.s.State.Guild(guildID); err == nil && g != nil {
		return true, nil
	}
	if _, err := p.s.Guild(guildID, discordgo.WithContext(ctx)); err != nil {
		if isNotFound(err) || isForbidden(err) {
			return false, nil
		}
		return false, fmt.Errorf("resolve guild %s: %w", guildID, err)
	}
	return true, nil
}

func (p *Platform) MoveMember(ctx context.Context, guildID, userID, channelID string) error {
	if err := p.s.GuildMemberMove(guildID, userID, &channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("move %s -> %s: %w", userID, channelID, err)
	}
	return nil
}

func (p *Platform) SendMessage(ctx context.Context, channelID, content string) error {
	if _, err := p.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}
