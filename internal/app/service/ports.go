package service

import (
	"context"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
)

// Lo implementan internal/infra/storage.FileStore y storage.PGStore
type RoomStore interface {
	SetJoinChannel(ctx context.Context, guildID, channelID string) error
	GetJoinChannel(ctx context.Context, guildID string) (string, bool, error)

	AddRoom(ctx context.Context, guildID, userID, categoryID, voiceID, textID string) error
	TouchRoom(ctx context.Context, guildID, userID string) error
	RemoveRoom(ctx context.Context, guildID, userID string) error
	RemoveRooms(ctx context.Context, guildID string, userIDs ...string) error
	GetRoom(ctx context.Context, guildID, userID string) (domain.RoomRecord, bool, error)
	ListAllRooms(ctx context.Context) (map[string]map[string]domain.RoomRecord, error)
}

type ChannelKind int

const (
	ChannelCategory ChannelKind = iota
	ChannelVoice
	ChannelText
)

func (k ChannelKind) String() string {
	switch k {
	case ChannelCategory:
		return "category"
	case ChannelVoice:
		return "voice"
	case ChannelText:
		return "text"
	}
	return "unknown"
}

// ChannelSpec describe un canal a crear. Si OwnerID no está vacío se agregan
// los overwrites de dueño (gestionar canal/mensajes) y @everyone sólo ver.
type ChannelSpec struct {
	Kind     ChannelKind
	Name     string
	ParentID string
	OwnerID  string
}

// Lo implementa internal/adapters/discord.Platform
type Platform interface {
	CreateChannel(ctx context.Context, guildID string, spec ChannelSpec) (string, error)
	DeleteChannel(ctx context.Context, channelID string) error
	ChannelExists(ctx context.Context, channelID string) (bool, error)
	GuildExists(ctx context.Context, guildID string) (bool, error)
	MoveMember(ctx context.Context, guildID, userID, channelID string) error
	SendMessage(ctx context.Context, channelID, content string) error
}
