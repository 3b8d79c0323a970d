package storage

import (
	"time"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
)

// stateFile es el formato en disco (compatible con los config.json viejos).
type stateFile struct {
	Token        string                          `json:"token,omitempty"`
	Guilds       map[string]guildEntry           `json:"guilds"`
	TempChannels map[string]map[string]roomEntry `json:"temp_channels"`
}

type guildEntry struct {
	JoinChannel domain.Snowflake `json:"join_channel,omitempty"`
}

type roomEntry struct {
	CategoryID   domain.Snowflake `json:"category_id"`
	VoiceChannel domain.Snowflake `json:"voice_channel"`
	TextChannel  domain.Snowflake `json:"text_channel"`
	LastActivity activityTime     `json:"last_activity"`
}

func (e roomEntry) record() domain.RoomRecord {
	return domain.RoomRecord{
		CategoryID:     e.CategoryID,
		VoiceChannelID: e.VoiceChannel,
		TextChannelID:  e.TextChannel,
		LastActivity:   time.Time(e.LastActivity),
	}
}
