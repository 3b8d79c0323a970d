package service

// VoiceEvent es un cambio de estado de voz ya traducido desde discordgo.
type VoiceEvent struct {
	GuildID       string
	UserID        string
	DisplayName   string
	Bot           bool
	ChannelID     string // vacío = salió de voz
	PrevChannelID string
}

type MessageEvent struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	Bot       bool
}

// SweepReport resume una pasada del barrido.
type SweepReport struct {
	Guilds         int
	Checked        int
	Reclaimed      int
	DeleteFailures int
}
