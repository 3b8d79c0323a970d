package discord

import "github.com/bwmarrin/discordgo"

const cmdSetJoinChannel = "setjoinchannel"

var (
	adminPerms  int64 = discordgo.PermissionAdministrator
	dmAllowed         = false
)

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:                     cmdSetJoinChannel,
		Description:              "Define o canal de voz 'join to create' (admins)",
		DefaultMemberPermissions: &adminPerms,
		DMPermission:             &dmAllowed,
		Options: []*discordgo.ApplicationCommandOption{{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de voz (padrão: o canal em que você está)",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
			Required:     false,
		}},
	},
}
