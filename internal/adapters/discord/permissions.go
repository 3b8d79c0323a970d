package discord

import "github.com/bwmarrin/discordgo"

const msgNoPerms = "🔒 Você não tem permissão para usar este comando."

func (r *Router) requireAdmin(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		ReplyEphemeral(s, ic, msgNoPerms)
		return false
	}
	// Discord ya calcula los permisos efectivos del miembro en la interacción
	if ic.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if r.isAdmin(s, ic.GuildID, ic.Member.User.ID, ic.Member.Roles) {
		return true
	}
	ReplyEphemeral(s, ic, msgNoPerms)
	return false
}

// isAdmin: dueño del guild, bit Administrator en algún rol, o rol de admin configurado.
func (r *Router) isAdmin(s *discordgo.Session, guildID, userID string, memberRoles []string) bool {
	// Owner
	if g, _ := s.State.Guild(guildID); g != nil && userID == g.OwnerID {
		return true
	}

	// Administrator bit
	roles := guildRoles(s, guildID)
	var perms int64
	for _, rid := range memberRoles {
		for _, ro := range roles {
			if ro.ID == rid {
				perms |= ro.Permissions
			}
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}

	// Roles explícitos del bot
	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(memberRoles))
		for _, rid := range memberRoles {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}

// messageAuthorIsAdmin para el comando de prefijo: primero permisos del canal
// desde el State, si no alcanza cae en isAdmin.
func (r *Router) messageAuthorIsAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if perms, err := s.State.UserChannelPermissions(m.Author.ID, m.ChannelID); err == nil &&
		perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	var roles []string
	if m.Member != nil {
		roles = m.Member.Roles
	}
	return r.isAdmin(s, m.GuildID, m.Author.ID, roles)
}

// guildRoles usa el State y sólo cae a REST si el guild no está cacheado.
func guildRoles(s *discordgo.Session, guildID string) []*discordgo.Role {
	if g, err := s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles
	}
	roles, _ := s.GuildRoles(guildID)
	return roles
}
