package discord

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var reChannelMention = regexp.MustCompile(`^<#(\d+)>$`)

// parseChannelArg acepta "<#id>" o un id pelado; devuelve "" si no es ninguno.
func parseChannelArg(raw string) string {
	tok := strings.TrimSpace(raw)
	if m := reChannelMention.FindStringSubmatch(tok); len(m) == 2 {
		return m[1]
	}
	if tok == "" {
		return ""
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return tok
}

func optChannel(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionChannel {
			if id, ok := o.Value.(string); ok && id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// displayName: apodo del guild, luego nombre global, luego username.
func displayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u == nil && m != nil {
		u = m.User
	}
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func restStatus(err error) int {
	var re *discordgo.RESTError
	if errors.As(err, &re) && re.Response != nil {
		return re.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool  { return restStatus(err) == http.StatusNotFound }
func isForbidden(err error) bool { return restStatus(err) == http.StatusForbidden }
