package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelArg(t *testing.T) {
	cases := map[string]string{
		"<#123456>":  "123456",
		" 987 ":      "987",
		"":           "",
		"#general":   "",
		"<#abc>":     "",
		"<@123>":     "",
		"12a":        "",
		"<#123> xyz": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, parseChannelArg(in), "input %q", in)
	}
}

func TestDisplayName(t *testing.T) {
	u := &discordgo.User{Username: "ana_r", GlobalName: "Ana R"}
	assert.Equal(t, "Aninha", displayName(&discordgo.Member{Nick: "Aninha", User: u}, nil))
	assert.Equal(t, "Ana R", displayName(&discordgo.Member{User: u}, nil))
	assert.Equal(t, "ana_r", displayName(nil, &discordgo.User{Username: "ana_r"}))
	assert.Equal(t, "", displayName(nil, nil))
}

func TestOwnerOverwrites(t *testing.T) {
	ow := ownerOverwrites("1", "42")
	require.Len(t, ow, 2)

	assert.Equal(t, "1", ow[0].ID)
	assert.Equal(t, discordgo.PermissionOverwriteTypeRole, ow[0].Type)
	assert.Equal(t, int64(discordgo.PermissionViewChannel), ow[0].Allow)

	assert.Equal(t, "42", ow[1].ID)
	assert.Equal(t, discordgo.PermissionOverwriteTypeMember, ow[1].Type)
	assert.NotZero(t, ow[1].Allow&discordgo.PermissionManageChannels)
	assert.NotZero(t, ow[1].Allow&discordgo.PermissionManageMessages)
}

func TestRestStatus(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}

	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", notFound)))
	assert.False(t, isNotFound(forbidden))
	assert.True(t, isForbidden(forbidden))
	assert.False(t, isNotFound(errors.New("network")))
	assert.Zero(t, restStatus(nil))
}

func newStateSession(t *testing.T) *discordgo.Session {
	t.Helper()
	st := discordgo.NewState()
	require.NoError(t, st.GuildAdd(&discordgo.Guild{
		ID:      "1",
		OwnerID: "9",
		Roles: []*discordgo.Role{
			{ID: "r-admin", Permissions: discordgo.PermissionAdministrator},
			{ID: "r-mod", Permissions: discordgo.PermissionManageMessages},
			{ID: "r-plain"},
		},
		VoiceStates: []*discordgo.VoiceState{
			{GuildID: "1", UserID: "42", ChannelID: "500"},
		},
	}))
	return &discordgo.Session{State: st}
}

func TestIsAdmin(t *testing.T) {
	s := newStateSession(t)
	r := &Router{s: s, adminRoleIDs: []string{"r-mod"}}

	assert.True(t, r.isAdmin(s, "1", "9", nil), "owner")
	assert.True(t, r.isAdmin(s, "1", "42", []string{"r-plain", "r-admin"}), "administrator role")
	assert.True(t, r.isAdmin(s, "1", "42", []string{"r-mod"}), "configured admin role")
	assert.False(t, r.isAdmin(s, "1", "42", []string{"r-plain"}))

	r.adminRoleIDs = nil
	assert.False(t, r.isAdmin(s, "1", "42", []string{"r-mod"}))
}

func TestUserVoiceChannel(t *testing.T) {
	s := newStateSession(t)
	r := &Router{s: s}

	assert.Equal(t, "500", r.userVoiceChannel("1", "42"))
	assert.Equal(t, "", r.userVoiceChannel("1", "43"))
	assert.Equal(t, "", r.userVoiceChannel("2", "42"))
}

func TestCommandsDefinition(t *testing.T) {
	require.Len(t, Commands, 1)
	cmd := Commands[0]
	assert.Equal(t, cmdSetJoinChannel, cmd.Name)
	require.NotNil(t, cmd.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
	require.Len(t, cmd.Options, 1)
	assert.False(t, cmd.Options[0].Required)
	assert.Equal(t, []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice}, cmd.Options[0].ChannelTypes)
}
