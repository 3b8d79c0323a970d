package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIdle(t *testing.T) {
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	r := RoomRecord{LastActivity: last}

	assert.False(t, r.Idle(last.Add(InactivityThreshold), InactivityThreshold))
	assert.True(t, r.Idle(last.Add(InactivityThreshold+time.Nanosecond), InactivityThreshold))
	assert.False(t, r.Idle(last.Add(time.Hour), InactivityThreshold))
}

func TestRoomChannelsOrder(t *testing.T) {
	r := RoomRecord{CategoryID: "1", VoiceChannelID: "2", TextChannelID: "3"}
	assert.Equal(t, []Snowflake{"3", "2", "1"}, r.Channels())
}

func TestSnowflakeJSON(t *testing.T) {
	var s struct {
		A Snowflake `json:"a"`
		B Snowflake `json:"b"`
		C Snowflake `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1234567890123456789, "b": "987", "c": null}`), &s))
	assert.Equal(t, Snowflake("1234567890123456789"), s.A)
	assert.Equal(t, Snowflake("987"), s.B)
	assert.Equal(t, Snowflake(""), s.C)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1234567890123456789, "b": 987, "c": null}`, string(b))

	b, err = json.Marshal(Snowflake("abc"))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"a": -1}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1.5}`), &s))
}
