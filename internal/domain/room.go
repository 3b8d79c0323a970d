package domain

import "time"

const (
	// InactivityThreshold es el tiempo sin actividad tras el cual una sala se reclama.
	InactivityThreshold = 2 * 24 * time.Hour
	// SweepInterval es la frecuencia del barrido de salas inactivas.
	SweepInterval = 6 * time.Hour
)

// RoomRecord es la sala temporal (categoría + voz + texto) de un usuario.
type RoomRecord struct {
	CategoryID     Snowflake
	VoiceChannelID Snowflake
	TextChannelID  Snowflake
	LastActivity   time.Time
}

// Idle dice si la sala superó el umbral; el límite exacto no cuenta como inactivo.
func (r RoomRecord) Idle(now time.Time, threshold time.Duration) bool {
	return now.Sub(r.LastActivity) > threshold
}

// Channels devuelve los canales en orden de borrado: texto, voz, categoría.
func (r RoomRecord) Channels() []Snowflake {
	return []Snowflake{r.TextChannelID, r.VoiceChannelID, r.CategoryID}
}
