package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
)

// PGStore es el mismo store sobre Postgres, para cuando hay DATABASE_URL.
type PGStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db, now: time.Now} }

// WithNow cambia el reloj (tests).
func (r *PGStore) WithNow(now func() time.Time) *PGStore {
	r.now = now
	return r
}

func (r *PGStore) SetJoinChannel(ctx context.Context, guildID, channelID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_settings (guild_id, join_channel_id, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (guild_id) DO UPDATE SET
  join_channel_id = EXCLUDED.join_channel_id,
  updated_at      = now()
`, guildID, channelID)
	return err
}

func (r *PGStore) GetJoinChannel(ctx context.Context, guildID string) (string, bool, error) {
	var ch sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT join_channel_id FROM guild_settings WHERE guild_id = $1
`, guildID).Scan(&ch)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !ch.Valid || ch.String == "" {
		return "", false, nil
	}
	return ch.String, true, nil
}

// AddRoom inserta o reemplaza la sala del usuario (PK guild_id+user_id).
func (r *PGStore) AddRoom(ctx context.Context, guildID, userID, categoryID, voiceID, textID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO temp_rooms (guild_id, user_id, category_id, voice_channel_id, text_channel_id, last_activity)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (guild_id, user_id) DO UPDATE SET
  category_id      = EXCLUDED.category_id,
  voice_channel_id = EXCLUDED.voice_channel_id,
  text_channel_id  = EXCLUDED.text_channel_id,
  last_activity    = EXCLUDED.last_activity
`, guildID, userID, categoryID, voiceID, textID, r.now().UTC())
	return err
}

func (r *PGStore) TouchRoom(ctx context.Context, guildID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE temp_rooms SET last_activity = $3 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID, r.now().UTC())
	return err
}

func (r *PGStore) RemoveRoom(ctx context.Context, guildID, userID string) error {
	return r.RemoveRooms(ctx, guildID, userID)
}

func (r *PGStore) RemoveRooms(ctx context.Context, guildID string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
DELETE FROM temp_rooms WHERE guild_id = $1 AND user_id = ANY($2)
`, guildID, pq.Array(userIDs))
	return err
}

func (r *PGStore) GetRoom(ctx context.Context, guildID, userID string) (domain.RoomRecord, bool, error) {
	var rec domain.RoomRecord
	err := r.db.QueryRowContext(ctx, `
SELECT category_id, voice_channel_id, text_channel_id, last_activity
  FROM temp_rooms
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID).Scan(&rec.CategoryID, &rec.VoiceChannelID, &rec.TextChannelID, &rec.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoomRecord{}, false, nil
	}
	if err != nil {
		return domain.RoomRecord{}, false, err
	}
	return rec, true, nil
}

func (r *PGStore) ListAllRooms(ctx context.Context) (map[string]map[string]domain.RoomRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, user_id, category_id, voice_channel_id, text_channel_id, last_activity
  FROM temp_rooms
 ORDER BY guild_id, last_activity
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]map[string]domain.RoomRecord{}
	for rows.Next() {
		var gid, uid string
		var rec domain.RoomRecord
		if err := rows.Scan(&gid, &uid, &rec.CategoryID, &rec.VoiceChannelID, &rec.TextChannelID, &rec.LastActivity); err != nil {
			return nil, err
		}
		if out[gid] == nil {
			out[gid] = map[string]domain.RoomRecord{}
		}
		out[gid][uid] = rec
	}
	return out, rows.Err()
}

func (r *PGStore) Close() error { return r.db.Close() }
