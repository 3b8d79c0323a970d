package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
)

// FileStore persiste todo el estado en un único JSON. Cada mutación reescribe
// el archivo completo; si la escritura falla se loguea y el estado en memoria
// sigue mandando hasta que el proceso termine.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state stateFile
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*FileStore)

func WithClock(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) { s.log = l }
}

// OpenFile carga path (o arranca vacío si no existe / está roto) y lo vuelve
// a escribir con la estructura base.
func OpenFile(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path: path,
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(slog.String("component", "file_store"), slog.String("path", path))

	st, err := readStateFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("state file not found, creating a new one")
	case err != nil:
		s.log.Warn("state file unreadable, starting empty", slog.Any("err", err))
	}
	s.state = st
	s.ensure()
	s.save()
	return s
}

func readStateFile(path string) (stateFile, error) {
	var st stateFile
	b, err := os.ReadFile(path)
	if err != nil {
		return stateFile{}, err
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return stateFile{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return st, nil
}

func (s *FileStore) ensure() {
	if s.state.Guilds == nil {
		s.state.Guilds = map[string]guildEntry{}
	}
	if s.state.TempChannels == nil {
		s.state.TempChannels = map[string]map[string]roomEntry{}
	}
}

// save escribe a un temporal y renombra. Nunca devuelve error: sólo loguea.
func (s *FileStore) save() {
	b, err := json.MarshalIndent(s.state, "", "    ")
	if err != nil {
		s.log.Error("encode state", slog.Any("err", err))
		return
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		s.log.Error("save state", slog.Any("err", err))
		return
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(b)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmpName)
		s.log.Error("save state", slog.Any("err", err))
		return
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		s.log.Error("save state", slog.Any("err", err))
	}
}

func (s *FileStore) SetJoinChannel(_ context.Context, guildID, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.state.Guilds[guildID]
	g.JoinChannel = domain.Snowflake(channelID)
	s.state.Guilds[guildID] = g
	s.save()
	return nil
}

func (s *FileStore) GetJoinChannel(_ context.Context, guildID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.state.Guilds[guildID]
	if !ok || g.JoinChannel == "" {
		return "", false, nil
	}
	return g.JoinChannel.String(), true, nil
}

func (s *FileStore) AddRoom(_ context.Context, guildID, userID, categoryID, voiceID, textID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.state.TempChannels[guildID]
	if users == nil {
		users = map[string]roomEntry{}
		s.state.TempChannels[guildID] = users
	}
	users[userID] = roomEntry{
		CategoryID:   domain.Snowflake(categoryID),
		VoiceChannel: domain.Snowflake(voiceID),
		TextChannel:  domain.Snowflake(textID),
		LastActivity: activityTime(s.now()),
	}
	s.save()
	return nil
}

func (s *FileStore) TouchRoom(_ context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.TempChannels[guildID][userID]
	if !ok {
		return nil
	}
	e.LastActivity = activityTime(s.now())
	s.state.TempChannels[guildID][userID] = e
	s.save()
	return nil
}

func (s *FileStore) RemoveRoom(ctx context.Context, guildID, userID string) error {
	return s.RemoveRooms(ctx, guildID, userID)
}

func (s *FileStore) RemoveRooms(_ context.Context, guildID string, userIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.state.TempChannels[guildID]
	removed := 0
	for _, uid := range userIDs {
		if _, ok := users[uid]; ok {
			delete(users, uid)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	s.save()
	return nil
}

func (s *FileStore) GetRoom(_ context.Context, guildID, userID string) (domain.RoomRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.TempChannels[guildID][userID]
	if !ok {
		return domain.RoomRecord{}, false, nil
	}
	return e.record(), true, nil
}

// ListAllRooms devuelve una copia; el llamador puede iterarla mientras borra.
func (s *FileStore) ListAllRooms(_ context.Context) (map[string]map[string]domain.RoomRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]domain.RoomRecord, len(s.state.TempChannels))
	for gid, users := range s.state.TempChannels {
		if len(users) == 0 {
			continue
		}
		m := make(map[string]domain.RoomRecord, len(users))
		for uid, e := range users {
			m[uid] = e.record()
		}
		out[gid] = m
	}
	return out, nil
}

// ReadToken lee sólo el campo "token" del archivo de estado, sin crearlo.
func ReadToken(path string) string {
	st, err := readStateFile(path)
	if err != nil {
		return ""
	}
	return st.Token
}

func (s *FileStore) Close() error { return nil }
