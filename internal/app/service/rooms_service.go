package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
	"github.com/jose-valero/tempvoice-bot/internal/telemetry"
)

var ErrNoChannel = errors.New("no channel given")

// Naming son las plantillas (fmt) para los nombres de la sala y el saludo.
type Naming struct {
	Category string // %s = display name
	Voice    string
	Text     string
	Welcome  string // %s = mención del usuario
}

func DefaultNaming() Naming {
	return Naming{
		Category: "Mesa de %s",
		Voice:    "Mesa de %s",
		Text:     "Rolagem de %s",
		Welcome:  "Bem-vindo à sua mesa, %s!",
	}
}

type RoomsOption func(*RoomsService)

func WithNaming(n Naming) RoomsOption {
	return func(m *RoomsService) { m.naming = n }
}

func WithClock(now func() time.Time) RoomsOption {
	return func(m *RoomsService) { m.now = now }
}

func WithLogger(l *slog.Logger) RoomsOption {
	return func(m *RoomsService) { m.log = l }
}

// RoomsService maneja el ciclo de vida de las salas temporales. No guarda
// estado propio entre eventos: todo vive en el store.
type RoomsService struct {
	// serializa eventos; discordgo despacha cada handler en su goroutine
	mu sync.Mutex

	store     RoomStore
	platform  Platform
	naming    Naming
	threshold time.Duration
	now       func() time.Time
	log       *slog.Logger
}

func NewRoomsService(store RoomStore, platform Platform, opts ...RoomsOption) *RoomsService {
	m := &RoomsService{
		store:     store,
		platform:  platform,
		naming:    DefaultNaming(),
		threshold: domain.InactivityThreshold,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With(slog.String("component", "rooms"))
	return m
}

// SetJoinChannel guarda el canal "join to create" del guild.
func (m *RoomsService) SetJoinChannel(ctx context.Context, guildID, channelID string) error {
	if strings.TrimSpace(channelID) == "" {
		return ErrNoChannel
	}
	if err := m.store.SetJoinChannel(ctx, guildID, channelID); err != nil {
		return fmt.Errorf("set join channel: %w", err)
	}
	m.log.Info("join channel set", slog.String("guild", guildID), slog.String("channel", channelID))
	return nil
}

// HandleVoiceState reacciona a un cambio de estado de voz.
func (m *RoomsService) HandleVoiceState(ctx context.Context, ev VoiceEvent) {
	if ev.Bot || ev.GuildID == "" || ev.ChannelID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.log.With(slog.String("guild", ev.GuildID), slog.String("user", ev.UserID))

	joinID, ok, err := m.store.GetJoinChannel(ctx, ev.GuildID)
	if err != nil {
		log.Error("get join channel", slog.Any("err", err))
	} else if ok && ev.ChannelID == joinID {
		m.onJoinTrigger(ctx, ev, log)
	}

	// independiente del paso anterior: entró a su propia sala
	rec, has, err := m.store.GetRoom(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		log.Error("get room", slog.Any("err", err))
		return
	}
	if has && rec.VoiceChannelID.String() == ev.ChannelID {
		m.touch(ctx, ev.GuildID, ev.UserID, "voice", log)
	}
}

func (m *RoomsService) onJoinTrigger(ctx context.Context, ev VoiceEvent, log *slog.Logger) {
	rec, has, err := m.store.GetRoom(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		log.Error("get room", slog.Any("err", err))
		return
	}

	if has {
		voiceID := rec.VoiceChannelID.String()
		exists, err := m.platform.ChannelExists(ctx, voiceID)
		if err != nil {
			// no sabemos si existe: mejor no duplicar la sala
			log.Error("resolve room voice channel", slog.String("channel", voiceID), slog.Any("err", err))
			return
		}
		if exists {
			if err := m.platform.MoveMember(ctx, ev.GuildID, ev.UserID, voiceID); err != nil {
				log.Warn("move to existing room", slog.String("channel", voiceID), slog.Any("err", err))
				return
			}
			telemetry.Inc(telemetry.RoomsReused)
			m.touch(ctx, ev.GuildID, ev.UserID, "redirect", log)
			return
		}

		log.Warn("room voice channel no longer resolves, recreating", slog.String("channel", voiceID))
		m.deleteChannels(ctx, rec, log)
		if err := m.store.RemoveRoom(ctx, ev.GuildID, ev.UserID); err != nil {
			log.Error("remove stale room", slog.Any("err", err))
			return
		}
		telemetry.Inc(telemetry.RoomsRecreated)
	}

	if err := m.createRoom(ctx, ev, log); err != nil {
		log.Error("create room", slog.Any("err", err))
	}
}

// createRoom crea categoría + voz + texto. Si algo falla antes de persistir,
// borra lo ya creado (en orden inverso) y no deja registro.
func (m *RoomsService) createRoom(ctx context.Context, ev VoiceEvent, log *slog.Logger) (err error) {
	name := strings.TrimSpace(ev.DisplayName)
	if name == "" {
		name = ev.UserID
	}

	var created []string
	defer func() {
		if err == nil {
			return
		}
		telemetry.Inc(telemetry.RoomCreateFailures)
		m.rollback(ctx, created, log)
	}()

	catID, err := m.platform.CreateChannel(ctx, ev.GuildID, ChannelSpec{
		Kind: ChannelCategory,
		Name: fmt.Sprintf(m.naming.Category, name),
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	created = append(created, catID)

	voiceID, err := m.platform.CreateChannel(ctx, ev.GuildID, ChannelSpec{
		Kind:     ChannelVoice,
		Name:     fmt.Sprintf(m.naming.Voice, name),
		ParentID: catID,
		OwnerID:  ev.UserID,
	})
	if err != nil {
		return fmt.Errorf("create voice channel: %w", err)
	}
	created = append(created, voiceID)

	textID, err := m.platform.CreateChannel(ctx, ev.GuildID, ChannelSpec{
		Kind:     ChannelText,
		Name:     fmt.Sprintf(m.naming.Text, name),
		ParentID: catID,
		OwnerID:  ev.UserID,
	})
	if err != nil {
		return fmt.Errorf("create text channel: %w", err)
	}
	created = append(created, textID)

	if err := m.store.AddRoom(ctx, ev.GuildID, ev.UserID, catID, voiceID, textID); err != nil {
		return fmt.Errorf("persist room: %w", err)
	}
	telemetry.Inc(telemetry.RoomsCreated)
	log.Info("room created",
		slog.String("category", catID),
		slog.String("voice", voiceID),
		slog.String("text", textID))

	// a partir de acá la sala ya existe; los fallos sólo se loguean
	if err := m.platform.MoveMember(ctx, ev.GuildID, ev.UserID, voiceID); err != nil {
		log.Warn("move to new room", slog.String("channel", voiceID), slog.Any("err", err))
	}
	welcome := fmt.Sprintf(m.naming.Welcome, "<@"+ev.UserID+">")
	if err := m.platform.SendMessage(ctx, textID, welcome); err != nil {
		log.Warn("send welcome", slog.String("channel", textID), slog.Any("err", err))
	}
	return nil
}

func (m *RoomsService) rollback(ctx context.Context, created []string, log *slog.Logger) {
	if len(created) == 0 {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	for i := len(created) - 1; i >= 0; i-- {
		if err := m.platform.DeleteChannel(rctx, created[i]); err != nil {
			telemetry.Inc(telemetry.ChannelDeleteFailures)
			log.Warn("rollback delete", slog.String("channel", created[i]), slog.Any("err", err))
		}
	}
	log.Info("partial room rolled back", slog.Int("channels", len(created)))
}

// HandleMessage refresca la actividad si el mensaje es en el texto propio.
func (m *RoomsService) HandleMessage(ctx context.Context, ev MessageEvent) {
	if ev.Bot || ev.GuildID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, has, err := m.store.GetRoom(ctx, ev.GuildID, ev.AuthorID)
	if err != nil {
		m.log.Error("get room", slog.String("guild", ev.GuildID), slog.String("user", ev.AuthorID), slog.Any("err", err))
		return
	}
	if has && rec.TextChannelID.String() == ev.ChannelID {
		m.touch(ctx, ev.GuildID, ev.AuthorID, "text", m.log)
	}
}

func (m *RoomsService) touch(ctx context.Context, guildID, userID, source string, log *slog.Logger) {
	if err := m.store.TouchRoom(ctx, guildID, userID); err != nil {
		log.Error("touch room", slog.String("source", source), slog.Any("err", err))
		return
	}
	telemetry.Touch(source)
}

// Sweep borra las salas con más de threshold sin actividad. Los borrados de
// canales son best-effort; el registro se elimina igual.
func (m *RoomsService) Sweep(ctx context.Context) (SweepReport, error) {
	var rep SweepReport

	all, err := m.store.ListAllRooms(ctx)
	if err != nil {
		return rep, fmt.Errorf("list rooms: %w", err)
	}

	total := 0
	for _, gid := range sortedKeys(all) {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		users := all[gid]
		total += len(users)
		log := m.log.With(slog.String("guild", gid))

		ok, err := m.platform.GuildExists(ctx, gid)
		if err != nil {
			log.Warn("resolve guild", slog.Any("err", err))
			continue
		}
		if !ok {
			log.Info("guild not available, skipping")
			continue
		}
		rep.Guilds++
		reclaimed, failures := m.sweepGuild(ctx, gid, users, log)
		rep.Checked += len(users)
		rep.Reclaimed += reclaimed
		rep.DeleteFailures += failures
	}
	telemetry.SetActiveRooms(total - rep.Reclaimed)
	return rep, nil
}

func (m *RoomsService) sweepGuild(ctx context.Context, guildID string, users map[string]domain.RoomRecord, log *slog.Logger) (reclaimed, failures int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var expired []string
	for _, uid := range sortedKeys(users) {
		if !users[uid].Idle(now, m.threshold) {
			continue
		}
		// releemos: pudo haber actividad desde el listado
		rec, has, err := m.store.GetRoom(ctx, guildID, uid)
		if err != nil {
			log.Error("get room", slog.String("user", uid), slog.Any("err", err))
			continue
		}
		if !has || !rec.Idle(now, m.threshold) {
			continue
		}
		failures += m.deleteChannels(ctx, rec, log)
		expired = append(expired, uid)
		log.Info("temp rooms removed for inactivity",
			slog.String("user", uid),
			slog.Duration("idle", now.Sub(rec.LastActivity).Round(time.Second)))
	}
	if len(expired) == 0 {
		return 0, failures
	}
	if err := m.store.RemoveRooms(ctx, guildID, expired...); err != nil {
		log.Error("remove rooms", slog.Any("err", err))
		return 0, failures
	}
	telemetry.Add(telemetry.RoomsReclaimed, len(expired))
	return len(expired), failures
}

// deleteChannels borra texto, voz y categoría; cada uno independiente.
func (m *RoomsService) deleteChannels(ctx context.Context, rec domain.RoomRecord, log *slog.Logger) int {
	failures := 0
	for _, ch := range rec.Channels() {
		if ch == "" {
			continue
		}
		if err := m.platform.DeleteChannel(ctx, ch.String()); err != nil {
			failures++
			telemetry.Inc(telemetry.ChannelDeleteFailures)
			log.Warn("delete channel", slog.String("channel", ch.String()), slog.Any("err", err))
		}
	}
	return failures
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
