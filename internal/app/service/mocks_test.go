package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
)

var errBoom = errors.New("boom")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// fakePlatform simula Discord en memoria y registra cada llamada.
type fakePlatform struct {
	mu     sync.Mutex
	nextID int

	specs    []ChannelSpec
	channels map[string]bool
	guilds   map[string]bool // ausente = existe
	deleted  []string
	moves    []string
	messages map[string][]string

	failCreate map[ChannelKind]error
	failDelete map[string]error
	existsErr  error
	moveErr    error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:     1000,
		channels:   map[string]bool{},
		guilds:     map[string]bool{},
		messages:   map[string][]string{},
		failCreate: map[ChannelKind]error{},
		failDelete: map[string]error{},
	}
}

func (p *fakePlatform) CreateChannel(_ context.Context, _ string, spec ChannelSpec) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failCreate[spec.Kind]; err != nil {
		return "", err
	}
	p.nextID++
	id := fmt.Sprintf("%d", p.nextID)
	p.specs = append(p.specs, spec)
	p.channels[id] = true
	return id, nil
}

func (p *fakePlatform) DeleteChannel(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	if err := p.failDelete[id]; err != nil {
		return err
	}
	delete(p.channels, id)
	return nil
}

func (p *fakePlatform) ChannelExists(_ context.Context, id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.existsErr != nil {
		return false, p.existsErr
	}
	return p.channels[id], nil
}

func (p *fakePlatform) GuildExists(_ context.Context, id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ok, set := p.guilds[id]; set {
		return ok, nil
	}
	return true, nil
}

func (p *fakePlatform) MoveMember(_ context.Context, _, userID, channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.moveErr != nil {
		return p.moveErr
	}
	p.moves = append(p.moves, userID+"->"+channelID)
	return nil
}

func (p *fakePlatform) SendMessage(_ context.Context, channelID, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[channelID] = append(p.messages[channelID], content)
	return nil
}

// MockRoomStore para los caminos de error del store.
type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) SetJoinChannel(ctx context.Context, guildID, channelID string) error {
	return m.Called(ctx, guildID, channelID).Error(0)
}

func (m *MockRoomStore) GetJoinChannel(ctx context.Context, guildID string) (string, bool, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRoomStore) AddRoom(ctx context.Context, guildID, userID, categoryID, voiceID, textID string) error {
	return m.Called(ctx, guildID, userID, categoryID, voiceID, textID).Error(0)
}

func (m *MockRoomStore) TouchRoom(ctx context.Context, guildID, userID string) error {
	return m.Called(ctx, guildID, userID).Error(0)
}

func (m *MockRoomStore) RemoveRoom(ctx context.Context, guildID, userID string) error {
	return m.Called(ctx, guildID, userID).Error(0)
}

func (m *MockRoomStore) RemoveRooms(ctx context.Context, guildID string, userIDs ...string) error {
	return m.Called(ctx, guildID, userIDs).Error(0)
}

func (m *MockRoomStore) GetRoom(ctx context.Context, guildID, userID string) (domain.RoomRecord, bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(domain.RoomRecord), args.Bool(1), args.Error(2)
}

func (m *MockRoomStore) ListAllRooms(ctx context.Context) (map[string]map[string]domain.RoomRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]map[string]domain.RoomRecord), args.Error(1)
}
