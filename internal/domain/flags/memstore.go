package flags

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type playerKey struct {
	userID  string
	guildID string
}

type memPlayer struct {
	Player
	flags map[string]FlagState
	order []string
}

// MemoryStore is an in-process Store. Data lives as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[playerKey]*memPlayer
	order   []playerKey
	locks   *xsync.MapOf[playerKey, chan struct{}]
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[playerKey]*memPlayer),
		locks:   xsync.NewMapOf[playerKey, chan struct{}](),
		now:     time.Now,
	}
}

func (s *MemoryStore) GetFlags(_ context.Context, userID, guildID string) (FlagMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(FlagMap)
	if p, ok := s.players[playerKey{userID, guildID}]; ok {
		for key, state := range p.flags {
			out[key] = state
		}
	}
	return out, nil
}

func (s *MemoryStore) SetFlag(_ context.Context, userID, guildID, key string, completed bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.playerLocked(userID, guildID)
	prev, exists := p.flags[key]
	state := FlagState{Completed: completed}
	if completed {
		if prev.Completed && prev.CompletedAt != nil {
			state.CompletedAt = prev.CompletedAt
		} else {
			state.CompletedAt = &at
		}
	}
	if !exists {
		p.order = append(p.order, key)
	}
	p.flags[key] = state
	p.LastUpdated = at
	return nil
}

func (s *MemoryStore) DeleteFlagsExcept(_ context.Context, userID, guildID string, keep []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerKey{userID, guildID}]
	if !ok {
		return nil
	}
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}
	order := p.order[:0]
	for _, key := range p.order {
		if _, ok := keepSet[key]; ok {
			order = append(order, key)
			continue
		}
		delete(p.flags, key)
	}
	p.order = order
	p.LastUpdated = s.now()
	return nil
}

func (s *MemoryStore) UpsertPlayer(_ context.Context, userID, guildID, displayName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := playerKey{userID, guildID}
	if p, ok := s.players[key]; ok {
		if p.DisplayName != displayName {
			p.DisplayName = displayName
			p.LastUpdated = s.now()
		}
		return false, nil
	}
	p := s.playerLocked(userID, guildID)
	p.DisplayName = displayName
	return true, nil
}

func (s *MemoryStore) GetPlayer(_ context.Context, userID, guildID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerKey{userID, guildID}]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	player := p.Player
	return &player, nil
}

func (s *MemoryStore) ListPlayers(_ context.Context, guildID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Player
	for _, key := range s.order {
		if key.guildID == guildID {
			out = append(out, s.players[key].Player)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetFlagsForGuild(_ context.Context, guildID string, onlyCompleted bool) ([]GuildFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []GuildFlag
	for _, key := range s.order {
		if key.guildID != guildID {
			continue
		}
		p := s.players[key]
		for _, flagKey := range p.order {
			state := p.flags[flagKey]
			if onlyCompleted && !state.Completed {
				continue
			}
			out = append(out, GuildFlag{UserID: key.userID, FlagKey: flagKey, Completed: state.Completed})
		}
	}
	return out, nil
}

func (s *MemoryStore) WithPlayerLock(ctx context.Context, userID, guildID string, fn func(ctx context.Context, tx Store) error) error {
	// Each player's lock is a one-slot channel so a waiter can give up when
	// ctx ends.
	lock, _ := s.locks.LoadOrCompute(playerKey{userID, guildID}, func() chan struct{} {
		return make(chan struct{}, 1)
	})
	select {
	case lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, s)
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// playerLocked returns the record for the pair, creating it if needed.
// s.mu must be held for writing.
func (s *MemoryStore) playerLocked(userID, guildID string) *memPlayer {
	key := playerKey{userID, guildID}
	p, ok := s.players[key]
	if !ok {
		p = &memPlayer{
			Player: Player{UserID: userID, GuildID: guildID, LastUpdated: s.now()},
			flags:  make(map[string]FlagState),
		}
		s.players[key] = p
		s.order = append(s.order, key)
	}
	return p
}
