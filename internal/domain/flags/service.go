package flags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
)

const (
	defaultStoreTimeout   = 10 * time.Second
	defaultKnownCacheSize = 4096
)

// StoreObserver is told about the outcome of store calls. A nil error means
// the store answered.
type StoreObserver interface {
	ObserveStore(err error)
}

// ProgressView is a player's progress as shown by the progress command.
type ProgressView struct {
	Flags            Flags
	CompletedCount   int
	TotalFlags       int
	Percentage       int
	TerminalComplete bool
	LastUpdated      time.Time
}

// NextSteps lists the flags a player may complete next.
type NextSteps struct {
	Available        []FlagDefinition
	TerminalComplete bool
}

type Service struct {
	engine   *Engine
	store    Store
	timeout  time.Duration
	known    *lru.Cache
	observer StoreObserver
}

type ServiceOption func(*Service)

func WithStoreTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithStoreObserver(observer StoreObserver) ServiceOption {
	return func(s *Service) {
		s.observer = observer
	}
}

// WithKnownPlayerCache sets how many (player, guild, display name) entries are
// remembered to skip redundant upserts.
func WithKnownPlayerCache(size int) ServiceOption {
	return func(s *Service) {
		if cache, err := lru.New(size); err == nil {
			s.known = cache
		}
	}
}

func NewService(engine *Engine, store Store, opts ...ServiceOption) *Service {
	known, _ := lru.New(defaultKnownCacheSize)
	s := &Service{
		engine:  engine,
		store:   store,
		timeout: defaultStoreTimeout,
		known:   known,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Engine() *Engine {
	return s.engine
}

func (s *Service) Catalog() *Catalog {
	return s.engine.catalog
}

// EnsurePlayer creates the player record on first sight, seeded with the root
// flag, and keeps the display name current.
func (s *Service) EnsurePlayer(ctx context.Context, userID, guildID, displayName string) error {
	cacheKey := userID + "/" + guildID
	if name, ok := s.known.Get(cacheKey); ok && name == displayName {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	root := s.engine.catalog.root
	err := s.store.WithPlayerLock(ctx, userID, guildID, func(ctx context.Context, tx Store) error {
		created, err := tx.UpsertPlayer(ctx, userID, guildID, displayName)
		if err != nil {
			return s.storeErr("upsert player", err)
		}
		if !created {
			return nil
		}
		slog.Info("Player registered",
			slog.String("type", "sys"),
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.String("display_name", displayName))
		return s.storeErr("seed root flag", tx.SetFlag(ctx, userID, guildID, root, true, s.engine.now()))
	})
	if err = s.finish("ensure player", err); err != nil {
		return err
	}

	s.known.Add(cacheKey, displayName)
	return nil
}

// CompleteFlag marks key completed for the player after re-checking its
// dependencies under the player's lock. The stored completion time is the one
// returned. A missing root row is written back; otherwise nothing is written
// when the flag is unknown or blocked or already completed.
func (s *Service) CompleteFlag(ctx context.Context, userID, guildID, key string) (Completion, error) {
	if !s.engine.catalog.Has(key) {
		return Completion{}, unknownFlag(key)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result Completion
	err := s.store.WithPlayerLock(ctx, userID, guildID, func(ctx context.Context, tx Store) error {
		record, restored, err := s.loadFlags(ctx, tx, userID, guildID)
		if err != nil {
			return err
		}
		if restored {
			root := s.engine.catalog.root
			if err := tx.SetFlag(ctx, userID, guildID, root, true, *record[root].CompletedAt); err != nil {
				return s.storeErr("restore root flag", err)
			}
		}

		completion, err := s.engine.CompleteFlag(key, record)
		if err != nil {
			return err
		}
		if completion.Transitioned {
			if err := tx.SetFlag(ctx, userID, guildID, key, true, completion.CompletedAt); err != nil {
				return s.storeErr("set flag", err)
			}
		}
		result = completion
		return nil
	})
	if err = s.finish("complete flag", err); err != nil {
		return Completion{}, err
	}
	return result, nil
}

// ResetFlags removes every flag of the player except the root.
func (s *Service) ResetFlags(ctx context.Context, userID, guildID string) (FlagMap, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result FlagMap
	root := s.engine.catalog.root
	err := s.store.WithPlayerLock(ctx, userID, guildID, func(ctx context.Context, tx Store) error {
		record, err := tx.GetFlags(ctx, userID, guildID)
		if err != nil {
			return s.storeErr("get flags", err)
		}
		result = s.engine.ResetFlags(record)
		if err := tx.DeleteFlagsExcept(ctx, userID, guildID, []string{root}); err != nil {
			return s.storeErr("delete flags", err)
		}
		if err := tx.SetFlag(ctx, userID, guildID, root, true, *result[root].CompletedAt); err != nil {
			return s.storeErr("set root flag", err)
		}
		return nil
	})
	if err = s.finish("reset flags", err); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Progress(ctx context.Context, userID, guildID string) (ProgressView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, _, err := s.loadFlags(ctx, s.store, userID, guildID)
	if err = s.finish("get progress", err); err != nil {
		return ProgressView{}, err
	}

	lastUpdated := time.Now()
	if player, err := s.store.GetPlayer(ctx, userID, guildID); err == nil {
		lastUpdated = player.LastUpdated
	} else if !errors.Is(err, ErrPlayerNotFound) {
		slog.Warn("Falling back to current time for last update",
			slog.String("type", "db"),
			slog.String("user_id", userID),
			slog.String("guild_id", guildID),
			slog.Any("error", err))
	}

	flags := record.Completed()
	done := s.engine.CompletedCount(flags)
	return ProgressView{
		Flags:            flags,
		CompletedCount:   done,
		TotalFlags:       s.engine.catalog.Len(),
		Percentage:       Percentage(done, s.engine.catalog.Len()),
		TerminalComplete: s.engine.IsTerminalComplete(flags),
		LastUpdated:      lastUpdated,
	}, nil
}

func (s *Service) NextSteps(ctx context.Context, userID, guildID string) (NextSteps, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, _, err := s.loadFlags(ctx, s.store, userID, guildID)
	if err = s.finish("get next steps", err); err != nil {
		return NextSteps{}, err
	}

	flags := record.Completed()
	return NextSteps{
		Available:        s.engine.NextAvailable(flags),
		TerminalComplete: s.engine.IsTerminalComplete(flags),
	}, nil
}

// GuildProgress ranks every tracked player of the guild.
func (s *Service) GuildProgress(ctx context.Context, guildID string) (GuildSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		players []Player
		rows    []GuildFlag
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.store.ListPlayers(gctx, guildID)
		return s.storeErr("list players", err)
	})
	g.Go(func() error {
		var err error
		rows, err = s.store.GetFlagsForGuild(gctx, guildID, true)
		return s.storeErr("get guild flags", err)
	})
	if err := s.finish("guild progress", g.Wait()); err != nil {
		return GuildSummary{}, err
	}

	return s.engine.Aggregate(GroupGuildFlags(players, rows)), nil
}

func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.finish("ping", s.storeErr("ping", s.store.Ping(ctx)))
}

// loadFlags reads the player's flags and restores the root flag in the
// returned map if its row is missing or not completed. restored reports
// whether that happened; writing it back is up to the caller.
func (s *Service) loadFlags(ctx context.Context, store Store, userID, guildID string) (record FlagMap, restored bool, err error) {
	record, err = store.GetFlags(ctx, userID, guildID)
	if err != nil {
		return nil, false, s.storeErr("get flags", err)
	}
	if record == nil {
		record = make(FlagMap)
	}
	root := s.engine.catalog.root
	if !record[root].Completed {
		now := s.engine.now()
		record[root] = FlagState{Completed: true, CompletedAt: &now}
		restored = true
	}
	return record, restored, nil
}

func (s *Service) storeErr(op string, err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// finish classifies the error of a whole operation and reports the store
// outcome to the observer.
func (s *Service) finish(op string, err error) error {
	if err == nil {
		s.observe(nil)
		return nil
	}
	if isDomainErr(err) {
		s.observe(nil)
		return err
	}
	err = s.storeErr(op, err)
	s.observe(err)
	return err
}

func (s *Service) observe(err error) {
	if s.observer != nil {
		s.observer.ObserveStore(err)
	}
}

func isDomainErr(err error) bool {
	var missing *MissingDependenciesError
	return errors.Is(err, ErrUnknownFlag) || errors.As(err, &missing)
}
