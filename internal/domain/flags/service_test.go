package flags_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/internal/domain/flags/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingObserver struct {
	mu   sync.Mutex
	errs []error
}

func (o *recordingObserver) ObserveStore(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) last() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.errs) == 0 {
		return nil
	}
	return o.errs[len(o.errs)-1]
}

func newEngine(t *testing.T) *flags.Engine {
	t.Helper()
	c, err := flags.NewCatalog(flags.PlanesOfPower())
	require.NoError(t, err)
	return flags.NewEngine(c)
}

func lockPassthrough(store *mock.MockStore) func(ctx context.Context, userID, guildID string, fn func(context.Context, flags.Store) error) error {
	return func(ctx context.Context, _, _ string, fn func(context.Context, flags.Store) error) error {
		return fn(ctx, store)
	}
}

func TestService_MemoryStoreProgression(t *testing.T) {
	ctx := context.Background()
	svc := flags.NewService(newEngine(t), flags.NewMemoryStore())

	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))

	progress, err := svc.Progress(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.True(t, progress.Flags[flags.KeyKnowledge])
	assert.Equal(t, 1, progress.CompletedCount)
	assert.Equal(t, 19, progress.TotalFlags)
	assert.Equal(t, 5, progress.Percentage)

	_, err = svc.CompleteFlag(ctx, "u1", "g1", "storms")
	var missing *flags.MissingDependenciesError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Missing, 7)

	for _, key := range []string{"hanging", "torture", "efficiency", "refreshment", "speed", "focus", "projection"} {
		c, err := svc.CompleteFlag(ctx, "u1", "g1", key)
		require.NoError(t, err)
		assert.True(t, c.Transitioned, key)
	}
	c, err := svc.CompleteFlag(ctx, "u1", "g1", "storms")
	require.NoError(t, err)
	assert.True(t, c.Transitioned)

	again, err := svc.CompleteFlag(ctx, "u1", "g1", "storms")
	require.NoError(t, err)
	assert.False(t, again.Transitioned)
	assert.Equal(t, c.CompletedAt, again.CompletedAt)

	next, err := svc.NextSteps(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Len(t, next.Available, 8)
	assert.False(t, next.TerminalComplete)

	reset, err := svc.ResetFlags(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Len(t, reset, 1)

	progress, err = svc.Progress(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.CompletedCount)
}

func TestService_CompletionTimeIsPersisted(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := flags.NewCatalog(flags.PlanesOfPower())
	require.NoError(t, err)
	engine := flags.NewEngine(c, flags.WithClock(func() time.Time { return at }))
	store := flags.NewMemoryStore()
	svc := flags.NewService(engine, store)

	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))
	got, err := svc.CompleteFlag(ctx, "u1", "g1", "smoke")
	require.NoError(t, err)
	require.True(t, got.Transitioned)
	assert.Equal(t, at, got.CompletedAt)

	stored, err := store.GetFlags(ctx, "u1", "g1")
	require.NoError(t, err)
	require.NotNil(t, stored["smoke"].CompletedAt)
	assert.Equal(t, got.CompletedAt, *stored["smoke"].CompletedAt)
	require.NotNil(t, stored[flags.KeyKnowledge].CompletedAt)
	assert.Equal(t, at, *stored[flags.KeyKnowledge].CompletedAt)

	again, err := svc.CompleteFlag(ctx, "u1", "g1", "smoke")
	require.NoError(t, err)
	assert.False(t, again.Transitioned)
	assert.Equal(t, got.CompletedAt, again.CompletedAt)

	player, err := store.GetPlayer(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, at, player.LastUpdated)
}

func TestService_CompleteFlagWritesBackMissingRoot(t *testing.T) {
	ctx := context.Background()
	store := flags.NewMemoryStore()
	svc := flags.NewService(newEngine(t), store)

	// A player record without its root row.
	_, err := store.UpsertPlayer(ctx, "u1", "g1", "Tester")
	require.NoError(t, err)

	// Reads restore the root without writing it.
	_, err = svc.Progress(ctx, "u1", "g1")
	require.NoError(t, err)
	rows, err := store.GetFlagsForGuild(ctx, "g1", true)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.CompleteFlag(ctx, "u1", "g1", "smoke")
	require.NoError(t, err)

	rows, err = store.GetFlagsForGuild(ctx, "g1", true)
	require.NoError(t, err)
	assert.Equal(t, []flags.GuildFlag{
		{UserID: "u1", FlagKey: flags.KeyKnowledge, Completed: true},
		{UserID: "u1", FlagKey: "smoke", Completed: true},
	}, rows)
}

// blockingStore hangs on reads until the caller's context ends.
type blockingStore struct {
	*flags.MemoryStore
}

func (b blockingStore) GetFlags(ctx context.Context, _, _ string) (flags.FlagMap, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b blockingStore) WithPlayerLock(ctx context.Context, userID, guildID string, fn func(context.Context, flags.Store) error) error {
	return b.MemoryStore.WithPlayerLock(ctx, userID, guildID, func(ctx context.Context, _ flags.Store) error {
		return fn(ctx, b)
	})
}

func TestService_StoreTimeout(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, svc *flags.Service) error
	}{
		{
			name: "CompleteFlag",
			call: func(ctx context.Context, svc *flags.Service) error {
				_, err := svc.CompleteFlag(ctx, "u1", "g1", "smoke")
				return err
			},
		},
		{
			name: "Progress",
			call: func(ctx context.Context, svc *flags.Service) error {
				_, err := svc.Progress(ctx, "u1", "g1")
				return err
			},
		},
		{
			name: "ResetFlags",
			call: func(ctx context.Context, svc *flags.Service) error {
				_, err := svc.ResetFlags(ctx, "u1", "g1")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			svc := flags.NewService(newEngine(t), blockingStore{flags.NewMemoryStore()},
				flags.WithStoreTimeout(50*time.Millisecond),
				flags.WithStoreObserver(observer))

			start := time.Now()
			err := tt.call(context.Background(), svc)
			assert.Less(t, time.Since(start), 2*time.Second)
			assert.ErrorIs(t, err, flags.ErrStoreUnavailable)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.ErrorIs(t, observer.last(), flags.ErrStoreUnavailable)
		})
	}
}

func TestService_StoreTimeoutBehindHeldLock(t *testing.T) {
	store := flags.NewMemoryStore()
	svc := flags.NewService(newEngine(t), store, flags.WithStoreTimeout(50*time.Millisecond))

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithPlayerLock(context.Background(), "u1", "g1", func(context.Context, flags.Store) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	start := time.Now()
	_, err := svc.CompleteFlag(context.Background(), "u1", "g1", "smoke")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, flags.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)
}

func TestService_CompleteFlagConcurrentFiresOnce(t *testing.T) {
	ctx := context.Background()
	svc := flags.NewService(newEngine(t), flags.NewMemoryStore())
	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))

	var transitions atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.CompleteFlag(ctx, "u1", "g1", "smoke")
			if err == nil && c.Transitioned {
				transitions.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), transitions.Load())
}

func TestService_GuildProgress(t *testing.T) {
	ctx := context.Background()
	svc := flags.NewService(newEngine(t), flags.NewMemoryStore())

	require.NoError(t, svc.EnsurePlayer(ctx, "a", "g1", "Alpha"))
	require.NoError(t, svc.EnsurePlayer(ctx, "b", "g1", "Bravo"))
	require.NoError(t, svc.EnsurePlayer(ctx, "c", "g2", "Other guild"))
	_, err := svc.CompleteFlag(ctx, "b", "g1", "smoke")
	require.NoError(t, err)

	summary, err := svc.GuildProgress(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, summary.Players, 2)
	assert.Equal(t, "Bravo", summary.Players[0].DisplayName)
	assert.Equal(t, 2, summary.Players[0].FlagsCompleted)
	assert.Equal(t, "Alpha", summary.Players[1].DisplayName)

	empty, err := svc.GuildProgress(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.Players)
}

func TestService_CompleteFlagUnknownSkipsStore(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)

	_, err := svc.CompleteFlag(context.Background(), "u1", "g1", "nope")
	assert.ErrorIs(t, err, flags.ErrUnknownFlag)
}

func TestService_CompleteFlag(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		name           string
		key            string
		setup          func(store *mock.MockStore)
		wantErr        error
		wantMissing    []string
		wantTransition bool
		wantObserved   bool
	}{
		{
			name: "Success",
			key:  "smoke",
			setup: func(store *mock.MockStore) {
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").
					Return(flags.FlagMap{flags.KeyKnowledge: {Completed: true}}, nil)
				store.EXPECT().SetFlag(gomock.Any(), "u1", "g1", "smoke", true, gomock.Any()).Return(nil)
			},
			wantTransition: true,
		},
		{
			name: "MissingRootRowIsRestored",
			key:  "smoke",
			setup: func(store *mock.MockStore) {
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").Return(nil, nil)
				gomock.InOrder(
					store.EXPECT().SetFlag(gomock.Any(), "u1", "g1", flags.KeyKnowledge, true, gomock.Any()).Return(nil),
					store.EXPECT().SetFlag(gomock.Any(), "u1", "g1", "smoke", true, gomock.Any()).Return(nil),
				)
			},
			wantTransition: true,
		},
		{
			name: "AlreadyCompleted",
			key:  "smoke",
			setup: func(store *mock.MockStore) {
				done := time.Now().Add(-time.Hour)
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").Return(flags.FlagMap{
					flags.KeyKnowledge: {Completed: true},
					"smoke":            {Completed: true, CompletedAt: &done},
				}, nil)
			},
		},
		{
			name: "MissingDependencies",
			key:  flags.KeyQuarm,
			setup: func(store *mock.MockStore) {
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").
					Return(flags.FlagMap{flags.KeyKnowledge: {Completed: true}}, nil)
			},
			wantMissing: []string{"timeA"},
		},
		{
			name: "ReadFails",
			key:  "smoke",
			setup: func(store *mock.MockStore) {
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").Return(nil, storeErr)
			},
			wantErr:      flags.ErrStoreUnavailable,
			wantObserved: true,
		},
		{
			name: "WriteFails",
			key:  "smoke",
			setup: func(store *mock.MockStore) {
				store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").
					Return(flags.FlagMap{flags.KeyKnowledge: {Completed: true}}, nil)
				store.EXPECT().SetFlag(gomock.Any(), "u1", "g1", "smoke", true, gomock.Any()).Return(storeErr)
			},
			wantErr:      flags.ErrStoreUnavailable,
			wantObserved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewMockStore(gomock.NewController(t))
			store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).DoAndReturn(lockPassthrough(store))
			tt.setup(store)

			observer := &recordingObserver{}
			svc := flags.NewService(newEngine(t), store, flags.WithStoreObserver(observer))

			got, err := svc.CompleteFlag(context.Background(), "u1", "g1", tt.key)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMissing != nil:
				var missing *flags.MissingDependenciesError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.wantMissing, missing.Missing)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantTransition, got.Transitioned)
				assert.True(t, got.Flags[tt.key].Completed)
			}

			if tt.wantObserved {
				assert.ErrorIs(t, observer.last(), flags.ErrStoreUnavailable)
			} else {
				assert.NoError(t, observer.last())
			}
		})
	}
}

func TestService_EnsurePlayer(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).DoAndReturn(lockPassthrough(store)),
		store.EXPECT().UpsertPlayer(gomock.Any(), "u1", "g1", "Tester").Return(true, nil),
		store.EXPECT().SetFlag(gomock.Any(), "u1", "g1", flags.KeyKnowledge, true, gomock.Any()).Return(nil),
		store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).DoAndReturn(lockPassthrough(store)),
		store.EXPECT().UpsertPlayer(gomock.Any(), "u1", "g1", "Renamed").Return(false, nil),
	)

	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))
	// Cached name: no store round trip.
	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))
	require.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Renamed"))
}

func TestService_EnsurePlayerFailureNotCached(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)
	ctx := context.Background()

	store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).DoAndReturn(lockPassthrough(store)).Times(2)
	store.EXPECT().UpsertPlayer(gomock.Any(), "u1", "g1", "Tester").Return(false, errors.New("timeout"))
	store.EXPECT().UpsertPlayer(gomock.Any(), "u1", "g1", "Tester").Return(false, nil)

	assert.ErrorIs(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"), flags.ErrStoreUnavailable)
	assert.NoError(t, svc.EnsurePlayer(ctx, "u1", "g1", "Tester"))
}

func TestService_ResetFlagsWriteFailure(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)

	store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).DoAndReturn(lockPassthrough(store))
	store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").Return(flags.FlagMap{}, nil)
	store.EXPECT().DeleteFlagsExcept(gomock.Any(), "u1", "g1", []string{flags.KeyKnowledge}).Return(errors.New("boom"))

	_, err := svc.ResetFlags(context.Background(), "u1", "g1")
	assert.ErrorIs(t, err, flags.ErrStoreUnavailable)
}

func TestService_LockFailureIsStoreError(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)

	store.EXPECT().WithPlayerLock(gomock.Any(), "u1", "g1", gomock.Any()).Return(context.DeadlineExceeded)

	_, err := svc.CompleteFlag(context.Background(), "u1", "g1", "smoke")
	assert.ErrorIs(t, err, flags.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_ProgressFallsBackOnLastUpdated(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	svc := flags.NewService(newEngine(t), store)

	store.EXPECT().GetFlags(gomock.Any(), "u1", "g1").Return(flags.FlagMap{
		flags.KeyKnowledge: {Completed: true},
		"air":              {Completed: true},
	}, nil)
	store.EXPECT().GetPlayer(gomock.Any(), "u1", "g1").Return(nil, errors.New("boom"))

	before := time.Now()
	progress, err := svc.Progress(context.Background(), "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CompletedCount)
	assert.Equal(t, 10, progress.Percentage)
	assert.False(t, progress.LastUpdated.Before(before))
}

func TestService_GuildProgressFailure(t *testing.T) {
	store := mock.NewMockStore(gomock.NewController(t))
	observer := &recordingObserver{}
	svc := flags.NewService(newEngine(t), store, flags.WithStoreObserver(observer))

	store.EXPECT().ListPlayers(gomock.Any(), "g1").Return([]flags.Player{{UserID: "u1"}}, nil)
	store.EXPECT().GetFlagsForGuild(gomock.Any(), "g1", true).Return(nil, errors.New("boom"))

	_, err := svc.GuildProgress(context.Background(), "g1")
	assert.ErrorIs(t, err, flags.ErrStoreUnavailable)
	assert.ErrorIs(t, observer.last(), flags.ErrStoreUnavailable)
}
