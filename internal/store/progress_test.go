package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/finwise/internal/goals"
	"github.com/abhisek/finwise/internal/lessons"
	"github.com/abhisek/finwise/internal/progress"
)

func engines(t *testing.T) map[string]progress.Store {
	t.Helper()
	out := map[string]progress.Store{
		"memory": NewMemoryProgress(),
		"sqlite": openTestStore(t).ProgressStore(),
	}

	js, err := NewJSONProgress(filepath.Join(t.TempDir(), "progress.json"))
	require.NoError(t, err)
	out["json"] = js

	addr := os.Getenv("FINWISE_TEST_REDIS_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}
	rs, err := NewRedisProgress(context.Background(), RedisOptions{Addr: addr, Prefix: "finwise:test:" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	out["redis"] = rs
	return out
}

func TestProgressStoreContract(t *testing.T) {
	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "sam")
			require.ErrorIs(t, err, progress.ErrRecordNotFound)

			ids := []string{"1"}
			require.NoError(t, s.Update(ctx, "sam", progress.Patch{
				LessonsCompleted:      &ids,
				CompletedDifficulties: map[lessons.Difficulty]bool{lessons.Beginner: true},
			}))
			require.NoError(t, s.Update(ctx, "sam", progress.Patch{
				CompletedDifficulties: map[lessons.Difficulty]bool{lessons.Intermediate: true},
			}))

			rec, err := s.Get(ctx, "sam")
			require.NoError(t, err)
			assert.Equal(t, []string{"1"}, rec.LessonsCompleted)
			assert.True(t, rec.CompletedDifficulties[lessons.Beginner])
			assert.True(t, rec.CompletedDifficulties[lessons.Intermediate])
			assert.False(t, rec.Reward.Collected)

			// Caller mutations do not leak into the store.
			rec.LessonsCompleted[0] = "mutated"
			again, _ := s.Get(ctx, "sam")
			assert.Equal(t, "1", again.LessonsCompleted[0])

			collected := true
			require.NoError(t, s.Update(ctx, "sam", progress.Patch{RewardCollected: &collected}))
			notCollected := false
			err = s.Update(ctx, "sam", progress.Patch{RewardCollected: &notCollected})
			require.ErrorIs(t, err, progress.ErrLatchViolation)

			rec, _ = s.Get(ctx, "sam")
			assert.True(t, rec.Reward.Collected)
			assert.NotNil(t, rec.Reward.CollectedAt)

			require.NoError(t, s.Update(ctx, "sam", progress.Patch{Goal: &goals.Goal{Name: "Bike", Target: 5000}}))
			rec, _ = s.Get(ctx, "sam")
			require.NotNil(t, rec.Goal)
			assert.Equal(t, "Bike", rec.Goal.Name)
			assert.Equal(t, []string{"1"}, rec.LessonsCompleted)

			_, err = s.Get(ctx, "someone-else")
			assert.True(t, errors.Is(err, progress.ErrRecordNotFound))
		})
	}
}

func TestProgressStoreConcurrentMerges(t *testing.T) {
	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for _, d := range lessons.AllDifficulties() {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.Update(ctx, "sam", progress.Patch{
						CompletedDifficulties: map[lessons.Difficulty]bool{d: true},
					}))
				}()
			}
			wg.Wait()

			rec, err := s.Get(ctx, "sam")
			require.NoError(t, err)
			for _, d := range lessons.AllDifficulties() {
				assert.True(t, rec.CompletedDifficulties[d], "lost %s", d)
			}
		})
	}
}

func TestProgressStoreConcurrentAppends(t *testing.T) {
	for name, s := range engines(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := []string{"1", "2", "3"}
			var wg sync.WaitGroup
			for _, id := range ids {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, s.Update(ctx, "sam", progress.Patch{AddLessons: []string{id}}))
				}()
			}
			wg.Wait()

			rec, err := s.Get(ctx, "sam")
			require.NoError(t, err)
			assert.ElementsMatch(t, ids, rec.LessonsCompleted)
		})
	}
}

// interleaveOnce writes key through a second client the first time a
// transaction is about to EXEC, so the WATCH fails and Update must retry.
type interleaveOnce struct {
	other *redis.Client
	key   string
	value string
	done  bool
}

func (h *interleaveOnce) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *interleaveOnce) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h *interleaveOnce) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if !h.done {
			h.done = true
			if err := h.other.Set(ctx, h.key, h.value, 0).Err(); err != nil {
				return err
			}
		}
		return next(ctx, cmds)
	}
}

func TestRedisProgressRetriesOnConflict(t *testing.T) {
	mr := miniredis.RunT(t)
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { other.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	hook := &interleaveOnce{
		other: other,
		key:   DefaultRedisPrefix + "sam",
		value: `{"lessonsCompleted":["other-device"],"completedDifficulties":{},"reward":{"collected":false}}`,
	}
	rdb.AddHook(hook)
	s := newRedisProgress(rdb, "")
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Update(ctx, "sam", progress.Patch{AddLessons: []string{"1"}}))
	assert.True(t, hook.done)

	rec, err := s.Get(ctx, "sam")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"other-device", "1"}, rec.LessonsCompleted)
}

func TestJSONProgressPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	s, err := NewJSONProgress(path)
	require.NoError(t, err)
	ids := []string{"1", "2"}
	require.NoError(t, s.Update(context.Background(), "sam", progress.Patch{LessonsCompleted: &ids}))

	reloaded, err := NewJSONProgress(path)
	require.NoError(t, err)
	rec, err := reloaded.Get(context.Background(), "sam")
	require.NoError(t, err)
	assert.Equal(t, ids, rec.LessonsCompleted)
}

func TestOpenEngine(t *testing.T) {
	ctx := context.Background()

	e, err := OpenEngine(ctx, EngineConfig{Engine: "", Path: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	assert.Equal(t, EngineSQLite, e.Name)
	require.NoError(t, e.Close())

	e, err = OpenEngine(ctx, EngineConfig{Engine: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, NopEventRepo{}, e.Events)
	require.NoError(t, e.Close())

	_, err = OpenEngine(ctx, EngineConfig{Engine: "postgres"})
	assert.Error(t, err)

	_, err = OpenEngine(ctx, EngineConfig{Engine: EngineRedis})
	assert.Error(t, err)
}

func TestTrackerOverSQLite(t *testing.T) {
	s := openTestStore(t)
	tr := progress.NewTracker(s.ProgressStore(), staticUser("sam"), nil, nil)
	ctx := context.Background()

	for i, d := range []lessons.Difficulty{lessons.Beginner, lessons.Intermediate, lessons.Beginner, lessons.Advanced, lessons.Beginner} {
		_, err := tr.CompleteLesson(ctx, string(rune('1'+i)), d)
		require.NoError(t, err)
	}
	status, err := tr.CollectReward(ctx)
	require.NoError(t, err)
	assert.Equal(t, progress.RewardCollected, status)

	status, err = tr.CollectReward(ctx)
	require.NoError(t, err)
	assert.Equal(t, progress.RewardAlreadyCollected, status)
}

type staticUser string

func (s staticUser) CurrentUser() (string, bool) { return string(s), s != "" }
