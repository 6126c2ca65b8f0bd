package instances

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/EternisAI/bot-tracker/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func intPtr(v int) *int {
	return &v
}

func TestRegisterNew(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	inst, err := r.Register(RegisterParams{
		InstanceID: "bot-1",
		UserCount:  intPtr(5),
		GroupCount: intPtr(2),
		IP:         "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, "bot-1", inst.ID)
	assert.Equal(t, DefaultOwner, inst.Owner)
	assert.Equal(t, DefaultVersion, inst.Version)
	assert.Equal(t, 5, inst.UserCount)
	assert.Equal(t, 2, inst.GroupCount)
	assert.Equal(t, StatusOnline, inst.Status)
	assert.Equal(t, "10.0.0.1", inst.IP)
	assert.Equal(t, clock.Now(), inst.FirstSeen)
	assert.Equal(t, clock.Now(), inst.LastPing)
}

func TestRegisterTrimsInstanceID(t *testing.T) {
	r := NewRegistry()

	inst, err := r.Register(RegisterParams{InstanceID: "  bot-1 "})
	require.NoError(t, err)
	assert.Equal(t, "bot-1", inst.ID)
	assert.Len(t, r.List(), 1)
}

func TestRegisterMissingInstanceID(t *testing.T) {
	r := NewRegistry()

	for _, id := range []string{"", "   "} {
		_, err := r.Register(RegisterParams{InstanceID: id, Owner: "alice"})
		assert.ErrorIs(t, err, ErrInstanceIDRequired)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
	assert.Empty(t, r.List())
	assert.Equal(t, 0, r.Stats().TotalInstances)
}

func TestRegisterPreservesFirstSeen(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	first, err := r.Register(RegisterParams{InstanceID: "bot-1", Owner: "alice"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		clock.Advance(time.Minute)
		inst, err := r.Register(RegisterParams{
			InstanceID: "bot-1",
			Owner:      "alice",
			Version:    "2.0.0",
			UserCount:  intPtr(10 + i),
			IP:         "10.0.0.2",
		})
		require.NoError(t, err)
		assert.Equal(t, first.FirstSeen, inst.FirstSeen)
		assert.Equal(t, clock.Now(), inst.LastPing)
	}

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, first.FirstSeen, list[0].FirstSeen)
	assert.Equal(t, clock.Now(), list[0].LastPing)
	assert.Equal(t, "2.0.0", list[0].Version)
	assert.Equal(t, 12, list[0].UserCount)
	assert.Equal(t, "10.0.0.2", list[0].IP)
}

func TestRegisterAbsentFieldsResetToDefaults(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register(RegisterParams{InstanceID: "bot-1", Owner: "alice", UserCount: intPtr(7)})
	require.NoError(t, err)

	inst, err := r.Register(RegisterParams{InstanceID: "bot-1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOwner, inst.Owner)
	assert.Equal(t, 0, inst.UserCount)
}

func TestRegisterClampsNegativeCounts(t *testing.T) {
	r := NewRegistry()

	inst, err := r.Register(RegisterParams{InstanceID: "bot-1", UserCount: intPtr(-3), GroupCount: intPtr(-1)})
	require.NoError(t, err)
	assert.Equal(t, 0, inst.UserCount)
	assert.Equal(t, 0, inst.GroupCount)
}

func TestRegisterPrunesStaleInstances(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		_, err := r.Register(RegisterParams{InstanceID: fmt.Sprintf("bot-%d", i)})
		require.NoError(t, err)
	}
	require.Len(t, r.List(), 5)

	clock.Advance(24*time.Hour + time.Second)

	// Nothing is removed until the next write.
	assert.Len(t, r.List(), 5)

	_, err := r.Register(RegisterParams{InstanceID: "bot-new"})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "bot-new", list[0].ID)
}

func TestRegisterStaleInstanceComesBack(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	_, err := r.Register(RegisterParams{InstanceID: "bot-1"})
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	// The instance's own heartbeat refreshes it before the prune pass runs.
	inst, err := r.Register(RegisterParams{InstanceID: "bot-1"})
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(-25*time.Hour), inst.FirstSeen)
	assert.Len(t, r.List(), 1)
}

func TestPruneBoundary(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	_, err := r.Register(RegisterParams{InstanceID: "bot-1"})
	require.NoError(t, err)

	assert.Equal(t, 0, r.Prune(clock.Now().Add(24*time.Hour-time.Millisecond)))
	assert.Equal(t, 1, r.Prune(clock.Now().Add(24*time.Hour)))
	assert.Empty(t, r.List())
}

func TestStatsActiveWindow(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	_, err := r.Register(RegisterParams{InstanceID: "old", UserCount: intPtr(3), GroupCount: intPtr(1)})
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)

	_, err = r.Register(RegisterParams{InstanceID: "fresh", UserCount: intPtr(5), GroupCount: intPtr(2)})
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, 2, stats.TotalInstances)
	assert.Equal(t, 1, stats.ActiveInstances)
	assert.Equal(t, 8, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalGroups)
	assert.Equal(t, clock.Now(), stats.LastUpdated)

	clock.Advance(5 * time.Minute)
	stats = r.Stats()
	assert.Equal(t, 2, stats.TotalInstances)
	assert.Equal(t, 0, stats.ActiveInstances)
}

func TestStatsExample(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register(RegisterParams{InstanceID: "bot-1", UserCount: intPtr(5), GroupCount: intPtr(2)})
	require.NoError(t, err)

	stats := r.Stats()
	assert.Equal(t, 1, stats.TotalInstances)
	assert.Equal(t, 1, stats.ActiveInstances)
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalGroups)
}

func TestCustomWindows(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(
		WithClock(clock.Now),
		WithActiveWindow(time.Minute),
		WithRetention(time.Hour),
	)

	_, err := r.Register(RegisterParams{InstanceID: "bot-1"})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 0, r.Stats().ActiveInstances)

	clock.Advance(time.Hour)
	_, err = r.Register(RegisterParams{InstanceID: "bot-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Stats().TotalInstances)
}

func TestListOrderedByLastPing(t *testing.T) {
	clock := newFakeClock()
	r := NewRegistry(WithClock(clock.Now))

	for _, id := range []string{"a", "b", "c"} {
		_, err := r.Register(RegisterParams{InstanceID: id})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}
	_, err := r.Register(RegisterParams{InstanceID: "a"})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}

func TestListReturnsCopies(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(RegisterParams{InstanceID: "bot-1", Owner: "alice"})
	require.NoError(t, err)

	list := r.List()
	list[0].Owner = "mallory"

	assert.Equal(t, "alice", r.List()[0].Owner)
}

func TestConcurrentRegister(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = r.Register(RegisterParams{
				InstanceID: fmt.Sprintf("bot-%d", id%10),
				UserCount:  intPtr(1),
			})
			_ = r.Stats()
			_ = r.List()
		}(i)
	}
	wg.Wait()

	stats := r.Stats()
	assert.Equal(t, 10, stats.TotalInstances)
	assert.Equal(t, 10, stats.TotalUsers)
}
