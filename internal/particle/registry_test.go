package particle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stillRegistry returns a registry whose movers exit before their first
// move, so particles stay exactly where they were placed.
func stillRegistry(t *testing.T) *Registry {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return NewRegistry(ctx, fixedCanvas(300, 300), time.Hour)
}

func liveRegistry(t *testing.T, interval time.Duration) *Registry {
	t.Helper()
	r := NewRegistry(context.Background(), fixedCanvas(300, 300), interval)
	t.Cleanup(r.Close)
	return r
}

func TestSpawnTenAtCentre(t *testing.T) {
	r := liveRegistry(t, time.Hour)

	for range 10 {
		r.Spawn(150, 150)
	}

	require.Equal(t, 10, r.Len())
	for _, p := range r.Snapshot() {
		assert.True(t, p.InBounds(300, 300))
	}
	assert.Len(t, r.movers(), 10)
}

func TestSpawnReturnsDistinctIDs(t *testing.T) {
	r := liveRegistry(t, time.Hour)

	a := r.Spawn(150, 150)
	b := r.Spawn(150, 150)

	assert.NotEqual(t, a, b)
	assert.Equal(t, []uuid.UUID{a, b}, r.IDs())
}

func TestRemoveFirstHitRemovesExactlyOne(t *testing.T) {
	r := stillRegistry(t)
	first := r.add(seeded(150, 150, 1))
	second := r.add(seeded(150, 150, 2))
	r.add(seeded(50, 50, 3))

	require.True(t, r.RemoveFirstHit(150, 150))

	assert.Equal(t, 2, r.Len())
	ids := r.IDs()
	assert.NotContains(t, ids, first)
	assert.Equal(t, second, ids[0], "insertion order decides the hit")
}

func TestRemoveFirstHitMissIsNoop(t *testing.T) {
	r := stillRegistry(t)
	r.add(seeded(150, 150, 1))

	assert.False(t, r.RemoveFirstHit(0, 0))
	assert.Equal(t, 1, r.Len())
}

func TestRemoveFirstHitOnlyRemovesNearParticles(t *testing.T) {
	r := stillRegistry(t)
	r.add(seeded(100, 100, 1))
	near := r.add(seeded(200, 200, 2))

	require.True(t, r.RemoveFirstHit(205, 195))
	assert.NotContains(t, r.IDs(), near)
	assert.Equal(t, 1, r.Len())
}

func TestRemoveFirstHitCancelsMover(t *testing.T) {
	r := liveRegistry(t, time.Hour)
	p := seeded(150, 150, 1)
	r.add(p)
	m := r.movers()[0]

	// Same seed, same first move.
	twin := seeded(150, 150, 1)
	twin.Move()
	x, y := twin.Position()
	eventually(t, func() bool {
		px, py := p.Position()
		return px == x && py == y
	}, "first move not observed")

	require.True(t, r.RemoveFirstHit(x, y))
	waitDone(t, m, time.Second)
}

func TestRemoveAt(t *testing.T) {
	r := stillRegistry(t)
	a := r.add(seeded(10, 10, 1))
	b := r.add(seeded(20, 20, 2))
	c := r.add(seeded(30, 30, 3))

	r.RemoveAt(1)

	assert.Equal(t, []uuid.UUID{a, c}, r.IDs())
	assert.NotContains(t, r.IDs(), b)
}

func TestRemoveAtOutOfRangePanics(t *testing.T) {
	r := stillRegistry(t)
	r.add(seeded(10, 10, 1))

	assert.Panics(t, func() { r.RemoveAt(1) })
	assert.Panics(t, func() { r.RemoveAt(-1) })
	assert.Equal(t, 1, r.Len())
}

func TestRemoveByID(t *testing.T) {
	r := liveRegistry(t, time.Hour)
	id := r.Spawn(150, 150)
	m := r.movers()[0]

	assert.True(t, r.Remove(id))
	assert.False(t, r.Remove(id))
	assert.Zero(t, r.Len())
	waitDone(t, m, time.Second)
}

func TestReapDeadIsIdempotent(t *testing.T) {
	r := liveRegistry(t, time.Hour)
	r.add(seeded(-100, 150, 1))
	keep := r.add(seeded(150, 150, 2))
	r.add(seeded(150, 500, 3))

	for _, m := range r.movers() {
		if m.ID() != keep {
			waitDone(t, m, time.Second)
		}
	}

	assert.Equal(t, 2, r.ReapDead())
	assert.Equal(t, 0, r.ReapDead())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, keep, r.IDs()[0])
}

func TestReapDeadPreservesSurvivorOrder(t *testing.T) {
	r := liveRegistry(t, time.Hour)
	a := r.add(seeded(150, 150, 1))
	r.add(seeded(-100, 0, 2))
	b := r.add(seeded(150, 150, 3))
	r.add(seeded(1000, 0, 4))
	c := r.add(seeded(150, 150, 5))

	eventually(t, func() bool {
		finished := 0
		for _, m := range r.movers() {
			if m.Finished() {
				finished++
			}
		}
		return finished == 2
	}, "out of bounds movers did not finish")

	r.ReapDead()
	assert.Equal(t, []uuid.UUID{a, b, c}, r.IDs())
}

func TestSnapshotIsACopy(t *testing.T) {
	r := stillRegistry(t)
	r.add(seeded(10, 10, 1))

	snap := r.Snapshot()
	snap[0] = nil

	assert.NotNil(t, r.Snapshot()[0])
}

func TestCloseCancelsEveryMover(t *testing.T) {
	r := NewRegistry(context.Background(), fixedCanvas(300, 300), time.Hour)
	for range 5 {
		r.Spawn(150, 150)
	}
	movers := r.movers()

	r.Close()

	assert.Zero(t, r.Len())
	for _, m := range movers {
		waitDone(t, m, time.Second)
	}
}

func TestRegistryConcurrentMutation(t *testing.T) {
	r := liveRegistry(t, time.Millisecond)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				switch (w + i) % 4 {
				case 0:
					r.Spawn(150, 150)
				case 1:
					r.RemoveFirstHit(150, 150)
				case 2:
					r.ReapDead()
				case 3:
					for _, p := range r.Snapshot() {
						p.Position()
					}
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, r.Len(), len(r.movers()))
	assert.Equal(t, r.Len(), len(r.Snapshot()))
	assert.Equal(t, r.Len(), len(r.IDs()))
}

func TestNewRegistryPreconditions(t *testing.T) {
	assert.Panics(t, func() { NewRegistry(context.Background(), nil, time.Second) })
	assert.Panics(t, func() {
		//nolint:staticcheck // nil context is the point of the test
		NewRegistry(nil, fixedCanvas(1, 1), time.Second)
	})
}
