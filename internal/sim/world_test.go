package sim

import (
	"math/rand"
	"testing"

	"github.com/homier/idpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_SpawnDespawn(t *testing.T) {
	w := NewWorld(4)

	a := w.Spawn(Vec{0, 1}, Vec{1, 0})
	b := w.Spawn(Vec{0, 2}, Vec{2, 0})
	c := w.Spawn(Vec{0, 3}, Vec{3, 0})
	require.Equal(t, 3, w.Len())

	require.NoError(t, w.Despawn(a))
	require.Equal(t, 2, w.Len())

	_, err := w.Position(a)
	require.ErrorIs(t, err, idpool.ErrOutOfRange)
	require.ErrorIs(t, w.Despawn(a), idpool.ErrOutOfRange)

	pos, err := w.Position(b)
	require.NoError(t, err)
	assert.Equal(t, Vec{0, 2}, pos)

	pos, err = w.Position(c)
	require.NoError(t, err)
	assert.Equal(t, Vec{0, 3}, pos)

	// The recycled identifier must not disturb the others.
	d := w.Spawn(Vec{0, 4}, Vec{4, 0})
	for id, want := range map[int]Vec{b: {2, 0}, c: {3, 0}, d: {4, 0}} {
		vel, err := w.Velocity(id)
		require.NoError(t, err)
		assert.Equal(t, want, vel)
	}
}

func TestWorld_Step(t *testing.T) {
	w := NewWorld(0, WithGravity(-10), WithFloor(0))

	high := w.Spawn(Vec{0, 100}, Vec{})
	low := w.Spawn(Vec{0, 0.01}, Vec{0, -1})

	fallen := w.Step(0.1)
	require.Equal(t, []int{low}, fallen)
	require.Equal(t, 1, w.Len())
	require.Equal(t, 1, w.Tick())

	pos, err := w.Position(high)
	require.NoError(t, err)
	assert.InDelta(t, 100-0.1, pos[1], 1e-9)

	vel, err := w.Velocity(high)
	require.NoError(t, err)
	assert.InDelta(t, -1, vel[1], 1e-9)

	age, err := w.Age(high)
	require.NoError(t, err)
	assert.Equal(t, 1, age)
}

func TestWorld_Churn(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	w := NewWorld(16, WithGravity(0))
	// Velocity doubles as a fingerprint of each particle.
	want := make(map[int]Vec)

	for i := range 500 {
		if len(want) > 0 && r.Intn(2) == 0 {
			for id := range want {
				require.NoError(t, w.Despawn(id))
				delete(want, id)
				break
			}
			continue
		}

		fp := Vec{float64(i), 1}
		id := w.Spawn(Vec{0, 1}, fp)
		require.NotContains(t, want, id)
		want[id] = fp
	}

	require.Equal(t, len(want), w.Len())
	for id, fp := range want {
		vel, err := w.Velocity(id)
		require.NoError(t, err)
		require.Equal(t, fp, vel)
	}
}
