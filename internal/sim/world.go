// Package sim keeps particle state in slot-indexed parallel slices and
// uses an idpool.Pool to give every particle a stable identifier.
package sim

import (
	"fmt"

	"github.com/homier/idpool"
)

type Vec [2]float64

func (v Vec) Add(o Vec) Vec       { return Vec{v[0] + o[0], v[1] + o[1]} }
func (v Vec) Scale(k float64) Vec { return Vec{v[0] * k, v[1] * k} }

type World struct {
	pool *idpool.Pool

	// Indexed by slot, length is always pool.Len().
	pos  []Vec
	vel  []Vec
	born []int

	tick    int
	gravity Vec
	floor   float64
}

type Option func(w *World)

func WithGravity(g float64) Option {
	return func(w *World) {
		w.gravity = Vec{0, g}
	}
}

func WithFloor(y float64) Option {
	return func(w *World) {
		w.floor = y
	}
}

func NewWorld(reserve int, opts ...Option) *World {
	w := &World{
		pool:    idpool.New(idpool.WithCapacity(reserve)),
		pos:     make([]Vec, 0, reserve),
		vel:     make([]Vec, 0, reserve),
		born:    make([]int, 0, reserve),
		gravity: Vec{0, -9.81},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *World) Len() int            { return w.pool.Len() }
func (w *World) Tick() int           { return w.tick }
func (w *World) Stats() idpool.Stats { return w.pool.Stats() }

// Spawn adds a particle and returns its identifier.
func (w *World) Spawn(pos, vel Vec) int {
	id, moved := w.pool.Add()

	w.pos = append(w.pos, Vec{})
	w.vel = append(w.vel, Vec{})
	w.born = append(w.born, 0)

	if moved != id {
		w.pos[moved] = w.pos[id]
		w.vel[moved] = w.vel[id]
		w.born[moved] = w.born[id]
	}

	w.pos[id] = pos
	w.vel[id] = vel
	w.born[id] = w.tick

	return id
}

func (w *World) Despawn(id int) error {
	removed, replacement, err := w.pool.Remove(id)
	if err != nil {
		return fmt.Errorf("despawn %d: %w", id, err)
	}

	w.pos[removed] = w.pos[replacement]
	w.vel[removed] = w.vel[replacement]
	w.born[removed] = w.born[replacement]

	n := w.pool.Len()
	w.pos = w.pos[:n]
	w.vel = w.vel[:n]
	w.born = w.born[:n]

	return nil
}

func (w *World) Position(id int) (Vec, error) {
	slot, err := w.slot(id)
	if err != nil {
		return Vec{}, err
	}

	return w.pos[slot], nil
}

func (w *World) Velocity(id int) (Vec, error) {
	slot, err := w.slot(id)
	if err != nil {
		return Vec{}, err
	}

	return w.vel[slot], nil
}

// Age is the number of ticks since the particle was spawned.
func (w *World) Age(id int) (int, error) {
	slot, err := w.slot(id)
	if err != nil {
		return 0, err
	}

	return w.tick - w.born[slot], nil
}

// Step advances every live particle by dt and despawns those that fell
// below the floor. Returns the identifiers that were despawned.
func (w *World) Step(dt float64) []int {
	for i := range w.pool.Len() {
		w.vel[i] = w.vel[i].Add(w.gravity.Scale(dt))
		w.pos[i] = w.pos[i].Add(w.vel[i].Scale(dt))
	}
	w.tick++

	var fallen []int
	// Walking down keeps the unvisited slots in place while despawning.
	for slot := w.pool.Len() - 1; slot >= 0; slot-- {
		if w.pos[slot][1] >= w.floor {
			continue
		}

		id, err := w.pool.ID(slot)
		if err != nil {
			panic(err)
		}
		if err := w.Despawn(id); err != nil {
			panic(err)
		}
		fallen = append(fallen, id)
	}

	return fallen
}

func (w *World) slot(id int) (int, error) {
	if !w.pool.Alive(id) {
		return 0, fmt.Errorf("particle %d: %w", id, idpool.ErrOutOfRange)
	}

	slot, err := w.pool.Lookup(id)
	if err != nil {
		return 0, fmt.Errorf("particle %d: %w", id, err)
	}

	return slot, nil
}
