package physics

import (
	"sync"

	"github.com/charmbracelet/log"

	"tank-game/game/shared"
)

// CollisionSystem is the registry and per-tick pairwise tester. It holds
// non-owning handles to registered collidables; entities are created and
// destroyed by their own owners. Pair testing order is deterministic:
// ascending registration order over a snapshot of the registry.
type CollisionSystem struct {
	mu       sync.Mutex
	entities []shared.Collidable
}

// NewCollisionSystem creates an empty collision system.
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

// Add registers a collidable for future sweeps. No duplicate check; clients
// are expected not to double-register.
func (cs *CollisionSystem) Add(c shared.Collidable) {
	cs.mu.Lock()
	cs.entities = append(cs.entities, c)
	cs.mu.Unlock()
}

// Remove deregisters by identity. A handle that is not present is ignored.
func (cs *CollisionSystem) Remove(c shared.Collidable) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i, e := range cs.entities {
		if e == c {
			cs.entities = append(cs.entities[:i], cs.entities[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered collidables.
func (cs *CollisionSystem) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entities)
}

// Sweep runs one full pairwise collision pass. The registry is snapshotted
// first so collision callbacks may add or remove entities without corrupting
// the in-progress iteration. Inactive shells are filtered from the snapshot;
// liveness is re-read per pair so a shell that resolves mid-sweep is not
// offered a second contact.
func (cs *CollisionSystem) Sweep() {
	cs.mu.Lock()
	snapshot := make([]shared.Collidable, 0, len(cs.entities))
	for _, e := range cs.entities {
		if e.Kind() == shared.KindShell && !e.Alive() {
			continue
		}
		snapshot = append(snapshot, e)
	}
	cs.mu.Unlock()

	for i := 0; i < len(snapshot); i++ {
		for j := i + 1; j < len(snapshot); j++ {
			a, b := snapshot[i], snapshot[j]

			if skipPair(a, b) {
				continue
			}
			if !Overlaps(a.Shape(), a.Position(), b.Shape(), b.Position()) {
				continue
			}
			dispatch(a, b)
		}
	}
}

// skipPair applies the pair skip policy: dead entities, static-static pairs
// and a shell paired with its own owner are never tested.
func skipPair(a, b shared.Collidable) bool {
	if !a.Alive() || !b.Alive() {
		return true
	}
	if a.Kind().Static() && b.Kind().Static() {
		return true
	}
	if owner := a.Owner(); owner != nil && owner == b {
		return true
	}
	if owner := b.Owner(); owner != nil && owner == a {
		return true
	}
	return false
}

// dispatch invokes both collision handlers with shell priority: the shell
// side runs first so its latch governs whether the other side still observes
// a live shell.
func dispatch(a, b shared.Collidable) {
	log.Debug("Collision detected", "a", a.ID(), "aKind", a.Kind(), "b", b.ID(), "bKind", b.Kind())

	if b.Kind() == shared.KindShell && a.Kind() != shared.KindShell {
		a, b = b, a
	}
	a.OnCollision(b)
	b.OnCollision(a)
}

// CheckPointCollision scans the registry in order and returns the first
// entity other than exclude whose shape contains the point, or nil.
func (cs *CollisionSystem) CheckPointCollision(point shared.Position, exclude shared.Collidable) shared.Collidable {
	cs.mu.Lock()
	snapshot := make([]shared.Collidable, len(cs.entities))
	copy(snapshot, cs.entities)
	cs.mu.Unlock()

	for _, e := range snapshot {
		if e == exclude {
			continue
		}
		if ContainsPoint(e.Shape(), e.Position(), point) {
			return e
		}
	}
	return nil
}

// CheckLineOfSight reports whether the segment between two positions is
// clear of registered scenery. Used by NPC tanks for targeting.
func (cs *CollisionSystem) CheckLineOfSight(from, to shared.Position) bool {
	cs.mu.Lock()
	snapshot := make([]shared.Collidable, len(cs.entities))
	copy(snapshot, cs.entities)
	cs.mu.Unlock()

	for _, e := range snapshot {
		if !e.Kind().Static() {
			continue
		}
		if IntersectsSegment(e.Shape(), e.Position(), from, to) {
			return false
		}
	}
	return true
}
