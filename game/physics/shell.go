package physics

import (
	"math"

	"github.com/charmbracelet/log"

	"tank-game/game"
	"tank-game/game/shared"
)

// HitReporter receives confirmed shell hits against tanks. The game manager
// implements it: it applies damage, reports whether the hit destroyed the
// target and publishes the hit/destroyed notifications within the same tick.
type HitReporter interface {
	ProcessTankHit(hit game.HitData) (destroyed bool, err error)
}

// Shell is a fired projectile: ballistic motion, a bounded trail history, a
// finite lifetime and one-shot collision resolution. Once its active latch
// clears it never resolves again; every mutation path checks the latch first.
type Shell struct {
	id      string
	ownerID string
	owner   shared.Collidable

	pos shared.Position
	vel shared.Position
	dir shared.Position // normalized firing direction, kept for client sync

	radius float64
	age    int
	active bool

	trail []shared.Position

	cfg      Config
	effects  *EffectScheduler
	reporter HitReporter
}

// NewShell creates a flying shell at pos moving along dir at the given
// speed. The trail ring starts filled with the spawn position. owner may be
// nil when the firer already despawned.
func NewShell(id, ownerID string, owner shared.Collidable, pos, dir game.Position, speed float64, cfg Config, effects *EffectScheduler, reporter HitReporter) *Shell {
	norm := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z)
	if norm == 0 {
		norm = 1
	}
	unit := shared.Position{X: dir.X / norm, Y: dir.Y / norm, Z: dir.Z / norm}

	s := &Shell{
		id:      id,
		ownerID: ownerID,
		owner:   owner,
		pos:     shared.Position{X: pos.X, Y: pos.Y, Z: pos.Z},
		vel: shared.Position{
			X: unit.X * speed,
			Y: unit.Y * speed,
			Z: unit.Z * speed,
		},
		dir:      unit,
		radius:   cfg.ShellRadius,
		active:   true,
		trail:    make([]shared.Position, cfg.TrailLength),
		cfg:      cfg,
		effects:  effects,
		reporter: reporter,
	}
	for i := range s.trail {
		s.trail[i] = s.pos
	}
	return s
}

func (s *Shell) ID() string                { return s.id }
func (s *Shell) OwnerID() string           { return s.ownerID }
func (s *Shell) Kind() shared.ColliderKind { return shared.KindShell }
func (s *Shell) Shape() shared.Shape       { return shared.Sphere(s.radius) }
func (s *Shell) Position() shared.Position { return s.pos }
func (s *Shell) Alive() bool               { return s.active }
func (s *Shell) Owner() shared.Collidable  { return s.owner }

// Velocity returns the current velocity vector.
func (s *Shell) Velocity() shared.Position { return s.vel }

// Direction returns the cached normalized firing direction.
func (s *Shell) Direction() shared.Position { return s.dir }

// Age returns the tick counter.
func (s *Shell) Age() int { return s.age }

// Trail returns a copy of the trail ring, newest first.
func (s *Shell) Trail() []shared.Position {
	out := make([]shared.Position, len(s.trail))
	copy(out, s.trail)
	return out
}

// Advance runs one simulation tick and reports whether the shell is still
// flying. Expiry is checked before motion, ground impact after, so a shell
// never expires and ground-hits in the same tick.
func (s *Shell) Advance() bool {
	if !s.active {
		return false
	}

	s.age++
	if s.age >= s.cfg.MaxShellAge {
		log.Debug("Shell expired", "id", s.id, "age", s.age)
		s.spawnExplosion(s.pos, ExplosionExpiry)
		s.destroy()
		return false
	}

	// semi-implicit Euler: gravity on velocity, then position
	s.vel.Y -= s.cfg.Gravity
	prev := s.pos
	s.pos.X += s.vel.X
	s.pos.Y += s.vel.Y
	s.pos.Z += s.vel.Z

	// shift the trail ring by one slot, newest at index 0
	for i := len(s.trail) - 1; i > 0; i-- {
		s.trail[i] = s.trail[i-1]
	}
	if len(s.trail) > 0 {
		s.trail[0] = s.pos
	}

	if s.pos.Y < 0 {
		impact := groundCrossing(prev, s.pos)
		log.Debug("Shell hit ground", "id", s.id, "x", impact.X, "z", impact.Z)
		s.spawnExplosion(impact, ExplosionGround)
		s.destroy()
		return false
	}

	return true
}

// OnCollision resolves a confirmed contact. The latch is cleared before any
// side effect so a second pair detected in the same sweep is a no-op; the
// owner is excluded by identity regardless of kind.
func (s *Shell) OnCollision(other shared.Collidable) {
	if !s.active {
		return
	}
	if other == s.owner {
		return
	}

	s.active = false
	s.releaseVisuals()
	s.spawnExplosion(s.pos, ExplosionFull)

	if other.Kind() != shared.KindTank {
		log.Debug("Shell struck scenery", "shell", s.id, "kind", other.Kind(), "id", other.ID())
		return
	}

	hit := game.HitData{
		TargetID:     other.ID(),
		SourceID:     s.ownerID,
		DamageAmount: s.cfg.ShellDamage,
		HitLocation:  hitLocation(s.pos, other.Position()),
	}

	if s.reporter == nil {
		return
	}
	destroyed, err := s.reporter.ProcessTankHit(hit)
	if err != nil {
		log.Error("Error processing tank hit", "shell", s.id, "target", hit.TargetID, "error", err)
		return
	}
	if destroyed {
		log.Info("Shell destroyed tank", "shell", s.id, "target", hit.TargetID, "source", s.ownerID)
	}
}

// destroy clears the latch and releases the visual resources. Safe to call
// only from paths that already hold the latch.
func (s *Shell) destroy() {
	s.active = false
	s.releaseVisuals()
}

// releaseVisuals drops the trail so the next state snapshot removes the
// client-side mesh and trail on every exit path.
func (s *Shell) releaseVisuals() {
	s.trail = nil
}

func (s *Shell) spawnExplosion(pos shared.Position, size float64) {
	if s.effects == nil {
		return
	}
	s.effects.SpawnExplosion(pos, size, s.cfg.ExplosionFrames, s.cfg.ExplosionParticles)
}

// groundCrossing interpolates the point where the segment prev->cur crosses
// the ground plane.
func groundCrossing(prev, cur shared.Position) shared.Position {
	dy := prev.Y - cur.Y
	if dy <= 0 {
		return shared.Position{X: cur.X, Y: 0, Z: cur.Z}
	}
	t := prev.Y / dy
	return shared.Position{
		X: prev.X + (cur.X-prev.X)*t,
		Y: 0,
		Z: prev.Z + (cur.Z-prev.Z)*t,
	}
}

// hitLocation classifies where on the tank the shell landed, for client
// display only; damage does not depend on it.
func hitLocation(shellPos, tankPos shared.Position) string {
	hitHeight := shellPos.Y - tankPos.Y
	switch {
	case hitHeight > 1.2:
		return "turret"
	case hitHeight < 0.5:
		return "tracks"
	default:
		return "body"
	}
}
