package physics

import (
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"tank-game/game/shared"
)

// Explosion sizes. The scale feeds the client's visual only; it never
// affects collision outcomes.
const (
	ExplosionExpiry = 0.5 // small burst when a shell times out
	ExplosionGround = 1.0 // ground impact
	ExplosionFull   = 2.0 // direct hit
)

// warm red/orange gradient for explosion particles
var explosionPalette = []string{
	"#ff5722",
	"#ff9800",
	"#ffc107",
	"#f44336",
	"#ffeb3b",
}

// FrameTask is a unit of per-frame visual work. Step advances the task one
// frame and reports whether it wants to run again.
type FrameTask interface {
	Step() bool
}

// EffectScheduler owns the per-frame task list for fire-and-forget visual
// effects. Tasks run to completion unless cancelled, and cancellation is
// removal from the list. Effects never read or write collision state.
type EffectScheduler struct {
	mu    sync.Mutex
	tasks []*scheduledTask
}

type scheduledTask struct {
	id   string
	task FrameTask
}

// NewEffectScheduler creates an empty scheduler.
func NewEffectScheduler() *EffectScheduler {
	return &EffectScheduler{}
}

// Schedule adds a task and returns its handle for cancellation.
func (s *EffectScheduler) Schedule(task FrameTask) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.tasks = append(s.tasks, &scheduledTask{id: id, task: task})
	s.mu.Unlock()
	return id
}

// Cancel removes a task from the list. Unknown handles are ignored.
func (s *EffectScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Step advances every task one frame and drops the ones that finished.
func (s *EffectScheduler) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	alive := s.tasks[:0]
	for _, t := range s.tasks {
		if t.task.Step() {
			alive = append(alive, t)
		}
	}
	// clear trailing slots so finished tasks can be collected
	for i := len(alive); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = alive
}

// Len returns the number of scheduled tasks.
func (s *EffectScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// SpawnExplosion creates an explosion burst at pos and schedules it.
func (s *EffectScheduler) SpawnExplosion(pos shared.Position, size float64, frames, particles int) *Explosion {
	e := NewExplosion(pos, size, frames, particles)
	e.handle = s.Schedule(e)
	return e
}

// Snapshot returns the renderable state of all running explosions, in
// scheduling order.
func (s *EffectScheduler) Snapshot() []ExplosionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ExplosionState
	for _, t := range s.tasks {
		if e, ok := t.task.(*Explosion); ok {
			out = append(out, e.snapshot(t.id))
		}
	}
	return out
}

// Particle is a single explosion fragment with a fixed outward offset and a
// color drawn from the warm gradient.
type Particle struct {
	Offset shared.Position `json:"offset"`
	Color  string          `json:"color"`
}

// Explosion is a self-contained visual burst: particles scale outward and
// fade linearly to zero opacity over a fixed number of frames.
type Explosion struct {
	pos       shared.Position
	size      float64
	frame     int
	frames    int
	particles []Particle
	handle    string
}

// ExplosionState is the wire snapshot of a running explosion.
type ExplosionState struct {
	ID        string          `json:"id"`
	Position  shared.Position `json:"position"`
	Scale     float64         `json:"scale"`
	Opacity   float64         `json:"opacity"`
	Particles []Particle      `json:"particles"`
}

// NewExplosion builds an explosion with randomized initial outward particle
// positions. It does not schedule itself; use EffectScheduler.SpawnExplosion.
func NewExplosion(pos shared.Position, size float64, frames, particles int) *Explosion {
	if frames <= 0 {
		frames = DefaultConfig().ExplosionFrames
	}
	if particles <= 0 {
		particles = DefaultConfig().ExplosionParticles
	}

	e := &Explosion{
		pos:       pos,
		size:      size,
		frames:    frames,
		particles: make([]Particle, particles),
	}

	for i := range e.particles {
		// random point on the unit sphere, scaled by the burst size
		theta := rand.Float64() * 2 * math.Pi
		phi := math.Acos(2*rand.Float64() - 1)
		r := size * (0.3 + rand.Float64()*0.7)

		e.particles[i] = Particle{
			Offset: shared.Position{
				X: r * math.Sin(phi) * math.Cos(theta),
				Y: r * math.Sin(phi) * math.Sin(theta),
				Z: r * math.Cos(phi),
			},
			Color: explosionPalette[rand.Intn(len(explosionPalette))],
		}
	}
	return e
}

// Step advances the burst one frame. Scale grows with the frame count and
// opacity fades linearly; the task ends when the frame budget is spent.
func (e *Explosion) Step() bool {
	e.frame++
	return e.frame < e.frames
}

// Scale returns the current outward scale factor.
func (e *Explosion) Scale() float64 {
	return e.size * (1 + float64(e.frame)/float64(e.frames))
}

// Opacity returns the current opacity, fading linearly from 1 to 0.
func (e *Explosion) Opacity() float64 {
	o := 1 - float64(e.frame)/float64(e.frames)
	if o < 0 {
		return 0
	}
	return o
}

// Frame returns the current frame counter.
func (e *Explosion) Frame() int { return e.frame }

func (e *Explosion) snapshot(id string) ExplosionState {
	return ExplosionState{
		ID:        id,
		Position:  e.pos,
		Scale:     e.Scale(),
		Opacity:   e.Opacity(),
		Particles: e.particles,
	}
}
