package physics

import (
	"github.com/charmbracelet/log"

	"tank-game/game"
	"tank-game/game/shared"
)

// TankBody is the collision-side view of a tank. The underlying PlayerState
// is owned by the game manager; the body only mirrors the fields the sweep
// needs and is refreshed by the integration layer every tick.
type TankBody struct {
	state  game.PlayerState
	radius float64
}

// NewTankBody wraps a player state in a collidable tank body.
func NewTankBody(state game.PlayerState, radius float64) *TankBody {
	return &TankBody{state: state, radius: radius}
}

// SetState refreshes the mirrored player state.
func (t *TankBody) SetState(state game.PlayerState) {
	t.state = state
}

// State returns the mirrored player state.
func (t *TankBody) State() game.PlayerState {
	return t.state
}

func (t *TankBody) ID() string                { return t.state.ID }
func (t *TankBody) Kind() shared.ColliderKind { return shared.KindTank }
func (t *TankBody) Shape() shared.Shape       { return shared.Sphere(t.radius) }

func (t *TankBody) Position() shared.Position {
	return shared.Position{X: t.state.Position.X, Y: t.state.Position.Y, Z: t.state.Position.Z}
}

// Alive reports false for destroyed tanks so the sweep skips them.
func (t *TankBody) Alive() bool { return !t.state.IsDestroyed }

func (t *TankBody) Owner() shared.Collidable { return nil }

// OnCollision logs tank contacts. Damage against this tank is applied by the
// shell side of the pair, which always runs first.
func (t *TankBody) OnCollision(other shared.Collidable) {
	if other.Kind() == shared.KindTank {
		log.Debug("Tank-tank contact", "tank", t.state.ID, "other", other.ID())
		return
	}
	if other.Kind().Static() {
		log.Debug("Tank touching scenery", "tank", t.state.ID, "kind", other.Kind(), "id", other.ID())
	}
}
