package physics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go/jetstream"

	"tank-game/game"
	"tank-game/game/shared"
)

// Integration drives the physics simulation against the authoritative game
// state. Each tick it mirrors the manager's players and shells into physics
// entities, advances every shell, runs a collision sweep, steps visual
// effects and writes shell results back. A KV watcher refreshes tank bodies
// between ticks so fast-moving tanks are not tested against stale positions.
type Integration struct {
	cfg     Config
	manager *game.Manager
	system  *CollisionSystem
	effects *EffectScheduler

	mu         sync.Mutex
	running    bool
	cancel     context.CancelFunc
	watcher    jetstream.KeyWatcher
	tanks      map[string]*TankBody
	shells     map[string]*Shell
	shellOrder []string
}

// NewIntegration wires the physics simulation to a game manager. The
// collision system should already hold the static map colliders.
func NewIntegration(cfg Config, manager *game.Manager, system *CollisionSystem, effects *EffectScheduler) *Integration {
	return &Integration{
		cfg:     cfg,
		manager: manager,
		system:  system,
		effects: effects,
		tanks:   make(map[string]*TankBody),
		shells:  make(map[string]*Shell),
	}
}

// System returns the collision system, used for spatial queries.
func (in *Integration) System() *CollisionSystem {
	return in.system
}

// Effects returns the effect scheduler, used for client snapshots.
func (in *Integration) Effects() *EffectScheduler {
	return in.effects
}

// Start launches the simulation loop and the state watcher. Calling Start on
// a running integration is a no-op.
func (in *Integration) Start(ctx context.Context) error {
	in.mu.Lock()
	if in.running {
		in.mu.Unlock()
		return nil
	}
	in.running = true
	ctx, in.cancel = context.WithCancel(ctx)
	in.mu.Unlock()

	watcher, err := in.manager.WatchState(ctx)
	if err != nil {
		return err
	}
	in.mu.Lock()
	in.watcher = watcher
	in.mu.Unlock()

	go in.watchLoop(ctx, watcher)
	go in.runLoop(ctx)

	log.Info("Physics integration started", "tickInterval", in.cfg.TickInterval)
	return nil
}

// Stop halts the simulation loop and watcher.
func (in *Integration) Stop() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.running {
		return
	}
	in.running = false
	in.cancel()
	if in.watcher != nil {
		in.watcher.Stop()
	}
	log.Info("Physics integration stopped")
}

// watchLoop applies tank position changes from KV updates as they arrive.
func (in *Integration) watchLoop(ctx context.Context, watcher jetstream.KeyWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-watcher.Updates():
			if !ok {
				return
			}
			if update == nil || len(update.Value()) == 0 {
				continue
			}
			var state game.GameState
			if err := json.Unmarshal(update.Value(), &state); err != nil {
				log.Error("Unmarshaling game state update", "err", err)
				continue
			}
			in.syncTanks(state)
		}
	}
}

// runLoop advances the simulation at the configured tick rate.
func (in *Integration) runLoop(ctx context.Context) {
	ticker := time.NewTicker(in.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			in.Tick()
		}
	}
}

// Tick runs one full simulation step.
func (in *Integration) Tick() {
	state := in.manager.GetState()

	in.syncTanks(state)
	in.syncShells(state)

	updates, removed := in.advanceShells()

	in.system.Sweep()

	// Shells resolved during the sweep are collected after it.
	removed = append(removed, in.reapShells()...)

	in.effects.Step()

	if len(updates) > 0 || len(removed) > 0 {
		if err := in.manager.ApplyShellUpdates(updates, removed); err != nil {
			log.Error("Applying shell updates", "err", err)
		}
	}
}

// syncTanks mirrors player states into tank bodies. Destroyed and departed
// players are deregistered.
func (in *Integration) syncTanks(state game.GameState) {
	in.mu.Lock()
	defer in.mu.Unlock()

	seen := make(map[string]bool, len(state.Players))
	for id, player := range state.Players {
		if player.IsDestroyed {
			continue
		}
		seen[id] = true
		if body, ok := in.tanks[id]; ok {
			body.SetState(player)
			continue
		}
		body := NewTankBody(player, in.cfg.TankRadius)
		in.tanks[id] = body
		in.system.Add(body)
	}

	for id, body := range in.tanks {
		if !seen[id] {
			in.system.Remove(body)
			delete(in.tanks, id)
		}
	}
}

// syncShells creates physics shells for newly fired ones and drops entities
// whose state entry disappeared. Registration order is preserved so sweeps
// are deterministic.
func (in *Integration) syncShells(state game.GameState) {
	in.mu.Lock()
	defer in.mu.Unlock()

	seen := make(map[string]bool, len(state.Shells))
	for _, ss := range state.Shells {
		seen[ss.ID] = true
		if _, ok := in.shells[ss.ID]; ok {
			continue
		}

		var owner shared.Collidable
		if body, ok := in.tanks[ss.PlayerID]; ok {
			owner = body
		}
		shell := NewShell(ss.ID, ss.PlayerID, owner, ss.Position, ss.Direction, ss.Speed,
			in.cfg, in.effects, in.manager)
		in.shells[ss.ID] = shell
		in.shellOrder = append(in.shellOrder, ss.ID)
		in.system.Add(shell)
		log.Debug("Shell registered", "shell", ss.ID, "player", ss.PlayerID)
	}

	for id := range in.shells {
		if !seen[id] {
			in.dropShellLocked(id)
		}
	}
}

// advanceShells moves every live shell one tick and returns state updates
// for live shells plus IDs of shells that expired or hit the ground.
func (in *Integration) advanceShells() (updates []game.ShellState, removed []string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, id := range in.shellOrder {
		shell, ok := in.shells[id]
		if !ok {
			continue
		}
		if !shell.Advance() {
			removed = append(removed, id)
			continue
		}
		pos := shell.Position()
		trail := shell.Trail()
		gameTrail := make([]game.Position, len(trail))
		for i, p := range trail {
			gameTrail[i] = game.Position{X: p.X, Y: p.Y, Z: p.Z}
		}
		updates = append(updates, game.ShellState{
			ID:       id,
			Position: game.Position{X: pos.X, Y: pos.Y, Z: pos.Z},
			Trail:    gameTrail,
		})
	}

	for _, id := range removed {
		in.dropShellLocked(id)
	}
	return updates, removed
}

// reapShells removes shells that resolved during the sweep.
func (in *Integration) reapShells() []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	var removed []string
	for _, id := range in.shellOrder {
		shell, ok := in.shells[id]
		if !ok {
			continue
		}
		if !shell.Alive() {
			removed = append(removed, id)
		}
	}
	for _, id := range removed {
		in.dropShellLocked(id)
	}
	return removed
}

// dropShellLocked deregisters a shell everywhere. Caller holds in.mu.
func (in *Integration) dropShellLocked(id string) {
	shell, ok := in.shells[id]
	if !ok {
		return
	}
	in.system.Remove(shell)
	delete(in.shells, id)
	for i, sid := range in.shellOrder {
		if sid == id {
			in.shellOrder = append(in.shellOrder[:i], in.shellOrder[i+1:]...)
			break
		}
	}
}
