package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tank-game/game/shared"
)

// MovementPattern selects an NPC driving behavior.
type MovementPattern string

const (
	CircleMovement MovementPattern = "circle"
	ZigzagMovement MovementPattern = "zigzag"
	PatrolMovement MovementPattern = "patrol"
	RandomMovement MovementPattern = "random"
)

const (
	npcScanRadius = 250.0
	npcFireRange  = 200.0
	npcMapBound   = 250.0
)

// NPCTank is one computer-controlled tank.
type NPCTank struct {
	ID              string
	Name            string
	State           PlayerState
	MovementPattern MovementPattern
	TargetID        string
	PatrolPoints    []Position
	CurrentPoint    int
	LastUpdate      time.Time
	LastFire        time.Time
	FireCooldown    time.Duration
	IsActive        bool
}

// NPCController drives a set of NPC tanks against the game manager. The
// physics query is used to validate spawn points and to hold fire when
// scenery blocks the shot.
type NPCController struct {
	manager *Manager
	physics shared.PhysicsQuery
	npcs    map[string]*NPCTank
	mutex   sync.RWMutex
	running bool
	cancel  context.CancelFunc
}

// NewNPCController creates an NPC controller. physics may be nil, in which
// case spawn and line-of-sight checks are skipped.
func NewNPCController(manager *Manager, physics shared.PhysicsQuery) *NPCController {
	return &NPCController{
		manager: manager,
		physics: physics,
		npcs:    make(map[string]*NPCTank),
	}
}

// Start begins the NPC simulation loop.
func (c *NPCController) Start(ctx context.Context) {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		return
	}
	c.running = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mutex.Unlock()

	go c.runSimulation(ctx)
	log.Info("NPC controller started")
}

// Stop halts the NPC simulation.
func (c *NPCController) Stop() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.cancel()
	log.Info("NPC controller stopped")
}

// SpawnNPC creates and registers a new NPC tank. Spawn positions that land
// inside scenery are re-rolled.
func (c *NPCController) SpawnNPC(name string, pattern MovementPattern) *NPCTank {
	npcID := fmt.Sprintf("npc_%s_%d", name, time.Now().UnixNano())
	pos := c.pickSpawnPosition()

	state := PlayerState{
		ID:             npcID,
		Name:           "NPC-" + name,
		Position:       pos,
		TankRotation:   rand.Float64() * 2 * math.Pi,
		TurretRotation: rand.Float64() * 2 * math.Pi,
		Health:         100,
		IsMoving:       true,
		Velocity:       1.5,
		Timestamp:      time.Now().UnixMilli(),
		IsDestroyed:    false,
	}

	var patrolPoints []Position
	if pattern == PatrolMovement {
		size := 50.0 + rand.Float64()*50.0
		patrolPoints = []Position{
			{X: pos.X + size, Z: pos.Z + size},
			{X: pos.X + size, Z: pos.Z - size},
			{X: pos.X - size, Z: pos.Z - size},
			{X: pos.X - size, Z: pos.Z + size},
		}
	}

	npc := &NPCTank{
		ID:              npcID,
		Name:            "NPC-" + name,
		State:           state,
		MovementPattern: pattern,
		PatrolPoints:    patrolPoints,
		LastUpdate:      time.Now(),
		LastFire:        time.Now(),
		FireCooldown:    time.Duration(1+rand.Float64()*2) * time.Second,
		IsActive:        true,
	}

	c.mutex.Lock()
	c.npcs[npcID] = npc
	c.mutex.Unlock()

	if err := c.manager.UpdatePlayer(state, npcID, npc.Name); err != nil {
		log.Error("Registering NPC tank", "npc", npcID, "err", err)
	}

	log.Info("Spawned NPC tank", "npc", npcID, "pattern", pattern, "x", pos.X, "z", pos.Z)
	return npc
}

// pickSpawnPosition rolls spawn positions until one is clear of scenery.
func (c *NPCController) pickSpawnPosition() Position {
	for attempt := 0; attempt < 10; attempt++ {
		pos := Position{
			X: -200.0 + rand.Float64()*400.0,
			Z: -200.0 + rand.Float64()*400.0,
		}
		if c.physics == nil {
			return pos
		}
		point := shared.Position{X: pos.X, Y: 1.0, Z: pos.Z}
		if c.physics.CheckPointCollision(point, nil) == nil {
			return pos
		}
	}
	return Position{}
}

func (c *NPCController) runSimulation(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.updateNPCs()
		}
	}
}

// updateNPCs runs one decision step for every active NPC. Manager calls are
// made outside the controller lock.
func (c *NPCController) updateNPCs() {
	gameState := c.manager.GetState()

	type pendingFire struct {
		npcID string
		data  ShellData
	}
	var updates []PlayerState
	var fires []pendingFire
	var respawns []RespawnData

	c.mutex.Lock()
	for _, npc := range c.npcs {
		if !npc.IsActive {
			continue
		}

		if serverState, exists := gameState.Players[npc.ID]; exists {
			npc.State.Health = serverState.Health
			npc.State.IsDestroyed = serverState.IsDestroyed

			dx := npc.State.Position.X - serverState.Position.X
			dz := npc.State.Position.Z - serverState.Position.Z
			if math.Sqrt(dx*dx+dz*dz) > 5.0 {
				npc.State.Position = serverState.Position
			}
		}

		if npc.State.IsDestroyed {
			if time.Since(npc.LastUpdate) > 5*time.Second {
				respawns = append(respawns, RespawnData{PlayerID: npc.ID})
				npc.State.IsDestroyed = false
				npc.State.Health = 100
				npc.LastUpdate = time.Now()
			}
			continue
		}

		state := npc.State
		c.updateMovement(npc, &state)
		if shell, ok := c.updateAiming(npc, &state, gameState); ok {
			fires = append(fires, pendingFire{npcID: npc.ID, data: shell})
			npc.LastFire = time.Now()
		}
		state.Timestamp = time.Now().UnixMilli()
		npc.State = state
		npc.LastUpdate = time.Now()

		updates = append(updates, state)
	}
	c.mutex.Unlock()

	for _, r := range respawns {
		if err := c.manager.RespawnTank(r); err != nil {
			log.Error("Respawning NPC", "npc", r.PlayerID, "err", err)
		}
	}
	for _, u := range updates {
		if err := c.manager.UpdatePlayer(u, u.ID, u.Name); err != nil {
			log.Error("Updating NPC state", "npc", u.ID, "err", err)
		}
	}
	for _, f := range fires {
		if _, err := c.manager.FireShell(f.data, f.npcID); err != nil {
			log.Debug("NPC shell rejected", "npc", f.npcID, "err", err)
		}
	}
}

func (c *NPCController) updateMovement(npc *NPCTank, state *PlayerState) {
	switch npc.MovementPattern {
	case CircleMovement:
		state.TankRotation = normalizeAngle(state.TankRotation + 0.02)
		driveForward(state, 2.0)
	case ZigzagMovement:
		now := float64(time.Now().UnixNano()) / 1e9
		state.TankRotation += math.Sin(now*2.0) * 0.1
		driveForward(state, 2.0)
	case PatrolMovement:
		c.moveInPatrol(npc, state)
	default:
		c.moveRandomly(state)
	}
}

func driveForward(state *PlayerState, speed float64) {
	state.IsMoving = true
	state.Velocity = speed
	state.Position.X += math.Cos(state.TankRotation) * speed
	state.Position.Z += math.Sin(state.TankRotation) * speed
}

func (c *NPCController) moveInPatrol(npc *NPCTank, state *PlayerState) {
	if len(npc.PatrolPoints) == 0 {
		driveForward(state, 1.0)
		return
	}

	target := npc.PatrolPoints[npc.CurrentPoint]
	dx := target.X - state.Position.X
	dz := target.Z - state.Position.Z
	if math.Sqrt(dx*dx+dz*dz) < 5.0 {
		npc.CurrentPoint = (npc.CurrentPoint + 1) % len(npc.PatrolPoints)
	}

	targetAngle := math.Atan2(dz, dx)
	angleDiff := normalizeAngle(targetAngle - state.TankRotation)
	if math.Abs(angleDiff) > 0.05 {
		if angleDiff > 0 {
			state.TankRotation += 0.05
		} else {
			state.TankRotation -= 0.05
		}
	} else {
		state.TankRotation = targetAngle
	}

	driveForward(state, 2.0)
}

func (c *NPCController) moveRandomly(state *PlayerState) {
	if rand.Float64() < 0.2 {
		state.TankRotation = normalizeAngle(state.TankRotation + (rand.Float64()-0.5)*math.Pi/2)
	}
	driveForward(state, 2.0)

	// Steer back toward the center when drifting off the playable area.
	distFromCenter := math.Sqrt(state.Position.X*state.Position.X + state.Position.Z*state.Position.Z)
	if distFromCenter > npcMapBound {
		state.TankRotation = math.Atan2(-state.Position.Z, -state.Position.X)
	}
}

// updateAiming points the turret at the nearest player and decides whether
// to fire. Shots blocked by scenery are held.
func (c *NPCController) updateAiming(npc *NPCTank, state *PlayerState, gameState GameState) (ShellData, bool) {
	var nearest *PlayerState
	nearestDist := npcScanRadius

	for playerID, player := range gameState.Players {
		if playerID == npc.ID || player.IsDestroyed || strings.HasPrefix(playerID, "npc_") {
			continue
		}
		dx := player.Position.X - state.Position.X
		dz := player.Position.Z - state.Position.Z
		dist := math.Sqrt(dx*dx + dz*dz)
		if dist < nearestDist {
			p := player
			nearest = &p
			nearestDist = dist
			npc.TargetID = playerID
		}
	}

	if nearest == nil {
		state.TurretRotation = state.TankRotation
		return ShellData{}, false
	}

	dx := nearest.Position.X - state.Position.X
	dz := nearest.Position.Z - state.Position.Z
	targetAngle := math.Atan2(dz, dx)

	// Imprecise aim keeps NPCs beatable.
	state.TurretRotation = targetAngle + (rand.Float64()-0.5)*0.3
	state.BarrelElevation = 0.2

	if time.Since(npc.LastFire) < npc.FireCooldown || nearestDist >= npcFireRange {
		return ShellData{}, false
	}

	if c.physics != nil {
		from := shared.Position{X: state.Position.X, Y: 1.0, Z: state.Position.Z}
		to := shared.Position{X: nearest.Position.X, Y: 1.0, Z: nearest.Position.Z}
		if !c.physics.CheckLineOfSight(from, to) {
			return ShellData{}, false
		}
	}

	return ShellData{
		Position: state.Position,
		Direction: Position{
			X: math.Cos(state.TurretRotation),
			Y: math.Sin(state.BarrelElevation),
			Z: math.Sin(state.TurretRotation),
		},
		Speed: 5.0,
	}, true
}

// GetActiveNPCs returns the IDs of active NPC tanks.
func (c *NPCController) GetActiveNPCs() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var ids []string
	for id, npc := range c.npcs {
		if npc.IsActive {
			ids = append(ids, id)
		}
	}
	return ids
}

// RemoveNPC deactivates an NPC tank.
func (c *NPCController) RemoveNPC(id string) {
	c.mutex.Lock()
	if npc, exists := c.npcs[id]; exists {
		npc.IsActive = false
	}
	c.mutex.Unlock()
}

// normalizeAngle wraps an angle into [-pi, pi].
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}
