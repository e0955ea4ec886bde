package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go/jetstream"
)

// stateKey is the single KV key holding the serialized game state.
const stateKey = "current"

// eventSubjectPrefix is prepended to the lowercased event type to form the
// NATS subject, e.g. game.events.tank_hit.
const eventSubjectPrefix = "game.events."

// Player colors cycled by ID hash for consistent identification.
var playerColors = []string{
	"#4a7c59", // Green (default)
	"#f44336", // Red
	"#2196f3", // Blue
	"#ff9800", // Orange
	"#9c27b0", // Purple
	"#ffeb3b", // Yellow
}

// StateStore is the subset of the JetStream KV bucket the manager uses.
// jetstream.KeyValue satisfies it; tests substitute an in-memory fake.
type StateStore interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Watch(ctx context.Context, keys string, opts ...jetstream.WatchOpt) (jetstream.KeyWatcher, error)
}

// EventPublisher publishes game events to interested subscribers.
// *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// Manager owns the authoritative game state. All damage, spawning and shell
// bookkeeping flow through it; the physics loop reads state snapshots and
// reports results back.
type Manager struct {
	state              GameState
	mutex              sync.RWMutex
	kv                 StateStore
	events             EventPublisher
	ctx                context.Context
	shellIDCounter     int
	getTime            TimeStamper
	lastPlayerFireTime map[string]int64
	fireCooldownMs     int64
}

// NewManager creates a game manager backed by the given KV store. The events
// publisher may be nil, in which case event publication is skipped.
func NewManager(ctx context.Context, kv StateStore, events EventPublisher) (*Manager, error) {
	m := &Manager{
		state: GameState{
			Players: make(map[string]PlayerState),
			Shells:  []ShellState{},
		},
		kv:                 kv,
		events:             events,
		ctx:                ctx,
		getTime:            DefaultTimeStamper,
		lastPlayerFireTime: make(map[string]int64),
		fireCooldownMs:     500,
	}

	// Restore a previous session's state if the bucket has one.
	if err := m.loadState(); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		log.Warn("Restoring saved game state", "err", err)
	}

	if err := m.saveState(); err != nil {
		return nil, fmt.Errorf("saving initial game state: %w", err)
	}

	log.Info("Game manager initialized")

	go m.runStateCleanup(ctx)

	return m, nil
}

// GetState returns a deep copy of the current game state.
func (m *Manager) GetState() GameState {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.copyStateLocked()
}

// copyStateLocked deep-copies the state. Caller holds at least a read lock.
func (m *Manager) copyStateLocked() GameState {
	stateCopy := GameState{
		Players: make(map[string]PlayerState, len(m.state.Players)),
		Shells:  make([]ShellState, len(m.state.Shells)),
	}
	for id, player := range m.state.Players {
		stateCopy.Players[id] = player
	}
	copy(stateCopy.Shells, m.state.Shells)
	return stateCopy
}

// UpdatePlayer merges a player state update into the game state. New players
// get a spawn position and full health; existing players keep server-owned
// fields the client may not overwrite.
func (m *Manager) UpdatePlayer(update PlayerState, playerID, playerName string) error {
	update.ID = playerID
	update.Name = playerName
	update.Color = m.getPlayerColor(playerID)

	m.mutex.RLock()
	current, exists := m.state.Players[playerID]
	m.mutex.RUnlock()

	if !exists {
		update.Position = m.randomSpawnPosition()
		update.Health = 100
		update.IsDestroyed = false
		update.Status = StatusReady
		update.Kills = 0
		update.Deaths = 0
		log.Info("New player joined", "player", playerID, "x", update.Position.X, "z", update.Position.Z)
	} else {
		if update.Health == 0 {
			update.Health = current.Health
		}
		if current.IsDestroyed {
			update.IsDestroyed = true
		}
		if update.Status == "" {
			update.Status = current.Status
		}
		update.Kills = current.Kills
		update.Deaths = current.Deaths
	}

	m.mutex.Lock()
	m.state.Players[playerID] = update
	m.mutex.Unlock()

	if err := m.saveState(); err != nil {
		log.Error("Saving game state after player update", "err", err)
	}

	return nil
}

// FireShell adds a new shell to the game state. Requests inside the per
// player cooldown window are rejected.
func (m *Manager) FireShell(shellData ShellData, playerID string) (ShellState, error) {
	currentTime := m.getTime()

	m.mutex.Lock()
	if last, ok := m.lastPlayerFireTime[playerID]; ok && currentTime-last < m.fireCooldownMs {
		m.mutex.Unlock()
		return ShellState{}, fmt.Errorf("firing too rapidly, wait %dms between shots", m.fireCooldownMs)
	}
	m.lastPlayerFireTime[playerID] = currentTime

	m.shellIDCounter++
	newShell := ShellState{
		ID:        fmt.Sprintf("shell_%d", m.shellIDCounter),
		PlayerID:  playerID,
		Position:  shellData.Position,
		Direction: shellData.Direction,
		Speed:     shellData.Speed,
		Timestamp: currentTime,
	}
	m.state.Shells = append(m.state.Shells, newShell)

	// Cap shell count to bound memory and physics work.
	if len(m.state.Shells) > 100 {
		m.state.Shells = m.state.Shells[len(m.state.Shells)-100:]
	}
	m.mutex.Unlock()

	if err := m.saveState(); err != nil {
		log.Error("Saving game state after shell fired", "err", err)
	}

	m.publishEvent(EventShellFired, playerID, newShell)

	log.Debug("Shell fired", "shell", newShell.ID, "player", playerID)
	return newShell, nil
}

// ProcessTankHit applies shell damage to the target tank. Returns true when
// the hit destroyed the target. Hits against already destroyed tanks are
// ignored.
func (m *Manager) ProcessTankHit(hit HitData) (bool, error) {
	if hit.Timestamp == 0 {
		hit.Timestamp = m.getTime()
	}

	destroyed := false

	m.mutex.Lock()
	target, exists := m.state.Players[hit.TargetID]
	if !exists {
		m.mutex.Unlock()
		return false, fmt.Errorf("hit target %s not found", hit.TargetID)
	}
	if target.IsDestroyed {
		m.mutex.Unlock()
		log.Debug("Ignoring hit on destroyed tank", "target", hit.TargetID)
		return false, nil
	}

	target.Health -= hit.DamageAmount
	log.Info("Tank hit", "target", hit.TargetID, "source", hit.SourceID,
		"location", hit.HitLocation, "damage", hit.DamageAmount, "health", target.Health)

	if target.Health <= 0 {
		target.Health = 0
		target.IsDestroyed = true
		target.Status = StatusDestroyed
		target.Deaths++
		target.LastKilledBy = hit.SourceID
		target.LastDeathTime = m.getTime()
		destroyed = true

		killerName := "Unknown"
		if source, ok := m.state.Players[hit.SourceID]; ok {
			source.Kills++
			m.state.Players[hit.SourceID] = source
			killerName = source.Name
		}
		target.Notification = fmt.Sprintf("%s destroyed %s", killerName, target.Name)
		log.Info("Tank destroyed", "target", hit.TargetID, "source", hit.SourceID)
	}

	m.state.Players[hit.TargetID] = target
	m.mutex.Unlock()

	if err := m.saveState(); err != nil {
		log.Error("Saving game state after tank hit", "err", err)
		return destroyed, err
	}

	m.publishEvent(EventTankHit, hit.SourceID, hit)
	if destroyed {
		m.publishEvent(EventTankDeath, hit.SourceID, DeathData{
			TargetID: hit.TargetID,
			SourceID: hit.SourceID,
		})
	}

	return destroyed, nil
}

// RespawnTank resets a destroyed tank to full health at a fresh spawn
// position. Unknown players are created on the spot so reconnecting clients
// can respawn directly.
func (m *Manager) RespawnTank(respawnData RespawnData) error {
	playerID := respawnData.PlayerID

	m.mutex.Lock()
	player, exists := m.state.Players[playerID]
	if !exists {
		player = PlayerState{
			ID:   playerID,
			Name: playerID,
		}
	}

	player.Health = 100
	player.IsDestroyed = false
	player.Status = StatusActive
	player.IsMoving = false
	player.Velocity = 0
	player.TurretRotation = player.TankRotation
	player.Color = m.getPlayerColor(playerID)
	player.Notification = ""
	player.Timestamp = m.getTime()
	player.Position = m.randomSpawnPosition()

	m.state.Players[playerID] = player
	m.mutex.Unlock()

	if err := m.saveState(); err != nil {
		log.Error("Saving game state after respawn", "err", err)
		return err
	}

	m.publishEvent(EventTankRespawn, playerID, RespawnData{
		PlayerID: playerID,
		Position: player.Position,
	})

	log.Info("Tank respawned", "player", playerID,
		"x", player.Position.X, "z", player.Position.Z)
	return nil
}

// ApplyShellUpdates writes physics results back into the game state: moved
// shell positions and trails for live shells, removal of resolved ones.
func (m *Manager) ApplyShellUpdates(updates []ShellState, removedIDs []string) error {
	m.mutex.Lock()

	byID := make(map[string]ShellState, len(updates))
	for _, s := range updates {
		byID[s.ID] = s
	}
	removeMap := make(map[string]bool, len(removedIDs))
	for _, id := range removedIDs {
		removeMap[id] = true
	}

	remaining := m.state.Shells[:0]
	for _, shell := range m.state.Shells {
		if removeMap[shell.ID] {
			continue
		}
		if updated, ok := byID[shell.ID]; ok {
			shell.Position = updated.Position
			shell.Trail = updated.Trail
		}
		remaining = append(remaining, shell)
	}
	m.state.Shells = remaining
	m.mutex.Unlock()

	return m.saveState()
}

// RemoveShells removes the given shells from the game state.
func (m *Manager) RemoveShells(shellIDs []string) error {
	if len(shellIDs) == 0 {
		return nil
	}
	return m.ApplyShellUpdates(nil, shellIDs)
}

// RemovePlayer removes a player by ID from the game state.
func (m *Manager) RemovePlayer(playerID string) error {
	if playerID == "" {
		return fmt.Errorf("playerID cannot be empty")
	}

	m.mutex.Lock()
	if _, exists := m.state.Players[playerID]; !exists {
		m.mutex.Unlock()
		return fmt.Errorf("player %s not found", playerID)
	}
	delete(m.state.Players, playerID)
	delete(m.lastPlayerFireTime, playerID)
	m.mutex.Unlock()

	log.Info("Player removed", "player", playerID)

	if err := m.saveState(); err != nil {
		log.Error("Saving game state after player removal", "err", err)
		return err
	}
	return nil
}

// WatchState creates a KV watcher for game state changes. The caller reads
// from its Updates() channel.
func (m *Manager) WatchState(ctx context.Context) (jetstream.KeyWatcher, error) {
	watcher, err := m.kv.Watch(ctx, stateKey, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("creating KV watcher: %w", err)
	}
	return watcher, nil
}

func (m *Manager) getPlayerColor(id string) string {
	var sum int
	for _, char := range id {
		sum += int(char)
	}
	return playerColors[sum%len(playerColors)]
}

// randomSpawnPosition picks a position on the 5000x5000 map.
func (m *Manager) randomSpawnPosition() Position {
	return Position{
		X: -2500.0 + rand.Float64()*5000.0,
		Y: 0,
		Z: -2500.0 + rand.Float64()*5000.0,
	}
}

func (m *Manager) publishEvent(eventType EventType, playerID string, data interface{}) {
	if m.events == nil {
		return
	}
	event := GameEvent{
		Type:      eventType,
		Data:      data,
		PlayerID:  playerID,
		Timestamp: m.getTime(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Marshaling game event", "type", eventType, "err", err)
		return
	}
	subject := eventSubjectPrefix + string(eventType)
	if err := m.events.Publish(subject, payload); err != nil {
		log.Error("Publishing game event", "subject", subject, "err", err)
	}
}

// loadState restores game state from the KV store.
func (m *Manager) loadState() error {
	entry, err := m.kv.Get(m.ctx, stateKey)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := json.Unmarshal(entry.Value(), &m.state); err != nil {
		return err
	}
	if m.state.Players == nil {
		m.state.Players = make(map[string]PlayerState)
	}

	log.Info("Loaded game state", "players", len(m.state.Players), "shells", len(m.state.Shells))
	return nil
}

// saveState persists a snapshot of the game state to the KV store. The KV
// write happens outside the lock.
func (m *Manager) saveState() error {
	m.mutex.RLock()
	stateCopy := m.copyStateLocked()
	m.mutex.RUnlock()

	stateJSON, err := json.Marshal(stateCopy)
	if err != nil {
		return fmt.Errorf("marshaling game state: %w", err)
	}

	if _, err := m.kv.Put(m.ctx, stateKey, stateJSON); err != nil {
		return fmt.Errorf("saving game state to KV: %w", err)
	}
	return nil
}

// runStateCleanup periodically prunes inactive players and stale shells.
func (m *Manager) runStateCleanup(ctx context.Context) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cleanupGameState()
			if err := m.saveState(); err != nil {
				log.Error("Saving game state during cleanup", "err", err)
			}
		}
	}
}

// cleanupGameState removes players that stopped sending updates, fixes
// inconsistent destroyed flags, auto-respawns tanks five seconds after death
// and drops shells whose state is stale.
func (m *Manager) cleanupGameState() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.getTime()

	for id, player := range m.state.Players {
		if now-player.Timestamp > 10000 {
			log.Info("Removing inactive player", "player", id)
			delete(m.state.Players, id)
			delete(m.lastPlayerFireTime, id)
			continue
		}

		if player.IsDestroyed && player.Health > 0 {
			player.IsDestroyed = false
			player.Status = StatusActive
			m.state.Players[id] = player
			continue
		}

		if player.IsDestroyed && player.Status == StatusDestroyed &&
			player.LastDeathTime > 0 && now-player.LastDeathTime >= 5000 {
			player.Health = 100
			player.IsDestroyed = false
			player.Status = StatusActive
			player.Position = m.randomSpawnPosition()
			player.IsMoving = false
			player.Velocity = 0
			player.Notification = ""
			player.Timestamp = now
			m.state.Players[id] = player
			log.Info("Auto-respawned player", "player", id,
				"x", player.Position.X, "z", player.Position.Z)
		}
	}

	// Shells older than 5 seconds indicate the physics loop dropped them.
	var activeShells []ShellState
	for _, shell := range m.state.Shells {
		if now-shell.Timestamp < 5000 {
			activeShells = append(activeShells, shell)
		}
	}
	if len(activeShells) > 50 {
		activeShells = activeShells[len(activeShells)-50:]
	}
	m.state.Shells = activeShells
}
