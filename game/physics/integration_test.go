package physics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"tank-game/game"
)

// memStore is an in-memory game.StateStore for integration tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memStore) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &memEntry{key: key, value: val}, nil
}

func (s *memStore) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return 1, nil
}

func (s *memStore) Watch(ctx context.Context, keys string, opts ...jetstream.WatchOpt) (jetstream.KeyWatcher, error) {
	return nil, context.Canceled
}

type memEntry struct {
	key   string
	value []byte
}

func (e *memEntry) Bucket() string                  { return "gamestate" }
func (e *memEntry) Key() string                     { return e.key }
func (e *memEntry) Value() []byte                   { return e.value }
func (e *memEntry) Revision() uint64                { return 1 }
func (e *memEntry) Created() time.Time              { return time.Time{} }
func (e *memEntry) Delta() uint64                   { return 0 }
func (e *memEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

func newIntegrationFixture(t *testing.T, cfg Config) (*Integration, *game.Manager) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mgr, err := game.NewManager(ctx, &memStore{data: make(map[string][]byte)}, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	in := NewIntegration(cfg, mgr, NewCollisionSystem(), NewEffectScheduler())
	return in, mgr
}

// placePlayer joins a player and then pins it to an exact position, since the
// initial join assigns a random spawn.
func placePlayer(t *testing.T, mgr *game.Manager, id string, pos game.Position) {
	t.Helper()
	now := time.Now().UnixMilli()
	if err := mgr.UpdatePlayer(game.PlayerState{Timestamp: now}, id, id); err != nil {
		t.Fatal(err)
	}
	if err := mgr.UpdatePlayer(game.PlayerState{Position: pos, Timestamp: now}, id, id); err != nil {
		t.Fatal(err)
	}
}

func TestTickResolvesShellHit(t *testing.T) {
	cfg := DefaultConfig()
	in, mgr := newIntegrationFixture(t, cfg)

	placePlayer(t, mgr, "shooter", game.Position{})
	placePlayer(t, mgr, "target", game.Position{X: 10})

	_, err := mgr.FireShell(game.ShellData{
		Position:  game.Position{X: 6, Y: 1},
		Direction: game.Position{X: 1},
		Speed:     1.0,
	}, "shooter")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		in.Tick()
		if len(mgr.GetState().Shells) == 0 {
			break
		}
	}

	target := mgr.GetState().Players["target"]
	if target.Health != 100-cfg.ShellDamage {
		t.Errorf("target health = %d, want %d", target.Health, 100-cfg.ShellDamage)
	}
	if shooter := mgr.GetState().Players["shooter"]; shooter.Health != 100 {
		t.Errorf("shooter took damage: %d", shooter.Health)
	}
	if n := len(mgr.GetState().Shells); n != 0 {
		t.Errorf("resolved shell still in state: %d shells", n)
	}
	// Registry is back to the two tank bodies.
	if n := in.System().Len(); n != 2 {
		t.Errorf("registry length = %d, want 2", n)
	}
	if in.Effects().Len() == 0 {
		t.Error("hit spawned no explosion")
	}
}

func TestTickExpiresShell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxShellAge = 3
	in, mgr := newIntegrationFixture(t, cfg)

	// Fired straight up with nothing to hit.
	if _, err := mgr.FireShell(game.ShellData{
		Position:  game.Position{Y: 1},
		Direction: game.Position{Y: 1},
		Speed:     5.0,
	}, "shooter"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < cfg.MaxShellAge; i++ {
		in.Tick()
	}

	if n := len(mgr.GetState().Shells); n != 0 {
		t.Errorf("expired shell still in state: %d shells", n)
	}
	if n := in.System().Len(); n != 0 {
		t.Errorf("registry length = %d, want 0", n)
	}
}

func TestTickWritesShellMotionBack(t *testing.T) {
	cfg := DefaultConfig()
	in, mgr := newIntegrationFixture(t, cfg)

	fired, err := mgr.FireShell(game.ShellData{
		Position:  game.Position{Y: 50},
		Direction: game.Position{X: 1},
		Speed:     2.0,
	}, "shooter")
	if err != nil {
		t.Fatal(err)
	}

	in.Tick()
	in.Tick()

	shells := mgr.GetState().Shells
	if len(shells) != 1 {
		t.Fatalf("shell count = %d, want 1", len(shells))
	}
	s := shells[0]
	if s.ID != fired.ID {
		t.Fatalf("unexpected shell %q", s.ID)
	}
	if s.Position.X != 4.0 {
		t.Errorf("position X = %v, want 4 after two ticks at speed 2", s.Position.X)
	}
	if len(s.Trail) != cfg.TrailLength {
		t.Errorf("trail length = %d, want %d", len(s.Trail), cfg.TrailLength)
	}
	if s.Trail[0] != s.Position {
		t.Errorf("newest trail slot %+v != position %+v", s.Trail[0], s.Position)
	}
}

func TestTickSyncsDestroyedTanksOut(t *testing.T) {
	cfg := DefaultConfig()
	in, mgr := newIntegrationFixture(t, cfg)

	placePlayer(t, mgr, "p1", game.Position{})
	in.Tick()
	if n := in.System().Len(); n != 1 {
		t.Fatalf("registry length = %d, want 1", n)
	}

	if _, err := mgr.ProcessTankHit(game.HitData{
		TargetID: "p1", SourceID: "x", DamageAmount: 100,
	}); err != nil {
		t.Fatal(err)
	}
	in.Tick()

	if n := in.System().Len(); n != 0 {
		t.Errorf("destroyed tank still registered: %d entities", n)
	}
}
