package physics

import (
	"math"
	"testing"

	"tank-game/game"
	"tank-game/game/shared"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxShellAge = 10
	cfg.TrailLength = 4
	return cfg
}

type fakeReporter struct {
	hits      []game.HitData
	destroyed bool
}

func (f *fakeReporter) ProcessTankHit(hit game.HitData) (bool, error) {
	f.hits = append(f.hits, hit)
	return f.destroyed, nil
}

func newTestShell(cfg Config, owner shared.Collidable, reporter HitReporter) *Shell {
	return NewShell("shell_1", "p1", owner, game.Position{Y: 50}, game.Position{X: 1}, 1.0,
		cfg, NewEffectScheduler(), reporter)
}

func TestShellBallisticMotion(t *testing.T) {
	cfg := testConfig()
	cfg.MaxShellAge = 1000
	s := NewShell("s", "p1", nil, game.Position{Y: 100}, game.Position{X: 1}, 2.0,
		cfg, nil, nil)

	for i := 1; i <= 5; i++ {
		if !s.Advance() {
			t.Fatalf("shell died unexpectedly at tick %d", i)
		}
		wantVY := -cfg.Gravity * float64(i)
		if math.Abs(s.Velocity().Y-wantVY) > 1e-12 {
			t.Errorf("tick %d: vertical velocity = %v, want %v", i, s.Velocity().Y, wantVY)
		}
	}

	// Horizontal velocity is untouched by gravity.
	if s.Velocity().X != 2.0 {
		t.Errorf("horizontal velocity changed: %v", s.Velocity().X)
	}
	if s.Position().X != 10.0 {
		t.Errorf("position X = %v, want 10", s.Position().X)
	}
}

func TestShellLifetimeCap(t *testing.T) {
	cfg := testConfig()
	effects := NewEffectScheduler()
	// Fire straight up so the shell cannot hit the ground inside the cap.
	s := NewShell("s", "p1", nil, game.Position{Y: 1}, game.Position{Y: 1}, 10.0,
		cfg, effects, nil)

	for i := 1; i < cfg.MaxShellAge; i++ {
		if !s.Advance() {
			t.Fatalf("shell died early at tick %d", i)
		}
	}

	if s.Advance() {
		t.Fatal("shell should expire exactly at the lifetime cap")
	}
	if s.Alive() {
		t.Error("expired shell must not be alive")
	}
	if effects.Len() != 1 {
		t.Errorf("expected one expiry explosion, got %d tasks", effects.Len())
	}
	// A dead shell never advances again.
	if s.Advance() {
		t.Error("destroyed shell advanced")
	}
	if effects.Len() != 1 {
		t.Error("destroyed shell spawned another explosion")
	}
}

func TestShellGroundImpactInterpolation(t *testing.T) {
	cfg := testConfig()
	cfg.Gravity = 0
	effects := NewEffectScheduler()

	// Descending at 45 degrees from (0, 1, 0): crosses the ground at x=1.
	dir := game.Position{X: 1, Y: -1}
	s := NewShell("s", "p1", nil, game.Position{Y: 1}, dir, 2*math.Sqrt2,
		cfg, effects, nil)

	if s.Advance() {
		t.Fatal("shell should hit the ground on the first tick")
	}

	snaps := effects.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("expected one ground explosion, got %d", len(snaps))
	}
	impact := snaps[0].Position
	if math.Abs(impact.X-1.0) > 1e-9 || impact.Y != 0 {
		t.Errorf("impact at (%v, %v), want (1, 0)", impact.X, impact.Y)
	}
}

func TestShellTrailShift(t *testing.T) {
	cfg := testConfig()
	cfg.Gravity = 0
	cfg.MaxShellAge = 1000
	s := NewShell("s", "p1", nil, game.Position{Y: 10}, game.Position{X: 1}, 1.0,
		cfg, nil, nil)

	spawn := shared.Position{Y: 10}
	for _, p := range s.Trail() {
		if p != spawn {
			t.Fatalf("trail must start filled with spawn position, got %+v", p)
		}
	}

	s.Advance()
	s.Advance()

	trail := s.Trail()
	if len(trail) != cfg.TrailLength {
		t.Fatalf("trail length = %d, want %d", len(trail), cfg.TrailLength)
	}
	// Newest first: positions at x=2, x=1, then spawn padding.
	if trail[0].X != 2 || trail[1].X != 1 || trail[2] != spawn || trail[3] != spawn {
		t.Errorf("unexpected trail order: %+v", trail)
	}

	// The returned slice is a copy.
	trail[0].X = 999
	if s.Trail()[0].X == 999 {
		t.Error("Trail must return a copy")
	}
}

func TestShellResolvesAtMostOnce(t *testing.T) {
	cfg := testConfig()
	reporter := &fakeReporter{}
	effects := NewEffectScheduler()
	s := NewShell("s", "p1", nil, game.Position{Y: 2}, game.Position{X: 1}, 1.0,
		cfg, effects, reporter)

	tank := NewTankBody(game.PlayerState{ID: "t1", Health: 100}, 2.5)

	s.OnCollision(tank)
	s.OnCollision(tank)

	if len(reporter.hits) != 1 {
		t.Fatalf("expected exactly one hit report, got %d", len(reporter.hits))
	}
	if s.Alive() {
		t.Error("resolved shell must not be alive")
	}
	if effects.Len() != 1 {
		t.Errorf("expected one explosion, got %d", effects.Len())
	}
	if s.Trail() != nil && len(s.Trail()) != 0 {
		t.Error("resolved shell must release its trail")
	}
}

func TestShellIgnoresOwner(t *testing.T) {
	cfg := testConfig()
	reporter := &fakeReporter{}
	owner := NewTankBody(game.PlayerState{ID: "p1", Health: 100}, 2.5)
	s := newTestShell(cfg, owner, reporter)

	s.OnCollision(owner)

	if !s.Alive() {
		t.Error("shell must survive contact with its owner")
	}
	if len(reporter.hits) != 0 {
		t.Error("owner contact must not report a hit")
	}

	// A different tank with the same ID is still a hit; exclusion is by
	// identity, not ID.
	impostor := NewTankBody(game.PlayerState{ID: "p1", Health: 100}, 2.5)
	s.OnCollision(impostor)
	if s.Alive() {
		t.Error("shell must resolve against a distinct object")
	}
	if len(reporter.hits) != 1 {
		t.Errorf("expected one hit against impostor, got %d", len(reporter.hits))
	}
}

func TestShellHitReportsFixedDamage(t *testing.T) {
	cfg := testConfig()
	reporter := &fakeReporter{}
	s := newTestShell(cfg, nil, reporter)

	tank := NewTankBody(game.PlayerState{ID: "t1", Health: 100}, 2.5)
	s.OnCollision(tank)

	if len(reporter.hits) != 1 {
		t.Fatal("expected a hit report")
	}
	hit := reporter.hits[0]
	if hit.DamageAmount != cfg.ShellDamage {
		t.Errorf("damage = %d, want %d", hit.DamageAmount, cfg.ShellDamage)
	}
	if hit.TargetID != "t1" || hit.SourceID != "p1" {
		t.Errorf("hit attribution wrong: %+v", hit)
	}
}

func TestShellSceneryHitNoDamageReport(t *testing.T) {
	cfg := testConfig()
	reporter := &fakeReporter{}
	s := newTestShell(cfg, nil, reporter)

	tree := NewStaticCollider("tree-1", shared.KindTree, shared.Position{}, 1.0, nil)
	s.OnCollision(tree)

	if s.Alive() {
		t.Error("shell must detonate against scenery")
	}
	if len(reporter.hits) != 0 {
		t.Error("scenery hit must not report damage")
	}
}

func TestHitLocationClassification(t *testing.T) {
	tank := shared.Position{}
	cases := []struct {
		y    float64
		want string
	}{
		{1.5, "turret"},
		{1.0, "body"},
		{0.2, "tracks"},
	}
	for _, tc := range cases {
		if got := hitLocation(shared.Position{Y: tc.y}, tank); got != tc.want {
			t.Errorf("hitLocation at height %v = %q, want %q", tc.y, got, tc.want)
		}
	}
}

func TestShellDirectionNormalized(t *testing.T) {
	cfg := testConfig()
	s := NewShell("s", "p1", nil, game.Position{Y: 5}, game.Position{X: 3, Y: 4}, 10.0,
		cfg, nil, nil)

	d := s.Direction()
	norm := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	if math.Abs(norm-1.0) > 1e-12 {
		t.Errorf("direction norm = %v, want 1", norm)
	}
	// Speed scales the normalized direction.
	if math.Abs(s.Velocity().X-6.0) > 1e-9 || math.Abs(s.Velocity().Y-8.0) > 1e-9 {
		t.Errorf("velocity = %+v, want (6, 8, 0)", s.Velocity())
	}
}
