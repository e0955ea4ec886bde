package physics

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable constants of the collision and projectile core.
// All values have compiled-in defaults; a YAML file can override them.
type Config struct {
	// Gravity is the per-tick decrease of a shell's vertical velocity.
	Gravity float64 `yaml:"gravity"`

	// MaxShellAge is the shell lifetime cap in ticks. A shell that never
	// hits anything is destroyed exactly when its age reaches this value.
	MaxShellAge int `yaml:"maxShellAge"`

	// ShellRadius is the collision sphere radius of every shell.
	ShellRadius float64 `yaml:"shellRadius"`

	// TankRadius is the collision sphere radius of a tank body.
	TankRadius float64 `yaml:"tankRadius"`

	// TrailLength is the number of trail slots kept per shell.
	TrailLength int `yaml:"trailLength"`

	// ShellDamage is the fixed damage applied per confirmed tank hit.
	// Four hits destroy a full-health tank.
	ShellDamage int `yaml:"shellDamage"`

	// ExplosionFrames is the frame budget of an explosion effect.
	ExplosionFrames int `yaml:"explosionFrames"`

	// ExplosionParticles is the particle count per explosion.
	ExplosionParticles int `yaml:"explosionParticles"`

	// TickInterval is the wall-clock duration of one simulation tick.
	TickInterval time.Duration `yaml:"tickInterval"`
}

// DefaultConfig returns the shipped tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:            0.01,
		MaxShellAge:        200, // 20s at the 100ms tick
		ShellRadius:        0.25,
		TankRadius:         2.5,
		TrailLength:        10,
		ShellDamage:        25,
		ExplosionFrames:    20,
		ExplosionParticles: 16,
		TickInterval:       100 * time.Millisecond,
	}
}

// LoadConfig reads a YAML tuning file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading physics config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing physics config: %w", err)
	}
	return cfg, nil
}
