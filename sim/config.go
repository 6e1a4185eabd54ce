package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plus3/skirmish/display"
)

// Display characters per lifecycle/role tag.
const (
	CharSpawn   = '_'
	CharDead    = 'x'
	CharNPC     = 'p'
	CharHero    = 'h'
	CharMonster = 'm'
)

// Config holds the simulation parameters. The defaults are deterministic;
// two worlds built from equal configs and entity counts produce identical
// runs.
type Config struct {
	// Field dimensions units are clamped to.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Master seed all per-unit seeds derive from.
	Seed uint32 `yaml:"seed"`

	// Ticks between a unit's death and its respawn.
	RespawnDelay uint32 `yaml:"respawn_delay"`

	// Distance an in-flight strike covers per tick.
	AttackSpeed float32 `yaml:"attack_speed"`

	// Distance a unit covers per tick. Zero pins all units in place.
	UnitSpeed float32 `yaml:"unit_speed"`

	// Stat ranges used by the spawn stage.
	BaseHealth   int32  `yaml:"base_health"`
	HealthSpread uint32 `yaml:"health_spread"`
	MaxAttack    uint32 `yaml:"max_attack"`
	MaxDefence   uint32 `yaml:"max_defence"`
	MaxCooldown  uint32 `yaml:"max_cooldown"`
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() *Config {
	return &Config{
		Width:        80,
		Height:       24,
		Seed:         0x5eedc0de,
		RespawnDelay: 10,
		AttackSpeed:  2,
		UnitSpeed:    0.5,
		BaseHealth:   15,
		HealthSpread: 10,
		MaxAttack:    6,
		MaxDefence:   3,
		MaxCooldown:  8,
	}
}

// LoadConfig reads a yaml parameter file over the defaults, so partial files
// only override the keys they name.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("field dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.AttackSpeed <= 0 {
		return fmt.Errorf("attack_speed must be positive, got %v", c.AttackSpeed)
	}
	if c.MaxCooldown == 0 {
		return fmt.Errorf("max_cooldown must be at least 1")
	}
	return nil
}

// Params is the config singleton systems read their parameters from.
type Params struct {
	Config
}

// Canvas is the singleton carrying the render target.
type Canvas struct {
	Surface display.Surface
}
