package sim

import "github.com/plus3/skirmish/mathx"

// draw advances the unit's RNG cursor and returns the next value of its
// counter-based sequence.
func (u *Unit) draw() uint32 {
	v := mathx.Hash(u.Seed, u.Counter)
	u.Counter++
	return v
}

// rollRange draws a value in [lo, lo+spread).
func (u *Unit) rollRange(lo, spread uint32) uint32 {
	if spread == 0 {
		return lo
	}
	return lo + u.draw()%spread
}

// rollUnit derives a freshly spawning unit's role and initial components from
// its RNG state. Every call advances Unit.Counter, so respawned units roll
// differently from their previous lives.
func rollUnit(u *Unit, cfg *Config) (role any, health Health, damage Damage, sprite Sprite, pos Position, vel Velocity) {
	switch u.draw() % 3 {
	case 0:
		role = NPC{}
	case 1:
		role = Hero{}
	default:
		role = Monster{}
	}

	health = Health{HP: cfg.BaseHealth + int32(u.rollRange(0, cfg.HealthSpread))}
	damage = Damage{
		Attack:   int32(u.rollRange(1, cfg.MaxAttack)),
		Defence:  int32(u.rollRange(0, cfg.MaxDefence)),
		Cooldown: u.rollRange(1, cfg.MaxCooldown),
	}
	sprite = Sprite{Char: CharSpawn}
	pos = Position{
		X: float32(u.draw() % uint32(cfg.Width)),
		Y: float32(u.draw() % uint32(cfg.Height)),
	}
	vel = Velocity{}

	return role, health, damage, sprite, pos, vel
}
