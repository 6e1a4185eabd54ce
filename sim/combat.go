package sim

import (
	"math"
	"sort"

	"github.com/plus3/skirmish/ecs"
)

// targetCandidate is one alive unit's entry in the per-tick target list.
type targetCandidate struct {
	unitID uint32
	ref    *ecs.EntityRef
	pos    Position
}

// AttackSystem issues strikes. Each alive unit whose cooldown divides its
// alive time evenly draws a target index from its own RNG sequence and spawns
// an Attack entity with a travel time proportional to the distance.
//
// The candidate list deliberately includes the attacker itself: the draw is an
// unfiltered index into the full sorted list, so a unit can strike itself.
// TestSingleUnitStrikesItself pins that behavior.
type AttackSystem struct {
	Params  ecs.Singleton[Params]
	Targets ecs.Query[struct {
		ecs.EntityId
		*Unit
		*Position
		NotDead     *Dead     `ecs:"exclude"`
		NotSpawning *SpawnTag `ecs:"exclude"`
	}]
	Attackers ecs.Query[struct {
		*Unit
		*Position
		*Damage
		*Data
		NotDead     *Dead     `ecs:"exclude"`
		NotSpawning *SpawnTag `ecs:"exclude"`
	}]

	candidates []targetCandidate
}

func (s *AttackSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := &s.Params.Get().Config

	s.candidates = s.candidates[:0]
	for item := range s.Targets.Values() {
		s.candidates = append(s.candidates, targetCandidate{
			unitID: item.Unit.ID,
			ref:    frame.Storage.CreateEntityRef(item.EntityId),
			pos:    *item.Position,
		})
	}

	// Partition iteration order is not reproducible across runs; the sort by
	// unit id is what makes the target draw deterministic.
	sort.Slice(s.candidates, func(i, j int) bool {
		return s.candidates[i].unitID < s.candidates[j].unitID
	})

	if len(s.candidates) == 0 {
		return
	}

	for item := range s.Attackers.Values() {
		if item.Damage.Cooldown == 0 {
			continue
		}

		elapsed := item.Data.Tick - item.Unit.SpawnTick
		if elapsed%item.Damage.Cooldown != 0 {
			continue
		}

		target := s.candidates[item.Unit.draw()%uint32(len(s.candidates))]

		dx := float64(target.pos.X - item.Position.X)
		dy := float64(target.pos.Y - item.Position.Y)
		travel := int32(math.Sqrt(dx*dx+dy*dy)/float64(cfg.AttackSpeed)) + 1

		frame.Commands.Spawn(Attack{
			Target: target.ref,
			Damage: item.Damage.Attack,
			Ticks:  travel,
		})
	}
}

// DamageSystem advances in-flight strikes and applies damage when one lands.
// A strike whose pre-decrement counter is 1 is consumed this tick: the Attack
// entity is destroyed unconditionally, and damage applies only if the target
// is still alive and not tagged Dead. Health has no floor; the kill stage
// picks up negative values next tick.
type DamageSystem struct {
	Strikes ecs.Query[struct {
		ecs.EntityId
		*Attack
	}]
}

func (s *DamageSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Strikes.Values() {
		remaining := item.Attack.Ticks
		item.Attack.Ticks--

		if remaining > 1 {
			continue
		}

		frame.Commands.Delete(item.EntityId)

		if remaining != 1 {
			continue
		}

		targetId, ok := frame.Storage.ResolveEntityRef(item.Attack.Target)
		if !ok {
			// Target despawned mid-flight.
			continue
		}
		if frame.Storage.HasComponent(targetId, deadType) {
			continue
		}

		health, okHealth := frame.Storage.GetComponent(targetId, healthType).(*Health)
		stats, okStats := frame.Storage.GetComponent(targetId, damageType).(*Damage)
		if !okHealth || !okStats {
			continue
		}

		health.HP -= item.Attack.Damage - stats.Defence
	}
}
