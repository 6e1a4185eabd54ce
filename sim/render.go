package sim

import "github.com/plus3/skirmish/ecs"

// SpriteClassifySystem re-derives every sprite's display character from the
// entity's tags. Precedence is SpawnTag over Dead over role; the lifecycle
// invariants guarantee exactly one rule fires per entity.
type SpriteClassifySystem struct {
	Sprites ecs.Query[struct {
		*Sprite
		Spawning *SpawnTag `ecs:"optional"`
		Dead     *Dead     `ecs:"optional"`
		NPC      *NPC      `ecs:"optional"`
		Hero     *Hero     `ecs:"optional"`
		Monster  *Monster  `ecs:"optional"`
	}]
}

func (s *SpriteClassifySystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Sprites.Values() {
		switch {
		case item.Spawning != nil:
			item.Sprite.Char = CharSpawn
		case item.Dead != nil:
			item.Sprite.Char = CharDead
		case item.NPC != nil:
			item.Sprite.Char = CharNPC
		case item.Hero != nil:
			item.Sprite.Char = CharHero
		case item.Monster != nil:
			item.Sprite.Char = CharMonster
		}
	}
}

// RenderSystem writes every drawable unit's sprite character to the canvas at
// its position. Overlapping positions resolve last-writer-wins in the store's
// natural partition order.
type RenderSystem struct {
	Canvas   ecs.Singleton[Canvas]
	Drawable ecs.Query[struct {
		*Position
		*Sprite
		*Unit
		*Data
	}]
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	surface := s.Canvas.Get().Surface
	if surface == nil {
		return
	}

	for item := range s.Drawable.Values() {
		surface.Set(int(item.Position.X), int(item.Position.Y), item.Sprite.Char)
	}
}
