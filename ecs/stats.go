package ecs

// StorageStats is a point-in-time summary of the storage contents.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes a single archetype partition.
type ArchetypeStats struct {
	Id             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks all archetypes and singletons and returns a summary.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount:     len(s.archetypes),
		SingletonCount:     len(s.singletons),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.archetypes)),
		SingletonTypes:     make([]string, 0, len(s.singletons)),
	}

	for _, archetype := range s.archetypes {
		count := 0
		for range archetype.Iter() {
			count++
		}

		typeNames := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			typeNames[i] = typ.String()
		}

		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			Id:             archetype.id,
			ComponentTypes: typeNames,
			EntityCount:    count,
		})
		stats.TotalEntityCount += count
	}

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}

	return stats
}
