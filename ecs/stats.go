package ecs

// StorageStats summarises what a Storage currently holds.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage. Archetypes left empty after deletions are
// not counted.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{}
	for _, a := range s.archetypes {
		n := a.Len()
		if n == 0 {
			continue
		}
		names := make([]string, len(a.types))
		for i, t := range a.types {
			names[i] = t.String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: names,
			EntityCount:    n,
		})
		stats.TotalEntityCount += n
	}
	stats.ArchetypeCount = len(stats.ArchetypeBreakdown)

	for _, t := range s.singleOrder {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	stats.SingletonCount = len(stats.SingletonTypes)
	return stats
}
