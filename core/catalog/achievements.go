package catalog

// Achievement unlock rules, one predicate per achievement, matching each
// achievement's description text. An empty requirement list means every
// lesson in the catalog must be completed.
var achievementRequirements = map[string][]string{
	"UVT1": {"FND_L1"},           // Structurist: first lesson on sets and relations
	"UVT2": {"GRP_L1"},           // Group Adept: definition of a group
	"UVT3": {"GRP_L3", "GRP_L8"}, // Morphism Master: subgroups and morphisms
	"UVT4": {"RNG_L1"},           // Ring Leader: definition of a ring
	"UVT5": {"RNG_L3"},           // Idealist: the lesson on ideals
	"UVT6": {},                   // Timișoara Scholar: the whole curriculum
}

// NewlyUnlocked returns the ids of achievements whose requirements are met by
// the completed-lesson set and that are not in the already-unlocked set.
// The result preserves catalog order.
func (c *Catalog) NewlyUnlocked(completed, unlocked []string) []string {
	completedSet := make(map[string]bool, len(completed))
	for _, id := range completed {
		completedSet[id] = true
	}
	unlockedSet := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		unlockedSet[id] = true
	}

	var newly []string
	for _, ach := range c.achievements {
		if unlockedSet[ach.ID] {
			continue
		}
		required, known := achievementRequirements[ach.ID]
		if !known {
			continue
		}
		if len(required) == 0 { // the whole curriculum
			for _, lsn := range c.lessons {
				required = append(required, lsn.ID)
			}
		}
		met := true
		for _, id := range required {
			if !completedSet[id] {
				met = false
				break
			}
		}
		if met {
			newly = append(newly, ach.ID)
		}
	}
	return newly
}
