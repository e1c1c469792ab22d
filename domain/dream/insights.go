package dream

// Insights summarizes a user's full dream set
type Insights struct {
	TotalDreams           int                  `json:"totalDreams"`
	ArchetypeFrequencies  []ArchetypeFrequency `json:"archetypeFrequencies"`
	SymbolFrequencies     []SymbolFrequency    `json:"symbolFrequencies"`
	UniqueArchetypes      int                  `json:"uniqueArchetypes"`
	IndividuationProgress int                  `json:"individuationProgress"`
	RecentPatterns        []Pattern            `json:"recentPatterns"`
	DreamStreak           int                  `json:"dreamStreak"`
}

// ArchetypeFrequency is how often an archetype label occurs, as a count and a
// percentage of the user's total dreams
type ArchetypeFrequency struct {
	Archetype string `json:"archetype"`
	Count     int    `json:"count"`
	Frequency int    `json:"frequency"`
}

// SymbolFrequency is the symbol counterpart of ArchetypeFrequency
type SymbolFrequency struct {
	Symbol    string `json:"symbol"`
	Count     int    `json:"count"`
	Frequency int    `json:"frequency"`
}

// Pattern is a rule-based observation over recent dreams
type Pattern struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
