package domain

// ActorInfo is a resolved actor definition: its own traits merged over its parent chain.
type ActorInfo struct {
	Name     string
	Inherits string
	Traits   map[string]map[string]any
	Source   string
}

// WeaponInfo is a weapon definition.
type WeaponInfo struct {
	Name        string
	Range       float64
	Damage      int
	ReloadDelay int
	Projectile  InternedString
	Source      string
}

// SequenceInfo is a single animation sequence of a unit.
type SequenceInfo struct {
	Unit    InternedString
	Name    InternedString
	Start   int
	Length  int
	Facings int
	Tick    int
	Source  string
}

// Ruleset is the in-memory set of definitions the simulation runs against.
// Sequences are keyed by unit, then by sequence name.
type Ruleset struct {
	Actors       map[string]*ActorInfo
	Weapons      map[string]*WeaponInfo
	Sequences    map[string]map[string]*SequenceInfo
	Fingerprints map[string]uint64
}

// NewRuleset returns an empty ruleset.
func NewRuleset() Ruleset {
	return Ruleset{
		Actors:       make(map[string]*ActorInfo),
		Weapons:      make(map[string]*WeaponInfo),
		Sequences:    make(map[string]map[string]*SequenceInfo),
		Fingerprints: make(map[string]uint64),
	}
}

// RulesetStats summarizes a ruleset.
type RulesetStats struct {
	Actors    int
	Weapons   int
	Units     int
	Sequences int
}

// Stats counts the definitions in the ruleset.
func (r Ruleset) Stats() RulesetStats {
	stats := RulesetStats{
		Actors:  len(r.Actors),
		Weapons: len(r.Weapons),
		Units:   len(r.Sequences),
	}
	for _, seqs := range r.Sequences {
		stats.Sequences += len(seqs)
	}
	return stats
}
