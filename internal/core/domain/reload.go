package domain

// WatchState is the lifecycle state of a ruleset watcher.
type WatchState int32

const (
	// StateDisabled is the initial state. Notifications are ignored and the timer is halted.
	StateDisabled WatchState = iota
	// StateEnabled accepts notifications and runs the settle timer.
	StateEnabled
	// StateDisposed is terminal.
	StateDisposed
)

// String returns the lower-case name of the state.
func (s WatchState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// ReloadKind selects which definition set a batch reloads.
type ReloadKind uint8

const (
	// ReloadNone means the batch matched no existing declared file.
	ReloadNone ReloadKind = iota
	// ReloadRules reloads actor rules.
	ReloadRules
	// ReloadWeapons reloads weapon definitions.
	ReloadWeapons
	// ReloadSequences reloads a single sequence file.
	ReloadSequences
)

// String returns the category name of the reload kind.
func (k ReloadKind) String() string {
	switch k {
	case ReloadNone:
		return "none"
	case ReloadRules:
		return "rules"
	case ReloadWeapons:
		return "weapons"
	case ReloadSequences:
		return "sequences"
	default:
		return "unknown"
	}
}

// ReloadBatch is the set of logical ids drained together in one dispatch cycle.
type ReloadBatch struct {
	LogicalIDs []string
}

// ReloadPlan is the classified outcome of a batch: one kind and the files to reload.
// For ReloadSequences, Files holds exactly one id.
type ReloadPlan struct {
	Kind  ReloadKind
	Files []string
}
