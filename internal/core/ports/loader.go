package ports

import "context"

// RulesetLoader reparses definition files and hot-swaps them into the running simulation.
// Implementations mutate simulation state and must only be called from the simulation goroutine.
//
//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type RulesetLoader interface {
	// ReloadRules reparses the given rule files and replaces the actors they define.
	ReloadRules(ctx context.Context, files []string) error

	// ReloadWeapons reparses the given weapon files and replaces the weapons they define.
	ReloadWeapons(ctx context.Context, files []string) error

	// ReloadSequences reparses a single sequence file and replaces the sequence sets it defines.
	ReloadSequences(ctx context.Context, file string) error
}
