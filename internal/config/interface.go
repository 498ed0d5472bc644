package config

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../app/mock_loader_test.go -package=app

// Loader is the interface for a format-specific definition loader.
type Loader interface {
	// Load reads every definition file reachable from paths and translates
	// them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
