package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	fsadapter "go.trai.ch/hotswap/internal/adapters/fs"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/core/ports"
	_ "go.trai.ch/hotswap/internal/wiring"
)

// TestNodesResolve ensures every registered node can be built on its own.
func TestNodesResolve(t *testing.T) {
	t.Run("logger", func(t *testing.T) {
		log, _, err := graft.ExecuteFor[ports.Logger](t.Context())
		require.NoError(t, err)
		require.NotNil(t, log)
	})

	t.Run("config loader", func(t *testing.T) {
		loader, _, err := graft.ExecuteFor[ports.ConfigLoader](t.Context())
		require.NoError(t, err)
		require.NotNil(t, loader)
	})

	t.Run("watcher", func(t *testing.T) {
		w, _, err := graft.ExecuteFor[ports.Watcher](t.Context())
		require.NoError(t, err)
		require.NotNil(t, w)
	})

	t.Run("hasher", func(t *testing.T) {
		h, _, err := graft.ExecuteFor[*fsadapter.Hasher](t.Context())
		require.NoError(t, err)
		require.NotNil(t, h)
	})

	t.Run("telemetry", func(t *testing.T) {
		p, _, err := graft.ExecuteFor[*telemetry.Provider](t.Context())
		require.NoError(t, err)
		require.NotNil(t, p)
		t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	})
}
