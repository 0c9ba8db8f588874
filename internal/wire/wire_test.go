package wire

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestedset/internal/application/commands"
	"nestedset/internal/config"
	"nestedset/internal/domain"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tree.db")

	cfg := config.DefaultConfig()
	cfg.Database = path
	env, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = commands.NewCreateCommand(env.Tree, "Root", domain.Placement{}).Execute(ctx)
	require.NoError(t, err)
	require.NoError(t, env.Close())

	// The record survives a reopen.
	env, err = Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer env.Close()
	root, err := env.Tree.Queries().GetRoot(ctx)
	require.NoError(t, err)
	require.NotNil(t, root)
}

func TestOpen_Memory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Driver = config.DriverMemory
	env, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, env.Close())
	assert.Equal(t, cfg.List, env.Tree.Store().List())
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Driver = "oracle"
	cfg.Database = filepath.Join(t.TempDir(), "x.db")
	_, err := Open(context.Background(), cfg, nil)
	assert.Error(t, err)
}
