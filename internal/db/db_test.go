package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	pool, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer pool.Close()

	var tables []string
	require.NoError(t, pool.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'leaderboard') ORDER BY name`))
	assert.Equal(t, []string{"leaderboard", "users"}, tables)

	// Running the migration twice is harmless.
	require.NoError(t, Migrate(ctx, pool))
}
