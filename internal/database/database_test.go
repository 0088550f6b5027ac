package database_test

import (
	"testing"
	"testing/fstest"

	"github.com/jrsteele09/storefront-server/internal/database"
	migrations "github.com/jrsteele09/storefront-server/migrations/postgres"
	"github.com/stretchr/testify/require"
)

func TestListMigrations_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_b_up.sql":   {Data: []byte("select 2")},
		"0001_a_up.sql":   {Data: []byte("select 1")},
		"0001_a_down.sql": {Data: []byte("select -1")},
		"0002_b_down.sql": {Data: []byte("select -2")},
		"README.md":       {Data: []byte("docs")},
	}

	up, err := database.ListMigrations(fsys, database.Up)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_a_up.sql", "0002_b_up.sql"}, up)

	down, err := database.ListMigrations(fsys, database.Down)
	require.NoError(t, err)
	require.Equal(t, []string{"0002_b_down.sql", "0001_a_down.sql"}, down)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	up, err := database.ListMigrations(migrations.FS, database.Up)
	require.NoError(t, err)
	down, err := database.ListMigrations(migrations.FS, database.Down)
	require.NoError(t, err)
	require.NotEmpty(t, up)
	require.Len(t, down, len(up))
}
