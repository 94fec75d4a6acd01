package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian/migrations"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	pool, err := New(context.Background(), DefaultConfig(""))
	require.NoError(t, err)
	assert.Nil(t, pool)
	assert.Error(t, pool.Health(context.Background()))
	assert.NoError(t, pool.Close())
}

func TestUpMigrationsOrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_b.up.sql":   {Data: []byte("select 2")},
		"000001_a.up.sql":   {Data: []byte("select 1")},
		"000001_a.down.sql": {Data: []byte("select 0")},
		"embed.go":          {Data: []byte("package migrations")},
	}
	files, err := upMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a.up.sql", "000002_b.up.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := upMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_investor_profiles.up.sql",
		"000002_deal_compliance_profiles.up.sql",
		"000003_audit_outbox.up.sql",
	}, files)
}
