package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uint
	Name string
}

func TestManager_OpenSqliteMemory(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(zerolog.New(&buf))

	require.NoError(t, m.OpenSqlite(""))
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Migrate(&widget{}))
	require.NoError(t, m.DB.Create(&widget{Name: "smoke"}).Error)

	var count int64
	require.NoError(t, m.DB.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Contains(t, buf.String(), "in memory")
}

func TestManager_MemoryDatabasesAreIsolated(t *testing.T) {
	a := NewManager(zerolog.Nop())
	b := NewManager(zerolog.Nop())
	require.NoError(t, a.OpenSqlite(MemoryPath))
	require.NoError(t, b.OpenSqlite(MemoryPath))
	t.Cleanup(func() { _ = a.Close(); _ = b.Close() })

	require.NoError(t, a.Migrate(&widget{}))
	require.NoError(t, a.DB.Create(&widget{Name: "only in a"}).Error)

	assert.False(t, b.DB.Migrator().HasTable(&widget{}))
}

func TestManager_OpenSqliteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retakes.db")

	m := NewManager(zerolog.Nop())
	require.NoError(t, m.OpenSqlite(path))
	require.NoError(t, m.Migrate(&widget{}))
	require.NoError(t, m.DB.Create(&widget{Name: "persisted"}).Error)
	require.NoError(t, m.Close())

	reopened := NewManager(zerolog.Nop())
	require.NoError(t, reopened.OpenSqlite(path))
	t.Cleanup(func() { _ = reopened.Close() })

	var w widget
	require.NoError(t, reopened.DB.First(&w).Error)
	assert.Equal(t, "persisted", w.Name)
}

func TestManager_MigrateWithoutOpen(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.Error(t, m.Migrate(&widget{}))
	assert.NoError(t, m.Close())
}
