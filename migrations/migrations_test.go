package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSortsAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"010_later.sql":  {Data: []byte("SELECT 10;")},
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"README.md":      {Data: []byte("docs")},
		"seed.sql":       {Data: []byte("SELECT 0;")},
		"abc_bad.sql":    {Data: []byte("SELECT 0;")},
	}

	got, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "SELECT 2;", got[1].Content)
}

func TestLoadRejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := Load(fsys)
	assert.Error(t, err)
}

func TestPending(t *testing.T) {
	all := []Migration{{ID: 1}, {ID: 2}, {ID: 3}}

	assert.Len(t, Pending(all, 0), 3)
	assert.Len(t, Pending(all, 2), 1)
	assert.Empty(t, Pending(all, 3))
}

func TestEmbeddedSchema(t *testing.T) {
	got, err := Load(Files)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].ID)

	var all string
	for _, m := range got {
		all += m.Content
	}
	for _, table := range []string{"scheduled_actions", "coin_balances", "ledger_entries", "processed_events", "ranking_snapshots"} {
		assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, all, "ux_scheduled_actions_open")
}
