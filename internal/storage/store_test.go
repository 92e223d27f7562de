package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/larder/internal/logger"
)

func TestStoreContract(t *testing.T) {
	runGatewayContract(t, func(t *testing.T) gateway { return createTestStore(t) })
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open("sqlite", path, logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, DriverSQLite, s.Driver())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	log := logger.New(logger.LevelOff, nil)

	for i := 0; i < 3; i++ {
		s, err := Open(DriverSQLite, path, log)
		require.NoError(t, err, "iteration %d", i)
		s.Close()
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever", logger.New(logger.LevelOff, nil))
	assert.Error(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.db.QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, tt.pragma)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (x INTEGER);

-- second
CREATE TABLE b (y INTEGER)
`
	got := splitStatements(script)
	assert.Equal(t, []string{"CREATE TABLE a (x INTEGER)", "CREATE TABLE b (y INTEGER)"}, got)
}
