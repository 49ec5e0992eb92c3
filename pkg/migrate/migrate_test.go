package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"m/001_create_runs.up.sql":   {Data: []byte("CREATE TABLE runs (id TEXT PRIMARY KEY);")},
		"m/001_create_runs.down.sql": {Data: []byte("DROP TABLE runs;")},
		"m/002_add_station.up.sql":   {Data: []byte("ALTER TABLE runs ADD COLUMN station TEXT;")},
		"m/002_add_station.down.sql": {Data: []byte("ALTER TABLE runs DROP COLUMN station;")},
		"m/003_add_notes.up.sql":     {Data: []byte("CREATE TABLE notes (body TEXT);")},
		"m/README.md":                {Data: []byte("ignored")},
	}
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFSProviderMigrations(t *testing.T) {
	migrations, err := NewFSProvider(testFS(), "m", "").Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create runs", migrations[0].Name)
	assert.Contains(t, migrations[0].Down, "DROP TABLE")
	assert.Equal(t, "add notes", migrations[2].Name)
	assert.Empty(t, migrations[2].Down)

	fsys := testFS()
	delete(fsys, "m/002_add_station.up.sql")
	_, err = NewFSProvider(fsys, "m", "").Migrations()
	assert.ErrorContains(t, err, "no up file")
}

func TestPlan(t *testing.T) {
	migrations, err := NewFSProvider(testFS(), "m", "").Migrations()
	require.NoError(t, err)

	tests := []struct {
		name            string
		current, target int
		versions        []int
		up              bool
		wantErr         bool
	}{
		{name: "fresh to latest", current: 0, target: Latest, versions: []int{1, 2, 3}, up: true},
		{name: "partial", current: 1, target: 2, versions: []int{2}, up: true},
		{name: "current", current: 3, target: Latest},
		{name: "rollback", current: 2, target: 0, versions: []int{2, 1}},
		{name: "no down file", current: 3, target: 1, wantErr: true},
		{name: "negative target", current: 1, target: -2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := plan(migrations, tt.current, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var versions []int
			for _, s := range steps {
				versions = append(versions, s.mg.Version)
				assert.Equal(t, tt.up, s.up)
			}
			assert.Equal(t, tt.versions, versions)
		})
	}
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testFS(), "m", ""), zap.NewNop().Sugar())

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	require.NoError(t, m.Up(ctx))
	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = db.Exec("INSERT INTO runs (id, station) VALUES ('a', 'Wildcat')")
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx), "no-op when current")
	assert.Error(t, m.To(ctx, 1), "003 has no down migration")

	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v, "failed rollback keeps the version")
}

func TestMigratorRollback(t *testing.T) {
	ctx := context.Background()
	fsys := testFS()
	delete(fsys, "m/003_add_notes.up.sql")

	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(fsys, "m", "versions"), zap.NewNop().Sugar())
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.To(ctx, 1))
	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = db.Exec("INSERT INTO runs (id, station) VALUES ('a', 'Wildcat')")
	assert.Error(t, err, "station column was dropped")

	require.NoError(t, m.To(ctx, 0))
	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM versions").Scan(&n))
	assert.Zero(t, n)
}
