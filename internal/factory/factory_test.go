package factory

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scig/internal/gvolume"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(name string) *gvolume.Volume {
	v := gvolume.New(name)
	v.MakeBox(1, 2, 3, "cm")
	return v
}

func TestNewConfiguration(t *testing.T) {
	c := NewConfiguration("beamline", "")
	assert.Equal(t, "default", c.Variation)
	assert.NotEqual(t, uuid.Nil, c.RunID)
	assert.NoError(t, c.Validate())

	assert.Error(t, Configuration{Variation: "v"}.Validate())
	assert.Error(t, Configuration{System: "s"}.Validate())
}

func TestTextFactory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	conf := NewConfiguration("beamline", "original")

	f, err := Open(context.Background(), KindText, Options{OutputDir: dir}, conf)
	require.NoError(t, err)
	assert.Equal(t, KindText, f.Kind())

	require.NoError(t, box("a").Publish(context.Background(), f))
	require.NoError(t, box("b").Publish(context.Background(), f))
	require.NoError(t, f.Commit())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "second close is a no-op")

	data, err := os.ReadFile(filepath.Join(dir, "beamline__geometry_original.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a | root | na | "))
	assert.Contains(t, lines[1], "G4Box | 1*cm, 2*cm, 3*cm")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no staged file left behind")

	err = f.Publish(context.Background(), box("c"))
	assert.Error(t, err, "publishing after close fails")
	assert.Error(t, f.Commit(), "committing after close fails")
}

func TestTextFactory_CloseWithoutCommitKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	conf := NewConfiguration("beamline", "original")
	path := filepath.Join(dir, FileName(conf))
	require.NoError(t, os.WriteFile(path, []byte("previous | root\n"), 0644))

	f, err := NewTextFactory(dir, conf)
	require.NoError(t, err)
	require.NoError(t, box("a").Publish(context.Background(), f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous | root\n", string(data), "staging does not touch the geometry file")

	require.NoError(t, f.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous | root\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged file is removed")
}

func TestTextFactory_Canceled(t *testing.T) {
	f, err := NewTextFactory(t.TempDir(), NewConfiguration("s", "v"))
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Publish(ctx, box("a")), context.Canceled)
}

// queryGeometry opens its own connection so it sees only committed rows.
func queryGeometry(t *testing.T, dsn, query string, args []any, dest ...any) {
	t.Helper()
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRow(query, args...).Scan(dest...))
}

func TestSQLFactory_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "db", "geometry.db")
	conf := NewConfiguration("beamline", "original")

	f, err := Open(ctx, KindSQLite, Options{DSN: dsn}, conf)
	require.NoError(t, err)
	require.NoError(t, box("a").Publish(ctx, f))
	require.NoError(t, box("b").Publish(ctx, f))
	require.NoError(t, f.Commit())
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "second close is a no-op")

	var n int
	queryGeometry(t, dsn, `SELECT COUNT(*) FROM geometry WHERE system = ? AND variation = ? AND run_id = ?`,
		[]any{"beamline", "original", conf.RunID.String()}, &n)
	assert.Equal(t, 2, n)

	var solid, params, exist string
	queryGeometry(t, dsn, `SELECT solid, parameters, exist FROM geometry WHERE name = ?`, []any{"a"},
		&solid, &params, &exist)
	assert.Equal(t, "G4Box", solid)
	assert.Equal(t, "1*cm, 2*cm, 3*cm", params)
	assert.Equal(t, "1", exist)

	// Reopening the same system and variation replaces the earlier rows.
	again, err := Open(ctx, KindSQLite, Options{DSN: dsn}, NewConfiguration("beamline", "original"))
	require.NoError(t, err)
	require.NoError(t, box("c").Publish(ctx, again))
	require.NoError(t, again.Commit())
	require.NoError(t, again.Close())

	queryGeometry(t, dsn, `SELECT COUNT(*) FROM geometry`, nil, &n)
	assert.Equal(t, 1, n)
}

func TestSQLFactory_CloseWithoutCommitKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "geometry.db")

	f, err := Open(ctx, KindSQLite, Options{DSN: dsn}, NewConfiguration("beamline", "original"))
	require.NoError(t, err)
	require.NoError(t, box("a").Publish(ctx, f))
	require.NoError(t, box("b").Publish(ctx, f))
	require.NoError(t, f.Commit())
	require.NoError(t, f.Close())

	failed, err := Open(ctx, KindSQLite, Options{DSN: dsn}, NewConfiguration("beamline", "original"))
	require.NoError(t, err)
	require.NoError(t, box("c").Publish(ctx, failed))
	require.NoError(t, failed.Close())

	var n int
	var first, last string
	queryGeometry(t, dsn, `SELECT COUNT(*), MIN(name), MAX(name) FROM geometry`, nil, &n, &first, &last)
	assert.Equal(t, 2, n)
	assert.Equal(t, "a", first)
	assert.Equal(t, "b", last)

	assert.Error(t, failed.Publish(ctx, box("d")), "publishing after close fails")
}

func TestInsertStatement(t *testing.T) {
	sqlite := insertStatement(KindSQLite)
	pg := insertStatement(KindPostgres)

	assert.True(t, strings.HasPrefix(sqlite, "INSERT INTO geometry (system, variation, run_id, name, mother,"))
	assert.Equal(t, 3+len(volumeColumns), strings.Count(sqlite, "?"))
	assert.Contains(t, pg, "$1, $2, $3")
	assert.Contains(t, pg, "$22)")
	assert.Len(t, volumeColumns, len(gvolume.FieldNames))
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "mysql", Options{}, NewConfiguration("s", "v"))
	assert.Error(t, err)

	_, err = Open(ctx, KindText, Options{OutputDir: t.TempDir()}, Configuration{})
	assert.Error(t, err)

	_, err = NewSQLFactory(ctx, KindText, "", NewConfiguration("s", "v"))
	assert.Error(t, err)
}
