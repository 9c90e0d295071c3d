package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"scig/internal/gvolume"
	"scig/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	defaultSQLitePath  = "scig.db"
	defaultPostgresDSN = "postgres://localhost/scig?sslmode=disable"
)

// volumeColumns are the geometry table columns holding gvolume.Volume
// fields, in Fields() order.
var volumeColumns = []string{
	"name", "mother", "description", "pos", "rot", "solid", "parameters",
	"material", "mfield", "visible", "style", "color", "digitization",
	"identifier", "copy_of", "replica_of", "solids_opr", "mirror", "exist",
}

// SQLFactory stores volumes in a geometry table. One transaction clears the
// rows of earlier runs for the same system and variation and inserts the
// new ones; nothing is visible until Commit.
type SQLFactory struct {
	kind   Kind
	conf   Configuration
	db     *sql.DB
	tx     *sql.Tx
	insert string

	mu    sync.Mutex
	count int
}

// NewSQLFactory opens the database for kind (KindSQLite or KindPostgres)
// and prepares the geometry table.
func NewSQLFactory(ctx context.Context, kind Kind, dsn string, conf Configuration) (*SQLFactory, error) {
	driver, dsn, err := driverFor(kind, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kind, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", kind, err)
	}

	f := &SQLFactory{kind: kind, conf: conf, db: db, insert: insertStatement(kind)}
	if err := f.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := f.begin(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logging.Factory("%s factory ready (system %s, variation %s, run %s)", kind, conf.System, conf.Variation, conf.RunID)
	return f, nil
}

func driverFor(kind Kind, dsn string) (string, string, error) {
	switch kind {
	case KindSQLite:
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return "", "", fmt.Errorf("create dirs: %w", err)
		}
		return "sqlite", dsn, nil
	case KindPostgres:
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
		return "pgx", dsn, nil
	default:
		return "", "", fmt.Errorf("factory %q is not a SQL factory", kind)
	}
}

// initSchema creates the geometry table.
func (f *SQLFactory) initSchema(ctx context.Context) error {
	cols := make([]string, len(volumeColumns))
	for i, c := range volumeColumns {
		cols[i] = c + " TEXT NOT NULL"
	}
	ddl := `CREATE TABLE IF NOT EXISTS geometry (
		system TEXT NOT NULL,
		variation TEXT NOT NULL,
		run_id TEXT NOT NULL,
		` + strings.Join(cols, ",\n\t\t") + `
	)`
	if _, err := f.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create geometry table: %w", err)
	}
	return nil
}

// begin opens the publishing transaction and clears, inside it, the rows
// this configuration is about to rewrite.
func (f *SQLFactory) begin(ctx context.Context) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin geometry transaction: %w", err)
	}
	del := "DELETE FROM geometry WHERE system = " + placeholder(f.kind, 1) + " AND variation = " + placeholder(f.kind, 2)
	if _, err := tx.ExecContext(ctx, del, f.conf.System, f.conf.Variation); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear previous geometry: %w", err)
	}
	f.tx = tx
	return nil
}

func insertStatement(kind Kind) string {
	cols := append([]string{"system", "variation", "run_id"}, volumeColumns...)
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = placeholder(kind, i+1)
	}
	return "INSERT INTO geometry (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}

func placeholder(kind Kind, n int) string {
	if kind == KindPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Kind returns KindSQLite or KindPostgres.
func (f *SQLFactory) Kind() Kind { return f.kind }

// Publish inserts v as one geometry row inside the open transaction.
func (f *SQLFactory) Publish(ctx context.Context, v *gvolume.Volume) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tx == nil {
		return fmt.Errorf("%s factory is closed", f.kind)
	}

	fields := v.Fields()
	args := make([]any, 0, 3+len(fields))
	args = append(args, f.conf.System, f.conf.Variation, f.conf.RunID.String())
	for _, field := range fields {
		args = append(args, field)
	}

	if _, err := f.tx.ExecContext(ctx, f.insert, args...); err != nil {
		return fmt.Errorf("insert volume %s: %w", v.Name, err)
	}
	f.count++
	logging.FactoryDebug("inserted volume %s", v.Name)
	return nil
}

// Commit makes the published rows visible, replacing the earlier ones.
func (f *SQLFactory) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tx == nil {
		return fmt.Errorf("%s factory is closed", f.kind)
	}

	err := f.tx.Commit()
	f.tx = nil
	if err != nil {
		return fmt.Errorf("commit geometry: %w", err)
	}
	logging.Factory("%s factory wrote %d volumes", f.kind, f.count)
	return nil
}

// Close rolls back an uncommitted transaction and closes the database.
func (f *SQLFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.db == nil {
		return nil
	}

	var err error
	if f.tx != nil {
		if rerr := f.tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = fmt.Errorf("rollback geometry: %w", rerr)
		}
		f.tx = nil
		logging.Factory("%s factory discarded %d staged volumes", f.kind, f.count)
	}
	if cerr := f.db.Close(); err == nil && cerr != nil {
		err = cerr
	}
	f.db = nil
	return err
}
