// Package factory publishes built volumes to geometry factories: a sci-g
// text file or a SQL table.
package factory

import (
	"context"
	"fmt"

	"scig/internal/gvolume"

	"github.com/google/uuid"
)

// Kind names a factory backend.
type Kind string

const (
	KindText     Kind = "text"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Kinds lists the supported factory backends.
func Kinds() []Kind {
	return []Kind{KindText, KindSQLite, KindPostgres}
}

// Configuration identifies one geometry publication.
type Configuration struct {
	System    string
	Variation string
	RunID     uuid.UUID
}

// NewConfiguration returns a configuration with a fresh run id. An empty
// variation becomes "default".
func NewConfiguration(system, variation string) Configuration {
	if variation == "" {
		variation = "default"
	}
	return Configuration{System: system, Variation: variation, RunID: uuid.New()}
}

// Validate reports a configuration that cannot be published.
func (c Configuration) Validate() error {
	if c.System == "" {
		return fmt.Errorf("factory configuration has no system name")
	}
	if c.Variation == "" {
		return fmt.Errorf("factory configuration for %s has no variation", c.System)
	}
	return nil
}

// Options locate the factory output.
type Options struct {
	OutputDir string // text factory directory
	DSN       string // sqlite path or postgres connection string
}

// Factory receives volumes until it is committed or closed. Published
// volumes replace the earlier geometry only on Commit; Close without a
// successful Commit discards them and leaves the earlier geometry intact.
type Factory interface {
	gvolume.Publisher
	Kind() Kind
	Commit() error
	Close() error
}

// Open creates the factory named by kind.
func Open(ctx context.Context, kind Kind, opts Options, conf Configuration) (Factory, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if conf.RunID == uuid.Nil {
		conf.RunID = uuid.New()
	}

	switch kind {
	case KindText, "":
		return NewTextFactory(opts.OutputDir, conf)
	case KindSQLite:
		return NewSQLFactory(ctx, KindSQLite, opts.DSN, conf)
	case KindPostgres:
		return NewSQLFactory(ctx, KindPostgres, opts.DSN, conf)
	default:
		return nil, fmt.Errorf("unknown factory %q (valid: %v)", kind, Kinds())
	}
}
