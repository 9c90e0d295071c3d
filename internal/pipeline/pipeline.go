// Package pipeline reads a descriptor file, builds one volume per
// descriptor and publishes the volumes to a geometry factory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scig/internal/descriptor"
	"scig/internal/factory"
	"scig/internal/logging"
	"scig/internal/metrics"
	"scig/internal/source"

	"github.com/google/uuid"
)

// Runner holds everything needed to turn a descriptor location into
// published volumes.
type Runner struct {
	Options        descriptor.Options
	Source         source.S3Config
	Factory        factory.Kind
	FactoryOptions factory.Options
	Configuration  factory.Configuration
	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Report summarizes one run.
type Report struct {
	Location    string
	Descriptors int
	Solids      map[descriptor.Kind]int
	Published   int
	Factory     factory.Kind
	RunID       uuid.UUID
	Duration    time.Duration
}

// Validate reads and parses location without publishing anything.
func (r *Runner) Validate(ctx context.Context, location string) (report Report, err error) {
	defer func() { r.recordRun("validate", err) }()

	ds, report, err := r.read(ctx, location)
	if err != nil {
		return report, err
	}
	logging.Parse("%s: %d descriptors valid", location, len(ds))
	return report, nil
}

// Run reads location, builds every descriptor and publishes the volumes.
// Publishing is all or nothing: when any line fails to parse, or any volume
// fails to publish, the factory is closed without committing and the
// geometry of the previous run is left as it was.
func (r *Runner) Run(ctx context.Context, location string) (report Report, err error) {
	defer func() { r.recordRun("build", err) }()

	ds, report, err := r.read(ctx, location)
	if err != nil {
		return report, err
	}

	conf := r.Configuration
	if conf.RunID == uuid.Nil {
		conf.RunID = uuid.New()
	}
	report.RunID = conf.RunID
	report.Factory = r.Factory
	if report.Factory == "" {
		report.Factory = factory.KindText
	}

	f, err := factory.Open(ctx, report.Factory, r.FactoryOptions, conf)
	if err != nil {
		return report, fmt.Errorf("open factory: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if err != nil {
			report.Published = 0
		}
	}()

	published := 0
	for _, d := range ds {
		v := d.Build()
		if err := v.Publish(ctx, f); err != nil {
			logging.Get(logging.CategoryBuild).With("run_id", conf.RunID.String()).
				Warn("aborted after %d of %d volumes: %v", published, len(ds), err)
			return report, fmt.Errorf("publish %s: %w", d.Name, err)
		}
		published++
		logging.BuildDebug("built %s (%s) in %s", v.Name, v.Solid, v.Mother)
	}

	if err := f.Commit(); err != nil {
		return report, fmt.Errorf("commit %s factory: %w", f.Kind(), err)
	}
	report.Published = published
	if r.Metrics != nil {
		r.Metrics.RecordPublished(string(f.Kind()), published)
	}

	logging.Build("run %s published %d volumes from %s to %s", conf.RunID, published, location, f.Kind())
	return report, nil
}

func (r *Runner) read(ctx context.Context, location string) ([]*descriptor.Descriptor, Report, error) {
	report := Report{Location: location, Solids: make(map[descriptor.Kind]int)}
	start := time.Now()

	rc, err := source.Open(ctx, location, r.Source)
	if err != nil {
		return nil, report, err
	}
	defer rc.Close()

	ds, err := descriptor.Read(ctx, rc, r.Options)
	report.Duration = time.Since(start)
	if r.Metrics != nil {
		r.Metrics.RecordParseDuration(report.Duration)
	}
	if err != nil {
		var le *descriptor.LineError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = location
		}
		if kind := descriptor.KindOf(err); kind != nil && r.Metrics != nil {
			r.Metrics.RecordParseError(kind.Error())
		}
		return nil, report, err
	}

	report.Descriptors = len(ds)
	for _, d := range ds {
		kind := d.Solid.Kind()
		report.Solids[kind]++
		if r.Metrics != nil {
			r.Metrics.RecordParsed(string(kind))
		}
	}
	return ds, report, nil
}

func (r *Runner) recordRun(mode string, err error) {
	if r.Metrics != nil {
		r.Metrics.RecordRun(mode, err)
	}
}
