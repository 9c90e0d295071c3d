package descriptor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"scig/internal/logging"

	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1 << 20

type numberedLine struct {
	number int
	text   string
}

// Read parses one descriptor per line from r, preserving line order.
// Blank lines and lines starting with '#' are skipped. Any bad line fails
// the whole read; the error of the earliest bad line is returned.
func Read(ctx context.Context, r io.Reader, opts Options) ([]*Descriptor, error) {
	opts = opts.normalized()

	var lines []numberedLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, numberedLine{number: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptors: %w", err)
	}

	out := make([]*Descriptor, len(lines))
	errs := make([]error, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, ln := range lines {
		i, ln := i, ln
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := ParseWith(ln.text, opts)
			if err != nil {
				errs[i] = &LineError{Line: ln.number, Err: err}
				return nil
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			logging.ParseWarn("descriptor rejected: %v", err)
			return nil, err
		}
	}

	logging.ParseDebug("parsed %d descriptors with %d workers", len(out), opts.Workers)
	return out, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(ctx context.Context, path string, opts Options) ([]*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor file: %w", err)
	}
	defer f.Close()

	ds, err := Read(ctx, f, opts)
	if err != nil {
		var le *LineError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return ds, nil
}
