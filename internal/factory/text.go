package factory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"scig/internal/gvolume"
	"scig/internal/logging"
)

// TextFactory writes one " | "-joined line per volume to
// <system>__geometry_<variation>.txt. Lines go to a temp file in the same
// directory, which replaces the geometry file only on Commit.
type TextFactory struct {
	conf Configuration
	path string

	mu    sync.Mutex
	file  *os.File
	w     *bufio.Writer
	count int
}

// FileName returns the geometry file name for conf.
func FileName(conf Configuration) string {
	return fmt.Sprintf("%s__geometry_%s.txt", conf.System, conf.Variation)
}

// NewTextFactory stages a new geometry file in dir. An existing geometry
// file is left untouched until Commit.
func NewTextFactory(dir string, conf Configuration) (*TextFactory, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	name := FileName(conf)
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create geometry file: %w", err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to create geometry file: %w", err)
	}
	path := filepath.Join(dir, name)
	logging.Factory("text factory staging %s (run %s)", path, conf.RunID)

	return &TextFactory{conf: conf, path: path, file: f, w: bufio.NewWriter(f)}, nil
}

// Kind returns KindText.
func (t *TextFactory) Kind() Kind { return KindText }

// Path returns the geometry file path.
func (t *TextFactory) Path() string { return t.path }

// Publish appends v to the staged geometry file.
func (t *TextFactory) Publish(ctx context.Context, v *gvolume.Volume) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return fmt.Errorf("text factory %s is closed", t.path)
	}
	if _, err := t.w.WriteString(v.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write volume %s: %w", v.Name, err)
	}
	t.count++
	logging.FactoryDebug("wrote volume %s", v.Name)
	return nil
}

// Commit flushes the staged file and renames it over the geometry file.
func (t *TextFactory) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return fmt.Errorf("text factory %s is closed", t.path)
	}

	tmp := t.file.Name()
	err := t.w.Flush()
	if err == nil {
		err = t.file.Sync()
	}
	if cerr := t.file.Close(); err == nil {
		err = cerr
	}
	t.file = nil
	if err == nil {
		err = os.Rename(tmp, t.path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit geometry file %s: %w", t.path, err)
	}

	logging.Factory("text factory wrote %d volumes to %s", t.count, t.path)
	return nil
}

// Close discards the staged file unless it was committed.
func (t *TextFactory) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}

	tmp := t.file.Name()
	closeErr := t.file.Close()
	t.file = nil
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to discard staged geometry: %w", err)
	}
	logging.Factory("text factory discarded %d staged volumes for %s", t.count, t.path)
	if closeErr != nil {
		return fmt.Errorf("failed to close staged geometry: %w", closeErr)
	}
	return nil
}
