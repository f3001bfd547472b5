// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/convertkit/pkg/types"
)

// CollisionPolicy decides what happens when the destination file exists.
type CollisionPolicy string

const (
	// CollisionOverwrite replaces the existing destination.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionSkip leaves the existing destination alone and reports the
	// file as skipped.
	CollisionSkip CollisionPolicy = "skip"
	// CollisionSuffix writes to the first free "<stem>-N<ext>" instead.
	CollisionSuffix CollisionPolicy = "suffix"
)

// ParseCollisionPolicy validates a policy name. The empty string selects
// CollisionOverwrite.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionOverwrite, nil
	case CollisionOverwrite, CollisionSkip, CollisionSuffix:
		return p, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q (want overwrite, skip, or suffix)", s)
	}
}

// Driver applies registered transforms to files.
type Driver struct {
	registry  *Registry
	workers   int
	collision CollisionPolicy
	logger    *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers bounds the number of concurrent jobs in ConvertAll. Values
// below one are ignored.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithCollisionPolicy sets how existing destinations are handled.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(d *Driver) {
		if p != "" {
			d.collision = p
		}
	}
}

// NewDriver creates a driver that resolves transforms from reg.
func NewDriver(reg *Registry, opts ...Option) *Driver {
	d := &Driver{
		registry:  reg,
		workers:   runtime.NumCPU(),
		collision: CollisionOverwrite,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the driver resolves transforms from.
func (d *Driver) Registry() *Registry { return d.registry }

// ConvertOne converts a single file and returns the destination path.
// Normalization, lookup, and transform errors are returned untouched. Under
// CollisionSkip an existing destination is returned without converting.
func (d *Driver) ConvertOne(ctx context.Context, srcPath, from, to string) (string, error) {
	dst, _, err := d.ConvertFile(ctx, srcPath, from, to)
	return dst, err
}

// ConvertFile is ConvertOne that also reports whether the file was
// converted or skipped by the collision policy.
func (d *Driver) ConvertFile(ctx context.Context, srcPath, from, to string) (string, types.OutcomeStatus, error) {
	key, err := NormalizeKey(from, to)
	if err != nil {
		return "", types.OutcomeFailed, err
	}
	t, err := d.registry.Lookup(key)
	if err != nil {
		return "", types.OutcomeFailed, err
	}
	dst, status, err := d.run(ctx, t, NewJob(srcPath, key))
	if err != nil {
		return "", types.OutcomeFailed, err
	}
	if status == types.OutcomeSkipped {
		d.logger.Debug("destination exists, skipped", "source", srcPath, "dest", dst)
	}
	return dst, status, nil
}

// ConvertAll converts every file under root whose extension matches from.
// A pair with no transform fails before any file is touched. Per-file
// failures are recorded in the result and never stop the remaining files.
// Outcomes are ordered by source path.
//
// Cancelling ctx stops scheduling new files; files already started finish.
// The outcomes gathered so far are returned together with the context error.
func (d *Driver) ConvertAll(ctx context.Context, root, from, to string) (types.BatchResult, error) {
	key, err := NormalizeKey(from, to)
	if err != nil {
		return types.BatchResult{}, err
	}
	t, err := d.registry.Lookup(key)
	if err != nil {
		return types.BatchResult{}, err
	}

	sources, err := d.discover(root, key.From)
	if err != nil {
		return types.BatchResult{}, err
	}
	d.logger.Debug("discovered sources", "root", root, "key", key.String(), "count", len(sources))

	jobs := make([]Job, len(sources))
	for i, src := range sources {
		jobs[i] = NewJob(src, key)
	}

	result := types.BatchResult{Key: key, Root: root}
	outcomes := make([]types.Outcome, len(jobs))
	started := make([]bool, len(jobs))

	p := pool.New().WithMaxGoroutines(d.workers)
	var stopErr error
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}
		started[i] = true
		p.Go(func() {
			outcomes[i] = d.runJob(ctx, t, job)
		})
	}
	p.Wait()

	for i, o := range outcomes {
		if started[i] {
			result.Outcomes = append(result.Outcomes, o)
		}
	}
	slices.SortFunc(result.Outcomes, func(a, b types.Outcome) int {
		return strings.Compare(a.Source, b.Source)
	})

	if stopErr != nil {
		return result, fmt.Errorf("batch stopped after %d of %d files: %w", len(result.Outcomes), len(sources), stopErr)
	}
	return result, nil
}

// runJob converts one file and turns the result into an Outcome. In-flight
// jobs ignore cancellation so no destination is abandoned mid-write.
func (d *Driver) runJob(ctx context.Context, t Transform, job Job) types.Outcome {
	start := time.Now()
	dst, status, err := d.run(context.WithoutCancel(ctx), t, job)
	src := job.Source
	o := types.Outcome{
		Source:   src,
		Dest:     dst,
		Status:   status,
		Duration: time.Since(start),
	}
	if err != nil {
		kind := KindOf(err)
		if kind == "" {
			kind = KindFormat
		}
		o.Dest = ""
		o.Status = types.OutcomeFailed
		o.ErrorKind = string(kind)
		o.Message = err.Error()
		d.logger.Warn("conversion failed", "source", src, "kind", kind, "error", err)
		return o
	}
	d.logger.Debug("conversion finished", "source", src, "dest", dst, "status", status, "duration", o.Duration)
	return o
}

func (d *Driver) run(ctx context.Context, t Transform, job Job) (string, types.OutcomeStatus, error) {
	dst, skip, err := d.destination(job.Dest, job.Key.To)
	if err != nil {
		return "", types.OutcomeFailed, err
	}
	if skip {
		return dst, types.OutcomeSkipped, nil
	}
	if err := t.Convert(ctx, job.Source, dst); err != nil {
		return "", types.OutcomeFailed, err
	}
	return dst, types.OutcomeConverted, nil
}

// destination applies the collision policy to the default destination dst.
// It reports skip=true when the file should be left alone.
func (d *Driver) destination(dst string, to types.FormatTag) (string, bool, error) {
	if d.collision == CollisionOverwrite {
		return dst, false, nil
	}

	exists, err := fileExists(dst)
	if err != nil {
		return "", false, Wrap(KindIO, dst, err)
	}
	if !exists {
		return dst, false, nil
	}
	if d.collision == CollisionSkip {
		return dst, true, nil
	}

	stem := strings.TrimSuffix(dst, to.Ext())
	for n := 1; ; n++ {
		candidate := stem + "-" + strconv.Itoa(n) + to.Ext()
		exists, err := fileExists(candidate)
		if err != nil {
			return "", false, Wrap(KindIO, candidate, err)
		}
		if !exists {
			return candidate, false, nil
		}
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// discover walks root and returns the sorted paths of regular files tagged
// from. Unreadable subdirectories are logged and skipped; an unreadable
// root is a KindIO error.
func (d *Driver) discover(root string, from types.FormatTag) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, Wrap(KindIO, root, fmt.Errorf("reading root: %w", err))
	}
	if !info.IsDir() {
		return nil, Wrap(KindIO, root, fmt.Errorf("root is not a directory"))
	}

	var matches []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			d.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.Type().IsRegular() && TagOf(path) == from {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, Wrap(KindIO, root, fmt.Errorf("walking: %w", err))
	}

	slices.Sort(matches)
	return matches, nil
}
