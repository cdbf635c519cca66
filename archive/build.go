package archive

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dendrascience/dendra-hid/digest"
	"github.com/dendrascience/dendra-hid/hid"
)

// BuildOptions configures BuildIndex and Verify.
type BuildOptions struct {
	// Algorithm defaults to digest.Canonical.
	Algorithm digest.Algorithm
	// Workers defaults to the number of CPUs.
	Workers int
	// SkipErrors logs unreadable entries instead of failing.
	SkipErrors bool
}

func (o BuildOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// digestFile hashes the content of one file.
func (r *Reader) digestFile(ctx context.Context, alg digest.Algorithm, id hid.HID) (digest.Digest, error) {
	rc, err := r.Open(ctx, id)
	if err != nil {
		return digest.Digest{}, err
	}
	defer rc.Close()
	d, err := digest.FromReader(alg, rc)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("digest %s: %w", id, err)
	}
	return d, nil
}

// BuildIndex walks root and digests every file below it, containers
// included, with a pool of workers.
func BuildIndex(ctx context.Context, r *Reader, root hid.HID, opts BuildOptions) (*Index, error) {
	alg := opts.Algorithm
	if alg == "" {
		alg = digest.Canonical
	}
	if !alg.Available() {
		return nil, fmt.Errorf("%w: %s", digest.ErrUnknownAlgorithm, alg)
	}

	x := NewIndex(root, alg)
	var mu sync.Mutex
	files := make(chan Entry, opts.workers())
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(files)
		return r.Walk(ctx, root, func(e Entry, err error) error {
			if err != nil {
				if opts.SkipErrors && !errors.Is(err, context.Canceled) {
					r.log.Warn("skipping unreadable entry", "hid", e.ID.String(), "error", err)
					return nil
				}
				return err
			}
			if e.Dir {
				return nil
			}
			select {
			case files <- e:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	for range opts.workers() {
		g.Go(func() error {
			for e := range files {
				d, err := r.digestFile(ctx, alg, e.ID)
				if err != nil {
					if opts.SkipErrors && ctx.Err() == nil {
						r.log.Warn("skipping undigestible file", "hid", e.ID.String(), "error", err)
						continue
					}
					return err
				}
				mu.Lock()
				x.Add(IndexEntry{ID: e.ID, Size: e.Size, Modified: e.Modified, Digest: d})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	x.Sort()
	r.log.Info("built index", "root", root.String(), "files", x.Len(), "algorithm", alg.String())
	return x, nil
}

// Problem is one index entry that no longer matches its file.
type Problem struct {
	ID     hid.HID
	Reason error
}

func (p Problem) String() string { return fmt.Sprintf("%s: %v", p.ID, p.Reason) }

// Report is the outcome of Verify.
type Report struct {
	Checked  int
	Problems []Problem
}

func (r Report) OK() bool { return len(r.Problems) == 0 }

// Verify re-reads every file the index lists and compares sizes and
// digests. Files that changed or vanished are reported as problems; only
// cancellation aborts the run.
func Verify(ctx context.Context, r *Reader, x *Index, opts BuildOptions) (Report, error) {
	x.Sort()
	var (
		mu     sync.Mutex
		report Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for e := range x.Entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			reason := r.check(gctx, e)
			if err := gctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Checked++
			if reason != nil {
				report.Problems = append(report.Problems, Problem{ID: e.ID, Reason: reason})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	slices.SortFunc(report.Problems, func(a, b Problem) int { return hid.Compare(a.ID, b.ID) })
	r.log.Info("verified index", "root", x.Root.String(), "checked", report.Checked, "problems", len(report.Problems))
	return report, nil
}

func (r *Reader) check(ctx context.Context, e IndexEntry) error {
	st, err := r.Stat(ctx, e.ID)
	if err != nil {
		return err
	}
	if st.Size != e.Size {
		return fmt.Errorf("size changed from %d to %d", e.Size, st.Size)
	}
	rc, err := r.Open(ctx, e.ID)
	if err != nil {
		return err
	}
	defer rc.Close()
	return e.Digest.Verify(rc)
}
