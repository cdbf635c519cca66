package archive

import (
	"context"
	"io/fs"

	"github.com/dendrascience/dendra-hid/hid"
)

// Counts totals what Count found below a root.
type Counts struct {
	Files      int
	Dirs       int
	Containers int
	Bytes      int64
	// Over is set when Files passed the limit and counting stopped early.
	Over bool
}

// Count tallies the entries below root, descending into containers. With
// a positive limit it stops as soon as more than limit files are seen.
func Count(ctx context.Context, r *Reader, root hid.HID, limit int) (Counts, error) {
	var c Counts
	err := r.Walk(ctx, root, func(e Entry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case e.Dir:
			if !e.ID.Equal(root) {
				c.Dirs++
			}
			return nil
		case e.Container:
			c.Containers++
		}
		c.Files++
		c.Bytes += e.Size
		if limit > 0 && c.Files > limit {
			c.Over = true
			return fs.SkipAll
		}
		return nil
	})
	return c, err
}
