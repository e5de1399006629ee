package cmd

import (
	"context"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/coverage/interval"
	"github.com/pkg/errors"
)

type mergeOpts struct {
	// oneBased interprets inputs as one-based [start, end].
	oneBased bool
	// out is the output path.  If empty, output goes to the merge writer.
	out string
}

// load reads the BED files in parallel and returns their union.  Intervals
// are combined in path order, though the result does not depend on it.
func load(ctx context.Context, opts interval.NewBEDOpts, paths []string) (*interval.Coverage, error) {
	parts := make([]*interval.Coverage, len(paths))
	err := traverse.Each(len(paths), func(i int) error {
		c, err := interval.ReadBEDFromPath(ctx, paths[i], opts)
		if err != nil {
			return err
		}
		log.Printf("%s: %d interval(s), %d base(s) covered", paths[i], c.Len(), c.TotalBases())
		parts[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	total := interval.NewCoverage()
	for _, c := range parts {
		total.Merge(c)
	}
	return total, nil
}

func merge(ctx context.Context, w io.Writer, opts mergeOpts, paths []string) error {
	c, err := load(ctx, interval.NewBEDOpts{OneBasedInput: opts.oneBased}, paths)
	if err != nil {
		return err
	}
	log.Printf("merged %d file(s): %d interval(s), %d base(s) covered", len(paths), c.Len(), c.TotalBases())
	if opts.out == "" {
		return errors.Wrap(c.WriteBED(w), "write merged BED")
	}
	return errors.Wrapf(c.WriteBEDToPath(ctx, opts.out), "write %s", opts.out)
}
