package cmd

import (
	"context"
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/coverage/interval"
	"github.com/pkg/errors"
)

const (
	statusCovered   = "covered"
	statusPartial   = "partial"
	statusUncovered = "uncovered"
)

func query(ctx context.Context, w io.Writer, bedPath string, opts interval.NewBEDOpts, regions []string) error {
	entries := make([]interval.Entry, len(regions))
	for i, region := range regions {
		var err error
		if entries[i], err = interval.ParseRegionString(region); err != nil {
			return errors.Wrapf(err, "region %q", region)
		}
	}
	c, err := interval.ReadBEDFromPath(ctx, bedPath, opts)
	if err != nil {
		return err
	}
	out := tsv.NewWriter(w)
	for i, e := range entries {
		covered := c.CoveredBases(e.RefName, e.Start0, e.End)
		length := int64(e.End - e.Start0)
		status := statusPartial
		switch covered {
		case 0:
			status = statusUncovered
		case length:
			status = statusCovered
		}
		out.WriteString(regions[i])
		out.WriteInt64(covered)
		out.WriteInt64(length)
		out.WriteString(status)
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
