package cmd

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/coverage/interval"
)

// coverageChecksum hashes the merged intervals of c, references in name
// order.  References that were mentioned but cover nothing are skipped, so
// the result depends only on the covered positions.
func coverageChecksum(c *interval.Coverage) uint64 {
	names := c.RefNames()
	sort.Strings(names)
	h := seahash.New()
	var buf [8]byte
	for _, name := range names {
		rs := c.Ranges(name)
		if len(rs) == 0 {
			continue
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		for _, r := range rs {
			binary.LittleEndian.PutUint32(buf[:4], uint32(r.Start))
			binary.LittleEndian.PutUint32(buf[4:], uint32(r.End))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

func printChecksum(ctx context.Context, w io.Writer, opts interval.NewBEDOpts, paths []string) error {
	c, err := load(ctx, opts, paths)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%016x\n", coverageChecksum(c))
	return err
}
