package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverage/interval"
	"v.io/x/lib/cmdline"
)

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "merge",
		Short:    "Merge BED files into sorted, disjoint intervals",
		ArgsName: "path...",
	}
	opts := mergeOpts{}
	cmd.Flags.BoolVar(&opts.oneBased, "one-based", false, "Interpret input as one-based [start, end] instead of zero-based [start, end)")
	cmd.Flags.StringVar(&opts.out, "out", "", `Output path. ".gz" paths are gzipped. By default the result is written to stdout`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("merge takes at least one path")
		}
		return merge(vcontext.Background(), env.Stdout, opts, argv)
	})
	return cmd
}

func newCmdQuery() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "query",
		Short: "Report how much of each region is covered",
		Long: `
Each region is either 'chr', 'chr:pos' or 'chr:begin-end', where [begin, end]
is a 1-based closed interval, as in samtools.  For each region a line
  region <TAB> covered bases <TAB> region length <TAB> status
is printed, where status is one of covered, partial or uncovered.`,
		ArgsName: "region...",
	}
	bedPath := cmd.Flags.String("bed", "", "BED file to query (required)")
	oneBased := cmd.Flags.Bool("one-based", false, "Interpret the BED file as one-based [start, end]")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *bedPath == "" {
			return fmt.Errorf("query requires -bed")
		}
		if len(argv) == 0 {
			return fmt.Errorf("query takes at least one region")
		}
		return query(vcontext.Background(), env.Stdout, *bedPath, interval.NewBEDOpts{OneBasedInput: *oneBased}, argv)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of the union of BED files.
Inputs that cover the same positions have the same checksum, regardless of
how the positions are split into lines or ordered.`,
		ArgsName: "path...",
	}
	oneBased := cmd.Flags.Bool("one-based", false, "Interpret input as one-based [start, end]")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("checksum takes at least one path")
		}
		return printChecksum(vcontext.Background(), env.Stdout, interval.NewBEDOpts{OneBasedInput: *oneBased}, argv)
	})
	return cmd
}

// Run runs the bio-coverage command line and exits.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-coverage",
			Short:    "Tools for merging and querying interval coverage",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMerge(),
				newCmdQuery(),
				newCmdChecksum(),
			},
		})
}
