package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/coverage/ranges"
	"github.com/klauspost/compress/gzip"
)

// PosType is the coordinate type.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	RefName string
	Start0  PosType
	End     PosType
}

// Coverage maps reference names to the merged intervals reported for them.
// A Coverage is not safe for concurrent use.
type Coverage struct {
	refs map[string]*ranges.Tree[PosType]
	// names lists the keys of refs in order of first mention.
	names []string

	// The remaining fields cache state for ContainsByName.  lastEndpoints
	// holds the endpoints of lastRefName; cached is false when there is no
	// valid cache.
	cached        bool
	lastRefName   string
	lastEndpoints []PosType
	// lastPos is the last queried position, and lastIdx is
	// SearchEndpoints(lastEndpoints, lastPos).
	lastPos PosType
	lastIdx ranges.EndpointIndex
	// isSequential is true if all queries since the last reference change have
	// been in order of nondecreasing position.
	isSequential bool
}

// NewCoverage returns an empty Coverage.
func NewCoverage() *Coverage {
	return &Coverage{refs: make(map[string]*ranges.Tree[PosType])}
}

func (c *Coverage) ref(refName string) *ranges.Tree[PosType] {
	t := c.refs[refName]
	if t == nil {
		t = &ranges.Tree[PosType]{}
		c.refs[refName] = t
		c.names = append(c.names, refName)
	}
	return t
}

// Add merges [start0, end) into the coverage of refName.  An empty interval
// adds no positions, but refName is still reported by RefNames.
func (c *Coverage) Add(refName string, start0, end PosType) {
	c.cached = false
	t := c.ref(refName)
	if end > start0 {
		t.Add(ranges.Range[PosType]{Start: start0, End: end})
	}
}

// AddEntry is Add for an Entry.
func (c *Coverage) AddEntry(e Entry) {
	c.Add(e.RefName, e.Start0, e.End)
}

// Merge adds every interval of other to c.
func (c *Coverage) Merge(other *Coverage) {
	for _, name := range other.names {
		c.Add(name, 0, 0)
		for _, r := range other.refs[name].Sorted() {
			c.Add(name, r.Start, r.End)
		}
	}
}

// RefNames returns the reference names in order of first mention.
func (c *Coverage) RefNames() []string {
	return append([]string(nil), c.names...)
}

// Ranges returns the disjoint intervals covering refName, sorted by start.
func (c *Coverage) Ranges(refName string) []ranges.Range[PosType] {
	if t := c.refs[refName]; t != nil {
		return t.Sorted()
	}
	return nil
}

// Len returns the total number of disjoint intervals.
func (c *Coverage) Len() int {
	n := 0
	for _, t := range c.refs {
		n += t.Len()
	}
	return n
}

// ContainsByName checks whether the (0-based) position pos on refName is
// covered.  Queries on one reference with nondecreasing positions are
// answered incrementally.
func (c *Coverage) ContainsByName(refName string, pos PosType) bool {
	if !c.cached || refName != c.lastRefName {
		c.cached = true
		c.lastRefName = refName
		c.lastEndpoints = nil
		if t := c.refs[refName]; t != nil {
			c.lastEndpoints = t.Endpoints()
		}
		c.lastIdx = ranges.SearchEndpoints(c.lastEndpoints, pos)
		c.lastPos = pos
		c.isSequential = true
		return c.lastIdx.Contained()
	}
	if c.isSequential {
		if pos >= c.lastPos {
			ranges.Update(&c.lastIdx, c.lastEndpoints, pos)
			c.lastPos = pos
			return c.lastIdx.Contained()
		}
		c.isSequential = false
	}
	return ranges.SearchEndpoints(c.lastEndpoints, pos).Contained()
}

// CoveredBases returns the number of covered positions in [start0, end) on
// refName.
func (c *Coverage) CoveredBases(refName string, start0, end PosType) int64 {
	t := c.refs[refName]
	if t == nil || end <= start0 {
		return 0
	}
	endpoints := t.Endpoints()
	var total int64
	for i := int(ranges.SearchEndpoints(endpoints, start0).Begin()); i < len(endpoints); i += 2 {
		s, e := endpoints[i], endpoints[i+1]
		if s >= end {
			break
		}
		if s < start0 {
			s = start0
		}
		if e > end {
			e = end
		}
		total += int64(e - s)
	}
	return total
}

// TotalBases returns the number of covered positions over all references.
func (c *Coverage) TotalBases() int64 {
	var total int64
	for _, t := range c.refs {
		us := ranges.NewUnionScanner(t.Endpoints())
		var start, end PosType
		for us.Scan(&start, &end, PosTypeMax) {
			total += int64(end - start)
		}
	}
	return total
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// isBEDHeader returns whether line is a comment, track or browser line.
func isBEDHeader(line []byte) bool {
	s := gunsafe.BytesToString(line)
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "track") || strings.HasPrefix(s, "browser")
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

func bedError(lineIdx int, format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf("interval.ReadBED: line %d: ", lineIdx)+fmt.Sprintf(format, args...))
}

// ReadBED loads the first three columns of a BED file into a new Coverage.
// Lines need not be sorted.  Empty intervals add no positions, but their
// reference still counts as mentioned.
func ReadBED(r io.Reader, opts NewBEDOpts) (*Coverage, error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	c := NewCoverage()
	scanner := bufio.NewScanner(r)
	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		// Bytes() does not allocate.  Strings derived from it with
		// BytesToString must not outlive this iteration.
		curLine := scanner.Bytes()
		if isBEDHeader(curLine) {
			continue
		}
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			return nil, bedError(lineIdx, "has fewer tokens than expected")
		}
		parsedStart, err := strconv.Atoi(gunsafe.BytesToString(tokens[1]))
		if err != nil {
			return nil, bedError(lineIdx, "bad start %q", tokens[1])
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			return nil, bedError(lineIdx, "negative start coordinate %s", tokens[1])
		}
		parsedEnd, err := strconv.Atoi(gunsafe.BytesToString(tokens[2]))
		if err != nil {
			return nil, bedError(lineIdx, "bad end %q", tokens[2])
		}
		if parsedEnd < parsedStart || parsedEnd >= PosTypeMax {
			return nil, bedError(lineIdx, "invalid coordinate pair [%d, %d)", parsedStart, parsedEnd)
		}
		// Map keys must not alias the scanner buffer, so copy the name.
		c.Add(string(tokens[0]), PosType(parsedStart), PosType(parsedEnd))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "interval.ReadBED")
	}
	if log.At(log.Debug) {
		log.Debug.Printf("BED loaded, %d interval(s), %d base(s) covered.", c.Len(), c.TotalBases())
	}
	return c, nil
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Files with a gzip extension are decompressed.
func ReadBEDFromPath(ctx context.Context, path string, opts NewBEDOpts) (c *Coverage, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, path)
		}
	}
	if c, err = ReadBED(reader, opts); err != nil {
		return nil, errors.E(err, path)
	}
	return c, nil
}

// WriteBED writes the merged intervals as three-column BED, references in
// order of first mention and intervals sorted by start.
func (c *Coverage) WriteBED(w io.Writer) error {
	out := tsv.NewWriter(w)
	for _, name := range c.names {
		for _, r := range c.refs[name].Sorted() {
			out.WriteString(name)
			out.WriteInt64(int64(r.Start))
			out.WriteInt64(int64(r.End))
			if err := out.EndLine(); err != nil {
				return err
			}
		}
	}
	return out.Flush()
}

// WriteBEDToPath is a wrapper for WriteBED that takes a path.  Files with a
// gzip extension are compressed.
func (c *Coverage) WriteBEDToPath(ctx context.Context, path string) (err error) {
	var outfile file.File
	if outfile, err = file.Create(ctx, path); err != nil {
		return err
	}
	defer func() {
		if cerr := outfile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if fileio.DetermineType(path) != fileio.Gzip {
		return c.WriteBED(outfile.Writer(ctx))
	}
	zw := gzip.NewWriter(outfile.Writer(ctx))
	if err = c.WriteBED(zw); err != nil {
		return err
	}
	return zw.Close()
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, PosTypeMax - 1) is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.RefName = region
		result.Start0 = 0
		result.End = PosTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty contig ID")
		return
	}
	result.RefName = region[0:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region string out of range", rangeStr))
			return
		}
		result.Start0 = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region string out of range", start1Str))
		return
	}
	var end0 int
	if end0, err = strconv.Atoi(endStr); err != nil {
		return
	}
	// end0 == PosTypeMax is rejected so that endpoint arrays never contain
	// repeats.
	if end0 < start1 || end0 >= PosTypeMax {
		err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: invalid range string %v", rangeStr))
		return
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end0)
	return
}
