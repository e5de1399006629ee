package interval

import (
	"bytes"
	"io/ioutil"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/coverage/ranges"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pr = ranges.Range[PosType]

const unsortedBED = `track name=test
chr2	2490319	2490438
chr1	2489781	2489907
chr1	2488103	2488172
# comment
chr2	2493111	2493254
chr1	2489164	2489273
chr2	2491261	2492157
chr2	2490438	2491262

chr3	100	100
chr2	2494586	2494712 name	0	+
chr2	2494303	2494335
chr2	2494254	2494304
`

func TestReadBED(t *testing.T) {
	c, err := ReadBED(strings.NewReader(unsortedBED), NewBEDOpts{})
	require.NoError(t, err)
	expect.EQ(t, c.RefNames(), []string{"chr2", "chr1", "chr3"})
	expect.EQ(t, c.Ranges("chr1"), []pr{
		{Start: 2488103, End: 2488172},
		{Start: 2489164, End: 2489273},
		{Start: 2489781, End: 2489907},
	})
	// [2490319, 2490438), [2490438, 2491262) and [2491261, 2492157) chain
	// together, as do the three intervals near 2494300.
	expect.EQ(t, c.Ranges("chr2"), []pr{
		{Start: 2490319, End: 2492157},
		{Start: 2493111, End: 2493254},
		{Start: 2494254, End: 2494335},
		{Start: 2494586, End: 2494712},
	})
	expect.EQ(t, len(c.Ranges("chr3")), 0)
	expect.EQ(t, len(c.Ranges("chrX")), 0)
	expect.EQ(t, c.Len(), 7)
}

func TestReadBEDOneBased(t *testing.T) {
	c, err := ReadBED(strings.NewReader("chr1\t1\t10\nchr1\t11\t20\nchr1\t22\t30\n"), NewBEDOpts{OneBasedInput: true})
	require.NoError(t, err)
	// [1, 10] and [11, 20] are adjacent once converted to [0, 10) and [10, 20).
	expect.EQ(t, c.Ranges("chr1"), []pr{{Start: 0, End: 20}, {Start: 21, End: 30}})
}

func TestReadBEDErrors(t *testing.T) {
	tests := []struct {
		bed, errSubstr string
	}{
		{"chr1\t5\n", "line 1: has fewer tokens"},
		{"chr1\t0\t5\nchr1\tx\t10\n", "line 2: bad start"},
		{"chr1\t5\ty\n", "line 1: bad end"},
		{"chr1\t-1\t5\n", "negative start"},
		{"chr1\t0\t5\n\nchr1\t10\t5\n", "line 3: invalid coordinate pair"},
		{"chr1\t0\t2147483647\n", "invalid coordinate pair"},
	}
	for _, tt := range tests {
		_, err := ReadBED(strings.NewReader(tt.bed), NewBEDOpts{})
		require.NotNil(t, err, tt.bed)
		expect.True(t, errors.Is(errors.Invalid, err), tt.bed)
		assert.Contains(t, err.Error(), tt.errSubstr)
	}
	_, err := ReadBED(strings.NewReader("chr1\t0\t5\n"), NewBEDOpts{OneBasedInput: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative start")
}

func TestReadBEDOrderIndependent(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(unsortedBED), "\n")
	want, err := ReadBED(strings.NewReader(unsortedBED), NewBEDOpts{})
	require.NoError(t, err)
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	got, err := ReadBED(strings.NewReader(strings.Join(lines, "\n")), NewBEDOpts{})
	require.NoError(t, err)
	for _, name := range want.RefNames() {
		expect.EQ(t, got.Ranges(name), want.Ranges(name), name)
	}
}

func TestContainsByName(t *testing.T) {
	c := NewCoverage()
	c.Add("chr1", 10, 20)
	c.Add("chr1", 30, 40)
	c.Add("chr2", 0, 5)

	want := func(ref string, pos PosType) bool {
		if ref == "chr1" {
			return (pos >= 10 && pos < 20) || (pos >= 30 && pos < 40)
		}
		if ref == "chr2" {
			return pos >= 0 && pos < 5
		}
		return false
	}
	// Sequential, then backwards, then switching references.
	for pos := PosType(0); pos < 50; pos++ {
		expect.EQ(t, c.ContainsByName("chr1", pos), want("chr1", pos), "chr1:%d", pos)
	}
	for pos := PosType(49); pos >= 0; pos-- {
		expect.EQ(t, c.ContainsByName("chr1", pos), want("chr1", pos), "chr1:%d", pos)
	}
	for pos := PosType(0); pos < 50; pos += 3 {
		for _, ref := range []string{"chr1", "chr2", "chr3"} {
			expect.EQ(t, c.ContainsByName(ref, pos), want(ref, pos), "%s:%d", ref, pos)
		}
	}

	// Additions invalidate cached endpoints.
	expect.False(t, c.ContainsByName("chr1", 25))
	c.Add("chr1", 20, 30)
	expect.True(t, c.ContainsByName("chr1", 25))
	expect.EQ(t, c.Ranges("chr1"), []pr{{Start: 10, End: 40}})
}

func TestCoveredBases(t *testing.T) {
	c := NewCoverage()
	c.Add("chr1", 10, 20)
	c.Add("chr1", 30, 40)
	c.Add("chr2", 0, 5)
	tests := []struct {
		ref        string
		start, end PosType
		want       int64
	}{
		{"chr1", 0, 100, 20},
		{"chr1", 15, 35, 10},
		{"chr1", 20, 30, 0},
		{"chr1", 10, 11, 1},
		{"chr1", 39, 41, 1},
		{"chr1", 50, 40, 0},
		{"chr2", 0, 5, 5},
		{"chr3", 0, 5, 0},
	}
	for _, tt := range tests {
		expect.EQ(t, c.CoveredBases(tt.ref, tt.start, tt.end), tt.want, "%+v", tt)
	}
	expect.EQ(t, c.TotalBases(), int64(25))
}

func TestMerge(t *testing.T) {
	a := NewCoverage()
	a.Add("chr1", 0, 10)
	a.Add("chr2", 5, 6)
	b := NewCoverage()
	b.Add("chr3", 0, 0)
	b.Add("chr1", 10, 15)
	b.Add("chr1", 20, 25)
	a.Merge(b)
	expect.EQ(t, a.RefNames(), []string{"chr1", "chr2", "chr3"})
	expect.EQ(t, a.Ranges("chr1"), []pr{{Start: 0, End: 15}, {Start: 20, End: 25}})
	expect.EQ(t, a.Ranges("chr2"), []pr{{Start: 5, End: 6}})
	// b is unchanged.
	expect.EQ(t, b.Ranges("chr1"), []pr{{Start: 10, End: 15}, {Start: 20, End: 25}})
}

func TestWriteBED(t *testing.T) {
	c, err := ReadBED(strings.NewReader(unsortedBED), NewBEDOpts{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, c.WriteBED(&buf))
	expect.EQ(t, buf.String(), `chr2	2490319	2492157
chr2	2493111	2493254
chr2	2494254	2494335
chr2	2494586	2494712
chr1	2488103	2488172
chr1	2489164	2489273
chr1	2489781	2489907
`)
}

func TestBEDPaths(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	gzPath := filepath.Join(tempDir, "in.bed.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(unsortedBED))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, ioutil.WriteFile(gzPath, buf.Bytes(), 0600))

	c, err := ReadBEDFromPath(ctx, gzPath, NewBEDOpts{})
	require.NoError(t, err)
	expect.EQ(t, c.Len(), 7)

	for _, name := range []string{"out.bed", "out.bed.gz"} {
		path := filepath.Join(tempDir, name)
		require.NoError(t, c.WriteBEDToPath(ctx, path))
		c2, err := ReadBEDFromPath(ctx, path, NewBEDOpts{})
		require.NoError(t, err)
		for _, ref := range c.RefNames() {
			expect.EQ(t, c2.Ranges(ref), c.Ranges(ref), "%s %s", name, ref)
		}
	}

	_, err = ReadBEDFromPath(ctx, filepath.Join(tempDir, "missing.bed"), NewBEDOpts{})
	expect.NotNil(t, err)
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region  string
		refName string
		start0  PosType
		end     PosType
	}{
		{"chr1:1-1000", "chr1", 0, 1000},
		{"chr1:1000", "chr1", 999, 1000},
		{"chr1:5-5", "chr1", 4, 5},
		{"chr1", "chr1", 0, math.MaxInt32 - 1},
	}
	for _, tt := range tests {
		result, err := ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, result.RefName, tt.refName)
		expect.EQ(t, result.Start0, tt.start0)
		expect.EQ(t, result.End, tt.end)
	}
	for _, region := range []string{"", ":1-5", "chr1:0", "chr1:0-5", "chr1:5-4", "chr1:x-5", "chr1:1-2147483647"} {
		_, err := ParseRegionString(region)
		expect.NotNil(t, err, region)
	}
}
