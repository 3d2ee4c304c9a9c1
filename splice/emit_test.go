package splice

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJunctionFlanks(t *testing.T) {
	seq := testSeq(100, map[int]string{46: "CCCC", 60: "GGGG"})
	j := NewJunction("chrT", seq, Pair{Left: 50, Right: 60, Class: 0}, 4)
	assert.Equal(t, 46, j.FlankStart)
	assert.Equal(t, 64, j.FlankEnd)
	assert.Equal(t, "CCCC", j.LeftSeq)
	assert.Equal(t, "GGGG", j.RightSeq)
	// Away from the contig edges the synthetic sequence is exactly
	// 2*readLength long.
	assert.Equal(t, 8, len(j.LeftSeq)+len(j.RightSeq))
}

func TestNewJunctionClipsAtContigEdges(t *testing.T) {
	seq := testSeq(100, nil)
	j := NewJunction("chrT", seq, Pair{Left: 2, Right: 95, Class: 0}, 10)
	assert.Equal(t, 0, j.FlankStart)
	assert.Equal(t, 100, j.FlankEnd)
	assert.Equal(t, 2, len(j.LeftSeq))
	assert.Equal(t, 5, len(j.RightSeq))
}

func TestRecordWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewRecordWriter(&buf)
	require.NoError(t, w.Emit(Junction{
		Contig:     "chrT",
		Right:      40,
		FlankStart: 6,
		LeftSeq:    "ACGT",
		RightSeq:   "TTTT",
	}))
	require.NoError(t, w.Close())
	assert.Equal(t, ">chrT_6_40\nACGTTTTT\n", buf.String())
}

func TestJoinedWriterRollover(t *testing.T) {
	opts := DefaultOpts
	opts.Joined = true
	opts.ReadLength = 4
	opts.MaxJoinLength = 20

	var out, coords bytes.Buffer
	w, err := NewJoinedWriter(&out, &coords, opts)
	require.NoError(t, err)

	// Three junctions of 8 bases each; every block adds 8+4 spacer bases.
	// The running length is 12 after the first block and 24 after the
	// second, which exceeds 20, so the third block lands in a new segment
	// with its offset reset to 0.
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Emit(Junction{
			Contig:     "chrT",
			Right:      40,
			FlankStart: 6,
			LeftSeq:    "ACGT",
			RightSeq:   "TTTT",
		}))
	}
	require.NoError(t, w.Close())

	assert.Equal(t,
		">seg00001\n"+
			"ACGTTTTT\nNNNN\n"+
			"ACGTTTTT\nNNNN\n"+
			">seg00002\n"+
			"ACGTTTTT\nNNNN\n",
		out.String())
	assert.Equal(t,
		"segment\tpos\tcontig\t5start\t3start\n"+
			"seg00001\t0\tchrT\t6\t40\n"+
			"seg00001\t12\tchrT\t6\t40\n"+
			"seg00002\t0\tchrT\t6\t40\n",
		coords.String())
}

func TestJoinedWriterProvenanceReconstructsSegments(t *testing.T) {
	opts := DefaultOpts
	opts.Joined = true
	opts.ReadLength = 3
	opts.MaxJoinLength = 50

	var out, coords bytes.Buffer
	w, err := NewJoinedWriter(&out, &coords, opts)
	require.NoError(t, err)
	junctions := []Junction{
		{Contig: "chr1", Right: 50, FlankStart: 44, LeftSeq: "AAA", RightSeq: "CCC"},
		{Contig: "chr1", Right: 90, FlankStart: 84, LeftSeq: "GG", RightSeq: "TTT"},
		{Contig: "chr2", Right: 33, FlankStart: 27, LeftSeq: "ACG", RightSeq: "T"},
	}
	for _, j := range junctions {
		require.NoError(t, w.Emit(j))
	}
	require.NoError(t, w.Close())

	// Each provenance pos must equal the total block length accumulated
	// before it, and the final accumulated length must equal the base count
	// of the segment body.
	rows := strings.Split(strings.TrimSuffix(coords.String(), "\n"), "\n")[1:]
	require.Equal(t, len(junctions), len(rows))
	running := 0
	for i, row := range rows {
		cols := strings.Split(row, "\t")
		require.Equal(t, 5, len(cols))
		assert.Equal(t, "seg00001", cols[0])
		assert.Equal(t, strconv.Itoa(running), cols[1])
		running += len(junctions[i].LeftSeq) + len(junctions[i].RightSeq) + opts.ReadLength
	}
	body := strings.TrimPrefix(out.String(), ">seg00001\n")
	assert.Equal(t, running, len(strings.ReplaceAll(body, "\n", "")))
}

func TestFindJunctionsScenario(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultOpts
	opts.MinIntronSize = 5
	opts.MaxIntronSize = 50
	opts.SearchArea = 5
	opts.ReadLength = 4

	// chrT, length 100, exons (0,10), (40,50), (90,100); GT at the first
	// intron start and AG ending at its end. The second gap has no motifs.
	seq := testSeq(100, map[int]string{
		0:  strings.Repeat("C", 10),
		10: "GT",
		38: "AG",
		40: strings.Repeat("G", 10),
	})
	exons := []Interval{{0, 10}, {40, 50}, {90, 100}}

	var stats Stats
	junctions := FindJunctions("chrT", seq, exons, idx, opts, &stats)
	expect.EQ(t, len(junctions), 1)
	j := junctions[0]
	expect.EQ(t, j.Left, 10)
	expect.EQ(t, j.Right, 40)
	expect.EQ(t, j.FlankStart, 6)
	expect.EQ(t, j.FlankEnd, 44)
	expect.EQ(t, j.LeftSeq, "CCCC")
	expect.EQ(t, j.RightSeq, "GGGG")
	expect.EQ(t, stats.Introns, 2)
	expect.EQ(t, stats.LeftSites, 1)
	expect.EQ(t, stats.RightSites, 1)
	expect.EQ(t, stats.Junctions, 1)

	var buf bytes.Buffer
	w := NewRecordWriter(&buf)
	expect.NoError(t, w.Emit(j))
	expect.NoError(t, w.Close())
	expect.EQ(t, buf.String(), ">chrT_6_40\nCCCCGGGG\n")
}

func TestFindJunctionsNoMotifs(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultOpts
	opts.MinIntronSize = 5
	opts.MaxIntronSize = 50

	var stats Stats
	junctions := FindJunctions("chrT", testSeq(100, nil),
		[]Interval{{0, 10}, {40, 50}, {90, 100}}, idx, opts, &stats)
	expect.EQ(t, len(junctions), 0)
	expect.EQ(t, stats.Junctions, 0)
	expect.EQ(t, stats.Introns, 2)
}

func TestStatsMerge(t *testing.T) {
	a := Stats{Contigs: 1, SkippedContigs: 1, Introns: 2, LeftSites: 3, RightSites: 4, Junctions: 5}
	b := Stats{Contigs: 2, Introns: 1, LeftSites: 1, RightSites: 1, Junctions: 1}
	expect.EQ(t, a.Merge(b), Stats{
		Contigs: 3, SkippedContigs: 1, Introns: 3, LeftSites: 4, RightSites: 5, Junctions: 6,
	})
}
