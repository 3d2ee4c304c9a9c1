package main

import (
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"

	"github.com/fw1121/cgat/splice"
)

func TestParseSplicePairs(t *testing.T) {
	pairs, err := parseSplicePairs("GT:AG")
	expect.NoError(t, err)
	expect.That(t, pairs, h.ElementsAre(splice.MotifPair{Donor: "GT", Acceptor: "AG"}))

	pairs, err = parseSplicePairs("gt:ag,at:ac")
	expect.NoError(t, err)
	expect.That(t, pairs, h.ElementsAre(
		splice.MotifPair{Donor: "GT", Acceptor: "AG"},
		splice.MotifPair{Donor: "AT", Acceptor: "AC"}))

	_, err = parseSplicePairs("GTAG")
	expect.True(t, err != nil)
	_, err = parseSplicePairs("GT:AG:CT")
	expect.True(t, err != nil)
}

func TestJunctionDumpRoundTrip(t *testing.T) {
	ctx := vcontext.Background()
	path := filepath.Join(t.TempDir(), "junctions.rio")

	opts := splice.DefaultOpts
	opts.ReadLength = 4
	junctions := []splice.Junction{
		{Contig: "chr1", Left: 10, Right: 40, Class: 0, FlankStart: 6, FlankEnd: 44, LeftSeq: "CCCC", RightSeq: "GGGG"},
		{Contig: "chr1", Left: 60, Right: 95, Class: 1, FlankStart: 56, FlankEnd: 99, LeftSeq: "ACGT", RightSeq: "TGCA"},
		{Contig: "chr2", Left: 5, Right: 40, Class: 0, FlankStart: 1, FlankEnd: 44, LeftSeq: "AAAA", RightSeq: "TTTT"},
	}

	w := newJunctionWriter(ctx, path, opts)
	for _, j := range junctions {
		w.Write(j)
	}
	w.Close(ctx)

	r := newJunctionReader(ctx, path)
	expect.EQ(t, r.Opts(), opts)
	var got []splice.Junction
	for r.Scan() {
		got = append(got, r.Get())
	}
	r.Close(ctx)
	expect.EQ(t, got, junctions)
}
