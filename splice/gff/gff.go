// Package gff reads exon intervals from GFF/GTF-formatted annotation files.
// Only the contig and coordinate columns are interpreted; attributes are
// carried as an opaque string.
package gff

import (
	"bufio"
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"

	"github.com/fw1121/cgat/splice"
)

// record stores one line of a GFF/GTF file.
type record struct {
	Contig     string
	Source     string
	Feature    string
	Start      int
	Stop       int
	Score      string // unused, may be "."
	Strand     string
	Frame      string
	Attributes string
}

// ReadIntervals reads a GFF/GTF file, decompressing transparently if the
// path looks compressed, and returns per contig the ascending list of
// intervals in 0-based half-open coordinates (GFF itself is 1-based,
// closed). If feature is non-empty, only rows of that feature type are
// used. Contigs without any rows are absent from the map.
func ReadIntervals(ctx context.Context, path, feature string) (map[string][]splice.Interval, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	regions, err := readIntervals(r, feature)
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.Wrap(err, path)
	}
	if err := in.Close(ctx); err != nil {
		return nil, err
	}
	return regions, nil
}

func readIntervals(r io.Reader, feature string) (map[string][]splice.Interval, error) {
	sc := tsv.NewReader(bufio.NewReaderSize(r, 64<<10))
	sc.Comment = '#'
	sc.LazyQuotes = true
	regions := make(map[string][]splice.Interval)
	var line record
	for {
		if err := sc.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if feature != "" && line.Feature != feature {
			continue
		}
		if line.Start < 1 || line.Stop < line.Start {
			return nil, errors.Errorf("invalid interval [%d, %d] on %s", line.Start, line.Stop, line.Contig)
		}
		regions[line.Contig] = append(regions[line.Contig],
			splice.Interval{Start: line.Start - 1, End: line.Stop})
	}
	for _, ivs := range regions {
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	}
	return regions, nil
}
