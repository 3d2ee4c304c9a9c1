package splice

import "sort"

// Interval is one exon in 0-based half-open genomic coordinates.
type Interval struct {
	Start int
	End   int
}

// Position is a detected motif occurrence: the genomic offset of the motif's
// first base, tagged with its MotifIndex class id.
type Position struct {
	Pos   int
	Class int
}

// ScanRegions walks the introns between consecutive exons of one contig and
// collects donor-side and acceptor-side motif occurrences. exons is sorted
// in place by start coordinate before use; seq is the full contig sequence
// in upper case.
//
// For each intron boundary a window of SearchArea bases is examined. With
// OnlyFirst set, the donor side is scanned forward from the boundary and, if
// nothing matches, backward over the window before it; the acceptor side
// applies the mirrored policy, and each boundary contributes at most one
// position per intron. Otherwise both boundaries are scanned forward over
// the combined window [boundary-SearchArea, boundary+SearchArea) and every
// hit is collected.
//
// Windows are clipped at the contig ends, so boundaries near the sequence
// edges simply yield fewer (possibly zero) positions.
func ScanRegions(seq string, exons []Interval, idx MotifIndex, opts Opts) (left, right []Position) {
	if len(exons) < 2 {
		return nil, nil
	}
	sort.Slice(exons, func(i, j int) bool { return exons[i].Start < exons[j].Start })

	sa := opts.SearchArea
	intronStart := exons[0].End
	for _, exon := range exons[1:] {
		intronEnd := exon.Start
		if opts.OnlyFirst {
			if !collectPositions(seq, intronStart, intronStart+sa, idx.left, &left, true, true) {
				collectPositions(seq, intronStart-sa, intronStart, idx.left, &left, false, true)
			}
			if !collectPositions(seq, intronEnd-sa, intronEnd, idx.right, &right, false, true) {
				collectPositions(seq, intronEnd, intronEnd+sa, idx.right, &right, true, true)
			}
		} else {
			collectPositions(seq, intronStart-sa, intronStart+sa, idx.left, &left, true, false)
			collectPositions(seq, intronEnd-sa, intronEnd+sa, idx.right, &right, true, false)
		}
		intronStart = exon.End
	}
	return left, right
}

// collectPositions scans seq[start:end) for dinucleotides present in tokens
// and appends a Position per hit. With first set it stops after the first
// hit and reports whether one was found. The window is clipped to the valid
// range of seq.
func collectPositions(seq string, start, end int, tokens map[string]int, out *[]Position, forward, first bool) bool {
	if start < 0 {
		start = 0
	}
	if end > len(seq) {
		end = len(seq)
	}
	if forward {
		for x := start; x+motifLen <= end; x++ {
			if class, ok := tokens[seq[x:x+motifLen]]; ok {
				*out = append(*out, Position{Pos: x, Class: class})
				if first {
					return true
				}
			}
		}
	} else {
		for x := end - motifLen; x >= start; x-- {
			if class, ok := tokens[seq[x:x+motifLen]]; ok {
				*out = append(*out, Position{Pos: x, Class: class})
				if first {
					return true
				}
			}
		}
	}
	return false
}
