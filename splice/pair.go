package splice

// Pair is one putative intron: the donor motif start, the acceptor motif end
// (motif offset + 2), and the shared class id.
type Pair struct {
	Left  int
	Right int
	Class int
}

// Span returns the genomic length of the intron.
func (p Pair) Span() int { return p.Right - p.Left }

// PairCandidates merges the donor and acceptor position lists of one contig,
// emitting every pair whose class ids match and whose span satisfies
// MinIntronSize <= (right.Pos+2) - left.Pos < MaxIntronSize. Both lists must
// be ascending by offset.
//
// The cursor into right persists across donor positions: the lower bound is
// monotonically non-decreasing, so the sweep is O(L+R) amortized rather than
// O(L*R). Pairs are emitted in ascending left-then-right order and are not
// deduplicated; one donor may pair with several acceptors and vice versa.
func PairCandidates(left, right []Position, opts Opts) []Pair {
	var pairs []Pair
	ri, mr := 0, len(right)
	for _, l := range left {
		lower, upper := l.Pos+opts.MinIntronSize, l.Pos+opts.MaxIntronSize
		for ri < mr && right[ri].Pos+motifLen < lower {
			ri++
		}
		for rri := ri; rri < mr && right[rri].Pos+motifLen < upper; rri++ {
			if right[rri].Class != l.Class {
				continue
			}
			pairs = append(pairs, Pair{
				Left:  l.Pos,
				Right: right[rri].Pos + motifLen,
				Class: l.Class,
			})
		}
	}
	return pairs
}
