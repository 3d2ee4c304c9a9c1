package splice

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// motifLen is the length of a splice-site motif. The acceptor offset is
// shifted by this amount when a pair is accepted, so that Pair.Right marks
// the end of the acceptor signal.
const motifLen = 2

// baseComplement maps a base to its complement. Lower-case input maps to the
// upper-case complement; anything outside ACGT maps to 'N'.
var baseComplement [256]byte

func init() {
	for i := range baseComplement {
		baseComplement[i] = 'N'
	}
	baseComplement['A'] = 'T'
	baseComplement['a'] = 'T'
	baseComplement['C'] = 'G'
	baseComplement['c'] = 'G'
	baseComplement['G'] = 'C'
	baseComplement['g'] = 'C'
	baseComplement['T'] = 'A'
	baseComplement['t'] = 'A'
}

// revComp2 returns the reverse complement of a two-base motif.
func revComp2(m string) string {
	return string([]byte{baseComplement[m[1]], baseComplement[m[0]]})
}

// MotifIndex resolves a dinucleotide found near an intron boundary to an
// integer class id. Pair k contributes class 2k on the forward strand and
// 2k+1 for its reverse complement, so a donor-side candidate and an
// acceptor-side candidate are compatible exactly when their class ids are
// equal, regardless of strand.
type MotifIndex struct {
	left  map[string]int
	right map[string]int
}

// NewMotifIndex builds the donor-side (left) and acceptor-side (right) token
// tables for the given motif pairs. It fails if any motif is not exactly two
// bases.
func NewMotifIndex(pairs []MotifPair) (MotifIndex, error) {
	idx := MotifIndex{
		left:  make(map[string]int),
		right: make(map[string]int),
	}
	for k, p := range pairs {
		if len(p.Donor) != motifLen || len(p.Acceptor) != motifLen {
			return MotifIndex{}, errors.E(
				fmt.Sprintf("splice pair %s/%s: only two-base motifs allowed", p.Donor, p.Acceptor))
		}
		idx.left[p.Donor] = 2 * k
		idx.left[revComp2(p.Acceptor)] = 2*k + 1
		idx.right[p.Acceptor] = 2 * k
		idx.right[revComp2(p.Donor)] = 2*k + 1
	}
	return idx, nil
}

// LeftClass resolves a dinucleotide on the donor side of an intron.
func (m MotifIndex) LeftClass(t string) (int, bool) {
	c, ok := m.left[t]
	return c, ok
}

// RightClass resolves a dinucleotide on the acceptor side of an intron.
func (m MotifIndex) RightClass(t string) (int, bool) {
	c, ok := m.right[t]
	return c, ok
}
