package splice

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestMotifIndexDefaultPair(t *testing.T) {
	idx, err := NewMotifIndex(DefaultOpts.MotifPairs)
	expect.NoError(t, err)

	// Forward strand: GT...AG.
	c, ok := idx.LeftClass("GT")
	expect.True(t, ok)
	expect.EQ(t, c, 0)
	c, ok = idx.RightClass("AG")
	expect.True(t, ok)
	expect.EQ(t, c, 0)

	// Reverse strand: the plus-strand sequence of a minus-strand GT/AG
	// intron reads CT...AC.
	c, ok = idx.LeftClass("CT")
	expect.True(t, ok)
	expect.EQ(t, c, 1)
	c, ok = idx.RightClass("AC")
	expect.True(t, ok)
	expect.EQ(t, c, 1)

	// Donor and acceptor tables don't leak into each other.
	_, ok = idx.LeftClass("AG")
	expect.False(t, ok)
	_, ok = idx.RightClass("GT")
	expect.False(t, ok)
	_, ok = idx.LeftClass("NN")
	expect.False(t, ok)
}

func TestMotifIndexClassSymmetry(t *testing.T) {
	pairs := []MotifPair{
		{Donor: "GT", Acceptor: "AG"},
		{Donor: "AA", Acceptor: "CC"},
	}
	idx, err := NewMotifIndex(pairs)
	expect.NoError(t, err)

	for k, p := range pairs {
		donor, okD := idx.LeftClass(p.Donor)
		acceptor, okA := idx.RightClass(p.Acceptor)
		expect.True(t, okD)
		expect.True(t, okA)
		expect.EQ(t, donor, 2*k)
		expect.EQ(t, acceptor, donor)

		rcAcceptor, okRA := idx.LeftClass(revComp2(p.Acceptor))
		rcDonor, okRD := idx.RightClass(revComp2(p.Donor))
		expect.True(t, okRA)
		expect.True(t, okRD)
		expect.EQ(t, rcAcceptor, 2*k+1)
		expect.EQ(t, rcDonor, rcAcceptor)
	}
}

func TestMotifIndexRejectsBadLength(t *testing.T) {
	_, err := NewMotifIndex([]MotifPair{{Donor: "GTA", Acceptor: "AG"}})
	expect.True(t, err != nil)
	_, err = NewMotifIndex([]MotifPair{{Donor: "GT", Acceptor: "A"}})
	expect.True(t, err != nil)
	_, err = NewMotifIndex([]MotifPair{{Donor: "", Acceptor: "AG"}})
	expect.True(t, err != nil)
}

func TestRevComp2(t *testing.T) {
	expect.EQ(t, revComp2("GT"), "AC")
	expect.EQ(t, revComp2("AG"), "CT")
	expect.EQ(t, revComp2("at"), "AT")
	expect.EQ(t, revComp2("NN"), "NN")
}
