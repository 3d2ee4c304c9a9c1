package splice

// Stats counts the work done over one run.
type Stats struct {
	// Contigs is the number of contigs examined.
	Contigs int
	// SkippedContigs is the number of contigs with no regions defined.
	SkippedContigs int
	// Introns is the number of exon gaps scanned.
	Introns int
	// LeftSites and RightSites count the donor-side and acceptor-side motif
	// occurrences collected.
	LeftSites  int
	RightSites int
	// Junctions is the number of junction records synthesized.
	Junctions int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Contigs += o.Contigs
	s.SkippedContigs += o.SkippedContigs
	s.Introns += o.Introns
	s.LeftSites += o.LeftSites
	s.RightSites += o.RightSites
	s.Junctions += o.Junctions
	return s
}
