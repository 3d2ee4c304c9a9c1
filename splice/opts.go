package splice

// MotifPair is one configured donor/acceptor splice-site motif pair, e.g.
// GT/AG. Both motifs must be exactly two bases.
type MotifPair struct {
	Donor    string
	Acceptor string
}

// Opts collects the knobs of the splice-junction pipeline.
type Opts struct {
	// MotifPairs lists the dinucleotide pairs expected at intron boundaries.
	MotifPairs []MotifPair
	// MinIntronSize and MaxIntronSize bound the genomic span of a candidate
	// intron, measured from the donor motif start to the acceptor motif end.
	// A pair is accepted iff MinIntronSize <= span < MaxIntronSize.
	MinIntronSize int
	MaxIntronSize int
	// SearchArea is the window radius around each intron boundary within
	// which motifs are searched.
	SearchArea int
	// ReadLength is the exonic flank length retained on each side of a
	// junction. In joined mode it is also the spacer length.
	ReadLength int
	// OnlyFirst stops each boundary scan at the first motif hit.
	OnlyFirst bool
	// Joined concatenates all junctions into large synthetic segments
	// instead of emitting one record per junction.
	Joined bool
	// MaxJoinLength is the running length after which the current joined
	// segment is closed and a new one started.
	MaxJoinLength int
	// SegmentFormat names joined segments, e.g. "seg%05d" -> seg00001.
	SegmentFormat string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MotifPairs:    []MotifPair{{Donor: "GT", Acceptor: "AG"}}, // -splice-pairs
	MinIntronSize: 30,                                         // -min-intron-size
	MaxIntronSize: 25000,                                      // -max-intron-size
	SearchArea:    5,                                          // -search-area
	ReadLength:    32,                                         // -read-length
	OnlyFirst:     false,                                      // -only-first
	Joined:        false,                                      // -joined
	MaxJoinLength: 1000000,                                    // -max-join-length
	SegmentFormat: "seg%05d",                                  // -segment-format
}
