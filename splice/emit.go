package splice

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/tsv"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Junction is one synthesized splice junction: the accepted pair plus the
// exonic flanks extracted around its breakpoints. The intron itself is
// excised; LeftSeq+RightSeq simulates a read spanning the splice boundary.
type Junction struct {
	Contig string
	// Left is the donor motif start, Right the acceptor motif end.
	Left  int
	Right int
	Class int
	// FlankStart is max(0, Left-ReadLength); FlankEnd is
	// min(contig length, Right+ReadLength).
	FlankStart int
	FlankEnd   int
	// LeftSeq is sequence[FlankStart:Left], RightSeq is
	// sequence[Right:FlankEnd].
	LeftSeq  string
	RightSeq string
}

// NewJunction extracts the flanks for one accepted pair from the full contig
// sequence.
func NewJunction(contig, seq string, p Pair, readLength int) Junction {
	lmin := p.Left - readLength
	if lmin < 0 {
		lmin = 0
	}
	rmax := p.Right + readLength
	if rmax > len(seq) {
		rmax = len(seq)
	}
	return Junction{
		Contig:     contig,
		Left:       p.Left,
		Right:      p.Right,
		Class:      p.Class,
		FlankStart: lmin,
		FlankEnd:   rmax,
		LeftSeq:    seq[lmin:p.Left],
		RightSeq:   seq[p.Right:rmax],
	}
}

// FindJunctions runs the scanning and pairing stages for one contig and
// materializes the accepted pairs. seq must be upper case. stats is updated
// with the per-contig counts.
func FindJunctions(contig, seq string, exons []Interval, idx MotifIndex, opts Opts, stats *Stats) []Junction {
	left, right := ScanRegions(seq, exons, idx, opts)
	if len(exons) >= 2 {
		stats.Introns += len(exons) - 1
	}
	stats.LeftSites += len(left)
	stats.RightSites += len(right)
	pairs := PairCandidates(left, right, opts)
	if len(pairs) == 0 {
		return nil
	}
	junctions := make([]Junction, 0, len(pairs))
	for _, p := range pairs {
		junctions = append(junctions, NewJunction(contig, seq, p, opts.ReadLength))
	}
	stats.Junctions += len(junctions)
	return junctions
}

// Emitter materializes junctions into an output stream.
type Emitter interface {
	// Emit writes one junction. Junctions must be passed in emission order.
	Emit(j Junction) error
	// Close flushes buffered output. It must be called exactly once, after
	// the last Emit.
	Close() error
}

// RecordWriter emits one self-contained FASTA record per junction. The
// record id encodes the source contig and the flank boundaries.
type RecordWriter struct {
	out *bufio.Writer
}

// NewRecordWriter returns an Emitter for the non-joined output mode.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{out: bufio.NewWriter(w)}
}

// Emit implements Emitter.
func (w *RecordWriter) Emit(j Junction) error {
	if _, err := fmt.Fprintf(w.out, ">%s_%d_%d\n", j.Contig, j.FlankStart, j.Right); err != nil {
		return err
	}
	if _, err := w.out.Write(gunsafe.StringToBytes(j.LeftSeq)); err != nil {
		return err
	}
	if _, err := w.out.Write(gunsafe.StringToBytes(j.RightSeq)); err != nil {
		return err
	}
	return w.out.WriteByte('\n')
}

// Close implements Emitter.
func (w *RecordWriter) Close() error { return w.out.Flush() }

// JoinedWriter appends junction blocks, separated by N-spacers, to a running
// synthetic segment and records one provenance row per block. When the
// running length exceeds MaxJoinLength the segment is closed and a new one
// started at offset 0.
//
// The provenance table and the sequence stream stay index-consistent: row i
// is written before the bytes of the i-th block, and its pos column is the
// running segment length before the block.
type JoinedWriter struct {
	out    *bufio.Writer
	coords *tsv.Writer

	format    string
	separator string
	maxLen    int

	segment int
	nbases  int
}

// NewJoinedWriter returns an Emitter for the joined output mode. out
// receives the synthetic segment FASTA; coords receives the tab-separated
// provenance table. The header line of the table and the first segment
// header are written immediately.
func NewJoinedWriter(out, coords io.Writer, opts Opts) (*JoinedWriter, error) {
	w := &JoinedWriter{
		out:       bufio.NewWriter(out),
		coords:    tsv.NewWriter(coords),
		format:    opts.SegmentFormat,
		separator: strings.Repeat("N", opts.ReadLength),
		maxLen:    opts.MaxJoinLength,
		segment:   1,
	}
	for _, col := range []string{"segment", "pos", "contig", "5start", "3start"} {
		w.coords.WriteString(col)
	}
	if err := w.coords.EndLine(); err != nil {
		return nil, err
	}
	if err := w.writeSegmentHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *JoinedWriter) writeSegmentHeader() error {
	_, err := fmt.Fprintf(w.out, ">"+w.format+"\n", w.segment)
	return err
}

// SegmentID returns the name of the segment currently being filled.
func (w *JoinedWriter) SegmentID() string { return fmt.Sprintf(w.format, w.segment) }

// Emit implements Emitter.
func (w *JoinedWriter) Emit(j Junction) error {
	w.coords.WriteString(w.SegmentID())
	w.coords.WriteInt64(int64(w.nbases))
	w.coords.WriteString(j.Contig)
	w.coords.WriteInt64(int64(j.FlankStart))
	w.coords.WriteInt64(int64(j.Right))
	if err := w.coords.EndLine(); err != nil {
		return err
	}

	if _, err := w.out.Write(gunsafe.StringToBytes(j.LeftSeq)); err != nil {
		return err
	}
	if _, err := w.out.Write(gunsafe.StringToBytes(j.RightSeq)); err != nil {
		return err
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.out.Write(gunsafe.StringToBytes(w.separator)); err != nil {
		return err
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	w.nbases += len(j.LeftSeq) + len(j.RightSeq) + len(w.separator)

	if w.nbases > w.maxLen {
		w.nbases = 0
		w.segment++
		return w.writeSegmentHeader()
	}
	return nil
}

// Close implements Emitter.
func (w *JoinedWriter) Close() error {
	if err := w.coords.Flush(); err != nil {
		return err
	}
	return w.out.Flush()
}
