package main

// fasta2spliced locates candidate splice junctions in a genome, given a set
// of exon intervals, and synthesizes junction-spanning sequences for seeding
// short-read alignment across splice boundaries.
//
// Example 1: one FASTA record per junction
//
//    fasta2spliced -genome hg19.fa -regions exons.gff > junctions.fa
//
// Example 2: joined mode, with provenance table and a .fai-indexed genome
//
//    fasta2spliced -genome hg19.fa -genome-index hg19.fa.fai -regions exons.gff \
//        -joined -output joined.fa -coords-output coords.tsv
//
// Example 3: re-emit from a junction dump without rescanning the genome
//
//    fasta2spliced -candidates-input junctions.rio -output junctions.fa

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"

	"github.com/fw1121/cgat/encoding/fasta"
	"github.com/fw1121/cgat/splice"
	"github.com/fw1121/cgat/splice/gff"
)

// Collection of options set via cmdline flags.
type spliceFlags struct {
	genomePath           string
	genomeIndexPath      string
	regionsPath          string
	feature              string
	splicePairs          string
	outputPath           string
	coordsPath           string
	candidatesOutputPath string
	candidatesInputPath  string
}

// parseSplicePairs parses "GT:AG,CT:GC" into motif pairs. Validation of the
// motif lengths happens in splice.NewMotifIndex.
func parseSplicePairs(s string) ([]splice.MotifPair, error) {
	var pairs []splice.MotifPair
	for _, p := range strings.Split(s, ",") {
		parts := strings.Split(p, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed splice pair %q, expected donor:acceptor", p)
		}
		pairs = append(pairs, splice.MotifPair{
			Donor:    strings.ToUpper(parts[0]),
			Acceptor: strings.ToUpper(parts[1]),
		})
	}
	return pairs, nil
}

// createFile opens path for writing, adding gzip compression when the path
// ends in .gz. An empty path or "-" means stdout. The returned cleanup
// flushes and closes; any error crashes the process.
func createFile(ctx context.Context, path string) (io.Writer, func()) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		log.Panicf("create %s: %v", path, err)
	}
	closeFile := func() {
		if err := f.Close(ctx); err != nil {
			log.Panicf("close %s: %v", path, err)
		}
	}
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f.Writer(ctx))
		return gz, func() {
			if err := gz.Close(); err != nil {
				log.Panicf("close %s: %v", path, err)
			}
			closeFile()
		}
	}
	return f.Writer(ctx), closeFile
}

// openGenome returns the genome accessor: .fai-indexed random access when
// -genome-index is given, otherwise the whole genome is read into memory.
func openGenome(ctx context.Context, flags spliceFlags) fasta.Fasta {
	in, err := file.Open(ctx, flags.genomePath)
	if err != nil {
		log.Fatalf("open %s: %v", flags.genomePath, err)
	}
	if flags.genomeIndexPath != "" {
		idxIn, err := file.Open(ctx, flags.genomeIndexPath)
		if err != nil {
			log.Fatalf("open %s: %v", flags.genomeIndexPath, err)
		}
		// The genome file stays open for the lifetime of the run; the
		// indexed accessor seeks into it on every Get.
		genome, err := fasta.NewIndexed(in.Reader(ctx), idxIn.Reader(ctx))
		if err != nil {
			log.Fatalf("%s: %v", flags.genomeIndexPath, err)
		}
		if err := idxIn.Close(ctx); err != nil {
			log.Fatal(err)
		}
		return genome
	}
	genome, err := fasta.New(in.Reader(ctx))
	if err != nil {
		log.Fatalf("%s: %v", flags.genomePath, err)
	}
	if err := in.Close(ctx); err != nil {
		log.Fatal(err)
	}
	return genome
}

// newEmitter builds the output-mode emitter and returns it along with a
// cleanup closing the underlying files.
func newEmitter(ctx context.Context, flags spliceFlags, opts splice.Opts) (splice.Emitter, func()) {
	out, outCleanup := createFile(ctx, flags.outputPath)
	if !opts.Joined {
		return splice.NewRecordWriter(out), outCleanup
	}
	coords, coordsCleanup := createFile(ctx, flags.coordsPath)
	emitter, err := splice.NewJoinedWriter(out, coords, opts)
	if err != nil {
		log.Panic(err)
	}
	return emitter, func() {
		coordsCleanup()
		outCleanup()
	}
}

func run(ctx context.Context, flags spliceFlags, opts splice.Opts, idx splice.MotifIndex) {
	genome := openGenome(ctx, flags)
	regions, err := gff.ReadIntervals(ctx, flags.regionsPath, flags.feature)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Read intervals for %d contigs from %s", len(regions), flags.regionsPath)

	// Contigs are independent, so scanning and pairing fan out per contig.
	// Emission stays sequential in genome order below, which keeps the
	// output byte-identical across runs.
	contigs := genome.SeqNames()
	junctions := make([][]splice.Junction, len(contigs))
	statsv := make([]splice.Stats, len(contigs))
	err = traverse.Each(len(contigs), func(i int) error {
		contig := contigs[i]
		stats := &statsv[i]
		stats.Contigs++
		exons, ok := regions[contig]
		if !ok {
			log.Debug.Printf("skipped %s - no intervals defined", contig)
			stats.SkippedContigs++
			return nil
		}
		n, err := genome.Len(contig)
		if err != nil {
			return err
		}
		if n == 0 {
			stats.SkippedContigs++
			return nil
		}
		seq, err := genome.Get(contig, 0, n)
		if err != nil {
			return err
		}
		log.Debug.Printf("processing %s of length %d", contig, n)
		junctions[i] = splice.FindJunctions(contig, seq, exons, idx, opts, stats)
		log.Printf("contig %s: %d junctions", contig, stats.Junctions)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	emitter, cleanup := newEmitter(ctx, flags, opts)
	var dump *junctionWriter
	if flags.candidatesOutputPath != "" {
		dump = newJunctionWriter(ctx, flags.candidatesOutputPath, opts)
	}
	for i := range junctions {
		for _, j := range junctions[i] {
			if dump != nil {
				dump.Write(j)
			}
			if err := emitter.Emit(j); err != nil {
				log.Panic(err)
			}
		}
	}
	if err := emitter.Close(); err != nil {
		log.Panic(err)
	}
	cleanup()
	if dump != nil {
		dump.Close(ctx)
	}

	stats := splice.Stats{}
	for _, s := range statsv {
		stats = stats.Merge(s)
	}
	log.Printf("ninput=%d, noutput=%d", stats.Contigs, stats.Junctions)
	log.Printf("Stats: %+v", stats)
}

// reemit replays a junction dump through the emitter, using the options the
// dump was produced with.
func reemit(ctx context.Context, flags spliceFlags) {
	r := newJunctionReader(ctx, flags.candidatesInputPath)
	emitter, cleanup := newEmitter(ctx, flags, r.Opts())
	n := 0
	for r.Scan() {
		if err := emitter.Emit(r.Get()); err != nil {
			log.Panic(err)
		}
		n++
	}
	r.Close(ctx)
	if err := emitter.Close(); err != nil {
		log.Panic(err)
	}
	cleanup()
	log.Printf("Re-emitted %d junctions from %s", n, flags.candidatesInputPath)
}

func main() {
	flags := spliceFlags{}
	opts := splice.DefaultOpts
	flag.StringVar(&flags.genomePath, "genome", "", "FASTA file with the genome sequence.")
	flag.StringVar(&flags.genomeIndexPath, "genome-index", "", ".fai index for -genome. If set, the genome is random-accessed instead of loaded into memory.")
	flag.StringVar(&flags.regionsPath, "regions", "", "GFF/GTF file with exon intervals. May be gzip-compressed.")
	flag.StringVar(&flags.feature, "feature", "", "If nonempty, use only GFF rows of this feature type (e.g. exon).")
	flag.StringVar(&flags.splicePairs, "splice-pairs", "GT:AG", "Comma-separated donor:acceptor motif pairs.")
	flag.StringVar(&flags.outputPath, "output", "", "Output FASTA file. Empty or - writes to stdout; a .gz suffix compresses.")
	flag.StringVar(&flags.coordsPath, "coords-output", "coords.tsv", "Provenance table written in -joined mode.")
	flag.StringVar(&flags.candidatesOutputPath, "candidates-output", "", "If set, additionally dump every junction to this recordio file.")
	flag.StringVar(&flags.candidatesInputPath, "candidates-input", "", "If set, skip scanning and re-emit the junctions stored in this recordio dump.")
	flag.IntVar(&opts.MinIntronSize, "min-intron-size", splice.DefaultOpts.MinIntronSize, "Minimum intron length.")
	flag.IntVar(&opts.MaxIntronSize, "max-intron-size", splice.DefaultOpts.MaxIntronSize, "Maximum intron length (exclusive).")
	flag.IntVar(&opts.SearchArea, "search-area", splice.DefaultOpts.SearchArea, "Window radius around each intron boundary.")
	flag.IntVar(&opts.ReadLength, "read-length", splice.DefaultOpts.ReadLength, "Exonic flank length retained on each side of a junction.")
	flag.BoolVar(&opts.OnlyFirst, "only-first", splice.DefaultOpts.OnlyFirst, "Only collect the first possible splice site per boundary.")
	flag.BoolVar(&opts.Joined, "joined", splice.DefaultOpts.Joined, "Output all junctions in large joined segments instead of single fragments.")
	flag.IntVar(&opts.MaxJoinLength, "max-join-length", splice.DefaultOpts.MaxJoinLength, "Length after which the current joined segment is closed.")
	flag.StringVar(&opts.SegmentFormat, "segment-format", splice.DefaultOpts.SegmentFormat, "Naming pattern for joined segments.")

	shutdown := grail.Init()
	defer shutdown()
	ctx := vcontext.Background()

	if flags.candidatesInputPath != "" {
		reemit(ctx, flags)
		log.Printf("All done")
		return
	}

	pairs, err := parseSplicePairs(flags.splicePairs)
	if err != nil {
		log.Fatal(err)
	}
	opts.MotifPairs = pairs
	// Malformed motif configuration is fatal before any contig is touched.
	idx, err := splice.NewMotifIndex(opts.MotifPairs)
	if err != nil {
		log.Fatal(err)
	}

	if flags.genomePath == "" || flags.regionsPath == "" {
		log.Fatal("both -genome and -regions are required")
	}
	run(ctx, flags, opts, idx)
	log.Printf("All done")
}
