// Package fasta provides random access to FASTA-formatted genome sequence,
// either fully in memory or through a samtools-style .fai index (see
// http://www.htslib.org/doc/faidx.html).
//
// Sequence names are the stretch of characters after '>' up to the first
// space; any text after a space is ignored. All bases returned by Get are
// normalized to upper case, so callers can match motifs without case
// handling.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta is a random-access view of a set of named sequences.
type Fasta interface {
	// Get returns the bases of seqName in the 0-based half-open range
	// [start, end), upper-cased. Get is thread-safe.
	Get(seqName string, start, end int) (string, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (int, error)

	// SeqNames returns the names of all sequences, in the order of
	// appearance in the FASTA file.
	SeqNames() []string
}

// Window returns the bases of seqName in [start, end) clipped to the valid
// range of the sequence. Windows that fall entirely outside the sequence
// yield an empty string, not an error, so scanning near contig edges needs
// no bounds handling at the call site.
func Window(f Fasta, seqName string, start, end int) (string, error) {
	n, err := f.Len(seqName)
	if err != nil {
		return "", err
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return "", nil
	}
	return f.Get(seqName, start, end)
}

type memFasta struct {
	seqs     map[string]string
	seqNames []string
}

// New creates a Fasta that holds all sequence data from the given reader in
// memory, upper-casing it on load.
func New(r io.Reader) (Fasta, error) {
	f := &memFasta{seqs: make(map[string]string)}
	var (
		name string
		seq  strings.Builder
	)
	flush := func() error {
		if seq.Len() == 0 && name == "" {
			return nil
		}
		if name == "" {
			return errors.New("malformed FASTA input: sequence data before the first header")
		}
		f.seqs[name] = strings.ToUpper(seq.String())
		f.seqNames = append(f.seqNames, name)
		seq.Reset()
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<30)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.SplitN(line[1:], " ", 2)[0]
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(f.seqNames) == 0 {
		return nil, errors.New("empty FASTA input")
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *memFasta) Get(seqName string, start, end int) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if start < 0 || end <= start {
		return "", errors.Errorf("invalid query range [%d, %d)", start, end)
	}
	if end > len(s) {
		return "", errors.Errorf("query range [%d, %d) past end of sequence %s (length %d)",
			start, end, seqName, len(s))
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *memFasta) Len(seqName string) (int, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return len(s), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *memFasta) SeqNames() []string { return f.seqNames }
