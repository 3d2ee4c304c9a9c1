package fasta

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// indexEntry is one line of a .fai index: sequence length, byte offset of
// the first base, bases per line, and bytes per line (including the line
// terminator).
type indexEntry struct {
	length    int
	offset    int64
	lineBases int
	lineWidth int
}

type indexedFasta struct {
	mu       sync.Mutex
	r        io.ReadSeeker
	seqs     map[string]indexEntry
	seqNames []string
	buf      []byte
}

// NewIndexed creates a Fasta that random-accesses the given FASTA stream
// through its .fai index, without loading the sequence data into memory.
func NewIndexed(fasta io.ReadSeeker, index io.Reader) (Fasta, error) {
	f := &indexedFasta{r: fasta, seqs: make(map[string]indexEntry)}
	scanner := bufio.NewScanner(index)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 5 {
			return nil, errors.Errorf("invalid index line: %q", line)
		}
		var (
			ent  indexEntry
			err  error
			name = cols[0]
		)
		if ent.length, err = strconv.Atoi(cols[1]); err != nil {
			return nil, errors.Wrapf(err, "index line %q", line)
		}
		if ent.offset, err = strconv.ParseInt(cols[2], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "index line %q", line)
		}
		if ent.lineBases, err = strconv.Atoi(cols[3]); err != nil {
			return nil, errors.Wrapf(err, "index line %q", line)
		}
		if ent.lineWidth, err = strconv.Atoi(cols[4]); err != nil {
			return nil, errors.Wrapf(err, "index line %q", line)
		}
		f.seqs[name] = ent
		f.seqNames = append(f.seqNames, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading FASTA index")
	}
	return f, nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (int, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", seqName)
	}
	return ent.length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string { return f.seqNames }

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start, end int) (string, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found in index: %s", seqName)
	}
	if start < 0 || end <= start {
		return "", errors.Errorf("invalid query range [%d, %d)", start, end)
	}
	if end > ent.length {
		return "", errors.Errorf("query range [%d, %d) past end of sequence %s (length %d)",
			start, end, seqName, ent.length)
	}
	if ent.lineBases <= 0 || ent.lineWidth < ent.lineBases {
		return "", errors.Errorf("corrupt index entry for sequence %s", seqName)
	}

	// Byte positions of the first and last requested base, accounting for
	// the line terminators interleaved with the bases.
	newlineBytes := ent.lineWidth - ent.lineBases
	byteStart := ent.offset + int64(start) + int64(start/ent.lineBases)*int64(newlineBytes)
	last := end - 1
	byteLast := ent.offset + int64(last) + int64(last/ent.lineBases)*int64(newlineBytes)
	span := int(byteLast-byteStart) + 1

	f.mu.Lock()
	defer f.mu.Unlock()
	if pos, err := f.r.Seek(byteStart, io.SeekStart); err != nil || pos != byteStart {
		return "", errors.Errorf("failed to seek to offset %d: %d, %v", byteStart, pos, err)
	}
	if cap(f.buf) < span {
		f.buf = make([]byte, span)
	}
	f.buf = f.buf[:span]
	if _, err := io.ReadFull(f.r, f.buf); err != nil {
		return "", errors.Wrapf(err, "short read for sequence %s (bad index?)", seqName)
	}

	out := make([]byte, 0, end-start)
	for _, c := range f.buf {
		if c == '\n' || c == '\r' {
			continue
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	if len(out) != end-start {
		return "", errors.Errorf("read %d bases for range [%d, %d) of %s (bad index?)",
			len(out), start, end, seqName)
	}
	return string(out), nil
}
