package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// GenerateIndex writes a .fai index for the FASTA stream in. The index can
// be passed to NewIndexed later to random-access the same file. The format
// is the one produced by "samtools faidx".
func GenerateIndex(out io.Writer, in io.Reader) error {
	var (
		w         = tsv.NewWriter(out)
		r         = bufio.NewReader(in)
		name      string
		offset    int64
		bases     int
		lineBases int
		lineWidth int
		cumBytes  int64
		sawSeq    bool
	)
	flush := func() error {
		w.WriteString(name)
		w.WriteInt64(int64(bases))
		w.WriteInt64(offset)
		w.WriteInt64(int64(lineBases))
		w.WriteInt64(int64(lineWidth))
		return w.EndLine()
	}
	for {
		raw, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF
		cumBytes += int64(len(raw))
		line := bytes.TrimRight(raw, "\r\n")
		switch {
		case len(line) == 0:
			// skip blank lines
		case line[0] == '>':
			if sawSeq {
				if err := flush(); err != nil {
					return err
				}
			}
			name = strings.SplitN(string(line[1:]), " ", 2)[0]
			if name == "" {
				return errors.E("malformed FASTA file: empty sequence name")
			}
			offset = cumBytes
			bases, lineBases, lineWidth = 0, 0, 0
			sawSeq = true
		default:
			if !sawSeq {
				return errors.E("malformed FASTA file: sequence data before the first header")
			}
			if lineWidth == 0 {
				lineWidth = len(raw)
				lineBases = len(line)
			}
			bases += len(line)
		}
		if eof {
			break
		}
	}
	if !sawSeq {
		return errors.E("empty FASTA file")
	}
	if err := flush(); err != nil {
		return err
	}
	return w.Flush()
}
