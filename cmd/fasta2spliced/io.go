package main

// This file defines junctionWriter and junctionReader. junctionWriter dumps
// synthesized junctions into a recordio file; junctionReader reads them
// back, so the emission stage can be re-run without scanning the genome
// again.

import (
	"bytes"
	"context"
	"encoding/gob"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"

	"github.com/fw1121/cgat/splice"
)

const (
	// <fileVersionHeader, fileVersion> is stored in the recordio header.
	fileVersionHeader = "fasta2splicedversion"
	fileVersion       = "F2S_V1"
)

// junctionFileTrailer is stored in the trailer section of the recordio file.
type junctionFileTrailer struct {
	// Opts is the option set the junctions were produced with.
	Opts splice.Opts
}

func encodeGOB(gw *gob.Encoder, v interface{}) {
	if err := gw.Encode(v); err != nil {
		panic(err)
	}
}

func decodeGOB(gr *gob.Decoder, v interface{}) {
	if err := gr.Decode(v); err != nil {
		panic(err)
	}
}

type junctionWriter struct {
	out  file.File
	w    recordio.Writer
	opts splice.Opts
}

func newJunctionWriter(ctx context.Context, outPath string, opts splice.Opts) *junctionWriter {
	recordiozstd.Init()
	out, err := file.Create(ctx, outPath)
	if err != nil {
		log.Panicf("rio create %v: %v", outPath, err)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &junctionWriter{out: out, w: w, opts: opts}
}

// Write adds one junction. Any error will crash the process.
func (w *junctionWriter) Write(j splice.Junction) {
	b := bytes.NewBuffer(nil)
	gw := gob.NewEncoder(b)
	encodeGOB(gw, j)
	w.w.Append(b.Bytes())
}

// Close closes the writer. It must be called exactly once, after writing all
// the junctions.
func (w *junctionWriter) Close(ctx context.Context) {
	b := bytes.NewBuffer(nil)
	gw := gob.NewEncoder(b)
	encodeGOB(gw, junctionFileTrailer{Opts: w.opts})
	w.w.SetTrailer(b.Bytes())
	if err := w.w.Finish(); err != nil {
		log.Panic("close", err)
	}
	if err := w.out.Close(ctx); err != nil {
		log.Panic("close", err)
	}
}

// junctionReader reads junctions from a recordio file created by
// junctionWriter.
type junctionReader struct {
	in   file.File
	r    recordio.Scanner
	opts splice.Opts

	j splice.Junction // last junction read by Scan.
}

func newJunctionReader(ctx context.Context, inPath string) *junctionReader {
	in, err := file.Open(ctx, inPath)
	if err != nil {
		log.Panicf("open %s: %v", inPath, err)
	}
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == fileVersionHeader {
			if kv.Value.(string) != fileVersion {
				log.Panicf("junction file version mismatch, got %v, expect %v",
					kv.Value.(string), fileVersion)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		log.Panic(fileVersionHeader + " not found")
	}
	gr := gob.NewDecoder(bytes.NewReader(r.Trailer()))
	trailer := junctionFileTrailer{}
	decodeGOB(gr, &trailer)
	return &junctionReader{in: in, r: r, opts: trailer.Opts}
}

// Opts returns the options written in the recordio file. This method can be
// called any time.
func (r *junctionReader) Opts() splice.Opts { return r.opts }

// Scan reads the next junction.
//
// REQUIRES: Close hasn't been called.
func (r *junctionReader) Scan() bool {
	if !r.r.Scan() {
		return false
	}
	gr := gob.NewDecoder(bytes.NewReader(r.r.Get().([]byte)))
	r.j = splice.Junction{}
	decodeGOB(gr, &r.j)
	return true
}

// Get yields the current junction.
//
// REQUIRES: Last Scan call returned true.
func (r *junctionReader) Get() splice.Junction { return r.j }

// Close closes the reader. It must be called exactly once.
func (r *junctionReader) Close(ctx context.Context) {
	if err := r.r.Err(); err != nil {
		log.Panic(err)
	}
	if err := r.in.Close(ctx); err != nil {
		log.Panic(err)
	}
}
