// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Decoder parses a 3D asset stream and imports it into a node group.
// This interface is implemented by the format-specific decoders; the
// binder is format-agnostic given this contract. Any loader producing
// a node tree whose leaves carry geometry, material, and a declared
// external id satisfies the engine's correlation requirements.
type Decoder interface {
	// New returns a new instance of the decoder for one decoding pass.
	New() Decoder

	// Desc returns the description of this decoder.
	Desc() string

	// SetFile sets the file name being used for decoding, in case
	// companion files must be loaded from the same directory.
	// It returns the full list of files to open, main file first.
	SetFile(fname string) []string

	// Decode reads and parses the given streams, retaining the decoded
	// state in this instance.
	Decode(rs []io.Reader) error

	// SetGroup populates the given group node with the decoded objects.
	SetGroup(gp *Node) error
}

// Decoders is the registry of decoders, keyed by primary file
// extension (with dot). Format packages register themselves via init.
var Decoders = map[string]Decoder{}

// DecoderByExt returns the registered decoder for the given file name's
// extension.
func DecoderByExt(fname string) (Decoder, error) {
	ext := filepath.Ext(fname)
	dt, has := Decoders[ext]
	if !has {
		return nil, fmt.Errorf("scene.DecoderByExt: no decoder registered for extension %q (file %v)", ext, fname)
	}
	return dt.New(), nil
}

// DecodeStreams selects a decoder by the extension of fname and
// decodes the given streams into it, without touching any scene tree.
// Pass the returned decoder to [AttachGroup] to import the result.
// The split lets decoding run on a background goroutine while the
// attach stays on the goroutine that owns the scene.
func DecodeStreams(fname string, rs []io.Reader) (Decoder, error) {
	dec, err := DecoderByExt(fname)
	if err != nil {
		return nil, err
	}
	dec.SetFile(fname)
	if err := dec.Decode(rs); err != nil {
		return nil, err
	}
	return dec, nil
}

// AttachGroup imports the decoder's parsed state into a new group
// under parent, which is removed again if the import fails.
func AttachGroup(fname string, dec Decoder, parent *Node) (*Node, error) {
	gp := parent.NewChild(filepath.Base(fname))
	if err := dec.SetGroup(gp); err != nil {
		parent.DeleteChild(gp)
		return nil, err
	}
	return gp, nil
}

// ReadGroup decodes the given streams into a new group under parent,
// using a decoder selected by the extension of fname. The file name is
// only used for decoder selection and naming, so this can load data
// from any stream source.
func ReadGroup(fname string, rs []io.Reader, parent *Node) (*Node, error) {
	dec, err := DecodeStreams(fname, rs)
	if err != nil {
		return nil, err
	}
	return AttachGroup(fname, dec, parent)
}

// OpenGroup opens the named asset file (plus any companion files the
// decoder requires) into a new group under parent.
func OpenGroup(fname string, parent *Node) (*Node, error) {
	dec, err := DecoderByExt(fname)
	if err != nil {
		return nil, err
	}
	files := dec.SetFile(fname)
	rs := make([]io.Reader, len(files))
	fs := make([]*os.File, len(files))
	defer func() {
		for _, f := range fs {
			if f != nil {
				f.Close()
			}
		}
	}()
	for i, fn := range files {
		fs[i], err = os.Open(fn)
		if err != nil {
			return nil, err
		}
		rs[i] = fs[i]
	}
	if err := dec.Decode(rs); err != nil {
		return nil, err
	}
	gp := parent.NewChild(filepath.Base(fname))
	if err := dec.SetGroup(gp); err != nil {
		parent.DeleteChild(gp)
		return nil, err
	}
	return gp, nil
}
