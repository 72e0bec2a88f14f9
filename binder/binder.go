// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binder loads a scene asset, attaches semantic metadata to
// the matching render nodes, and provides the centering, scaling, and
// camera-placement utilities everything downstream relies on.
package binder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/bimscape/bimscape/scene"
	"github.com/bimscape/bimscape/semantic"
)

// LoadFailure is returned when an asset cannot be fetched or decoded.
// No partially-attached scene is reachable when it is returned, and
// the load is never retried internally.
type LoadFailure struct {
	// URL is the source that failed.
	URL string

	// Err is the underlying fetch or decode error.
	Err error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("binder: loading %v: %v", e.URL, e.Err)
}

func (e *LoadFailure) Unwrap() error { return e.Err }

// Options configures one load call.
type Options struct {
	// OnProgress is called with monotonically non-decreasing byte
	// counts as the asset streams in. Total is -1 when unknown.
	OnProgress func(done, total int64)

	// Client is the HTTP client for http(s) sources; nil uses
	// http.DefaultClient.
	Client *http.Client
}

// Result is the outcome of a successful load: the model's group node
// within the scene, its bounding volume, and the correlation counts
// reported for observability.
type Result struct {
	// Group is the subtree holding the loaded model.
	Group *scene.Node

	// BoundingVolume is the world bounding box of the loaded model.
	BoundingVolume math32.Box3

	// Bound is the number of leaf nodes with correlated metadata.
	Bound int

	// Generic is the number of leaf nodes without a metadata match,
	// marked as generic BIM objects (still selectable).
	Generic int

	// Index is the metadata index built for this model, live for the
	// lifetime of the bound scene.
	Index *semantic.Index
}

// Binder binds asset geometry and semantic metadata into a scene.
// A new load call does not cancel a prior in-flight one: both resolve
// and the caller discards whichever result is stale.
type Binder struct {
	// Scene is the scene models are loaded into.
	Scene *scene.Scene
}

// New returns a binder targeting the given scene.
func New(sc *scene.Scene) *Binder {
	return &Binder{Scene: sc}
}

// Load fetches and decodes the asset at sourceURL (http(s) URL or
// filesystem path), attaches it under the scene root, and correlates
// its leaf nodes against the given metadata records. Side effects are
// limited to node auxiliary data; geometry and materials are never
// mutated here. Blocking call: use [Binder.LoadAsync] from a frame
// loop.
func (bd *Binder) Load(ctx context.Context, sourceURL string, elems []semantic.Element, opts *Options) (*Result, error) {
	pd, err := bd.decode(ctx, sourceURL, elems, opts)
	if err != nil {
		return nil, err
	}
	return pd.Commit()
}

// decode fetches the asset and parses it, without touching the scene
// tree. The returned Pending carries the decoded state until Commit
// attaches it.
func (bd *Binder) decode(ctx context.Context, sourceURL string, elems []semantic.Element, opts *Options) (*Pending, error) {
	if bd.Scene == nil {
		return nil, &LoadFailure{URL: sourceURL, Err: fmt.Errorf("no scene to load into")}
	}
	if opts == nil {
		opts = &Options{}
	}
	rc, total, err := open(ctx, sourceURL, opts.Client)
	if err != nil {
		return nil, &LoadFailure{URL: sourceURL, Err: err}
	}
	defer rc.Close()

	pr := &progressReader{r: rc, total: total, onProgress: opts.OnProgress}
	dec, err := scene.DecodeStreams(sourceURL, []io.Reader{pr})
	if err != nil {
		return nil, &LoadFailure{URL: sourceURL, Err: err}
	}
	pr.finish()
	return &Pending{bd: bd, sourceURL: sourceURL, dec: dec, elems: elems}, nil
}

// Pending is a fetched and decoded asset that has not been attached to
// the scene yet. The scene tree is untouched until [Pending.Commit].
type Pending struct {
	bd        *Binder
	sourceURL string
	dec       scene.Decoder
	elems     []semantic.Element
}

// Commit attaches the decoded group under the scene root, correlates
// metadata, and updates world transforms. It must run on the goroutine
// that owns the scene, so async loads keep all tree mutation on the
// caller's side of the channel.
func (pd *Pending) Commit() (*Result, error) {
	bd := pd.bd
	gp, err := scene.AttachGroup(pd.sourceURL, pd.dec, bd.Scene.Root)
	if err != nil {
		return nil, &LoadFailure{URL: pd.sourceURL, Err: err}
	}

	ix := semantic.NewIndex(pd.elems)
	res := &Result{Group: gp, Index: ix}
	bindMetadata(gp, ix, res)

	bd.Scene.UpdateWorld()
	res.BoundingVolume = gp.WorldBBox

	slog.Info("binder: model loaded", "source", pd.sourceURL,
		"bound", res.Bound, "generic", res.Generic, "elements", ix.Len())
	return res, nil
}

// AsyncResult delivers a decoded asset, or the terminal fetch/decode
// error, on the channel returned by [Binder.LoadAsync].
type AsyncResult struct {
	Pending *Pending
	Err     error
}

// LoadAsync fetches and decodes without blocking the caller and
// delivers the result on the returned channel (buffered, so delivery
// never blocks either). Only fetching and parsing happen on the
// loading goroutine; the receiver calls [Pending.Commit] to attach the
// model, so the shared scene tree is only ever mutated by its owner.
// Progress callbacks run on the loading goroutine. There is no
// cancellation of a prior in-flight load beyond ctx: callers discard
// superseded results themselves.
func (bd *Binder) LoadAsync(ctx context.Context, sourceURL string, elems []semantic.Element, opts *Options) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		pd, err := bd.decode(ctx, sourceURL, elems, opts)
		ch <- AsyncResult{Pending: pd, Err: err}
	}()
	return ch
}

// bindMetadata walks the loaded group's leaves and attaches semantic
// elements in correlation order: external id against global ids, then
// against internal ids, then generic. Every leaf ends up classified.
func bindMetadata(gp *scene.Node, ix *semantic.Index, res *Result) {
	gp.WalkDown(func(nd *scene.Node) bool {
		if !nd.IsLeaf() {
			return scene.Continue
		}
		nd.IsBimObject = true
		key := nd.ExternalID
		if key == "" {
			key = nd.Name
		}
		if el := ix.Correlate(key); el != nil {
			nd.Element = el
			res.Bound++
		} else {
			res.Generic++
		}
		return scene.Continue
	})
}

// open returns a stream for the source plus its total size in bytes,
// -1 when unknown.
func open(ctx context.Context, sourceURL string, client *http.Client) (io.ReadCloser, int64, error) {
	if strings.HasPrefix(sourceURL, "http://") || strings.HasPrefix(sourceURL, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
		if err != nil {
			return nil, 0, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, 0, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return resp.Body, resp.ContentLength, nil
	}
	f, err := os.Open(sourceURL)
	if err != nil {
		return nil, 0, err
	}
	total := int64(-1)
	if fi, err := f.Stat(); err == nil {
		total = fi.Size()
	}
	return f, total, nil
}

// progressReader counts bytes read and reports them through the
// progress callback, never going backwards.
type progressReader struct {
	r          io.Reader
	done       int64
	total      int64
	onProgress func(done, total int64)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.done += int64(n)
		if pr.onProgress != nil {
			pr.onProgress(pr.done, pr.total)
		}
	}
	return n, err
}

// finish emits one final progress report with done == total so
// consumers always observe completion.
func (pr *progressReader) finish() {
	if pr.onProgress == nil {
		return
	}
	if pr.total < 0 || pr.done > pr.total {
		pr.total = pr.done
	} else {
		pr.done = pr.total
	}
	pr.onProgress(pr.done, pr.total)
}
