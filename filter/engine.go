// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter evaluates attribute criteria against all bound scene
// elements and toggles node visibility accordingly. Each apply is one
// full traversal with no persistent index, so calls are independent
// and idempotent.
package filter

import (
	"log/slog"
	"time"

	"github.com/bimscape/bimscape/scene"
)

// Result reports one filter pass.
type Result struct {
	// MatchCount is the number of elements that matched and were made
	// visible.
	MatchCount int

	// TotalCount is the number of BIM leaf nodes examined.
	TotalCount int

	// MatchingIDs holds the element ids of the matches, in traversal
	// order.
	MatchingIDs []string

	// Elapsed is the wall time of the traversal.
	Elapsed time.Duration
}

// Engine applies filters to a scene. One filter is active per engine
// instance, replaced wholesale on every apply. Filter operations never
// fail visibly; the worst case is an empty result.
type Engine struct {
	// Scene is the annotated scene the engine filters.
	Scene *scene.Scene

	active *Criteria
}

// New returns a filter engine for the given scene.
func New(sc *scene.Scene) *Engine {
	return &Engine{Scene: sc}
}

// Active returns the currently active criteria, or nil.
func (fe *Engine) Active() *Criteria { return fe.active }

// Apply evaluates the criteria against every BIM leaf node in one
// traversal: matching nodes become visible, non-matching nodes are
// hidden. Unbound nodes are hidden whenever a type allow-list is
// present (they can never match a type) and are otherwise untouched.
// An unset scene yields a zeroed result.
func (fe *Engine) Apply(crit Criteria) Result {
	start := time.Now()
	res := Result{}
	if fe.Scene == nil {
		return res
	}
	fe.active = &crit
	fe.Scene.WalkDown(func(nd *scene.Node) bool {
		if !nd.IsLeaf() || !nd.IsBimObject {
			return scene.Continue
		}
		res.TotalCount++
		if nd.Element == nil {
			if crit.Types != nil {
				nd.Visible = false
			}
			return scene.Continue
		}
		match := crit.Matches(nd.Element)
		nd.Visible = match
		if match {
			res.MatchCount++
			id := nd.Element.ID
			if id == "" {
				id = nd.Element.GlobalID
			}
			res.MatchingIDs = append(res.MatchingIDs, id)
		}
		return scene.Continue
	})
	res.Elapsed = time.Since(start)
	slog.Debug("filter: applied", "matched", res.MatchCount,
		"total", res.TotalCount, "elapsed", res.Elapsed)
	return res
}

// Reset makes every node visible again and clears the active filter.
// Idempotent.
func (fe *Engine) Reset() {
	fe.active = nil
	if fe.Scene == nil {
		return
	}
	fe.Scene.WalkDown(func(nd *scene.Node) bool {
		nd.Visible = true
		return scene.Continue
	})
}
