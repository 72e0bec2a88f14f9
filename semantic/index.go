// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semantic

import "strings"

// Index is the one-time lookup table from element identifier to
// [Element], built per loaded model and read-only thereafter.
// Its lifetime is that of the bound scene.
type Index struct {
	// elements holds the records in their original order.
	elements []*Element

	byGlobalID map[string]*Element
	byID       map[string]*Element
}

// NewIndex builds an index over the given element records. The records
// are copied by reference: the index never mutates them. Duplicate
// keys keep the first record, matching upstream extractor behavior.
func NewIndex(elems []Element) *Index {
	ix := &Index{
		elements:   make([]*Element, len(elems)),
		byGlobalID: make(map[string]*Element, len(elems)),
		byID:       make(map[string]*Element, len(elems)),
	}
	for i := range elems {
		el := &elems[i]
		ix.elements[i] = el
		if el.GlobalID != "" {
			if _, ok := ix.byGlobalID[el.GlobalID]; !ok {
				ix.byGlobalID[el.GlobalID] = el
			}
		}
		if el.ID != "" {
			if _, ok := ix.byID[el.ID]; !ok {
				ix.byID[el.ID] = el
			}
		}
	}
	return ix
}

// Len returns the number of indexed elements.
func (ix *Index) Len() int {
	return len(ix.elements)
}

// Elements returns the indexed records in their original order.
// The returned slice must not be modified.
func (ix *Index) Elements() []*Element {
	return ix.elements
}

// ByGlobalID returns the element with the given global id, or nil.
func (ix *Index) ByGlobalID(gid string) *Element {
	return ix.byGlobalID[gid]
}

// ByID returns the element with the given internal id, or nil.
func (ix *Index) ByID(id string) *Element {
	return ix.byID[id]
}

// Correlate resolves a render node's declared external id to an
// element, trying the global id first and the internal id second.
// Exported geometry sometimes suffixes duplicate node names with
// "_<n>"; when the raw key misses, the suffix is stripped and the
// lookup retried. Returns nil if no record matches.
func (ix *Index) Correlate(externalID string) *Element {
	if externalID == "" {
		return nil
	}
	if el := ix.lookup(externalID); el != nil {
		return el
	}
	if i := strings.LastIndexByte(externalID, '_'); i > 0 && allDigits(externalID[i+1:]) {
		return ix.lookup(externalID[:i])
	}
	return nil
}

func (ix *Index) lookup(key string) *Element {
	if el := ix.byGlobalID[key]; el != nil {
		return el
	}
	return ix.byID[key]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
