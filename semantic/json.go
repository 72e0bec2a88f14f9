// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semantic

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// jsonElement mirrors one record of the upstream extractor's bulk
// element output: a flat list of elements keyed by IFC GlobalId, with
// property sets, quantity sets, and type properties as nested maps.
type jsonElement struct {
	GlobalID    string          `json:"global_id"`
	ElementType string          `json:"element_type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Properties  jsonPropertyMap `json:"properties"`
}

type jsonPropertyMap struct {
	PropertySets   map[string]map[string]any `json:"property_sets"`
	Quantities     map[string]map[string]any `json:"quantities"`
	TypeProperties map[string]map[string]any `json:"type_properties"`
}

// ReadElements decodes a flat element list in the upstream extractor's
// JSON shape. The GlobalId doubles as the internal id when the source
// provides no separate key. Property groups and names are emitted in
// sorted order so the resulting property list is deterministic.
func ReadElements(r io.Reader) ([]Element, error) {
	var jes []jsonElement
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jes); err != nil {
		return nil, fmt.Errorf("semantic.ReadElements: decoding element list: %w", err)
	}
	els := make([]Element, 0, len(jes))
	for _, je := range jes {
		el := Element{
			ID:          je.GlobalID,
			GlobalID:    je.GlobalID,
			Type:        je.ElementType,
			Name:        je.Name,
			Description: je.Description,
		}
		addGroups(&el, je.Properties.PropertySets)
		addGroups(&el, je.Properties.Quantities)
		addGroups(&el, je.Properties.TypeProperties)
		els = append(els, el)
	}
	return els, nil
}

// OpenElements reads an element list from a JSON file on disk.
func OpenElements(filename string) ([]Element, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("semantic.OpenElements: %w", err)
	}
	defer f.Close()
	return ReadElements(f)
}

func addGroups(el *Element, groups map[string]map[string]any) {
	gnames := make([]string, 0, len(groups))
	for g := range groups {
		gnames = append(gnames, g)
	}
	sort.Strings(gnames)
	for _, g := range gnames {
		props := groups[g]
		pnames := make([]string, 0, len(props))
		for p := range props {
			pnames = append(pnames, p)
		}
		sort.Strings(pnames)
		for _, p := range pnames {
			el.Properties = append(el.Properties, NewProperty(p, props[p], g))
		}
	}
}
