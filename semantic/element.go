// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package semantic holds the non-geometric side of a building model:
// element records with their typed property values, and the lookup
// index used to correlate render nodes with those records.
package semantic

import (
	"fmt"
	"strings"
)

// ValueKind is the runtime type of a [Property] value.
type ValueKind int32

const (
	// KindNull is a property with no value.
	KindNull ValueKind = iota

	// KindString is a text-valued property.
	KindString

	// KindNumber is a numeric property, held as float64.
	KindNumber

	// KindBool is a boolean property.
	KindBool
)

func (vk ValueKind) String() string {
	switch vk {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Property is one named value on an [Element], belonging to a named
// property group (an IFC property set or quantity set). Multiple
// properties on one element may legitimately share the same Name
// across different groups; predicate matching treats all of them
// as candidates.
type Property struct {
	// Name is the property name within its group, e.g. "FireRating".
	Name string

	// Value is the property value: string, float64, bool, or nil.
	Value any

	// Kind is the runtime kind of Value.
	Kind ValueKind

	// Group is the name of the property set this value came from,
	// e.g. "Pset_WallCommon" or "Qto_WallBaseQuantities".
	Group string
}

// NewProperty returns a property for the given value, deriving Kind
// from the value's type. Integer values are widened to float64 so all
// numeric comparisons work on one representation.
func NewProperty(name string, value any, group string) Property {
	p := Property{Name: name, Group: group}
	switch v := value.(type) {
	case nil:
		p.Kind = KindNull
	case string:
		p.Kind = KindString
		p.Value = v
	case bool:
		p.Kind = KindBool
		p.Value = v
	case float64:
		p.Kind = KindNumber
		p.Value = v
	case float32:
		p.Kind = KindNumber
		p.Value = float64(v)
	case int:
		p.Kind = KindNumber
		p.Value = float64(v)
	case int64:
		p.Kind = KindNumber
		p.Value = float64(v)
	default:
		p.Kind = KindString
		p.Value = fmt.Sprintf("%v", v)
	}
	return p
}

// Number returns the numeric value of the property and whether it is
// numeric at all.
func (p Property) Number() (float64, bool) {
	if p.Kind != KindNumber {
		return 0, false
	}
	n, ok := p.Value.(float64)
	return n, ok
}

// Text returns the property value rendered as a string, for the
// case-insensitive string operators. Null renders as "".
func (p Property) Text() string {
	if p.Kind == KindNull || p.Value == nil {
		return ""
	}
	if s, ok := p.Value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", p.Value)
}

// Element is one building-model entity's semantic record: stable
// internal id, optional industry-standard global id, entity type tag,
// display name, and an ordered list of property values.
type Element struct {
	// ID is the stable internal key, unique within one model.
	ID string

	// GlobalID is the optional IFC GlobalId. When present it is the
	// preferred correlation key between metadata and geometry.
	GlobalID string

	// Type is the entity type tag, e.g. "IfcWall".
	Type string

	// Name is the human-readable display name.
	Name string

	// Description is the optional free-text description.
	Description string

	// Properties is the ordered list of property values.
	Properties []Property
}

// PropertiesNamed returns all properties with the given name,
// optionally restricted to one property group. Name and group
// comparison is case-insensitive, matching upstream IFC tooling.
// An empty group matches all groups.
func (el *Element) PropertiesNamed(name, group string) []Property {
	var ps []Property
	for _, p := range el.Properties {
		if !strings.EqualFold(p.Name, name) {
			continue
		}
		if group != "" && !strings.EqualFold(p.Group, group) {
			continue
		}
		ps = append(ps, p)
	}
	return ps
}

// Label returns the best display label for the element: Name if set,
// otherwise the type tag plus id.
func (el *Element) Label() string {
	if el.Name != "" {
		return el.Name
	}
	return fmt.Sprintf("%s %s", el.Type, el.ID)
}
