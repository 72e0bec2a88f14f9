// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"strings"

	"github.com/bimscape/bimscape/semantic"
)

// Operator is a property predicate comparison operator.
type Operator string

const (
	OpExists         Operator = "exists"
	OpNotExists      Operator = "notExists"
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "notEquals"
	OpContains       Operator = "contains"
	OpStartsWith     Operator = "startsWith"
	OpEndsWith       Operator = "endsWith"
	OpGreaterThan    Operator = "greaterThan"
	OpLessThan       Operator = "lessThan"
	OpGreaterOrEqual Operator = "greaterOrEqual"
	OpLessOrEqual    Operator = "lessOrEqual"
)

// Predicate is one property condition within a [Criteria]. Candidates
// are gathered by property name and optional property set; the
// predicate is satisfied if ANY candidate satisfies the operator
// (existential, not universal, over same-named properties).
type Predicate struct {
	// Property is the property name to test.
	Property string `json:"property" yaml:"property"`

	// PropertySet optionally restricts candidates to one group.
	PropertySet string `json:"propertySet,omitempty" yaml:"propertySet,omitempty"`

	// Operator selects the comparison.
	Operator Operator `json:"operator" yaml:"operator"`

	// Comparand is the value compared against, unused for the
	// existence operators.
	Comparand any `json:"comparand,omitempty" yaml:"comparand,omitempty"`
}

// Criteria is one filter: a type allow-list plus property predicates,
// combined with AND. An absent type list admits all types; an empty
// predicate list always matches. Criteria are transient and replaced
// wholesale, never merged.
type Criteria struct {
	// Types is the type tag allow-list; nil admits every type.
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`

	// Predicates is the ordered list of property conditions.
	Predicates []Predicate `json:"predicates,omitempty" yaml:"predicates,omitempty"`
}

// Matches reports whether the element satisfies the type allow-list
// and every predicate.
func (cr *Criteria) Matches(el *semantic.Element) bool {
	if cr.Types != nil && !containsType(cr.Types, el.Type) {
		return false
	}
	for i := range cr.Predicates {
		if !cr.Predicates[i].Matches(el) {
			return false
		}
	}
	return true
}

func containsType(types []string, tag string) bool {
	for _, t := range types {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches evaluates the predicate against one element. A malformed
// predicate (unknown operator, non-numeric comparand for a numeric
// operator) evaluates to false rather than failing the whole pass.
func (pd *Predicate) Matches(el *semantic.Element) bool {
	cands := el.PropertiesNamed(pd.Property, pd.PropertySet)
	if len(cands) == 0 {
		return pd.Operator == OpNotExists
	}
	switch pd.Operator {
	case OpExists:
		return true
	case OpNotExists:
		return false
	}
	for _, p := range cands {
		if pd.satisfiedBy(p) {
			return true
		}
	}
	return false
}

// satisfiedBy tests one candidate property against the operator.
func (pd *Predicate) satisfiedBy(p semantic.Property) bool {
	switch pd.Operator {
	case OpEquals:
		return strings.EqualFold(p.Text(), text(pd.Comparand))
	case OpNotEquals:
		return !strings.EqualFold(p.Text(), text(pd.Comparand))
	case OpContains:
		return strings.Contains(strings.ToLower(p.Text()), strings.ToLower(text(pd.Comparand)))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(p.Text()), strings.ToLower(text(pd.Comparand)))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(p.Text()), strings.ToLower(text(pd.Comparand)))
	case OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual:
		pn, ok := p.Number()
		if !ok {
			return false
		}
		cn, ok := number(pd.Comparand)
		if !ok {
			return false
		}
		switch pd.Operator {
		case OpGreaterThan:
			return pn > cn
		case OpLessThan:
			return pn < cn
		case OpGreaterOrEqual:
			return pn >= cn
		default:
			return pn <= cn
		}
	}
	return false
}

func text(v any) string {
	return semantic.NewProperty("", v, "").Text()
}

func number(v any) (float64, bool) {
	p := semantic.NewProperty("", v, "")
	return p.Number()
}
