// Copyright (c) 2026, Bimscape Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	p := NewProperty("FireRating", "F90", "Pset_WallCommon")
	assert.Equal(t, KindString, p.Kind)
	assert.Equal(t, "F90", p.Text())

	p = NewProperty("Width", 30, "Qto_WallBaseQuantities")
	assert.Equal(t, KindNumber, p.Kind)
	n, ok := p.Number()
	require.True(t, ok)
	assert.Equal(t, 30.0, n)

	p = NewProperty("IsExternal", true, "Pset_WallCommon")
	assert.Equal(t, KindBool, p.Kind)
	_, ok = p.Number()
	assert.False(t, ok)

	p = NewProperty("Ref", nil, "")
	assert.Equal(t, KindNull, p.Kind)
}

func TestPropertiesNamed(t *testing.T) {
	el := &Element{
		GlobalID: "2O2Fr$t4X7Zf8NOew3FL9r",
		Type:     "IfcWall",
		Properties: []Property{
			NewProperty("FireRating", "F90", "Pset_WallCommon"),
			NewProperty("FireRating", "F30", "Pset_DoorCommon"),
			NewProperty("Width", 0.3, "Qto_WallBaseQuantities"),
		},
	}

	// name-only lookup collects every group, case-insensitively
	ps := el.PropertiesNamed("firerating", "")
	assert.Len(t, ps, 2)

	// group narrows to a single candidate
	ps = el.PropertiesNamed("FireRating", "pset_wallcommon")
	require.Len(t, ps, 1)
	assert.Equal(t, "F90", ps[0].Text())

	assert.Empty(t, el.PropertiesNamed("NoSuch", ""))
}

func TestIndexCorrelate(t *testing.T) {
	elems := []Element{
		{GlobalID: "2O2Fr$t4X7Zf8NOew3FL9r", ID: "wall-1", Type: "IfcWall"},
		{GlobalID: "0jf0XDbdv4fQxRJvZaxNXq", Type: "IfcDoor"},
	}
	ix := NewIndex(elems)
	assert.Equal(t, 2, ix.Len())

	// direct GlobalId hit
	el := ix.Correlate("2O2Fr$t4X7Zf8NOew3FL9r")
	require.NotNil(t, el)
	assert.Equal(t, "IfcWall", el.Type)

	// secondary id hit
	assert.NotNil(t, ix.Correlate("wall-1"))

	// instancing suffix stripped before retry
	el = ix.Correlate("0jf0XDbdv4fQxRJvZaxNXq_2")
	require.NotNil(t, el)
	assert.Equal(t, "IfcDoor", el.Type)

	// non-numeric suffix is not an instancing suffix
	assert.Nil(t, ix.Correlate("0jf0XDbdv4fQxRJvZaxNXq_copy"))
	assert.Nil(t, ix.Correlate("missing"))
}

func TestIndexDuplicateGlobalID(t *testing.T) {
	elems := []Element{
		{GlobalID: "dup", Name: "first"},
		{GlobalID: "dup", Name: "second"},
	}
	ix := NewIndex(elems)
	el := ix.ByGlobalID("dup")
	require.NotNil(t, el)
	assert.Equal(t, "first", el.Name)
}

const extractJSON = `[
  {
    "global_id": "2O2Fr$t4X7Zf8NOew3FL9r",
    "element_type": "IfcWall",
    "name": "Basic Wall:Interior",
    "description": "",
    "properties": {
      "property_sets": {
        "Pset_WallCommon": {"FireRating": "F90", "IsExternal": false}
      },
      "quantities": {
        "Qto_WallBaseQuantities": {"Width": 0.3}
      },
      "type_properties": {
        "Pset_WallCommon": {"ThermalTransmittance": 0.24}
      }
    }
  }
]`

func TestReadElements(t *testing.T) {
	elems, err := ReadElements(strings.NewReader(extractJSON))
	require.NoError(t, err)
	require.Len(t, elems, 1)

	el := elems[0]
	assert.Equal(t, "IfcWall", el.Type)
	assert.Equal(t, "Basic Wall:Interior", el.Name)

	fr := el.PropertiesNamed("FireRating", "Pset_WallCommon")
	require.Len(t, fr, 1)
	assert.Equal(t, "F90", fr[0].Text())

	// quantities and type properties flatten into the same list
	w := el.PropertiesNamed("Width", "")
	require.Len(t, w, 1)
	n, ok := w[0].Number()
	require.True(t, ok)
	assert.Equal(t, 0.3, n)

	assert.Len(t, el.PropertiesNamed("ThermalTransmittance", ""), 1)
}
