/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ParseGeoJSON parses a GeoJSON geometry, feature or feature collection. The geometries of
// all features of a collection are combined.
func ParseGeoJSON(data []byte) (*Geometry, error) {
	t, err := geomFromGeoJSON(data)
	if err != nil {
		return nil, err
	}
	return FromGeom(t)
}

func geomFromGeoJSON(data []byte) (geom.T, error) {
	var g geom.T
	gerr := geojson.Unmarshal(data, &g)
	if gerr == nil {
		return g, nil
	}
	var f geojson.Feature
	if err := f.UnmarshalJSON(data); err == nil && f.Geometry != nil {
		return f.Geometry, nil
	}
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err == nil && len(fc.Features) > 0 {
		gc := geom.NewGeometryCollection()
		for i, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if err := gc.Push(f.Geometry); err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
		}
		return gc, nil
	}
	return nil, errors.Wrapf(gerr, "while parsing geojson")
}

// ParseWKB parses a well-known binary geometry.
func ParseWKB(data []byte) (*Geometry, error) {
	t, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "while parsing wkb")
	}
	return FromGeom(t)
}

// MarshalGeoJSON encodes g as a GeoJSON geometry.
func MarshalGeoJSON(g *Geometry) ([]byte, error) {
	t, err := ToGeom(g)
	if err != nil {
		return nil, err
	}
	return geojson.Marshal(t)
}

// MarshalWKB encodes g as little endian well-known binary.
func MarshalWKB(g *Geometry) ([]byte, error) {
	t, err := ToGeom(g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(t, binary.LittleEndian)
}
