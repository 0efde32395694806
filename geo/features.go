/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"

	"github.com/hypermodeinc/s2geo/earth"
)

// CellFeature returns the cell as a polygon feature carrying its token, level and area.
func CellFeature(id s2.CellID) *geojson.Feature {
	cell := s2.CellFromCellID(id)
	ring := make([][]float64, 0, 5)
	for k := 0; k < 4; k++ {
		ll := s2.LatLngFromPoint(cell.Vertex(k))
		ring = append(ring, []float64{ll.Lng.Degrees(), ll.Lat.Degrees()})
	}
	ring = append(ring, ring[0])
	f := geojson.NewPolygonFeature([][][]float64{ring})
	f.ID = id.ToToken()
	f.SetProperty("token", id.ToToken())
	f.SetProperty("level", id.Level())
	f.SetProperty("area", earth.AreaOf(cell.ExactArea()).String())
	return f
}

// CoveringFeatures returns one feature per cell of the covering.
func CoveringFeatures(cu s2.CellUnion) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, id := range cu {
		fc.AddFeature(CellFeature(id))
	}
	return fc
}

// CellsFromFeatures reads back the cell tokens of a collection written by
// CoveringFeatures. Features without a valid token are skipped.
func CellsFromFeatures(data []byte) (s2.CellUnion, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	var cu s2.CellUnion
	for _, f := range fc.Features {
		tok, err := f.PropertyString("token")
		if err != nil {
			continue
		}
		if id := s2.CellIDFromToken(tok); id.IsValid() {
			cu = append(cu, id)
		}
	}
	return cu, nil
}
