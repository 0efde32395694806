/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"strings"

	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/s2geo/earth"
	"github.com/hypermodeinc/s2geo/s2builder"
)

// ParseOpType parses the name of a set operation. Spaces and dashes may stand in for
// underscores, so "symmetric difference" and "symmetric_difference" are the same.
func ParseOpType(s string) (s2builder.OpType, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "union":
		return s2builder.OpUnion, nil
	case "intersection":
		return s2builder.OpIntersection, nil
	case "difference":
		return s2builder.OpDifference, nil
	case "symmetric_difference":
		return s2builder.OpSymmetricDifference, nil
	}
	return 0, errors.Errorf("Unknown boolean operation %q", s)
}

func polygonOf(g *Geometry, name string) (*s2.Polygon, error) {
	if g == nil || g.Polygon == nil {
		return nil, errors.Errorf("%s has no polygon", name)
	}
	if len(g.Points) > 0 || len(g.Polylines) > 0 {
		glog.Warningf("Ignoring points and lines of %s in boolean operation", name)
	}
	return g.Polygon, nil
}

// Boolean applies op to the polygons of a and b. With a snap level of zero or more, output
// vertices are snapped to the centers of cells at that level; a negative level keeps the
// output exact.
func Boolean(op s2builder.OpType, a, b *Geometry, snapLevel int) (*Geometry, error) {
	pa, err := polygonOf(a, "first operand")
	if err != nil {
		return nil, err
	}
	pb, err := polygonOf(b, "second operand")
	if err != nil {
		return nil, err
	}
	opts := s2builder.DefaultBooleanOperationOptions()
	if snapLevel > s2.MaxLevel {
		return nil, errors.Errorf("Snap level %d is above %d", snapLevel, s2.MaxLevel)
	}
	if snapLevel >= 0 {
		opts.Snapper = s2.CellIDSnapperForLevel(snapLevel)
	}
	result := &s2.Polygon{}
	if err := s2builder.NewBooleanOperation(op, s2builder.NewPolygonLayer(result), opts).
		Build(s2builder.IndexOf(pa), s2builder.IndexOf(pb)); err != nil {
		return nil, errors.Wrapf(err, "while computing %v", op)
	}
	if glog.V(2) {
		glog.Infof("%v of %d and %d vertices gave %d loops with %d vertices",
			op, s2builder.NumVertices(pa), s2builder.NumVertices(pb), result.NumLoops(),
			s2builder.NumVertices(result))
	}
	return &Geometry{Polygon: result}, nil
}

// Buffer returns the region within meters of any part of g.
func Buffer(g *Geometry, meters float64) (*Geometry, error) {
	if g == nil || g.IsEmpty() {
		return nil, errors.Errorf("Cannot buffer an empty geometry")
	}
	op, err := s2builder.NewBufferOperation(earth.MetersToAngle(meters), 0.01)
	if err != nil {
		return nil, err
	}
	for _, p := range g.Points {
		op.AddPoint(p)
	}
	for _, pl := range g.Polylines {
		op.AddPolyline(pl)
	}
	if g.Polygon != nil {
		op.AddPolygon(g.Polygon)
	}
	p, err := op.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "while buffering by %v m", meters)
	}
	return &Geometry{Polygon: p}, nil
}
