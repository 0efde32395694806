/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

// Layer receives the snapped graph of its edges from a Builder and turns it into output
// geometry.
type Layer interface {
	GraphOptions() GraphOptions
	Build(g *Graph) error
}

// PolygonLayer assembles the edges into a polygon. Edges must be oriented with the interior
// on their left. Sibling pairs cancel, so shared boundaries disappear.
type PolygonLayer struct {
	polygon  *s2.Polygon
	validate bool
}

// NewPolygonLayer returns a layer writing into p. The result is validated.
func NewPolygonLayer(p *s2.Polygon) *PolygonLayer {
	return &PolygonLayer{polygon: p, validate: true}
}

func (l *PolygonLayer) GraphOptions() GraphOptions {
	return GraphOptions{
		EdgeType:        EdgeTypeDirected,
		DegenerateEdges: DegenerateEdgesDiscard,
		DuplicateEdges:  DuplicateEdgesMerge,
		SiblingPairs:    SiblingPairsDiscard,
	}
}

func (l *PolygonLayer) Build(g *Graph) error {
	vertexLoops, err := g.SimpleLoops()
	if err != nil {
		return errors.Wrap(err, "assembling polygon loops")
	}
	var loops []*s2.Loop
	for _, vs := range vertexLoops {
		if len(vs) >= 3 {
			loops = append(loops, s2.LoopFromPoints(vs))
		}
	}
	if len(loops) == 0 {
		full, err := g.IsFullPolygon()
		if err != nil {
			return err
		}
		if full {
			*l.polygon = *s2.FullPolygon()
		} else {
			*l.polygon = *s2.PolygonFromLoops(nil)
		}
		return nil
	}
	*l.polygon = *s2.PolygonFromOrientedLoops(loops)
	if l.validate {
		if err := l.polygon.Validate(); err != nil {
			return errors.Wrap(err, "assembled polygon is invalid")
		}
	}
	return nil
}

// PolylineLayer assembles the edges into a single polyline.
type PolylineLayer struct {
	polyline *s2.Polyline
}

// NewPolylineLayer returns a layer writing into pl.
func NewPolylineLayer(pl *s2.Polyline) *PolylineLayer { return &PolylineLayer{polyline: pl} }

func (l *PolylineLayer) GraphOptions() GraphOptions {
	return GraphOptions{
		EdgeType:        EdgeTypeDirected,
		DegenerateEdges: DegenerateEdgesDiscard,
		DuplicateEdges:  DuplicateEdgesKeep,
		SiblingPairs:    SiblingPairsKeep,
	}
}

func (l *PolylineLayer) Build(g *Graph) error {
	chains := g.Polylines()
	switch len(chains) {
	case 0:
		*l.polyline = nil
	case 1:
		*l.polyline = s2.Polyline(chains[0])
	default:
		return errors.Errorf("edges form %d polylines, want one", len(chains))
	}
	return nil
}

// PolylineVectorLayer assembles the edges into as few polylines as possible.
type PolylineVectorLayer struct {
	polylines *[]*s2.Polyline
}

// NewPolylineVectorLayer returns a layer appending to out.
func NewPolylineVectorLayer(out *[]*s2.Polyline) *PolylineVectorLayer {
	return &PolylineVectorLayer{polylines: out}
}

func (l *PolylineVectorLayer) GraphOptions() GraphOptions {
	return GraphOptions{
		EdgeType:        EdgeTypeDirected,
		DegenerateEdges: DegenerateEdgesDiscard,
		DuplicateEdges:  DuplicateEdgesMerge,
		SiblingPairs:    SiblingPairsKeep,
	}
}

func (l *PolylineVectorLayer) Build(g *Graph) error {
	for _, chain := range g.Polylines() {
		pl := s2.Polyline(chain)
		*l.polylines = append(*l.polylines, &pl)
	}
	return nil
}

// PointVectorLayer collects the degenerate edges as points, without duplicates.
type PointVectorLayer struct {
	points *s2.PointVector
}

// NewPointVectorLayer returns a layer appending to out.
func NewPointVectorLayer(out *s2.PointVector) *PointVectorLayer {
	return &PointVectorLayer{points: out}
}

func (l *PointVectorLayer) GraphOptions() GraphOptions {
	return GraphOptions{
		EdgeType:        EdgeTypeDirected,
		DegenerateEdges: DegenerateEdgesKeep,
		DuplicateEdges:  DuplicateEdgesMerge,
		SiblingPairs:    SiblingPairsKeep,
	}
}

func (l *PointVectorLayer) Build(g *Graph) error {
	for _, e := range g.Edges() {
		if e.Src != e.Dst {
			return errors.Errorf("point layer got a non-degenerate edge %d->%d", e.Src, e.Dst)
		}
		*l.points = append(*l.points, g.Vertex(e.Src))
	}
	return nil
}
