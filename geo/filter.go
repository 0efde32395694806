/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/s2geo/earth"
	"github.com/hypermodeinc/s2geo/s2builder"
	"github.com/hypermodeinc/s2geo/x"
)

type QueryType byte

const (
	QueryTypeWithin QueryType = iota
	QueryTypeContains
	QueryTypeIntersects
	QueryTypeNear
)

func (t QueryType) String() string {
	switch t {
	case QueryTypeWithin:
		return "within"
	case QueryTypeContains:
		return "contains"
	case QueryTypeIntersects:
		return "intersects"
	case QueryTypeNear:
		return "near"
	}
	return "unknown"
}

// ParseQueryType parses the lowercase name of a query type.
func ParseQueryType(s string) (QueryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "within":
		return QueryTypeWithin, nil
	case "contains":
		return QueryTypeContains, nil
	case "intersects":
		return QueryTypeIntersects, nil
	case "near":
		return QueryTypeNear, nil
	}
	return 0, errors.Errorf("Unknown query type %q", s)
}

// Filter selects documents by their relation to the query geometry in Data.
//
//	Within:     the document lies inside the query geometry.
//	Contains:   the document contains the query geometry.
//	Intersects: the document and the query geometry share a point.
//	Near:       the document comes within MaxDistance meters of the query point.
type Filter struct {
	Type QueryType
	// Data is the query geometry as WKB.
	Data        []byte
	MaxDistance float64
}

// NewFilter encodes g into a filter.
func NewFilter(typ QueryType, g *Geometry, maxDistance float64) (*Filter, error) {
	data, err := MarshalWKB(g)
	if err != nil {
		return nil, err
	}
	return &Filter{Type: typ, Data: data, MaxDistance: maxDistance}, nil
}

// QueryData holds the decoded query needed to check candidate documents exactly.
type QueryData struct {
	g     *Geometry
	cap   *s2.Cap // If not nil, the cap to be used for a near query
	qtype QueryType
}

// pointTolerance is how far apart two points may be and still be treated as equal, about
// six millimeters on the earth.
const pointTolerance = s1.Angle(1e-9)

// QueryTokens returns the tokens to be used to look up the geo index for a given filter.
func (ix *Indexer) QueryTokens(f *Filter) ([]string, *QueryData, error) {
	if f == nil {
		return nil, nil, errors.Errorf("nil filter")
	}
	g, err := ParseWKB(f.Data)
	if err != nil {
		return nil, nil, err
	}
	if g.IsEmpty() {
		return nil, nil, errors.Errorf("Cannot query with an empty geometry")
	}
	switch f.Type {
	case QueryTypeNear:
		if !g.IsPoint() {
			return nil, nil, errors.Errorf("Near queries need a point, not a %s", kindOf(g))
		}
		return ix.nearQueryKeys(g.Points[0], f.MaxDistance)
	case QueryTypeWithin, QueryTypeContains, QueryTypeIntersects:
		return ix.queryKeys(g), &QueryData{g: g, qtype: f.Type}, nil
	}
	return nil, nil, errors.Errorf("Unknown query type %d", f.Type)
}

// nearQueryKeys creates a QueryKeys object for a near query.
func (ix *Indexer) nearQueryKeys(pt s2.Point, d float64) ([]string, *QueryData, error) {
	if d <= 0 {
		return nil, nil, errors.Errorf("Invalid max distance specified for a near query")
	}
	c := s2.CapFromCenterAngle(pt, earth.MetersToAngle(d))
	return ix.terms.QueryTerms(c, ix.opts.Prefix), &QueryData{cap: &c, qtype: QueryTypeNear}, nil
}

// QueryTokens returns the query terms for f with the default options.
func QueryTokens(f *Filter) ([]string, *QueryData, error) {
	return defaultIndexer.QueryTokens(f)
}

func (q *QueryData) Type() QueryType { return q.qtype }

// MatchesFilter applies the query filter to a geo value
func (q *QueryData) MatchesFilter(doc *Geometry) bool {
	if doc == nil || doc.IsEmpty() {
		return false
	}
	switch q.qtype {
	case QueryTypeWithin:
		return within(doc, q.g)
	case QueryTypeContains:
		return within(q.g, doc)
	case QueryTypeIntersects:
		return intersects(doc, q.g)
	case QueryTypeNear:
		x.AssertTrue(q.cap != nil)
		return nearCap(doc, *q.cap)
	}
	return false
}

func kindOf(g *Geometry) string {
	switch {
	case g.Polygon != nil:
		return "polygon"
	case len(g.Polylines) > 0:
		return "line"
	}
	return "multipoint"
}

func pointOnLine(p s2.Point, pl *s2.Polyline) bool {
	q, _ := pl.Project(p)
	return q.Distance(p) <= pointTolerance
}

func pointIntersects(p s2.Point, g *Geometry) bool {
	for _, o := range g.Points {
		if p.ApproxEqual(o) {
			return true
		}
	}
	for _, pl := range g.Polylines {
		if pointOnLine(p, pl) {
			return true
		}
	}
	return g.Polygon != nil && g.Polygon.ContainsPoint(p)
}

func lineIntersects(pl *s2.Polyline, g *Geometry) bool {
	for _, p := range g.Points {
		if pointOnLine(p, pl) {
			return true
		}
	}
	for _, o := range g.Polylines {
		if pl.Intersects(o) {
			return true
		}
	}
	if g.Polygon == nil {
		return false
	}
	for _, p := range *pl {
		if g.Polygon.ContainsPoint(p) {
			return true
		}
	}
	inside, err := s2builder.IntersectWithPolyline(g.Polygon, pl)
	return err == nil && len(inside) > 0
}

// intersects reports whether any part of a meets any part of b.
func intersects(a, b *Geometry) bool {
	for _, p := range a.Points {
		if pointIntersects(p, b) {
			return true
		}
	}
	for _, pl := range a.Polylines {
		if lineIntersects(pl, b) {
			return true
		}
	}
	if a.Polygon == nil {
		return false
	}
	for _, p := range b.Points {
		if a.Polygon.ContainsPoint(p) {
			return true
		}
	}
	for _, pl := range b.Polylines {
		if lineIntersects(pl, &Geometry{Polygon: a.Polygon}) {
			return true
		}
	}
	return b.Polygon != nil && a.Polygon.Intersects(b.Polygon)
}

// sameLine reports whether a and b have the same vertices within pointTolerance.
func sameLine(a, b *s2.Polyline) bool {
	if len(*a) != len(*b) {
		return false
	}
	for i, p := range *a {
		if p.Distance((*b)[i]) > pointTolerance {
			return false
		}
	}
	return true
}

func lineWithin(pl *s2.Polyline, g *Geometry) bool {
	for _, o := range g.Polylines {
		if sameLine(pl, o) {
			return true
		}
	}
	if g.Polygon == nil {
		return false
	}
	outside, err := s2builder.SubtractFromPolyline(g.Polygon, pl)
	return err == nil && len(outside) == 0
}

// within reports whether every part of a lies inside some part of b.
func within(a, b *Geometry) bool {
	if a.IsEmpty() {
		return false
	}
	for _, p := range a.Points {
		if !pointIntersects(p, b) {
			return false
		}
	}
	for _, pl := range a.Polylines {
		if !lineWithin(pl, b) {
			return false
		}
	}
	if a.Polygon != nil {
		return b.Polygon != nil && b.Polygon.Contains(a.Polygon)
	}
	return true
}

// nearCap reports whether any part of g comes within the cap.
func nearCap(g *Geometry, c s2.Cap) bool {
	for _, p := range g.Points {
		if c.ContainsPoint(p) {
			return true
		}
	}
	radius := c.Radius()
	for _, pl := range g.Polylines {
		q, _ := pl.Project(c.Center())
		if q.Distance(c.Center()) <= radius {
			return true
		}
	}
	return g.Polygon != nil && s2builder.Distance(g.Polygon, c.Center()) <= radius
}
