/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package capi

import (
	"github.com/golang/geo/s2"
)

func validCell(id uint64) (s2.CellID, bool) {
	ci := s2.CellID(id)
	return ci, ci.IsValid()
}

func CellIDFromLatLng(lat, lng float64) uint64 {
	return uint64(s2.CellIDFromLatLng(latLng(lat, lng)))
}

func CellIDFromFace(face int) uint64 {
	if face < 0 || face > 5 {
		return 0
	}
	return uint64(s2.CellIDFromFace(face))
}

func CellIDIsValid(id uint64) bool { return s2.CellID(id).IsValid() }

func CellIDLevel(id uint64) int {
	ci, ok := validCell(id)
	if !ok {
		return 0
	}
	return ci.Level()
}

func CellIDFace(id uint64) int {
	ci, ok := validCell(id)
	if !ok {
		return 0
	}
	return ci.Face()
}

// CellIDParent returns the ancestor at level, or 0 when level is not in [0, level of id].
func CellIDParent(id uint64, level int) uint64 {
	ci, ok := validCell(id)
	if !ok || level < 0 || level > ci.Level() {
		return 0
	}
	return uint64(ci.Parent(level))
}

// CellIDChild returns child pos in curve order, or 0 for leaves and positions outside [0, 3].
func CellIDChild(id uint64, pos int) uint64 {
	ci, ok := validCell(id)
	if !ok || ci.IsLeaf() || pos < 0 || pos > 3 {
		return 0
	}
	return uint64(ci.Children()[pos])
}

func CellIDContains(a, b uint64) bool {
	ca, okA := validCell(a)
	cb, okB := validCell(b)
	return okA && okB && ca.Contains(cb)
}

func CellIDIntersects(a, b uint64) bool {
	ca, okA := validCell(a)
	cb, okB := validCell(b)
	return okA && okB && ca.Intersects(cb)
}

func CellIDRange(id uint64) (min, max uint64) {
	ci, ok := validCell(id)
	if !ok {
		return 0, 0
	}
	return uint64(ci.RangeMin()), uint64(ci.RangeMax())
}

func CellIDToToken(id uint64) string { return s2.CellID(id).ToToken() }

func CellIDFromToken(token string) uint64 { return uint64(s2.CellIDFromToken(token)) }

func CellIDToString(id uint64) string { return s2.CellID(id).String() }

func CellIDFromDebugString(s string) uint64 { return uint64(s2.CellIDFromString(s)) }

// CellIDLatLng returns the center of the cell in degrees.
func CellIDLatLng(id uint64) (lat, lng float64) {
	ci, ok := validCell(id)
	if !ok {
		return 0, 0
	}
	return degrees(ci.Point())
}

func CellIDEdgeNeighbors(id uint64) ([]uint64, int) {
	ci, ok := validCell(id)
	if !ok {
		return nil, 0
	}
	n := ci.EdgeNeighbors()
	return ids(n[:])
}

// CellIDVertexNeighbors returns the cells at level sharing the vertex of id closest to its
// center. The level must be below the level of id.
func CellIDVertexNeighbors(id uint64, level int) ([]uint64, int) {
	ci, ok := validCell(id)
	if !ok || level < 0 || level >= ci.Level() {
		return nil, 0
	}
	return ids(ci.VertexNeighbors(level))
}

// CellIDAllNeighbors returns the cells at level adjacent to id. The level must not be
// above the maximum or below the level of id.
func CellIDAllNeighbors(id uint64, level int) ([]uint64, int) {
	ci, ok := validCell(id)
	if !ok || level < ci.Level() || level > s2.MaxLevel {
		return nil, 0
	}
	return ids(ci.AllNeighbors(level))
}

// NewCell returns a handle to the cell of id.
func NewCell(id uint64) Handle {
	ci, ok := validCell(id)
	if !ok {
		return InvalidHandle
	}
	return register(s2.CellFromCellID(ci))
}

// CellVertex returns vertex k of the cell in degrees.
func CellVertex(h Handle, k int) (lat, lng float64, ok bool) {
	c, found := lookup[s2.Cell](h)
	if !found || k < 0 || k > 3 {
		return 0, 0, false
	}
	lat, lng = degrees(c.Vertex(k))
	return lat, lng, true
}

// CellArea returns the exact area of the cell in steradians.
func CellArea(h Handle) float64 {
	c, ok := lookup[s2.Cell](h)
	if !ok {
		return 0
	}
	return c.ExactArea()
}
