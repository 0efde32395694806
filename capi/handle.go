/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package capi is a flat boundary over the engine for callers that cannot hold Go values.
// Every engine object is referred to by an opaque Handle. Calls with unknown or mismatched
// handles return false, zero or InvalidHandle, and fallible calls report an Error.
//
// Points, angles and cell ids are passed by value: points as latitude and longitude in
// degrees, angles in degrees and cell ids as uint64.
package capi

import (
	"sync"

	"github.com/golang/geo/s2"
)

// Handle refers to an engine object owned by the registry.
type Handle uint64

// InvalidHandle is never issued.
const InvalidHandle Handle = 0

// Error reports the outcome of a fallible call.
type Error struct {
	OK   bool
	Text string
}

var success = Error{OK: true}

func failure(err error) Error {
	return Error{Text: err.Error()}
}

type registry struct {
	sync.Mutex
	next Handle
	objs map[Handle]interface{}
}

var handles = &registry{objs: make(map[Handle]interface{})}

func register(v interface{}) Handle {
	handles.Lock()
	defer handles.Unlock()
	handles.next++
	handles.objs[handles.next] = v
	return handles.next
}

func lookup[T any](h Handle) (T, bool) {
	handles.Lock()
	defer handles.Unlock()
	v, ok := handles.objs[h].(T)
	return v, ok
}

// Destroy releases the object behind h. It reports whether h was live.
func Destroy(h Handle) bool {
	handles.Lock()
	defer handles.Unlock()
	if _, ok := handles.objs[h]; !ok {
		return false
	}
	delete(handles.objs, h)
	return true
}

// NumHandles returns the number of live handles.
func NumHandles() int {
	handles.Lock()
	defer handles.Unlock()
	return len(handles.objs)
}

func lookupRegion(h Handle) (s2.Region, bool) {
	return lookup[s2.Region](h)
}

func latLng(lat, lng float64) s2.LatLng { return s2.LatLngFromDegrees(lat, lng) }

func point(lat, lng float64) s2.Point { return s2.PointFromLatLng(latLng(lat, lng)) }

func degrees(p s2.Point) (lat, lng float64) {
	ll := s2.LatLngFromPoint(p)
	return ll.Lat.Degrees(), ll.Lng.Degrees()
}

func ids(cu []s2.CellID) ([]uint64, int) {
	out := make([]uint64, len(cu))
	for i, id := range cu {
		out[i] = uint64(id)
	}
	return out, len(out)
}
