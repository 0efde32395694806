/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"
)

func TestParseLatLng(t *testing.T) {
	ll, err := parseLatLng(" 10.5, -20 ")
	require.NoError(t, err)
	require.InDelta(t, 10.5, ll.Lat.Degrees(), 1e-12)
	require.InDelta(t, -20, ll.Lng.Degrees(), 1e-12)

	for _, bad := range []string{"", "10", "a,b", "1,2,3", "91,0"} {
		_, err := parseLatLng(bad)
		require.Error(t, err, bad)
	}
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, options{latlng: "10,20", level: 12, neighbors: true}))
	out := buf.String()

	want := s2.CellIDFromLatLng(s2.LatLngFromDegrees(10, 20)).Parent(12)
	require.Contains(t, out, "token:    "+want.ToToken()+"\n")
	require.Contains(t, out, "level:    12\n")
	require.Contains(t, out, "string:   "+want.String()+"\n")
	require.Contains(t, out, "edge:     ")
	require.Contains(t, out, "vertex:   ")

	buf.Reset()
	require.NoError(t, run(&buf, options{token: want.ToToken()}))
	require.Contains(t, buf.String(), "level:    12\n")
	require.False(t, strings.Contains(buf.String(), "edge:"))

	buf.Reset()
	require.NoError(t, run(&buf, options{token: "1", neighbors: true}))
	require.Contains(t, buf.String(), "level:    0\n")
	require.False(t, strings.Contains(buf.String(), "vertex:"))
}

func TestRunErrors(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, run(&buf, options{}))
	require.Error(t, run(&buf, options{token: "zz"}))
	require.Error(t, run(&buf, options{latlng: "0,0", level: 31}))
	require.Error(t, run(&buf, options{latlng: "0,0", level: -1}))
}
