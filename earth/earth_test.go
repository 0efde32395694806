/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package earth

import (
	"math"
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"
)

func TestConversions(t *testing.T) {
	require.InDelta(t, 1, KmToRadians(RadiusKm), 1e-15)
	require.InDelta(t, RadiusMeters, RadiansToMeters(1), 1e-9)
	require.InDelta(t, 0.5, MetersToRadians(RadiusMeters/2), 1e-15)
	require.InDelta(t, 100, RadiansToKm(KmToRadians(100)), 1e-9)

	require.InDelta(t, 1, SquareKmToSteradians(RadiusKm*RadiusKm), 1e-15)
	require.InDelta(t, 4*math.Pi*RadiusMeters*RadiusMeters, SteradiansToSquareMeters(4*math.Pi), 1)
	require.InDelta(t, 3.0, SquareMetersToSteradians(SteradiansToSquareMeters(3)), 1e-12)
	require.InDelta(t, 2.0, SteradiansToSquareKm(SquareKmToSteradians(2)), 1e-12)

	require.Equal(t, s1.Angle(1), RadiusAngle())
	require.Greater(t, HighestAltitude().Radians(), 0.0)
	require.Less(t, LowestAltitude().Radians(), 0.0)
	require.InDelta(t, HighestAltitudeMeters, AngleToMeters(HighestAltitude()), 1e-6)
}

func TestChordAngles(t *testing.T) {
	c := MetersToChordAngle(1000)
	require.InDelta(t, 1000, ChordAngleToMeters(c), 1e-6)
	require.InDelta(t, 1, ChordAngleToKm(c), 1e-9)
	// A quarter of the circumference.
	q := MetersToChordAngle(math.Pi / 2 * RadiusMeters)
	require.InDelta(t, 2, float64(q), 1e-12)
}

func TestDistances(t *testing.T) {
	a := s2.LatLngFromDegrees(0, 0)
	b := s2.LatLngFromDegrees(0, 90)
	want := math.Pi / 2 * RadiusKm
	require.InDelta(t, want, DistanceKm(a, b), 1e-9)
	require.InDelta(t, want*1000, DistanceMeters(a, b), 1e-6)
	pa, pb := s2.PointFromLatLng(a), s2.PointFromLatLng(b)
	require.InDelta(t, want, PointDistanceKm(pa, pb), 1e-9)
	require.InDelta(t, want*1000, PointDistanceMeters(pa, pb), 1e-6)
	require.InDelta(t, math.Pi/2, DistancePoint(pa, pb).Radians(), 1e-15)
	require.InDelta(t, math.Pi/2, DistanceLatLng(a, b).Radians(), 1e-15)

	// One degree of latitude is about 111 km.
	d := DistanceKm(s2.LatLngFromDegrees(10, 20), s2.LatLngFromDegrees(11, 20))
	require.InDelta(t, 111.2, d, 0.1)
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		a, b s2.LatLng
		want float64
	}{
		{s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(10, 0), 0},
		{s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(0, 10), 90},
		{s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(-10, 0), 180},
		{s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(0, -10), -90},
		{s2.LatLngFromDegrees(50, 10), s2.LatLngFromDegrees(50, 10), 0},
	}
	for _, tc := range tests {
		got := InitialBearing(tc.a, tc.b).Degrees()
		require.InDelta(t, tc.want, got, 1e-9, "%v -> %v", tc.a, tc.b)
	}
}

func TestLongitudeRadians(t *testing.T) {
	require.InDelta(t, MetersToRadians(1000), MetersToLongitudeRadians(1000, 0), 1e-15)
	require.InDelta(t, 2*MetersToRadians(1000), MetersToLongitudeRadians(1000, math.Pi/3), 1e-12)
	require.Equal(t, 2*math.Pi, MetersToLongitudeRadians(1000, math.Pi/2))
	require.Equal(t, 2*math.Pi, MetersToLongitudeRadians(1e9, 0))
}

func TestLengthString(t *testing.T) {
	require.Equal(t, "1.500 km", Length(1500).String())
	require.Equal(t, "12.000 m", Length(12).String())
	require.Equal(t, "50.000 cm", Length(0.5).String())
	require.Equal(t, "2.000 km^2", Area(2e6).String())
	require.Equal(t, "10.000 m^2", Area(10).String())
	require.Equal(t, "5000.000 cm^2", Area(0.5).String())
	require.Equal(t, "1.500 km", Distance(KmToAngle(1.5)).String())
	require.InDelta(t, SteradiansToSquareMeters(1e-9), float64(AreaOf(1e-9)), 1e-9)
}
