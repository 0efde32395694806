/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package earth converts between angles on the unit sphere and distances or areas on a
// spherical earth.
package earth

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// RadiusMeters is the mean radius of the earth in meters.
	RadiusMeters = 6371010.0
	// RadiusKm is the mean radius of the earth in kilometers.
	RadiusKm = RadiusMeters / 1000

	// HighestAltitudeMeters is the altitude of the summit of Mount Everest.
	HighestAltitudeMeters = 8848.0
	// LowestAltitudeMeters is the altitude of the bottom of the Mariana Trench.
	LowestAltitudeMeters = -10898.0
)

// Length denotes a length on Earth in meters.
type Length float64

// Area denotes an area on Earth in square meters.
type Area float64

// String converts the length to human readable units
func (l Length) String() string {
	switch {
	case l > 1000:
		return fmt.Sprintf("%.3f km", l/1000)
	case l < 1:
		return fmt.Sprintf("%.3f cm", l*100)
	default:
		return fmt.Sprintf("%.3f m", l)
	}
}

const km2 = 1000 * 1000
const cm2 = 100 * 100

// String converts the area to human readable units
func (a Area) String() string {
	switch {
	case a > km2:
		return fmt.Sprintf("%.3f km^2", a/km2)
	case a < 1:
		return fmt.Sprintf("%.3f cm^2", a*cm2)
	default:
		return fmt.Sprintf("%.3f m^2", a)
	}
}

// RadiusAngle returns the earth radius as a unit-sphere angle, which is one radian.
func RadiusAngle() s1.Angle { return s1.Angle(1) }

// HighestAltitude returns the highest altitude as an angle.
func HighestAltitude() s1.Angle { return MetersToAngle(HighestAltitudeMeters) }

// LowestAltitude returns the lowest altitude as an angle.
func LowestAltitude() s1.Angle { return MetersToAngle(LowestAltitudeMeters) }

func KmToRadians(km float64) float64         { return km / RadiusKm }
func RadiansToKm(radians float64) float64    { return radians * RadiusKm }
func MetersToRadians(m float64) float64      { return m / RadiusMeters }
func RadiansToMeters(radians float64) float64 { return radians * RadiusMeters }

// SquareKmToSteradians converts an area in square kilometers to a unit-sphere area.
func SquareKmToSteradians(km2 float64) float64 { return km2 / (RadiusKm * RadiusKm) }

// SteradiansToSquareKm converts a unit-sphere area to square kilometers.
func SteradiansToSquareKm(sr float64) float64 { return sr * RadiusKm * RadiusKm }

// SquareMetersToSteradians converts an area in square meters to a unit-sphere area.
func SquareMetersToSteradians(m2 float64) float64 {
	return m2 / (RadiusMeters * RadiusMeters)
}

// SteradiansToSquareMeters converts a unit-sphere area to square meters.
func SteradiansToSquareMeters(sr float64) float64 { return sr * RadiusMeters * RadiusMeters }

// MetersToAngle converts a distance along the surface to an angle.
func MetersToAngle(m float64) s1.Angle { return s1.Angle(MetersToRadians(m)) }

// KmToAngle converts a distance in kilometers along the surface to an angle.
func KmToAngle(km float64) s1.Angle { return s1.Angle(KmToRadians(km)) }

// MetersToChordAngle converts a surface distance to a chord angle. Distances beyond half
// the circumference saturate at the straight chord angle.
func MetersToChordAngle(m float64) s1.ChordAngle {
	return s1.ChordAngleFromAngle(MetersToAngle(m))
}

// AngleToMeters converts an angle to a distance along the surface.
func AngleToMeters(a s1.Angle) float64 { return RadiansToMeters(a.Radians()) }

// AngleToKm converts an angle to kilometers along the surface.
func AngleToKm(a s1.Angle) float64 { return RadiansToKm(a.Radians()) }

// ChordAngleToMeters converts a chord angle to a surface distance.
func ChordAngleToMeters(c s1.ChordAngle) float64 { return AngleToMeters(c.Angle()) }

// ChordAngleToKm converts a chord angle to kilometers.
func ChordAngleToKm(c s1.ChordAngle) float64 { return AngleToKm(c.Angle()) }

// Distance converts an angle to a Length.
func Distance(a s1.Angle) Length { return Length(AngleToMeters(a)) }

// AreaOf converts a unit-sphere area to an Area.
func AreaOf(steradians float64) Area { return Area(SteradiansToSquareMeters(steradians)) }

// DistanceLatLng returns the great circle angle between two latlngs.
func DistanceLatLng(a, b s2.LatLng) s1.Angle { return a.Distance(b) }

// DistancePoint returns the great circle angle between two points.
func DistancePoint(a, b s2.Point) s1.Angle { return a.Distance(b) }

// DistanceMeters returns the surface distance in meters between two latlngs.
func DistanceMeters(a, b s2.LatLng) float64 { return AngleToMeters(a.Distance(b)) }

// DistanceKm returns the surface distance in kilometers between two latlngs.
func DistanceKm(a, b s2.LatLng) float64 { return AngleToKm(a.Distance(b)) }

// PointDistanceMeters returns the surface distance in meters between two points.
func PointDistanceMeters(a, b s2.Point) float64 { return AngleToMeters(a.Distance(b)) }

// PointDistanceKm returns the surface distance in kilometers between two points.
func PointDistanceKm(a, b s2.Point) float64 { return AngleToKm(a.Distance(b)) }

// InitialBearing returns the bearing from a towards b, measured clockwise from true north.
// The result is in (-180, 180] degrees. The bearing from a pole is measured relative to the
// meridian of b's longitude, and is 0 when a and b are equal.
func InitialBearing(a, b s2.LatLng) s1.Angle {
	lat1, lat2 := a.Lat.Radians(), b.Lat.Radians()
	dLng := (b.Lng - a.Lng).Radians()
	x := math.Sin(dLng) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return s1.Angle(math.Atan2(x, y))
}

// MetersToLongitudeRadians returns the longitude span covered by a distance along a
// parallel at the given latitude. It returns 2*pi when the parallel is shorter than the
// distance.
func MetersToLongitudeRadians(m, latRadians float64) float64 {
	scalar := math.Cos(latRadians)
	if scalar == 0 {
		return 2 * math.Pi
	}
	return math.Min(MetersToRadians(m)/scalar, 2*math.Pi)
}
