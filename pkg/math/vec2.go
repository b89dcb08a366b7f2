// Package math provides the 2D vector type used for playfield geometry.
package math

import "math"

// Vec2 is a 2D vector in osu! playfield units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// LengthSquared returns the squared magnitude.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Lerp interpolates linearly between v (t=0) and other (t=1).
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return Vec2{v.X + (other.X-v.X)*t, v.Y + (other.Y-v.Y)*t}
}

// AlmostEqual reports whether both components differ by at most eps.
func (v Vec2) AlmostEqual(other Vec2, eps float64) bool {
	return math.Abs(v.X-other.X) <= eps && math.Abs(v.Y-other.Y) <= eps
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
