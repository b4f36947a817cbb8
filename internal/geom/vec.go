package geom

import "math"

// Vector2D is a 2D point or direction in world units.
type Vector2D struct {
	X float32
	Y float32
}

func NewVector2D(x, y float32) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2D) Scale(s float32) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

func (v Vector2D) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

func (v Vector2D) DistanceTo(o Vector2D) float32 {
	return v.Sub(o).Length()
}

// Normalized returns the unit vector, or the zero vector for zero length.
func (v Vector2D) Normalized() Vector2D {
	l := v.Length()
	if l == 0 {
		return Vector2D{}
	}
	return v.Scale(1 / l)
}

// FromAngle converts an angle in degrees to a unit direction vector.
// 0° points up (negative Y, screen coordinates), 90° points right.
func FromAngle(degrees float32) Vector2D {
	rad := float64(degrees) * math.Pi / 180
	return Vector2D{X: float32(math.Sin(rad)), Y: float32(-math.Cos(rad))}
}

// Angle returns the direction of v in degrees, inverse of FromAngle.
func (v Vector2D) Angle() float32 {
	return float32(math.Atan2(float64(v.X), float64(-v.Y)) * 180 / math.Pi)
}
