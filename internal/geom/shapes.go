package geom

// Rect is an axis-aligned rectangle defined by its top-left corner.
type Rect struct {
	X float32
	Y float32
	W float32
	H float32
}

func (r Rect) Contains(p Vector2D) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Expanded grows the rect by margin on every side.
func (r Rect) Expanded(margin float32) Rect {
	return Rect{
		X: r.X - margin,
		Y: r.Y - margin,
		W: r.W + 2*margin,
		H: r.H + 2*margin,
	}
}

// Circle is a center-radius circle.
type Circle struct {
	Center Vector2D
	Radius float32
}

func (c Circle) Contains(p Vector2D) bool {
	return c.Center.DistanceTo(p) <= c.Radius
}
