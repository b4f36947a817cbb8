package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: 1, Y: -2}

	assert.Equal(t, Vector2D{X: 4, Y: 2}, a.Add(b))
	assert.Equal(t, Vector2D{X: 2, Y: 6}, a.Sub(b))
	assert.Equal(t, Vector2D{X: 6, Y: 8}, a.Scale(2))
	assert.InDelta(t, 5, a.Length(), 1e-6)
	assert.InDelta(t, 5, Vector2D{X: 0, Y: 0}.DistanceTo(a), 1e-6)
}

func TestNormalized(t *testing.T) {
	n := Vector2D{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 1, n.Length(), 1e-6)
	assert.InDelta(t, 0.6, n.X, 1e-6)

	assert.Equal(t, Vector2D{}, Vector2D{}.Normalized())
}

func TestFromAngleConvention(t *testing.T) {
	up := FromAngle(0)
	assert.InDelta(t, 0, up.X, 1e-6)
	assert.InDelta(t, -1, up.Y, 1e-6)

	right := FromAngle(90)
	assert.InDelta(t, 1, right.X, 1e-6)
	assert.InDelta(t, 0, right.Y, 1e-6)

	down := FromAngle(180)
	assert.InDelta(t, 0, down.X, 1e-6)
	assert.InDelta(t, 1, down.Y, 1e-6)
}

func TestAngleIsInverseOfFromAngle(t *testing.T) {
	for _, deg := range []float32{0, 45, 90, 135, -45, -90} {
		assert.InDelta(t, deg, FromAngle(deg).Angle(), 1e-3, "angle %v", deg)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	assert.True(t, r.Contains(Vector2D{X: 15, Y: 15}))
	assert.True(t, r.Contains(Vector2D{X: 10, Y: 10}), "edges are inclusive")
	assert.True(t, r.Contains(Vector2D{X: 30, Y: 30}))
	assert.False(t, r.Contains(Vector2D{X: 9.99, Y: 15}))
	assert.False(t, r.Contains(Vector2D{X: 15, Y: 31}))
}

func TestRectExpanded(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}.Expanded(5)
	assert.Equal(t, Rect{X: 5, Y: 5, W: 30, H: 30}, r)
	assert.True(t, r.Contains(Vector2D{X: 6, Y: 6}))
}

func TestCircleContains(t *testing.T) {
	c := Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 10}
	assert.True(t, c.Contains(Vector2D{X: 6, Y: 8}), "boundary is inclusive")
	assert.False(t, c.Contains(Vector2D{X: 7, Y: 8}))
}
