// pkg/physics/collision.go
package physics

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are touching or overlapping.
// The boundary counts: two circles whose edges exactly meet collide.
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) <= c.Radius+other.Radius
}

// Rect represents a rectangular area
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Inset returns a rectangle shrunk by margin on every side.
// A margin larger than half the extent collapses that dimension to zero.
func (r Rect) Inset(margin float64) Rect {
	width := r.Width - 2*margin
	if width < 0 {
		width = 0
	}
	height := r.Height - 2*margin
	if height < 0 {
		height = 0
	}
	return Rect{Center: r.Center, Width: width, Height: height}
}

// ClampPoint returns the nearest point to p that lies within the
// rectangle, inclusive of its edges.
func (r Rect) ClampPoint(p Vector2D) Vector2D {
	return Vector2D{
		X: Clamp(p.X, r.Center.X-r.Width/2, r.Center.X+r.Width/2),
		Y: Clamp(p.Y, r.Center.Y-r.Height/2, r.Center.Y+r.Height/2),
	}
}
