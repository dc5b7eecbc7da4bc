package page

// Follower size factors while hovering a control or holding the button.
const (
	hoverScale = 1.5
	clickScale = 0.75
)

// Cursor eases a follower toward the pointer each frame.
type Cursor struct {
	X, Y             float64
	TargetX, TargetY float64
	Easing           float64

	Hover   bool // pointer over an interactive control
	Pressed bool // primary button held
}

// MoveTo sets the pointer position.
func (c *Cursor) MoveTo(x, y float64) {
	c.TargetX, c.TargetY = x, y
}

// Step moves the follower a fraction of the remaining distance.
func (c *Cursor) Step() {
	k := c.Easing
	if k <= 0 || k > 1 {
		k = 0.18
	}
	c.X += (c.TargetX - c.X) * k
	c.Y += (c.TargetY - c.Y) * k
}

// Scale returns the follower's size factor. Pressed wins over hover.
func (c *Cursor) Scale() float64 {
	switch {
	case c.Pressed:
		return clickScale
	case c.Hover:
		return hoverScale
	}
	return 1
}
