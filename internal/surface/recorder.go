package surface

import "image/color"

// Op identifies a recorded draw call.
type Op int

const (
	OpClear Op = iota
	OpTriangle
	OpLine
)

// Call is one recorded draw call.
type Call struct {
	Op        Op
	Tri       Triangle
	From, To  Point
	Fill      color.NRGBA
	Stroke    color.NRGBA
	Alpha     float64
	LineWidth float64
}

// Recorder is an in-memory Surface. It backs headless runs and tests.
type Recorder struct {
	Dims    Dimensions
	Resizes int
	Calls   []Call
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Clear drops calls recorded before it so Calls holds a single frame.
func (r *Recorder) Clear() {
	r.Calls = append(r.Calls[:0], Call{Op: OpClear})
}

func (r *Recorder) Triangle(tri Triangle, fill, stroke color.NRGBA, alpha, lineWidth float64) {
	r.Calls = append(r.Calls, Call{
		Op:        OpTriangle,
		Tri:       tri,
		Fill:      fill,
		Stroke:    stroke,
		Alpha:     alpha,
		LineWidth: lineWidth,
	})
}

func (r *Recorder) Line(x0, y0, x1, y1 float64, stroke color.NRGBA, alpha, lineWidth float64) {
	r.Calls = append(r.Calls, Call{
		Op:        OpLine,
		From:      Point{x0, y0},
		To:        Point{x1, y1},
		Stroke:    stroke,
		Alpha:     alpha,
		LineWidth: lineWidth,
	})
}

func (r *Recorder) Resize(d Dimensions) {
	r.Dims = d
	r.Resizes++
}

// Count returns the number of recorded calls of the given kind.
func (r *Recorder) Count(op Op) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Op == op {
			n++
		}
	}
	return n
}
