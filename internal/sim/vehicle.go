package sim

// Vehicle is one journey in progress. Position only grows, and only through
// Advance. Speed is set once at creation from the sampled distribution and
// afterwards touched only by road effects.
type Vehicle struct {
	ID       int
	Position int
	Speed    int
}

// Advance moves the vehicle by its current speed. Called exactly once per
// tick while the vehicle is still running.
func (v *Vehicle) Advance() {
	v.Position += v.Speed
}
