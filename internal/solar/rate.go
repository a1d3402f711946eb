package solar

// Rate is the simulation speed in simulated hours per real second.
type Rate struct {
	value   float32
	initial float32
	step    float32
	min     float32
}

// NewRate creates a rate starting at initial. Decrease never goes below min.
func NewRate(initial, step, min float32) *Rate {
	if initial < min {
		initial = min
	}
	return &Rate{value: initial, initial: initial, step: step, min: min}
}

// HoursPerSecond returns the current rate.
func (r *Rate) HoursPerSecond() float32 { return r.value }

// Reset restores the initial rate.
func (r *Rate) Reset() { r.value = r.initial }

// Increase speeds up by one step.
func (r *Rate) Increase() { r.value += r.step }

// Decrease slows down by one step while above the minimum.
func (r *Rate) Decrease() {
	if r.value <= r.min {
		return
	}
	r.value -= r.step
	if r.value < r.min {
		r.value = r.min
	}
}
