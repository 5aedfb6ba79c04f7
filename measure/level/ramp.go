package level

// ramp is a linearly smoothed value counted in samples. A new target starts
// a fresh ramp of length steps from wherever the value currently is.
type ramp struct {
	current   float32
	target    float32
	step      float32
	countdown int
	steps     int
}

func (r *ramp) setSteps(steps int) {
	r.steps = max(steps, 0)
	r.snap(r.target)
}

func (r *ramp) snap(v float32) {
	r.current = v
	r.target = v
	r.countdown = 0
}

func (r *ramp) setTarget(v float32) {
	if v == r.target {
		return
	}

	if r.steps <= 0 {
		r.snap(v)
		return
	}

	r.target = v
	r.countdown = r.steps
	r.step = (r.target - r.current) / float32(r.countdown)
}

func (r *ramp) skip(n int) {
	if n <= 0 {
		return
	}

	if n >= r.countdown {
		r.snap(r.target)
		return
	}

	r.current += r.step * float32(n)
	r.countdown -= n
}
