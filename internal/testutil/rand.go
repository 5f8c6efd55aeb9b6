package testutil

import "sync"

// ScriptedRand returns pre-scripted values in order.
// When a queue runs dry it falls back to FallbackFloat and 0.
type ScriptedRand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int

	// FallbackFloat is returned by Float64 once floats are exhausted.
	FallbackFloat float64
}

// NewScriptedRand creates a ScriptedRand. Float64 falls back to 0.99 so that
// unscripted chance rolls fail.
func NewScriptedRand() *ScriptedRand {
	return &ScriptedRand{FallbackFloat: 0.99}
}

// PushFloats queues values for Float64.
func (r *ScriptedRand) PushFloats(vs ...float64) *ScriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, vs...)
	return r
}

// PushInts queues raw values for IntN. Each is reduced modulo n.
func (r *ScriptedRand) PushInts(vs ...int) *ScriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, vs...)
	return r
}

// Float64 implements combat.Rand.
func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.FallbackFloat
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// IntN implements combat.Rand.
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// Pending returns how many scripted values were not consumed.
func (r *ScriptedRand) Pending() (floats, ints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.floats), len(r.ints)
}
