package engine

import (
	"iter"
	"math/rand"
)

// Param is one cut coordinate of a topology.
type Param struct {
	Name string
	Min  int // lower bound when After is negative
	Max  int // exclusive upper bound
	// After is the index of the parameter this one must exceed by at least
	// one step, or -1 when the parameter starts at Min.
	After int
}

// Space is the grid of coordinate vectors a topology enumerates.
type Space struct {
	Step   int
	Params []Param
}

// lower returns the smallest admissible value of parameter i given the
// values already chosen for the parameters before it.
func (s Space) lower(i int, values []int) int {
	p := s.Params[i]
	if p.After < 0 {
		return p.Min
	}
	return values[p.After] + s.Step
}

// All yields every coordinate vector in generation order: the first
// parameter varies slowest. The yielded slice is reused between iterations.
func (s Space) All() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(s.Params) == 0 || s.Step <= 0 {
			return
		}
		values := make([]int, len(s.Params))
		s.walk(0, values, yield)
	}
}

// From yields the coordinate vectors whose first parameter equals first.
func (s Space) From(first int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if len(s.Params) == 0 || s.Step <= 0 {
			return
		}
		values := make([]int, len(s.Params))
		values[0] = first
		if len(s.Params) == 1 {
			yield(values)
			return
		}
		s.walk(1, values, yield)
	}
}

// Firsts returns the values taken by the first parameter.
func (s Space) Firsts() []int {
	if len(s.Params) == 0 || s.Step <= 0 {
		return nil
	}
	var out []int
	p := s.Params[0]
	for v := p.Min; v < p.Max; v += s.Step {
		out = append(out, v)
	}
	return out
}

func (s Space) walk(i int, values []int, yield func([]int) bool) bool {
	p := s.Params[i]
	last := i == len(s.Params)-1
	for v := s.lower(i, values); v < p.Max; v += s.Step {
		values[i] = v
		if last {
			if !yield(values) {
				return false
			}
			continue
		}
		if !s.walk(i+1, values, yield) {
			return false
		}
	}
	return true
}

// Count returns the number of coordinate vectors in the space.
func (s Space) Count() int {
	n := 0
	for range s.All() {
		n++
	}
	return n
}

// Valid reports whether values is a point of the space.
func (s Space) Valid(values []int) bool {
	if len(values) != len(s.Params) || s.Step <= 0 {
		return false
	}
	for i, p := range s.Params {
		lo := s.lower(i, values)
		v := values[i]
		if v < lo || v >= p.Max || (v-lo)%s.Step != 0 {
			return false
		}
	}
	return true
}

// Random draws a uniformly chosen value for each parameter in turn.
// It returns false if some parameter has no admissible value.
func (s Space) Random(rng *rand.Rand) ([]int, bool) {
	values := make([]int, len(s.Params))
	for i := range s.Params {
		v, ok := s.randomAt(rng, i, values)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (s Space) randomAt(rng *rand.Rand, i int, values []int) (int, bool) {
	lo := s.lower(i, values)
	n := (s.Params[i].Max - lo + s.Step - 1) / s.Step
	if n <= 0 {
		return 0, false
	}
	return lo + s.Step*rng.Intn(n), true
}

// Repair moves every value onto the grid and inside its bounds, processing
// parameters in order so later ones respect the earlier ones they follow.
func (s Space) Repair(values []int) bool {
	if len(values) != len(s.Params) || s.Step <= 0 {
		return false
	}
	for i, p := range s.Params {
		lo := s.lower(i, values)
		if lo >= p.Max {
			return false
		}
		v := values[i]
		if v < lo {
			v = lo
		}
		if v >= p.Max {
			v = p.Max - 1
		}
		values[i] = lo + (v-lo)/s.Step*s.Step
	}
	return true
}
