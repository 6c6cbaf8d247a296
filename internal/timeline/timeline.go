// Package timeline maps animation time onto the dense series: for every
// output frame it decides which prefix of the data is on screen.
package timeline

// Plan is the frame schedule for one video: three phase lengths and a
// per-frame cursor into the dense series.
type Plan struct {
	StartIdle int
	Draw      int
	EndIdle   int
	Total     int

	// Index holds one dense-series index per frame, non-decreasing,
	// ending on the last point.
	Index []int
}

// Build computes the plan for a dense series of n points. Durations are
// multiplied by the frame rate and truncated, and the draw cursor is
// spread evenly over [0, n-1] with per-frame truncation; frame counts
// never round up.
func Build(startIdleSec, drawSec, endIdleSec float64, fps, n int) Plan {
	p := Plan{
		StartIdle: frames(startIdleSec, fps),
		Draw:      frames(drawSec, fps),
		EndIdle:   frames(endIdleSec, fps),
	}
	p.Total = p.StartIdle + p.Draw + p.EndIdle

	last := n - 1
	if last < 0 {
		last = 0
	}
	p.Index = make([]int, 0, p.Total)
	for i := 0; i < p.StartIdle; i++ {
		p.Index = append(p.Index, 0)
	}
	p.Index = append(p.Index, drawIndices(p.Draw, last)...)
	for i := 0; i < p.EndIdle; i++ {
		p.Index = append(p.Index, last)
	}
	return p
}

func frames(sec float64, fps int) int {
	f := int(sec * float64(fps))
	if f < 0 {
		return 0
	}
	return f
}

// drawIndices spreads m cursor positions across [0, last] like an even
// linear space truncated to integers, with the final position pinned to
// last so the draw always completes.
func drawIndices(m, last int) []int {
	idx := make([]int, m)
	if m == 0 {
		return idx
	}
	if m == 1 {
		idx[0] = last
		return idx
	}
	step := float64(last) / float64(m-1)
	for k := range idx {
		idx[k] = int(float64(k) * step)
	}
	idx[m-1] = last
	return idx
}
