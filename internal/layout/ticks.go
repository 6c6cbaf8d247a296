package layout

import (
	"math"
	"time"
)

// Tick is one axis mark: a price for the Y axis or a day for the X
// axis, plus its label.
type Tick struct {
	Value float64
	Time  time.Time
	Label string
}

// xTicks chooses calendar marks for the date span: month starts labeled
// "Jan" inside a year, otherwise January firsts at a 1, 2 or 5 year
// interval that keeps the count readable.
func xTicks(first, last time.Time, spanDays int) []Tick {
	if spanDays <= 366 {
		return monthTicks(first, last)
	}
	interval := 5
	years := float64(spanDays) / 365.25
	switch {
	case years <= 10:
		interval = 1
	case years <= 20:
		interval = 2
	}
	return yearTicks(first, last, interval)
}

func monthTicks(first, last time.Time) []Tick {
	var ticks []Tick
	t := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	if t.Before(first) {
		t = t.AddDate(0, 1, 0)
	}
	for !t.After(last) {
		ticks = append(ticks, Tick{Time: t, Label: t.Format("Jan")})
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}

func yearTicks(first, last time.Time, interval int) []Tick {
	var ticks []Tick
	startYear := first.Year()
	if rem := startYear % interval; rem != 0 {
		startYear += interval - rem
	}
	for year := startYear; ; year += interval {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		if t.After(last) {
			break
		}
		if t.Before(first) {
			continue
		}
		ticks = append(ticks, Tick{Time: t, Label: t.Format("2006")})
	}
	return ticks
}

// yTicks places gridlines at round currency steps inside [lo, hi].
func yTicks(lo, hi float64) []Tick {
	if hi <= lo {
		return []Tick{{Value: lo, Label: Currency(lo)}}
	}
	step := niceStep(hi-lo, 6)
	var ticks []Tick
	for k := math.Ceil(lo / step); k*step <= hi+step*1e-9; k++ {
		v := k * step
		ticks = append(ticks, Tick{Value: v, Label: Currency(v)})
	}
	return ticks
}

// niceStep picks 1, 2, 2.5 or 5 times a power of ten so the range
// divides into at most n steps.
func niceStep(span float64, n int) float64 {
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}
