// Package series holds the price time series model: sparse observations
// as they arrive from a data source, and the dense daily series the
// animation is drawn from.
package series

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSeries reports input that cannot be animated: fewer than
	// two points, or days that repeat or run backwards.
	ErrInvalidSeries = errors.New("invalid price series")

	// ErrEmptySeries reports a series with no points reaching a consumer
	// that needs at least one.
	ErrEmptySeries = errors.New("empty price series")
)

// PricePoint is a single observation: a calendar day and its price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries is a sparse series of observations ordered by strictly
// increasing calendar day.
type PriceSeries []PricePoint

// DenseSeries covers every calendar day between the first and last
// observation inclusive, one point per day.
type DenseSeries []PricePoint

// Day truncates t to midnight UTC. Series timestamps carry calendar-day
// precision only.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New normalizes timestamps to midnight UTC and validates the result as
// a PriceSeries: at least two points, days strictly increasing.
func New(points []PricePoint) (PriceSeries, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidSeries, len(points))
	}
	ps := make(PriceSeries, len(points))
	for i, p := range points {
		ps[i] = PricePoint{Time: Day(p.Time), Price: p.Price}
		if i > 0 && !ps[i].Time.After(ps[i-1].Time) {
			return nil, fmt.Errorf("%w: days must strictly increase (%s then %s)",
				ErrInvalidSeries,
				ps[i-1].Time.Format("2006-01-02"), ps[i].Time.Format("2006-01-02"))
		}
	}
	return ps, nil
}

// First returns the earliest observation. Panics on an empty series.
func (s PriceSeries) First() PricePoint { return s[0] }

// Last returns the latest observation. Panics on an empty series.
func (s PriceSeries) Last() PricePoint { return s[len(s)-1] }

// SpanDays is the number of whole days between the first and last
// observation.
func (s PriceSeries) SpanDays() int {
	return int(s.Last().Time.Sub(s.First().Time).Hours() / 24)
}

// First returns the earliest point. Panics on an empty series.
func (d DenseSeries) First() PricePoint { return d[0] }

// Last returns the latest point. Panics on an empty series.
func (d DenseSeries) Last() PricePoint { return d[len(d)-1] }

// SpanDays is the number of daily steps the series covers.
func (d DenseSeries) SpanDays() int {
	if len(d) == 0 {
		return 0
	}
	return len(d) - 1
}
