package series

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Interpolator fills a sparse series into one point per calendar day.
type Interpolator interface {
	Name() string
	Resample(ps PriceSeries) (DenseSeries, error)
}

// NewInterpolator creates an interpolator by name. An empty name selects
// the linear one.
func NewInterpolator(kind string) (Interpolator, error) {
	switch kind {
	case "linear", "":
		return Linear{}, nil
	case "spline":
		return Spline{}, nil
	default:
		return nil, fmt.Errorf("unknown interpolator: %s", kind)
	}
}

// Linear connects neighboring observations with straight segments and
// samples the price at every day in between.
type Linear struct{}

// Name implements Interpolator.
func (Linear) Name() string { return "linear" }

// Resample implements Interpolator.
func (Linear) Resample(ps PriceSeries) (DenseSeries, error) {
	if err := check(ps); err != nil {
		return nil, err
	}
	days := ps.SpanDays()
	dense := make(DenseSeries, 0, days+1)
	j := 0
	for i := 0; i <= days; i++ {
		t := ps[0].Time.AddDate(0, 0, i)
		for j+1 < len(ps) && !ps[j+1].Time.After(t) {
			j++
		}
		price := ps[j].Price
		if ps[j].Time.Before(t) && j+1 < len(ps) {
			span := ps[j+1].Time.Sub(ps[j].Time).Hours() / 24
			frac := t.Sub(ps[j].Time).Hours() / 24 / span
			price += (ps[j+1].Price - ps[j].Price) * frac
		}
		dense = append(dense, PricePoint{Time: t, Price: price})
	}
	return dense, nil
}

// Spline fits an Akima spline through the observations and samples it
// daily, giving mystery charts their smooth look. Sampled prices are
// clamped at zero; fewer than four observations fall back to linear.
type Spline struct{}

// Name implements Interpolator.
func (Spline) Name() string { return "spline" }

// Resample implements Interpolator.
func (Spline) Resample(ps PriceSeries) (DenseSeries, error) {
	if err := check(ps); err != nil {
		return nil, err
	}
	if len(ps) < 4 {
		return Linear{}.Resample(ps)
	}
	xs := make([]float64, len(ps))
	ys := make([]float64, len(ps))
	for i, p := range ps {
		xs[i] = p.Time.Sub(ps[0].Time).Hours() / 24
		ys[i] = p.Price
	}
	var ak interp.AkimaSpline
	if err := ak.Fit(xs, ys); err != nil {
		return Linear{}.Resample(ps)
	}
	days := ps.SpanDays()
	dense := make(DenseSeries, 0, days+1)
	for i := 0; i <= days; i++ {
		price := ak.Predict(float64(i))
		if price < 0 {
			price = 0
		}
		dense = append(dense, PricePoint{Time: ps[0].Time.AddDate(0, 0, i), Price: price})
	}
	return dense, nil
}

func check(ps PriceSeries) error {
	if len(ps) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidSeries, len(ps))
	}
	for i := 1; i < len(ps); i++ {
		if !ps[i].Time.After(ps[i-1].Time) {
			return fmt.Errorf("%w: days must strictly increase", ErrInvalidSeries)
		}
	}
	return nil
}
