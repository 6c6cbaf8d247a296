package series

import "fmt"

// Statistics summarizes a dense series for the results screen.
type Statistics struct {
	Start     float64
	End       float64
	PctChange float64
	High      PricePoint
	Low       PricePoint
}

// Extract derives Statistics from a dense series. Start and end come
// from the resampled series, not the raw input. The percent change is
// defined as zero when the start price is zero, and ties for high or
// low resolve to the earliest day.
func Extract(ds DenseSeries) (Statistics, error) {
	if len(ds) == 0 {
		return Statistics{}, fmt.Errorf("cannot summarize: %w", ErrEmptySeries)
	}
	st := Statistics{
		Start: ds[0].Price,
		End:   ds[len(ds)-1].Price,
		High:  ds[0],
		Low:   ds[0],
	}
	for _, p := range ds[1:] {
		if p.Price > st.High.Price {
			st.High = p
		}
		if p.Price < st.Low.Price {
			st.Low = p
		}
	}
	if st.Start != 0 {
		st.PctChange = (st.End - st.Start) / st.Start * 100
	}
	return st, nil
}
