// Package source produces the price series to animate, either from a
// local text file or from a quotes API.
package source

import (
	"context"
	"log"
	"sort"

	"github.com/ivlev/chart2video/internal/series"
)

// Source is a provider of raw price observations.
type Source interface {
	// Describe names the source for logs.
	Describe() string
	// Load fetches and validates the series.
	Load(ctx context.Context) (series.PriceSeries, error)
}

// finishSeries orders the collected points and collapses same-day
// duplicates keeping the last occurrence, then runs core validation.
func finishSeries(pts []series.PricePoint) (series.PriceSeries, error) {
	for i := range pts {
		pts[i].Time = series.Day(pts[i].Time)
	}
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Time.Before(pts[j].Time)
	})
	dedup := make([]series.PricePoint, 0, len(pts))
	for _, p := range pts {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(p.Time) {
			log.Printf("[!] duplicate day %s, keeping the last value", p.Time.Format("2006-01-02"))
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	return series.New(dedup)
}
