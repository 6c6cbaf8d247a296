package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ivlev/chart2video/internal/series"
)

// TextSource reads "date price" lines from a file, one observation per
// line. Dotted dates are day-first ("31.12.2023"); malformed lines are
// skipped with a warning rather than failing the run.
type TextSource struct {
	Path string
}

// Describe implements Source.
func (s *TextSource) Describe() string { return s.Path }

// Load implements Source.
func (s *TextSource) Load(ctx context.Context) (series.PriceSeries, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads observations from r. Empty lines are skipped silently,
// unparseable ones with a warning; the result still needs at least two
// valid points.
func Parse(r io.Reader) (series.PriceSeries, error) {
	sc := bufio.NewScanner(r)
	var pts []series.PricePoint
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// The last whitespace-separated field is the price, everything
		// before it is the date.
		cut := strings.LastIndexFunc(line, unicode.IsSpace)
		if cut < 0 {
			log.Printf("[!] line %d: expected \"date price\", skipping: %q", lineNo, line)
			continue
		}
		dateStr := strings.TrimSpace(line[:cut])
		priceStr := strings.ReplaceAll(strings.TrimSpace(line[cut+1:]), ",", "")

		t, err := parseDate(dateStr)
		if err != nil {
			log.Printf("[!] line %d: %v, skipping", lineNo, err)
			continue
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			log.Printf("[!] line %d: bad price %q, skipping", lineNo, priceStr)
			continue
		}
		pts = append(pts, series.PricePoint{Time: t, Price: price})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return finishSeries(pts)
}

// parseDate accepts the formats operators actually paste: ISO, slashed
// US dates and dotted European day-first dates.
func parseDate(s string) (time.Time, error) {
	formats := []string{"2006-01-02", "2006/01/02", "01/02/2006"}
	if strings.Contains(s, ".") {
		formats = []string{"02.01.2006", "2006.01.02"}
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
