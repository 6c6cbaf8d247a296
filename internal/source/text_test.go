package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/chart2video/internal/series"
)

func TestParseFormats(t *testing.T) {
	input := strings.Join([]string{
		"2023-01-01 500",
		"15.06.2023 700",
		"2023/09/01 850",
		"12/31/2023 1,200",
	}, "\n")

	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 4 {
		t.Fatalf("expected 4 points, got %d", len(ps))
	}

	wantDays := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	wantPrices := []float64{500, 700, 850, 1200}
	for i := range ps {
		if !ps[i].Time.Equal(wantDays[i]) {
			t.Errorf("point %d: expected %v, got %v", i, wantDays[i], ps[i].Time)
		}
		if ps[i].Price != wantPrices[i] {
			t.Errorf("point %d: expected %.0f, got %.2f", i, wantPrices[i], ps[i].Price)
		}
	}
}

func TestParseDottedDatesAreDayFirst(t *testing.T) {
	ps, err := Parse(strings.NewReader("02.03.2023 10\n05.03.2023 20\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps[0].Time.Month() != time.March || ps[0].Time.Day() != 2 {
		t.Errorf("dotted date must read day first, got %v", ps[0].Time)
	}
}

func TestParseSkipsGarbage(t *testing.T) {
	input := strings.Join([]string{
		"",
		"2023-01-01 500",
		"not a data line",
		"2023-02-30 100",
		"2023-03-01 $750",
		"   ",
		"2023-06-01 800",
	}, "\n")

	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the two clean lines survive: bad calendar dates and prices
	// with a currency sign are rejected.
	if len(ps) != 2 {
		t.Fatalf("expected 2 points, got %d: %v", len(ps), ps)
	}
	if ps[0].Price != 500 || ps[1].Price != 800 {
		t.Errorf("unexpected prices: %v", ps)
	}
}

func TestParseSortsByDate(t *testing.T) {
	input := "2023-06-01 300\n2023-01-01 100\n2023-03-01 200\n"
	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(ps); i++ {
		if !ps[i].Time.After(ps[i-1].Time) {
			t.Fatalf("points not sorted: %v", ps)
		}
	}
	if ps[0].Price != 100 {
		t.Errorf("earliest point should be first, got %.0f", ps[0].Price)
	}
}

func TestParseDuplicateDayKeepsLast(t *testing.T) {
	input := "2023-01-01 100\n2023-01-02 200\n2023-01-02 250\n"
	ps, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 points, got %d", len(ps))
	}
	if ps[1].Price != 250 {
		t.Errorf("duplicate day should keep the later value, got %.0f", ps[1].Price)
	}
}

func TestParseTooFewValidLines(t *testing.T) {
	_, err := Parse(strings.NewReader("2023-01-01 500\ngarbage\n"))
	if !errors.Is(err, series.ErrInvalidSeries) {
		t.Fatalf("expected ErrInvalidSeries, got %v", err)
	}
}

func TestTextSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.txt")
	content := "01.01.2023 500\n15.06.2023 700\n31.12.2023 1200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src := &TextSource{Path: path}
	if src.Describe() != path {
		t.Errorf("describe: %q", src.Describe())
	}
	ps, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 3 || ps[2].Price != 1200 {
		t.Errorf("unexpected series: %v", ps)
	}
}

func TestTextSourceMissingFile(t *testing.T) {
	src := &TextSource{Path: filepath.Join(t.TempDir(), "absent.txt")}
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
