package layout

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_500_000, "$1.5M"},
		{2_400_000, "$2.4M"},
		{1_000_000, "$1.0M"},
		{999_999, "$1000K"},
		{12_345.6, "$12K"},
		{2_600, "$3K"},
		{2_400, "$2K"},
		{1_000, "$1K"},
		{999.6, "$1,000"},
		{1_234.4, "$1K"},
		{500, "$500"},
		{0, "$0"},
		{-500, "-$500"},
		{-2_600, "-$3K"},
		{-1_500_000, "-$1.5M"},
	}
	for _, tt := range tests {
		if got := Currency(tt.in); got != tt.want {
			t.Errorf("Currency(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"12345", "12,345"},
		{"1234567", "1,234,567"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAdaptiveFontSize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"short keeps base", "+5.0%", 80},
		{"at limit keeps base", "+50.0%", 80},
		{"seven chars shrinks", "+140.0%", 68},
		{"long answer", "Berkshire Inc", 36},
		{"very long clamps to min", "An unreasonably long answer string here!", 24},
		{"empty keeps base", "", 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveFontSize(tt.text, 80, 6, 24); got != tt.want {
				t.Errorf("expected %.0f, got %.0f", tt.want, got)
			}
		})
	}
}

func TestAdaptiveFontSizeCountsRunes(t *testing.T) {
	// 7 characters even though the bytes say more.
	if got := AdaptiveFontSize("Яндекс!", 80, 6, 24); got != 68 {
		t.Errorf("expected rune-based 68, got %.0f", got)
	}
}
