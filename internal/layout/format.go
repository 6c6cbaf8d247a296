package layout

import (
	"fmt"
	"strings"
)

// Currency renders a price the way the axis shows it: "$1.5M" above a
// million, "$23K" above a thousand, grouped dollars below. A negative
// value puts the sign before the dollar.
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.0fK", sign, v/1_000)
	default:
		return sign + "$" + groupThousands(fmt.Sprintf("%.0f", v))
	}
}

// groupThousands inserts commas into a plain digit string,
// "1234" -> "1,234".
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// AdaptiveFontSize shrinks base proportionally once text exceeds
// maxChars characters, so long reveal strings still fit the canvas.
// The size is truncated to a whole point and never drops below min;
// empty text keeps the base size.
func AdaptiveFontSize(text string, base float64, maxChars int, min float64) float64 {
	n := len([]rune(text))
	if n <= maxChars {
		return base
	}
	factor := float64(maxChars) / float64(n)
	size := float64(int(base * factor))
	if size < min {
		size = min
	}
	return size
}
