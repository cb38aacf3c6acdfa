// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price with two decimals and thousands separators.
func FormatPrice(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.2f", value)
	parts := strings.Split(str, ".")

	result := groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatSignedPercent formats a percentage with an explicit sign.
func FormatSignedPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// FormatCount formats an integer with thousands separators.
func FormatCount(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	result := groupThousands(fmt.Sprintf("%d", value))
	if negative {
		result = "-" + result
	}
	return result
}

// FormatCompact formats a number in compact form (K/M/B).
func FormatCompact(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", value/1e3)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}

// groupThousands inserts commas into a non-negative integer string.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var sb strings.Builder
	lead := n % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
