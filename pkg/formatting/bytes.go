// Package formatting holds small parsing and formatting helpers shared by
// configuration and the generation stages.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

// byteUnits are base-1024 suffixes in ascending order. The index is the power.
var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatBytes renders n with the largest unit that keeps the value at or above one.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(value, 'f', precision, 64) + " " + byteUnits[unit]
}

// ParseBytes reads sizes such as "50MB", "1.5 kb", or "2048". Units are
// case-insensitive and a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	number, suffix := s, ""
	if split >= 0 {
		number, suffix = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	if suffix == "" {
		return int64(value), nil
	}

	suffix = strings.ToUpper(suffix)
	for power, unit := range byteUnits {
		if unit == suffix {
			return int64(value * float64(int64(1)<<(10*power))), nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", suffix)
}
