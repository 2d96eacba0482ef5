package util

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Round2 rounds to two decimal places. All money values pass through here.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Slugify lowercases, replaces runs of non-alphanumerics with single dashes
// and trims dashes from the edges.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// SplitCommaList splits a comma-separated string, trimming whitespace and
// dropping empty parts.
func SplitCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCommaList is the inverse of SplitCommaList; it normalizes spacing.
func JoinCommaList(parts []string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, ", ")
}

// SizeDisplayGB renders a nullable GB size estimate for humans.
func SizeDisplayGB(gb *float64) string {
	if gb == nil {
		return "Unknown"
	}
	if *gb >= 1024 {
		return fmt.Sprintf("%.2f TB", *gb/1024)
	}
	return fmt.Sprintf("%.2f GB", *gb)
}

// SizeDisplayBytes renders a byte count with binary-kilo units.
func SizeDisplayBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGT"[exp])
}
