package price

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads a ticket price typed by an editor. Commas count as decimal points, every
// character that is not a digit or a dot is dropped, and a blank or malformed result is zero.
func Parse(s string) float32 {
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 32)
	if err != nil {
		return 0
	}
	return float32(v)
}

// Sum adds prices in float64 and rounds once at the end.
func Sum(prices []float32) float32 {
	total := 0.0
	for _, p := range prices {
		total += float64(p)
	}
	return float32(total)
}

// Format renders an amount with two decimals and comma thousands separators, e.g. 1,234.50.
func Format(amount float32) string {
	cents := int64(math.Round(float64(amount) * 100))

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	groups := make([]string, 0, len(whole)/3+1)
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return fmt.Sprintf("%s%s.%02d", sign, strings.Join(groups, ","), cents%100)
}
