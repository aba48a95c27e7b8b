package report

import (
	"fmt"
	"math"
)

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatHours renders an hour figure with two decimals; exactly zero is blank.
func FormatHours(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", Round2(v))
}

// FormatTotal renders a total with two decimals, zero included.
func FormatTotal(v float64) string {
	return fmt.Sprintf("%.2f", Round2(v))
}

func sumWorkDays(hours [DaysPerWeek]float64) float64 {
	total := 0.0
	for d := 0; d < WorkDays; d++ {
		total += hours[d]
	}
	return total
}
