package money

import (
	"fmt"
	"math"
	"strconv"
)

// FormatPence renders an amount in pence as pounds, e.g. 5550 -> "£55.50".
func FormatPence(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%d.%02d", sign, pence/100, pence%100)
}

// FormatPercent renders a fraction as a surcharge percentage, e.g. 0.25 -> "+25%".
func FormatPercent(fraction float64) string {
	percent := math.Round(fraction*10000) / 100
	return "+" + strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}
