package prediction

import "github.com/shopspring/decimal"

// Label renders the classification the way the results panel shows it.
func (r Result) Label() string {
	if r.IsHazardous {
		return "Hazardous"
	}
	return "Not Hazardous"
}

// Percent renders a probability in [0,1] as an exact percentage string, e.g. 0.2 -> "20".
func Percent(probability float64) string {
	return decimal.NewFromFloat(probability).Shift(2).String()
}
