package macros

import (
	"Health-Tracker-Backend/domain"
	"math"
)

// roundingNudge keeps values like 0.15 (stored as 0.1499999...) rounding up.
const roundingNudge = 1e-9

// Aggregate sums each axis across the given slot results and rounds every
// total to one decimal. An empty input yields all zeros.
func Aggregate(perSlot []domain.Macros) domain.Macros {
	var total domain.Macros
	for _, m := range perSlot {
		total = total.Add(m)
	}

	return domain.Macros{
		Calories: Round1(total.Calories),
		Carbs:    Round1(total.Carbs),
		Protein:  Round1(total.Protein),
		Fat:      Round1(total.Fat),
		Fiber:    Round1(total.Fiber),
	}
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	if v < 0 {
		return -Round1(-v)
	}
	return math.Round((v+roundingNudge)*10) / 10
}
