package calculator

import "FibScope/internal/model"

// Swings holds the most significant local extrema of a series. A nil field
// means no interior bar qualified on that side.
type Swings struct {
	Highest *model.SwingPoint `json:"highest,omitempty"`
	Lowest  *model.SwingPoint `json:"lowest,omitempty"`
}

// FindSwings scans the interior bars for strict local highs and lows and keeps
// the highest high and the lowest low. The first and last bars are never
// candidates; ties keep the earliest bar.
func FindSwings(bars []model.Bar) (Swings, error) {
	var sw Swings
	if len(bars) == 0 {
		return sw, model.ErrEmptySeries
	}
	for i := 1; i < len(bars)-1; i++ {
		h := bars[i].High
		if h > bars[i-1].High && h > bars[i+1].High && (sw.Highest == nil || h > sw.Highest.Price) {
			sw.Highest = &model.SwingPoint{Kind: model.SwingHigh, Index: i, Price: h}
		}
		l := bars[i].Low
		if l < bars[i-1].Low && l < bars[i+1].Low && (sw.Lowest == nil || l < sw.Lowest.Price) {
			sw.Lowest = &model.SwingPoint{Kind: model.SwingLow, Index: i, Price: l}
		}
	}
	return sw, nil
}
