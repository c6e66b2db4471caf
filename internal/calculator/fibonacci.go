package calculator

import (
	"fmt"
	"strings"

	"FibScope/internal/model"
)

// TroughSource selects which price column the trough reference is read from.
type TroughSource string

const (
	// TroughFromHigh reads the trough reference from the High column at the
	// low swing's index. This is the established chart behavior.
	TroughFromHigh TroughSource = "high"
	// TroughFromLow reads it from the Low column, the textbook retracement.
	TroughFromLow TroughSource = "low"
)

// ParseTroughSource maps a config value to a TroughSource. Empty means TroughFromHigh.
func ParseTroughSource(s string) (TroughSource, error) {
	switch TroughSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", TroughFromHigh:
		return TroughFromHigh, nil
	case TroughFromLow:
		return TroughFromLow, nil
	default:
		return "", fmt.Errorf("unknown trough source %q", s)
	}
}

// FibonacciLevels returns one level per model.FibonacciRatios entry, in ratio order.
//
// When the peak comes after the trough the levels descend from the peak as the
// ratio grows; otherwise they ascend from the trough.
func FibonacciLevels(bars []model.Bar, sw Swings, src TroughSource) ([]model.FibonacciLevel, error) {
	if len(bars) == 0 {
		return nil, model.ErrEmptySeries
	}
	switch {
	case sw.Highest == nil && sw.Lowest == nil:
		return nil, fmt.Errorf("%w: no local high or low", model.ErrIndeterminateSwing)
	case sw.Highest == nil:
		return nil, fmt.Errorf("%w: no local high", model.ErrIndeterminateSwing)
	case sw.Lowest == nil:
		return nil, fmt.Errorf("%w: no local low", model.ErrIndeterminateSwing)
	}
	hi, lo := sw.Highest.Index, sw.Lowest.Index
	if hi < 0 || hi >= len(bars) || lo < 0 || lo >= len(bars) {
		return nil, fmt.Errorf("swing index out of range: high=%d low=%d len=%d", hi, lo, len(bars))
	}

	peak := bars[hi].High
	trough := bars[lo].High
	if src == TroughFromLow {
		trough = bars[lo].Low
	}
	span := peak - trough

	levels := make([]model.FibonacciLevel, len(model.FibonacciRatios))
	for i, ratio := range model.FibonacciRatios {
		price := trough + span*ratio
		if hi > lo {
			price = peak - span*ratio
		}
		levels[i] = model.FibonacciLevel{Ratio: ratio, Price: price}
	}
	return levels, nil
}
