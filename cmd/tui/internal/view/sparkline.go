package view

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pulse/internal/progress"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders one block per bucket, scaled against the largest value.
func Sparkline(buckets []progress.Bucket) string {
	if len(buckets) == 0 {
		return ""
	}

	peak := decimal.Zero
	for _, b := range buckets {
		if b.Value.GreaterThan(peak) {
			peak = b.Value
		}
	}

	var sb strings.Builder

	top := decimal.NewFromInt(int64(len(sparkBlocks) - 1))

	for _, b := range buckets {
		if !peak.IsPositive() || !b.Value.IsPositive() {
			sb.WriteRune(sparkBlocks[0])
			continue
		}

		idx := b.Value.Div(peak).Mul(top).Round(0).IntPart()
		sb.WriteRune(sparkBlocks[idx])
	}

	return sb.String()
}
