package indicators

import (
	"math"

	"github.com/heliosquant/helios/pkg/types"
)

// ADXPoint is one computed ADX value with its directional components.
// ADX measures trend strength regardless of direction (0-100 scale);
// +DI vs -DI gives the direction.
type ADXPoint struct {
	ADX     float64 `json:"adx"`
	PlusDI  float64 `json:"plus_di"`
	MinusDI float64 `json:"minus_di"`
}

type diPoint struct {
	plusDI  float64
	minusDI float64
	dx      float64
}

// ADX computes an Average Directional Index series using Wilder's smoothing.
// It needs 2*period candles of warm-up, so the output is
// len(candles)-2*period+1 long with the last point aligned to the last
// candle. Returns nil when there is not enough data.
func ADX(candles []types.Candle, period int) []ADXPoint {
	if period <= 0 || len(candles) < 2*period {
		return nil
	}

	n := len(candles)

	// True range and directional movement per bar, starting at index 1.
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		cur := candles[i]
		prev := candles[i-1]

		tr[i] = math.Max(cur.High-cur.Low,
			math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))

		upMove := cur.High - prev.High
		downMove := prev.Low - cur.Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	// Seed Wilder sums over the first period of bars.
	var trSum, plusSum, minusSum float64
	for i := 1; i <= period; i++ {
		trSum += tr[i]
		plusSum += plusDM[i]
		minusSum += minusDM[i]
	}

	dis := make([]diPoint, 0, n-period)
	dis = append(dis, makeDIPoint(trSum, plusSum, minusSum))

	for i := period + 1; i < n; i++ {
		trSum = trSum - trSum/float64(period) + tr[i]
		plusSum = plusSum - plusSum/float64(period) + plusDM[i]
		minusSum = minusSum - minusSum/float64(period) + minusDM[i]
		dis = append(dis, makeDIPoint(trSum, plusSum, minusSum))
	}

	// dis[j] is aligned to candle index period+j. The first ADX value is the
	// simple average of the first period DX values, landing on candle index
	// 2*period-1; from there Wilder smoothing takes over.
	if len(dis) < period {
		return nil
	}

	adxSeed := 0.0
	for j := 0; j < period; j++ {
		adxSeed += dis[j].dx
	}
	adx := adxSeed / float64(period)

	out := make([]ADXPoint, 0, len(dis)-period+1)
	out = append(out, ADXPoint{ADX: adx, PlusDI: dis[period-1].plusDI, MinusDI: dis[period-1].minusDI})

	for j := period; j < len(dis); j++ {
		adx = (adx*float64(period-1) + dis[j].dx) / float64(period)
		out = append(out, ADXPoint{ADX: adx, PlusDI: dis[j].plusDI, MinusDI: dis[j].minusDI})
	}
	return out
}

func makeDIPoint(trSum, plusSum, minusSum float64) diPoint {
	var p diPoint
	if trSum > 0 {
		p.plusDI = plusSum / trSum * 100
		p.minusDI = minusSum / trSum * 100
	}
	if diSum := p.plusDI + p.minusDI; diSum != 0 {
		p.dx = math.Abs(p.plusDI-p.minusDI) / diSum * 100
	}
	return p
}
