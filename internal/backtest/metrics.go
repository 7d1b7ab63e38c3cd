package backtest

// computeMetrics fills the aggregate performance fields of the result from
// its completed trades and equity curve.
func computeMetrics(res *Result) {
	var totalWins, totalLosses float64
	for _, t := range res.Trades {
		if !t.Closed {
			continue
		}
		res.CompletedTrades++
		if t.PnL > 0 {
			res.WinningTrades++
			totalWins += t.PnL
		} else {
			res.LosingTrades++
			totalLosses += -t.PnL
		}
	}

	if res.CompletedTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.CompletedTrades) * 100
	}
	if res.WinningTrades > 0 {
		res.AverageWin = totalWins / float64(res.WinningTrades)
	}
	if res.LosingTrades > 0 {
		res.AverageLoss = totalLosses / float64(res.LosingTrades)
	}

	switch {
	case totalLosses > 0:
		res.ProfitFactor = totalWins / totalLosses
	case totalWins > 0:
		// Wins with zero losses: the ratio is unbounded. Mark it instead
		// of emitting an unserializable infinity.
		res.ProfitFactorCapped = true
	}

	res.ProfitLoss = res.FinalBalance - res.InitialBalance
	if res.InitialBalance != 0 {
		res.ProfitLossPct = res.ProfitLoss / res.InitialBalance * 100
	}
	res.MaxDrawdown = MaxDrawdown(res.EquityCurve)
}

// MaxDrawdown returns the largest percentage decline from any running
// equity peak to a later trough, in one pass over the curve.
func MaxDrawdown(curve []EquityPoint) float64 {
	var peak, maxDD float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
