package backtest

// netOdds is the profit-to-stake ratio at -110: win 100 per 110 risked.
const netOdds = float64(WinPerBet) / float64(RiskPerBet)

// Kelly computes the full-Kelly bankroll fraction for a bettor with the
// given win rate at -110 odds: (p*b - q) / b with b = 100/110. Negative
// Kelly means no edge, and the stake is clamped to zero rather than
// signalling a lay.
func Kelly(winRate float64) float64 {
	if winRate <= 0 || winRate >= 1 {
		if winRate >= 1 {
			return 1
		}
		return 0
	}
	q := 1.0 - winRate
	kelly := (winRate*netOdds - q) / netOdds
	if kelly < 0 {
		return 0
	}
	return kelly
}

// FractionalKelly scales full Kelly by the given multiplier, quarter
// Kelly by default.
func FractionalKelly(winRate, multiplier float64) float64 {
	if multiplier <= 0 {
		multiplier = DefaultKellyMultiplier
	}
	return Kelly(winRate) * multiplier
}
