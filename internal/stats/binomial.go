// Package stats implements the exact probability calculations the edge
// validator depends on: a one-sided exact binomial test and the Wilson
// score interval. Everything here is pure float math over counts.
package stats

import (
	"math"
)

// BinomialPValue computes the one-sided exact binomial p-value for
// H0: rate = p0 against H1: rate > p0, i.e. P(X >= wins) for
// X ~ Binomial(total, p0). Works in log space so large samples do not
// underflow. Zero trials returns 1 (no evidence against H0).
func BinomialPValue(wins, total int, p0 float64) float64 {
	if total <= 0 {
		return 1.0
	}
	if wins <= 0 {
		return 1.0
	}
	if wins > total {
		wins = total
	}
	if p0 <= 0 {
		return 0.0
	}
	if p0 >= 1 {
		return 1.0
	}

	sum := 0.0
	for k := wins; k <= total; k++ {
		sum += math.Exp(logBinomialPMF(k, total, p0))
	}
	return math.Min(1.0, sum)
}

// logBinomialPMF returns log P(X = k) for X ~ Binomial(n, p).
func logBinomialPMF(k, n int, p float64) float64 {
	return logChoose(n, k) + float64(k)*math.Log(p) + float64(n-k)*math.Log(1-p)
}

// logChoose returns log C(n, k) via the log-gamma function.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	lgN, _ := math.Lgamma(float64(n + 1))
	lgK, _ := math.Lgamma(float64(k + 1))
	lgNK, _ := math.Lgamma(float64(n - k + 1))
	return lgN - lgK - lgNK
}
