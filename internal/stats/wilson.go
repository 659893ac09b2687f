package stats

import (
	"math"
)

// Z95 is the two-sided normal critical value for 95% confidence.
const Z95 = 1.959964

// Interval is a confidence interval for a binomial proportion.
type Interval struct {
	Low    float64
	Center float64
	High   float64
}

// WilsonInterval computes the Wilson score interval for wins successes
// out of total trials at critical value z. More accurate than the
// normal approximation at small samples and extreme proportions. Zero
// trials returns the degenerate empty interval rather than dividing by
// zero.
func WilsonInterval(wins, total int, z float64) Interval {
	if total <= 0 {
		return Interval{}
	}
	if wins < 0 {
		wins = 0
	}
	if wins > total {
		wins = total
	}

	n := float64(total)
	pHat := float64(wins) / n
	z2 := z * z

	denom := 1.0 + z2/n
	center := (pHat + z2/(2.0*n)) / denom
	margin := z * math.Sqrt((pHat*(1.0-pHat)+z2/(4.0*n))/n) / denom

	return Interval{
		Low:    math.Max(0.0, center-margin),
		Center: center,
		High:   math.Min(1.0, center+margin),
	}
}

// ZScore returns the two-sided normal critical value for the given
// confidence level, e.g. 0.95 -> 1.959964. Uses the Acklam rational
// approximation of the inverse normal CDF (absolute error < 1.2e-9).
func ZScore(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		return Z95
	}
	// Two-sided: the upper quantile at (1+confidence)/2.
	return inverseNormalCDF((1.0 + confidence) / 2.0)
}

func inverseNormalCDF(p float64) float64 {
	// Coefficients for the Acklam approximation.
	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p <= pHigh:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
}
