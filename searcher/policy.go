package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// ucb1 prefers unvisited children before applying UCT.
func ucb1(rewards float64, visits int, normalizer float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	return uct{numerator: normalizer}.evaluate(rewards, float64(visits))
}
