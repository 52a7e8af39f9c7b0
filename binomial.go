package nurbs

import "gonum.org/v1/gonum/stat/combin"

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}

	return float64(combin.Binomial(n, k))
}
