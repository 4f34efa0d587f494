package pricing

import (
	talib "github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"fantasyedge/internal/domain"
)

// formWindow is the number of recent rounds the form factor looks at.
const formWindow = 3

// FormFactor compares recent output against the season-long mean.
// 1.0 is neutral form; above 1.0 the player is trending up. Series shorter
// than the form window are treated as neutral.
func FormFactor(scores []float64) float64 {
	if len(scores) < formWindow {
		return 1.0
	}
	sma := talib.Sma(scores, formWindow)
	recent := sma[len(sma)-1]
	avg := stat.Mean(scores, nil)
	if avg <= 0 {
		return 1.0
	}
	return recent / avg
}

// Consistency grades week-to-week variance via the coefficient of variation.
func Consistency(scores []float64) domain.ConsistencyGrade {
	if len(scores) < 2 {
		return domain.GradeC
	}
	m := stat.Mean(scores, nil)
	if m <= 0 {
		return domain.GradeD
	}
	cv := stat.StdDev(scores, nil) / m
	switch {
	case cv < 0.15:
		return domain.GradeA
	case cv < 0.25:
		return domain.GradeB
	case cv < 0.35:
		return domain.GradeC
	default:
		return domain.GradeD
	}
}
