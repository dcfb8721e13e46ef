// Package predict turns a clean feature row into a price range, either
// through the hosted inference endpoint or a local regressor.
package predict

import (
	"context"
	"errors"
	"math"

	"github.com/aluiziolira/go-scrape-laptops/models"
)

// ZScore gives an approximate 95% interval.
const ZScore = 1.95

// ErrNoTrainingRows is returned when a regressor has nothing to fit.
var ErrNoTrainingRows = errors.New("predict: no rows with a price")

// Range is a price interval in original currency units.
type Range struct {
	Min float64 `json:"min_price"`
	Max float64 `json:"max_price"`
}

// Predictor estimates a price range for one laptop.
type Predictor interface {
	Predict(ctx context.Context, row *models.CleanRow) (Range, error)
}

// Regressor returns the location and the log of the scale of the predicted
// log-price distribution.
type Regressor interface {
	PredictParams(row *models.CleanRow) (loc, logScale float64, err error)
}

// Interval is a log-price estimate with its bounds.
type Interval struct {
	Mean  float64
	Lower float64
	Upper float64
}

// ConfidenceInterval returns loc ± ZScore·exp(logScale).
func ConfidenceInterval(loc, logScale float64) Interval {
	spread := ZScore * math.Exp(logScale)
	return Interval{
		Mean:  loc,
		Lower: loc - spread,
		Upper: loc + spread,
	}
}

// Local serves predictions from an in-process regressor.
type Local struct {
	Regressor Regressor
}

// Predict converts the log-price interval back to prices.
func (l Local) Predict(ctx context.Context, row *models.CleanRow) (Range, error) {
	if err := ctx.Err(); err != nil {
		return Range{}, err
	}
	loc, logScale, err := l.Regressor.PredictParams(row)
	if err != nil {
		return Range{}, err
	}
	ci := ConfidenceInterval(loc, logScale)
	return Range{
		Min: math.Expm1(ci.Lower),
		Max: math.Expm1(ci.Upper),
	}, nil
}
