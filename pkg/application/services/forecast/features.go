// Package forecast turns per-item demand models into weekly forecasts with
// prior-year actuals alongside.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
)

// ErrInvalidPrediction is returned when a model produces NaN or an infinity
var ErrInvalidPrediction = errors.New("invalid prediction")

// predictionPlaces is the precision daily predictions are rounded to before summing
const predictionPlaces = 3

// BuildFeatures returns one forecast point per calendar day of period
func BuildFeatures(code entities.ItemCode, period entities.DateRange) []entities.ForecastPoint {
	dates := period.Dates()
	points := make([]entities.ForecastPoint, 0, len(dates))
	for _, d := range dates {
		points = append(points, entities.NewForecastPoint(code, d))
	}
	return points
}

// Predict fills PredictedQty of every point. Raw predictions are rounded to
// three decimals and negatives are clipped to zero, so weekly sums never
// offset demand with negative days.
func Predict(model repositories.Regressor, points []entities.ForecastPoint) ([]entities.ForecastPoint, error) {
	predicted := make([]entities.ForecastPoint, len(points))
	for i, p := range points {
		raw, err := model.Predict(p.Features())
		if err != nil {
			return nil, fmt.Errorf("item %s on %s: %w", p.ItemCode, p.Date.Format(entities.DateLayout), err)
		}
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return nil, fmt.Errorf("%w: item %s on %s: %v",
				ErrInvalidPrediction, p.ItemCode, p.Date.Format(entities.DateLayout), raw)
		}

		qty := decimal.NewFromFloat(raw).Round(predictionPlaces)
		if qty.IsNegative() {
			qty = decimal.Zero
		}

		p.PredictedQty = qty
		predicted[i] = p
	}
	return predicted, nil
}
