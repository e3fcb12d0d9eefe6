package repositories

import (
	"context"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// Regressor is a trained per-item demand model
type Regressor interface {
	// Predict returns the predicted quantity for one feature vector laid out
	// in entities.FeatureNames order. The output is unconstrained and may be negative.
	Predict(features []float64) (float64, error)
}

// ModelRepository resolves the trained model of an item.
// Implementations return entities.ErrModelNotFound when the item has no model.
type ModelRepository interface {
	FindModel(ctx context.Context, code entities.ItemCode) (Regressor, error)
}
