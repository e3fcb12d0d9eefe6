package xgboost

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Ensemble {
	t.Helper()
	data, err := os.ReadFile("testdata/modelo_1001.json")
	require.NoError(t, err)

	model, err := Parse(data)
	require.NoError(t, err)
	return model
}

func TestParse_Fixture(t *testing.T) {
	model := loadFixture(t)
	assert.Equal(t, 2, model.NumTrees())

	weekday := []float64{2024, 6, 23, 0, 0, 0, 0}
	weekend := []float64{2024, 6, 22, 0, 1, 0, 1}

	got, err := model.Predict(weekday)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, got, 1e-9)

	got, err = model.Predict(weekend)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, got, 1e-9)
}

func TestPredict_MissingValueFollowsDefault(t *testing.T) {
	model := loadFixture(t)

	got, err := model.Predict([]float64{2024, 6, 22, 0, math.NaN(), 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, got, 1e-9)
}

func TestPredict_ShortFeatureVector(t *testing.T) {
	model := loadFixture(t)

	_, err := model.Predict([]float64{2024, 6})
	assert.ErrorContains(t, err, "expects 7 features")
}

func TestParse_PoissonObjective(t *testing.T) {
	doc := `{"learner":{
		"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[-1],"right_children":[-1],"split_indices":[0],
			"split_conditions":[0.6931472],"default_left":[false]}]}},
		"learner_model_param":{"base_score":"[1E0]","num_feature":"1"},
		"objective":{"name":"count:poisson"}}}`

	model, err := Parse([]byte(doc))
	require.NoError(t, err)

	got, err := model.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-6)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"not json", `{not json`},
		{"no learner", `{"version":[2,0,0]}`},
		{"linear booster", `{"learner":{"gradient_booster":{"name":"gblinear"}}}`},
		{"no trees", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[]}}}}`},
		{"bad objective", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[]}},"objective":{"name":"multi:softmax"}}}`},
		{"mismatched arrays", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[1,-1,-1],"right_children":[2,-1,-1],"split_indices":[0],
			"split_conditions":[0.5,1,2],"default_left":[0,0,0]}]}}}}`},
		{"negative child", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[-2],"right_children":[-2],"split_indices":[0],
			"split_conditions":[0.5],"default_left":[0]}]}}}}`},
		{"one-sided leaf", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[1,-1],"right_children":[-1,-1],"split_indices":[0,0],
			"split_conditions":[0.5,1],"default_left":[0,0]}]}}}}`},
		{"self loop", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[0,-1],"right_children":[1,-1],"split_indices":[0,0],
			"split_conditions":[0.5,1],"default_left":[0,0]}]}}}}`},
		{"back edge", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[1,0,-1],"right_children":[2,2,-1],"split_indices":[0,0,0],
			"split_conditions":[0.5,0.5,1],"default_left":[0,0,0]}]}}}}`},
		{"categorical split", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[{
			"left_children":[1,-1,-1],"right_children":[2,-1,-1],"split_indices":[0,0,0],
			"split_conditions":[0.5,1,2],"default_left":[0,0,0],"split_type":[1,0,0]}]}}}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}
