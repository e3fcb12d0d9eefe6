// Package xgboost evaluates gradient-boosted tree ensembles saved with
// XGBoost's JSON model format (Booster.save_model("*.json")).
package xgboost

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/vsinha/salesdash/pkg/domain/repositories"
)

// ErrInvalidModel is returned for documents that are not a supported gbtree model
var ErrInvalidModel = errors.New("invalid xgboost model")

type tree struct {
	left        []int
	right       []int
	splitIndex  []int
	splitCond   []float32
	defaultLeft []bool
}

// Ensemble is a loaded gbtree regressor
type Ensemble struct {
	objective  string
	baseMargin float64
	numFeature int
	trees      []tree
}

// Verify interface compliance
var _ repositories.Regressor = (*Ensemble)(nil)

// Parse loads an ensemble from the JSON model document
func Parse(data []byte) (*Ensemble, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not a JSON document", ErrInvalidModel)
	}

	learner := gjson.GetBytes(data, "learner")
	if !learner.Exists() {
		return nil, fmt.Errorf("%w: missing learner", ErrInvalidModel)
	}

	if booster := learner.Get("gradient_booster.name").String(); booster != "gbtree" {
		return nil, fmt.Errorf("%w: unsupported booster %q", ErrInvalidModel, booster)
	}

	objective := learner.Get("objective.name").String()
	if objective == "" {
		objective = "reg:squarederror"
	}

	baseScore, err := parseBaseScore(learner.Get("learner_model_param.base_score").String())
	if err != nil {
		return nil, err
	}
	baseMargin, err := marginOf(objective, baseScore)
	if err != nil {
		return nil, err
	}

	numFeature, _ := strconv.Atoi(learner.Get("learner_model_param.num_feature").String())

	treeDocs := learner.Get("gradient_booster.model.trees").Array()
	if len(treeDocs) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", ErrInvalidModel)
	}

	e := &Ensemble{
		objective:  objective,
		baseMargin: baseMargin,
		numFeature: numFeature,
		trees:      make([]tree, 0, len(treeDocs)),
	}
	for i, doc := range treeDocs {
		t, err := parseTree(doc)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}

	return e, nil
}

// NumTrees returns the number of boosted trees
func (e *Ensemble) NumTrees() int {
	return len(e.trees)
}

// Predict evaluates the ensemble on one feature vector. NaN features follow
// each split's default direction.
func (e *Ensemble) Predict(features []float64) (float64, error) {
	if e.numFeature > 0 && len(features) < e.numFeature {
		return 0, fmt.Errorf("model expects %d features, got %d", e.numFeature, len(features))
	}

	margin := e.baseMargin
	for i := range e.trees {
		leaf, err := e.trees[i].eval(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		margin += float64(leaf)
	}

	return transform(e.objective, margin), nil
}

func (t *tree) eval(features []float64) (float32, error) {
	node := 0
	for t.left[node] != -1 {
		idx := t.splitIndex[node]
		if idx < 0 || idx >= len(features) {
			return 0, fmt.Errorf("split on feature %d outside input of %d", idx, len(features))
		}

		fv := features[idx]
		switch {
		case math.IsNaN(fv):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case float32(fv) < t.splitCond[node]:
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	// Leaves store their value in split_conditions
	return t.splitCond[node], nil
}

func parseTree(doc gjson.Result) (tree, error) {
	t := tree{
		left:        ints(doc.Get("left_children")),
		right:       ints(doc.Get("right_children")),
		splitIndex:  ints(doc.Get("split_indices")),
		splitCond:   floats(doc.Get("split_conditions")),
		defaultLeft: bools(doc.Get("default_left")),
	}

	n := len(t.left)
	if n == 0 {
		return tree{}, fmt.Errorf("%w: empty tree", ErrInvalidModel)
	}
	if len(t.right) != n || len(t.splitIndex) != n || len(t.splitCond) != n || len(t.defaultLeft) != n {
		return tree{}, fmt.Errorf("%w: node arrays have mismatched lengths", ErrInvalidModel)
	}
	for i := 0; i < n; i++ {
		if t.left[i] == -1 && t.right[i] == -1 {
			continue
		}
		// children are numbered after their parent, which also rules out cycles
		if !validChild(t.left[i], i, n) || !validChild(t.right[i], i, n) {
			return tree{}, fmt.Errorf("%w: node %d has invalid children", ErrInvalidModel, i)
		}
	}

	// only numerical splits are evaluated; categorical splits (type 1) are not supported
	for i, kind := range ints(doc.Get("split_type")) {
		if kind != 0 {
			return tree{}, fmt.Errorf("%w: node %d uses unsupported split type %d", ErrInvalidModel, i, kind)
		}
	}
	return t, nil
}

func validChild(child, parent, n int) bool {
	return child > parent && child < n
}

func ints(r gjson.Result) []int {
	values := r.Array()
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v.Int())
	}
	return out
}

func floats(r gjson.Result) []float32 {
	values := r.Array()
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v.Float())
	}
	return out
}

// bools accepts both 0/1 and true/false encodings
func bools(r gjson.Result) []bool {
	values := r.Array()
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = v.Bool()
	}
	return out
}

// parseBaseScore handles "5E-1" as well as the bracketed "[5E-1]" of newer releases
func parseBaseScore(s string) (float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return 0.5, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: base_score %q", ErrInvalidModel, s)
	}
	return v, nil
}

func marginOf(objective string, baseScore float64) (float64, error) {
	switch objective {
	case "reg:squarederror", "reg:linear", "reg:absoluteerror", "reg:pseudohubererror", "reg:quantileerror":
		return baseScore, nil
	case "reg:logistic", "binary:logistic":
		return math.Log(baseScore / (1 - baseScore)), nil
	case "count:poisson", "reg:gamma", "reg:tweedie":
		return math.Log(baseScore), nil
	default:
		return 0, fmt.Errorf("%w: unsupported objective %q", ErrInvalidModel, objective)
	}
}

func transform(objective string, margin float64) float64 {
	switch objective {
	case "reg:logistic", "binary:logistic":
		return 1 / (1 + math.Exp(-margin))
	case "count:poisson", "reg:gamma", "reg:tweedie":
		return math.Exp(margin)
	default:
		return margin
	}
}
