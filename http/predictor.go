package http

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"housequant/ml"
	"housequant/monitoring"
)

const predictionCacheSize = 1024

// ValidationError marks a request rejected for malformed input rather than
// a serving failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// Predictor holds the model and scaler loaded once at process start. Both
// are read-only afterwards, so it is safe for concurrent requests.
type Predictor struct {
	model  *ml.RandomForest
	scaler *ml.StandardScaler
	cache  *lru.Cache[string, float64]
	stats  *monitoring.Stats
}

// NewPredictor loads the persisted artifacts and prepares the prediction
// cache. Call this during startup; serving must not begin without it.
func NewPredictor(modelPath, scalerPath string, stats *monitoring.Stats) (*Predictor, error) {
	model, scaler, err := ml.LoadArtifacts(modelPath, scalerPath)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, float64](predictionCacheSize)
	if err != nil {
		return nil, err
	}
	zap.L().Info("artifacts loaded",
		zap.String("model", modelPath),
		zap.String("scaler", scalerPath),
		zap.Int("trees", model.NEstimators),
		zap.Strings("features", model.FeatureNames),
	)
	return &Predictor{model: model, scaler: scaler, cache: cache, stats: stats}, nil
}

// FeatureNames returns the feature columns the model was trained on.
func (p *Predictor) FeatureNames() []string {
	return p.model.FeatureNames
}

// Model exposes the loaded forest for the model-info endpoint.
func (p *Predictor) Model() *ml.RandomForest {
	return p.model
}

// Predict validates the record, applies the scaler and model, and returns
// the prediction along with whether it was answered from cache.
func (p *Predictor) Predict(record map[string]float64) (float64, bool, error) {
	vector := make([]float64, len(p.model.FeatureNames))
	for i, name := range p.model.FeatureNames {
		value, ok := record[name]
		if !ok {
			return 0, false, &ValidationError{Field: name, Reason: "is required"}
		}
		vector[i] = value
	}

	key := cacheKey(vector)
	if cached, ok := p.cache.Get(key); ok {
		if p.stats != nil {
			p.stats.RecordPrediction(cached, true)
		}
		return cached, true, nil
	}

	scaled, err := p.scaler.TransformRow(vector)
	if err != nil {
		return 0, false, err
	}
	prediction, err := p.model.PredictRow(scaled)
	if err != nil {
		return 0, false, err
	}

	p.cache.Add(key, prediction)
	if p.stats != nil {
		p.stats.RecordPrediction(prediction, false)
	}
	return prediction, false, nil
}

func cacheKey(vector []float64) string {
	var b strings.Builder
	for i, v := range vector {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
