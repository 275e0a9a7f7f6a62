package ml

import "fmt"

// LoadArtifacts reads the persisted model and scaler pair used by the
// serving process. Both must exist and agree on the feature set.
func LoadArtifacts(modelPath, scalerPath string) (*RandomForest, *StandardScaler, error) {
	model, err := LoadForest(modelPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load scaler: %w", err)
	}
	if len(scaler.Mean) != len(model.FeatureNames) {
		return nil, nil, fmt.Errorf("scaler has %d features, model expects %d",
			len(scaler.Mean), len(model.FeatureNames))
	}
	return model, scaler, nil
}
