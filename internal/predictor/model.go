package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Model maps feature vectors to probabilities in [0,1]. The underlying
// model is an external collaborator; implementations only need to
// honor the FeatureColumns ordering.
type Model interface {
	PredictProba(ctx context.Context, vectors [][]float64) ([]float64, error)
}

// CoefficientModel is a logistic model over the ordered feature
// schema, with coefficients exported from offline training.
type CoefficientModel struct {
	Intercept float64
	Weights   []float64 // aligned to FeatureColumns
}

type coefficientFile struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// LoadCoefficientModel reads exported coefficients from a JSON file.
// Features absent from the file get weight zero.
func LoadCoefficientModel(path string) (*CoefficientModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model coefficients: %w", err)
	}

	var file coefficientFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model coefficients: %w", err)
	}

	m := &CoefficientModel{
		Intercept: file.Intercept,
		Weights:   make([]float64, len(FeatureColumns)),
	}
	for i, name := range FeatureColumns {
		m.Weights[i] = file.Weights[name]
	}
	return m, nil
}

func (m *CoefficientModel) PredictProba(ctx context.Context, vectors [][]float64) ([]float64, error) {
	probs := make([]float64, len(vectors))
	for i, vec := range vectors {
		if len(vec) != len(m.Weights) {
			return nil, fmt.Errorf("feature vector has %d values, model expects %d", len(vec), len(m.Weights))
		}
		z := m.Intercept
		for j, v := range vec {
			z += m.Weights[j] * v
		}
		probs[i] = 1.0 / (1.0 + math.Exp(-z))
	}
	return probs, nil
}
