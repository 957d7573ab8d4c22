package estimator

import (
	"Health-Tracker-Backend/domain"
	"context"
	"fmt"
	"strings"
)

type (
	// MacroEstimator turns one free-text meal description into macros.
	// Failures are *domain.EstimationError.
	MacroEstimator interface {
		Estimate(ctx context.Context, mealText string) (domain.Macros, error)
	}

	// TextGenerator is a single-turn text completion backend.
	TextGenerator interface {
		Generate(ctx context.Context, prompt string) (string, error)
	}
)

const (
	KindNutritionix = "nutritionix"
	KindGemini      = "gemini"
)

type Config struct {
	Kind string

	NutritionixURL    string
	NutritionixAppID  string
	NutritionixAppKey string

	GeminiURL    string
	GeminiAPIKey string
	GeminiModel  string
}

// New builds the estimator named by cfg.Kind. An empty kind selects
// Nutritionix.
func New(cfg Config) (MacroEstimator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindNutritionix:
		return NewLookupEstimator(cfg.NutritionixURL, cfg.NutritionixAppID, cfg.NutritionixAppKey)
	case KindGemini:
		client, err := NewGeminiClient(cfg.GeminiURL, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return NewGenerativeEstimator(client), nil
	}
	return nil, fmt.Errorf("%w: unknown estimator %q", domain.ErrEstimatorNotConfig, cfg.Kind)
}
