package estimator

import (
	"Health-Tracker-Backend/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

const mealPromptTemplate = "You are a nutrition assistant. Estimate the macronutrients of the following meal: %q. " +
	"Respond ONLY with a valid JSON object of exactly this shape: " +
	`{"name": string, "macros": {"calories": number, "protein": number, "carbs": number, "fat": number, "fiber": number}}. ` +
	"Use kcal for calories and grams for everything else. " +
	"Do not include any explanations, markdown formatting, or extra text."

// GenerativeEstimator asks a text model for strict JSON and repairs what it
// can of the reply.
type GenerativeEstimator struct {
	generator TextGenerator
}

type generatedMeal struct {
	Name   string          `json:"name"`
	Macros json.RawMessage `json:"macros"`
}

func NewGenerativeEstimator(generator TextGenerator) *GenerativeEstimator {
	return &GenerativeEstimator{generator: generator}
}

func BuildMealPrompt(mealText string) string {
	return fmt.Sprintf(mealPromptTemplate, mealText)
}

func (e *GenerativeEstimator) Estimate(ctx context.Context, mealText string) (domain.Macros, error) {
	raw, err := e.generator.Generate(ctx, BuildMealPrompt(mealText))
	if err != nil {
		return domain.Macros{}, malformedOutput(raw, err)
	}

	m, err := ParseGeneratedMacros(raw)
	if err != nil {
		return domain.Macros{}, malformedOutput(raw, err)
	}
	return m, nil
}

// ParseGeneratedMacros decodes model output into macros. Missing numbers are
// zero. If there is no "macros" object the top-level object is read instead.
func ParseGeneratedMacros(raw string) (domain.Macros, error) {
	cleaned := []byte(ExtractJSON(raw))

	var meal generatedMeal
	if err := json.Unmarshal(cleaned, &meal); err != nil {
		return domain.Macros{}, fmt.Errorf("failed to parse model output: %w", err)
	}

	source := cleaned
	if trimmed := bytes.TrimSpace(meal.Macros); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		source = trimmed
	}

	var m domain.Macros
	if err := json.Unmarshal(source, &m); err != nil {
		return domain.Macros{}, fmt.Errorf("failed to parse model macros: %w", err)
	}
	return m.NonNegative(), nil
}

func malformedOutput(raw string, err error) *domain.EstimationError {
	return &domain.EstimationError{Reason: domain.ReasonMalformedModelOutput, Raw: raw, Err: err}
}
