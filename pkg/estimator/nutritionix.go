package estimator

import (
	"Health-Tracker-Backend/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultNutritionixURL = "https://trackapi.nutritionix.com/v2/natural/nutrients"

var ErrNutritionixCredentials = errors.New("nutritionix credentials missing")

type (
	// LookupEstimator asks the Nutritionix natural-language endpoint to break
	// a meal into foods and sums their macros.
	LookupEstimator struct {
		url    string
		appID  string
		appKey string
		client *http.Client
	}

	nutritionixFood struct {
		FoodName     string  `json:"food_name"`
		Calories     float64 `json:"nf_calories"`
		Protein      float64 `json:"nf_protein"`
		Carbohydrate float64 `json:"nf_total_carbohydrate"`
		Fat          float64 `json:"nf_total_fat"`
		Fiber        float64 `json:"nf_dietary_fiber"`
	}

	nutritionixResponse struct {
		Foods []nutritionixFood `json:"foods"`
	}
)

func NewLookupEstimator(url, appID, appKey string) (*LookupEstimator, error) {
	if appID == "" || appKey == "" {
		return nil, ErrNutritionixCredentials
	}
	if url == "" {
		url = DefaultNutritionixURL
	}
	return &LookupEstimator{
		url:    url,
		appID:  appID,
		appKey: appKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (e *LookupEstimator) Estimate(ctx context.Context, mealText string) (domain.Macros, error) {
	payload, err := json.Marshal(map[string]string{"query": mealText})
	if err != nil {
		return domain.Macros{}, upstreamUnavailable("", fmt.Errorf("failed to marshal nutritionix payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return domain.Macros{}, upstreamUnavailable("", fmt.Errorf("failed to create nutritionix request: %w", err))
	}
	req.Header.Set("x-app-id", e.appID)
	req.Header.Set("x-app-key", e.appKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.Macros{}, upstreamUnavailable("", fmt.Errorf("failed to call nutritionix: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Macros{}, upstreamUnavailable("", fmt.Errorf("failed to read nutritionix response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Macros{}, upstreamUnavailable(string(body), fmt.Errorf("nutritionix API error %d", resp.StatusCode))
	}

	var nr nutritionixResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return domain.Macros{}, upstreamUnavailable(string(body), fmt.Errorf("failed to parse nutritionix JSON: %w", err))
	}
	if len(nr.Foods) == 0 {
		return domain.Macros{}, upstreamUnavailable(string(body), errors.New("nutritionix returned no foods"))
	}

	var total domain.Macros
	for _, f := range nr.Foods {
		total = total.Add(domain.Macros{
			Calories: f.Calories,
			Carbs:    f.Carbohydrate,
			Protein:  f.Protein,
			Fat:      f.Fat,
			Fiber:    f.Fiber,
		}.NonNegative())
	}
	return total, nil
}

func upstreamUnavailable(raw string, err error) *domain.EstimationError {
	return &domain.EstimationError{Reason: domain.ReasonUpstreamUnavailable, Raw: raw, Err: err}
}
