package dailylog

import (
	"Health-Tracker-Backend/domain"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEstimator struct {
	mu      sync.Mutex
	results map[string]domain.Macros
	fail    map[string]error
	calls   []string
}

func (s *stubEstimator) Estimate(_ context.Context, text string) (domain.Macros, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	if err, ok := s.fail[text]; ok {
		return domain.Macros{}, err
	}
	return s.results[text], nil
}

type memoryArchive struct {
	keys []string
	raws []string
}

func (a *memoryArchive) Archive(_ context.Context, key string, raw string) error {
	a.keys = append(a.keys, key)
	a.raws = append(a.raws, raw)
	return nil
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

func decodeMeals(t *testing.T, body string) domain.CalculateMacrosRequest {
	t.Helper()
	var req domain.CalculateMacrosRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestComputeAndStoreMacrosEndToEnd(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	est := &stubEstimator{results: map[string]domain.Macros{
		"2 boiled eggs": {Calories: 140, Protein: 12, Carbs: 1, Fat: 10, Fiber: 0},
		"1 banana":      {Calories: 105, Protein: 1, Carbs: 27, Fat: 0, Fiber: 3},
	}}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow), WithLocation(time.UTC))
	ctx := context.Background()
	user := uuid.New()

	before, err := repo.UpsertField(ctx, user, "2024-03-01", domain.MealField(domain.SlotBreakfast),
		domain.MealEntry{Name: "Eggs", RawText: "2 boiled eggs"})
	require.NoError(t, err)

	req := decodeMeals(t, `{"meals":{"breakfast":"2 boiled eggs","lunch":"","snacks":"1 banana"}}`)
	res, err := svc.ComputeAndStoreMacros(ctx, user.String(), req)

	require.NoError(t, err)
	want := domain.Macros{Calories: 245, Protein: 13, Carbs: 28, Fat: 10, Fiber: 3}
	assert.Equal(t, want, res.Macros)
	assert.Equal(t, want, res.Log.Macros)
	assert.Equal(t, "2024-03-01", res.Log.Date)
	assert.ElementsMatch(t, []string{"2 boiled eggs", "1 banana"}, est.calls)

	stored, err := repo.GetByDate(ctx, user, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, want, stored.Macros())
	assert.Equal(t, before.Breakfast, stored.Breakfast)
	assert.Nil(t, stored.Snacks)
	assert.Nil(t, stored.Lunch)
}

func TestComputeAndStoreMacrosSkipsBlankSlots(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	est := &stubEstimator{results: map[string]domain.Macros{
		"2 eggs": {Calories: 140, Protein: 12},
	}}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow))

	req := decodeMeals(t, `{"meals":{"breakfast":"  ","lunch":"2 eggs","dinner":null}}`)
	res, err := svc.ComputeAndStoreMacros(context.Background(), uuid.NewString(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"2 eggs"}, est.calls)
	assert.Equal(t, domain.Macros{Calories: 140, Protein: 12}, res.Macros)
}

func TestComputeAndStoreMacrosTrimsAndUsesStructuredSlots(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	est := &stubEstimator{results: map[string]domain.Macros{
		"oatmeal":         {Calories: 150},
		"2 rotis and dal": {Calories: 400},
	}}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow))

	req := decodeMeals(t, `{"meals":{"breakfast":"  oatmeal \n","dinner":{"name":"Dal","rawText":"2 rotis and dal"}}}`)
	res, err := svc.ComputeAndStoreMacros(context.Background(), uuid.NewString(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"oatmeal", "2 rotis and dal"}, est.calls)
	assert.Equal(t, 550.0, res.Macros.Calories)
}

func TestComputeAndStoreMacrosEmptyMealsStoresZero(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	est := &stubEstimator{}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow))

	res, err := svc.ComputeAndStoreMacros(context.Background(), uuid.NewString(), decodeMeals(t, `{"meals":{}}`))

	require.NoError(t, err)
	assert.Empty(t, est.calls)
	assert.Equal(t, domain.Macros{}, res.Macros)
}

func TestComputeAndStoreMacrosAllOrNothing(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	ctx := context.Background()
	user := uuid.New()
	archive := &memoryArchive{}

	prior := domain.Macros{Calories: 1800, Protein: 90, Carbs: 200, Fat: 60, Fiber: 25}
	_, err := repo.UpsertField(ctx, user, "2024-03-01", domain.FieldMacros, prior)
	require.NoError(t, err)
	_, err = repo.UpsertField(ctx, user, "2024-03-01", domain.MealField(domain.SlotLunch), domain.MealEntry{Name: "Salad"})
	require.NoError(t, err)
	before, err := repo.GetByDate(ctx, user, "2024-03-01")
	require.NoError(t, err)

	est := &stubEstimator{
		results: map[string]domain.Macros{"toast": {Calories: 80}},
		fail: map[string]error{"mystery stew": &domain.EstimationError{
			Reason: domain.ReasonMalformedModelOutput,
			Raw:    "I am not sure what that is",
			Err:    errors.New("invalid character"),
		}},
	}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow), WithLocation(time.UTC), WithArchive(archive))

	req := decodeMeals(t, `{"meals":{"breakfast":"toast","lunch":"mystery stew","dinner":"soup"}}`)
	_, err = svc.ComputeAndStoreMacros(ctx, user.String(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEstimationFailed)
	assert.Equal(t, []string{"toast", "mystery stew"}, est.calls)

	after, err := repo.GetByDate(ctx, user, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, before.Macros(), after.Macros())
	assert.Equal(t, before.Lunch, after.Lunch)

	require.Len(t, archive.raws, 1)
	assert.Equal(t, "I am not sure what that is", archive.raws[0])
	assert.Contains(t, archive.keys[0], "malformed_model_output/2024-03-01/lunch-")
}

func TestComputeAndStoreMacrosReplacesTotals(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	est := &stubEstimator{results: map[string]domain.Macros{
		"eggs":  {Calories: 140},
		"pizza": {Calories: 800},
	}}
	svc := NewDailyLogService(repo, est, WithClock(fixedNow))
	ctx := context.Background()
	user := uuid.NewString()

	_, err := svc.ComputeAndStoreMacros(ctx, user, decodeMeals(t, `{"meals":{"breakfast":"eggs"}}`))
	require.NoError(t, err)

	res, err := svc.ComputeAndStoreMacros(ctx, user, decodeMeals(t, `{"meals":{"dinner":"pizza"}}`))
	require.NoError(t, err)
	assert.Equal(t, 800.0, res.Log.Macros.Calories)
}

func TestComputeAndStoreMacrosValidation(t *testing.T) {
	svc := NewDailyLogService(NewDailyLogRepository(newTestDB(t)), &stubEstimator{}, WithClock(fixedNow))

	_, err := svc.ComputeAndStoreMacros(context.Background(), uuid.NewString(), domain.CalculateMacrosRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.ComputeAndStoreMacros(context.Background(), "not-a-uuid", decodeMeals(t, `{"meals":{}}`))
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestTodayUsesConfiguredLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	late := func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) }
	repo := NewDailyLogRepository(newTestDB(t))
	svc := NewDailyLogService(repo, &stubEstimator{}, WithClock(late), WithLocation(jakarta))

	res, err := svc.LogWeight(context.Background(), uuid.NewString(), domain.LogWeightRequest{Weight: 70, MeasuredAt: "night"})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", res.Date)
}

func TestLogWritesKeepEachOther(t *testing.T) {
	repo := NewDailyLogRepository(newTestDB(t))
	svc := NewDailyLogService(repo, &stubEstimator{}, WithClock(fixedNow))
	ctx := context.Background()
	user := uuid.NewString()

	_, err := svc.LogActivity(ctx, user, domain.LogActivityRequest{Type: "gym", Duration: 60})
	require.NoError(t, err)

	res, err := svc.LogWeight(ctx, user, domain.LogWeightRequest{Weight: 81.2, MeasuredAt: "morning"})
	require.NoError(t, err)
	require.NotNil(t, res.Activity)
	assert.Equal(t, "gym", res.Activity.Type)
	require.NotNil(t, res.Weight)
	assert.Equal(t, 81.2, res.Weight.Value)

	res, err = svc.LogMeal(ctx, user, domain.LogMealRequest{
		MealType: "snack",
		Name:     "Apple",
		Macros:   &domain.Macros{Calories: 95, Carbs: 25, Fiber: 4},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Meals.Snacks)
	assert.Equal(t, "Apple", res.Meals.Snacks.Name)
	assert.Equal(t, 95.0, res.Meals.Snacks.Macros.Calories)
	assert.NotNil(t, res.Weight)
	assert.NotNil(t, res.Activity)

	today, err := svc.GetToday(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, res.ID, today.ID)

	logs, err := svc.ListLogs(ctx, user)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestLogMealWithExplicitDate(t *testing.T) {
	svc := NewDailyLogService(NewDailyLogRepository(newTestDB(t)), &stubEstimator{}, WithClock(fixedNow))
	ctx := context.Background()
	user := uuid.NewString()

	res, err := svc.LogMeal(ctx, user, domain.LogMealRequest{Date: "2024-02-28", MealType: "dinner", Name: "Soup"})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", res.Date)
	require.NotNil(t, res.Meals.Dinner)
	assert.Equal(t, "Soup", res.Meals.Dinner.Name)
	assert.Nil(t, res.Meals.Lunch)

	_, err = svc.LogMeal(ctx, user, domain.LogMealRequest{Date: "28/02/2024", MealType: "dinner", Name: "Soup"})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.LogMeal(ctx, user, domain.LogMealRequest{MealType: "brunch", Name: "Soup"})
	assert.ErrorIs(t, err, domain.ErrUnknownSlot)

	_, err = svc.GetToday(ctx, user)
	assert.ErrorIs(t, err, domain.ErrDailyLogNotFound)
}

func TestAnalyzeNutrition(t *testing.T) {
	est := &stubEstimator{results: map[string]domain.Macros{"1 apple": {Calories: 94.64, Carbs: 25.13, Fiber: 4.37}}}
	svc := NewDailyLogService(nil, est)

	res, err := svc.AnalyzeNutrition(context.Background(), domain.AnalyzeNutritionRequest{Query: " 1 apple "})

	require.NoError(t, err)
	assert.Equal(t, "1 apple", res.Name)
	assert.Equal(t, domain.Macros{Calories: 94.6, Carbs: 25.1, Fiber: 4.4}, res.Macros)

	_, err = svc.AnalyzeNutrition(context.Background(), domain.AnalyzeNutritionRequest{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
