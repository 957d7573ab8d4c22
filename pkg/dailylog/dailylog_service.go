package dailylog

import (
	"Health-Tracker-Backend/domain"
	"Health-Tracker-Backend/entities"
	"Health-Tracker-Backend/pkg/estimator"
	"Health-Tracker-Backend/pkg/macros"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	DailyLogService interface {
		ComputeAndStoreMacros(ctx context.Context, userID string, req domain.CalculateMacrosRequest) (domain.CalculateMacrosResponse, error)
		LogWeight(ctx context.Context, userID string, req domain.LogWeightRequest) (domain.DailyLogResponse, error)
		LogActivity(ctx context.Context, userID string, req domain.LogActivityRequest) (domain.DailyLogResponse, error)
		LogMeal(ctx context.Context, userID string, req domain.LogMealRequest) (domain.DailyLogResponse, error)
		GetToday(ctx context.Context, userID string) (domain.DailyLogResponse, error)
		ListLogs(ctx context.Context, userID string) ([]domain.DailyLogResponse, error)
		AnalyzeNutrition(ctx context.Context, req domain.AnalyzeNutritionRequest) (domain.AnalyzeNutritionResponse, error)
	}

	// RawOutputArchive keeps upstream replies that failed to estimate.
	RawOutputArchive interface {
		Archive(ctx context.Context, key string, raw string) error
	}

	Option func(*dailyLogService)

	dailyLogService struct {
		repository DailyLogRepository
		estimator  estimator.MacroEstimator
		archive    RawOutputArchive
		location   *time.Location
		now        func() time.Time
	}
)

func WithArchive(archive RawOutputArchive) Option {
	return func(s *dailyLogService) { s.archive = archive }
}

func WithLocation(loc *time.Location) Option {
	return func(s *dailyLogService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *dailyLogService) { s.now = now }
}

func NewDailyLogService(repository DailyLogRepository, est estimator.MacroEstimator, opts ...Option) DailyLogService {
	s := &dailyLogService{
		repository: repository,
		estimator:  est,
		location:   time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *dailyLogService) today() string {
	return s.now().In(s.location).Format(domain.DateLayout)
}

// ComputeAndStoreMacros estimates every non-blank slot, sums the results and
// replaces the day's macro totals. The meal slots themselves are not written.
// Any slot failure aborts before the store is touched.
func (s *dailyLogService) ComputeAndStoreMacros(ctx context.Context, userID string, req domain.CalculateMacrosRequest) (domain.CalculateMacrosResponse, error) {
	if req.Meals == nil {
		return domain.CalculateMacrosResponse{}, domain.ErrMealsRequired
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CalculateMacrosResponse{}, domain.ErrParseUUID
	}

	if s.estimator == nil {
		return domain.CalculateMacrosResponse{}, domain.ErrEstimatorNotConfig
	}

	perSlot := make([]domain.Macros, 0, len(domain.MealSlots))
	for _, slot := range domain.MealSlots {
		text := req.Meals.Slot(slot).Text()
		if text == "" {
			continue
		}

		m, err := s.estimator.Estimate(ctx, text)
		if err != nil {
			s.reportEstimationFailure(ctx, userID, slot, err)
			return domain.CalculateMacrosResponse{}, err
		}
		perSlot = append(perSlot, m)
	}

	total := macros.Aggregate(perSlot)

	updated, err := s.repository.UpsertField(ctx, userUUID, s.today(), domain.FieldMacros, total)
	if err != nil {
		log.Errorf("failed to store macros for user %s: %v", userID, err)
		return domain.CalculateMacrosResponse{}, err
	}

	return domain.CalculateMacrosResponse{
		Macros: total,
		Log:    toResponse(updated),
	}, nil
}

func (s *dailyLogService) reportEstimationFailure(ctx context.Context, userID string, slot domain.MealSlot, err error) {
	var estErr *domain.EstimationError
	if !errors.As(err, &estErr) {
		log.Errorf("macro estimation failed for user %s slot %s: %v", userID, slot, err)
		return
	}

	log.Errorf("macro estimation failed for user %s slot %s (%s): %v - raw response: %s",
		userID, slot, estErr.Reason, estErr.Err, estErr.Raw)

	if s.archive == nil || estErr.Raw == "" {
		return
	}
	key := fmt.Sprintf("%s/%s/%s-%s.txt", estErr.Reason, s.today(), slot, uuid.NewString())
	if archErr := s.archive.Archive(ctx, key, estErr.Raw); archErr != nil {
		log.Warnf("failed to archive raw estimator output: %v", archErr)
	}
}

func (s *dailyLogService) LogWeight(ctx context.Context, userID string, req domain.LogWeightRequest) (domain.DailyLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailyLogResponse{}, domain.ErrParseUUID
	}

	w := domain.Weight{Value: req.Weight, MeasuredAt: req.MeasuredAt}
	updated, err := s.repository.UpsertField(ctx, userUUID, s.today(), domain.FieldWeight, w)
	if err != nil {
		return domain.DailyLogResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *dailyLogService) LogActivity(ctx context.Context, userID string, req domain.LogActivityRequest) (domain.DailyLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailyLogResponse{}, domain.ErrParseUUID
	}

	a := domain.Activity{Type: req.Type, Steps: req.Steps, Duration: req.Duration}
	updated, err := s.repository.UpsertField(ctx, userUUID, s.today(), domain.FieldActivity, a)
	if err != nil {
		return domain.DailyLogResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *dailyLogService) LogMeal(ctx context.Context, userID string, req domain.LogMealRequest) (domain.DailyLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailyLogResponse{}, domain.ErrParseUUID
	}

	slot, err := domain.ParseMealSlot(req.MealType)
	if err != nil {
		return domain.DailyLogResponse{}, err
	}

	date := s.today()
	if req.Date != "" {
		if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
			return domain.DailyLogResponse{}, domain.ErrInvalidDate
		}
		date = req.Date
	}

	entry := domain.MealEntry{
		Name:    strings.TrimSpace(req.Name),
		RawText: strings.TrimSpace(req.RawText),
	}
	if req.Macros != nil {
		m := req.Macros.NonNegative()
		entry.Macros = &m
	}

	updated, err := s.repository.UpsertField(ctx, userUUID, date, domain.MealField(slot), entry)
	if err != nil {
		return domain.DailyLogResponse{}, err
	}
	return toResponse(updated), nil
}

func (s *dailyLogService) GetToday(ctx context.Context, userID string) (domain.DailyLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DailyLogResponse{}, domain.ErrParseUUID
	}

	found, err := s.repository.GetByDate(ctx, userUUID, s.today())
	if err != nil {
		return domain.DailyLogResponse{}, err
	}
	return toResponse(found), nil
}

func (s *dailyLogService) ListLogs(ctx context.Context, userID string) ([]domain.DailyLogResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	logs, err := s.repository.ListByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		response = append(response, toResponse(l))
	}
	return response, nil
}

// AnalyzeNutrition estimates a single query without persisting anything.
func (s *dailyLogService) AnalyzeNutrition(ctx context.Context, req domain.AnalyzeNutritionRequest) (domain.AnalyzeNutritionResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.AnalyzeNutritionResponse{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if s.estimator == nil {
		return domain.AnalyzeNutritionResponse{}, domain.ErrEstimatorNotConfig
	}

	m, err := s.estimator.Estimate(ctx, query)
	if err != nil {
		var estErr *domain.EstimationError
		if errors.As(err, &estErr) {
			log.Errorf("nutrition analysis failed (%s): %v - raw response: %s", estErr.Reason, estErr.Err, estErr.Raw)
		}
		return domain.AnalyzeNutritionResponse{}, err
	}

	return domain.AnalyzeNutritionResponse{
		Name:   query,
		Macros: macros.Aggregate([]domain.Macros{m}),
	}, nil
}

func toResponse(l *entities.DailyLog) domain.DailyLogResponse {
	return domain.DailyLogResponse{
		ID:       l.ID.String(),
		User:     l.UserID.String(),
		Date:     l.Date,
		Weight:   l.Weight,
		Activity: l.Activity,
		Meals: domain.DailyLogMeals{
			Breakfast: l.Meal(domain.SlotBreakfast),
			Lunch:     l.Meal(domain.SlotLunch),
			Snacks:    l.Meal(domain.SlotSnacks),
			Dinner:    l.Meal(domain.SlotDinner),
		},
		Macros: l.Macros(),
	}
}
