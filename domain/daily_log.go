package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	MessageSuccessGetDailyLogs     = "daily logs retrieved successfully"
	MessageSuccessGetDailyLog      = "daily log retrieved successfully"
	MessageSuccessLogWeight        = "weight logged successfully"
	MessageSuccessLogActivity      = "activity logged successfully"
	MessageSuccessLogMeal          = "meal logged successfully"
	MessageSuccessCalculateMacros  = "macros calculated successfully"
	MessageSuccessAnalyzeNutrition = "nutrition analyzed successfully"

	MessageFailedGetDailyLogs     = "failed to retrieve daily logs"
	MessageFailedGetDailyLog      = "failed to retrieve daily log"
	MessageFailedLogWeight        = "failed to log weight"
	MessageFailedLogActivity      = "failed to log activity"
	MessageFailedLogMeal          = "failed to log meal"
	MessageFailedCalculateMacros  = "macro calculation failed"
	MessageFailedAnalyzeNutrition = "nutrition analysis failed"

	ErrValidation         = errors.New("invalid request")
	ErrMealsRequired      = fmt.Errorf("%w: meals object is required", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrUnknownSlot        = fmt.Errorf("%w: unknown meal slot", ErrValidation)
	ErrUnknownField       = errors.New("unknown daily log field")
	ErrInvalidFieldValue  = errors.New("invalid value for daily log field")
	ErrDailyLogNotFound   = errors.New("daily log not found")
	ErrPersistenceFailed  = errors.New("failed to persist daily log")
	ErrEstimationFailed   = errors.New("macro estimation failed")
	ErrEstimatorNotConfig = errors.New("macro estimator not configured")
)

const DateLayout = "2006-01-02"

type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotSnacks    MealSlot = "snacks"
	SlotDinner    MealSlot = "dinner"
)

// MealSlots is the fixed processing order of a day's slots.
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotSnacks, SlotDinner}

// ParseMealSlot maps client spellings onto a slot. "snack" is accepted for
// "snacks".
func ParseMealSlot(s string) (MealSlot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return SlotBreakfast, nil
	case "lunch":
		return SlotLunch, nil
	case "snack", "snacks":
		return SlotSnacks, nil
	case "dinner":
		return SlotDinner, nil
	}
	return "", ErrUnknownSlot
}

// FieldPath addresses one independently writable part of a daily log.
type FieldPath string

const (
	FieldWeight   FieldPath = "weight"
	FieldActivity FieldPath = "activity"
	FieldMacros   FieldPath = "macros"
)

func MealField(slot MealSlot) FieldPath {
	return FieldPath("meals." + string(slot))
}

type (
	Weight struct {
		Value      float64 `json:"value"`
		MeasuredAt string  `json:"measuredAt"`
	}

	Activity struct {
		Type     string  `json:"type"`
		Steps    float64 `json:"steps"`
		Duration float64 `json:"duration"`
	}

	MealEntry struct {
		Name    string  `json:"name"`
		RawText string  `json:"rawText,omitempty"`
		Macros  *Macros `json:"macros,omitempty"`
	}

	// MealSlotValue is a meal slot as sent by clients: either a plain string
	// or a MealEntry object. Both decode into Entry; any other JSON value
	// leaves the slot unset.
	MealSlotValue struct {
		Entry MealEntry
		Set   bool
	}
)

func (v *MealSlotValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = MealSlotValue{}
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = MealSlotValue{Entry: MealEntry{Name: text, RawText: text}, Set: true}
		return nil
	}

	if !strings.HasPrefix(trimmed, "{") {
		// numbers, booleans and arrays carry no meal text; the slot is skipped
		*v = MealSlotValue{}
		return nil
	}

	var entry MealEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	*v = MealSlotValue{Entry: entry, Set: true}
	return nil
}

func (v MealSlotValue) MarshalJSON() ([]byte, error) {
	if !v.Set {
		return []byte("null"), nil
	}
	return json.Marshal(v.Entry)
}

// Text is the free text to estimate: the raw input when present, otherwise
// the display name.
func (v MealSlotValue) Text() string {
	if !v.Set {
		return ""
	}
	if t := strings.TrimSpace(v.Entry.RawText); t != "" {
		return t
	}
	return strings.TrimSpace(v.Entry.Name)
}

type (
	MealsInput struct {
		Breakfast MealSlotValue `json:"breakfast"`
		Lunch     MealSlotValue `json:"lunch"`
		Snacks    MealSlotValue `json:"snacks"`
		Dinner    MealSlotValue `json:"dinner"`
	}

	CalculateMacrosRequest struct {
		Meals *MealsInput `json:"meals"`
	}

	CalculateMacrosResponse struct {
		Macros Macros           `json:"macros"`
		Log    DailyLogResponse `json:"log"`
	}

	LogWeightRequest struct {
		Weight     float64 `json:"weight" validate:"required,gt=0"`
		MeasuredAt string  `json:"measuredAt" validate:"required,oneof=morning evening night"`
	}

	LogActivityRequest struct {
		Type     string  `json:"type" validate:"required,oneof=walking running cycling gym"`
		Steps    float64 `json:"steps" validate:"min=0"`
		Duration float64 `json:"duration" validate:"min=0"`
	}

	LogMealRequest struct {
		Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
		MealType string  `json:"mealType" validate:"required,oneof=breakfast lunch snack snacks dinner"`
		Name     string  `json:"name" validate:"required"`
		RawText  string  `json:"rawText"`
		Macros   *Macros `json:"macros"`
	}

	AnalyzeNutritionRequest struct {
		Query string `json:"query" validate:"required"`
	}

	AnalyzeNutritionResponse struct {
		Name   string `json:"name"`
		Macros Macros `json:"macros"`
	}

	DailyLogMeals struct {
		Breakfast *MealEntry `json:"breakfast,omitempty"`
		Lunch     *MealEntry `json:"lunch,omitempty"`
		Snacks    *MealEntry `json:"snacks,omitempty"`
		Dinner    *MealEntry `json:"dinner,omitempty"`
	}

	DailyLogResponse struct {
		ID       string        `json:"id"`
		User     string        `json:"user"`
		Date     string        `json:"date"`
		Weight   *Weight       `json:"weight,omitempty"`
		Activity *Activity     `json:"activity,omitempty"`
		Meals    DailyLogMeals `json:"meals"`
		Macros   Macros        `json:"macros"`
	}
)

// Slot returns the input for one slot.
func (m *MealsInput) Slot(slot MealSlot) MealSlotValue {
	if m == nil {
		return MealSlotValue{}
	}
	switch slot {
	case SlotBreakfast:
		return m.Breakfast
	case SlotLunch:
		return m.Lunch
	case SlotSnacks:
		return m.Snacks
	case SlotDinner:
		return m.Dinner
	}
	return MealSlotValue{}
}

type EstimationReason string

const (
	ReasonUpstreamUnavailable  EstimationReason = "upstream_unavailable"
	ReasonMalformedModelOutput EstimationReason = "malformed_model_output"
)

// EstimationError is returned by estimators. Raw holds the upstream text for
// diagnostics and is never part of Error().
type EstimationError struct {
	Reason EstimationReason
	Raw    string
	Err    error
}

func (e *EstimationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrEstimationFailed, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrEstimationFailed, e.Reason)
}

func (e *EstimationError) Unwrap() error { return e.Err }

func (e *EstimationError) Is(target error) bool { return target == ErrEstimationFailed }
