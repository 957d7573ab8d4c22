package entities

import (
	"Health-Tracker-Backend/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyLog is one user's record for one calendar day. Each sub-field lives in
// its own column so a write to one never rewrites another.
type DailyLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_logs_user_date" json:"user_id"`
	Date   string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_logs_user_date" json:"date"`

	Weight   *domain.Weight   `gorm:"type:jsonb;serializer:json" json:"weight,omitempty"`
	Activity *domain.Activity `gorm:"type:jsonb;serializer:json" json:"activity,omitempty"`

	Breakfast *domain.MealEntry `gorm:"type:jsonb;serializer:json" json:"breakfast,omitempty"`
	Lunch     *domain.MealEntry `gorm:"type:jsonb;serializer:json" json:"lunch,omitempty"`
	Snacks    *domain.MealEntry `gorm:"type:jsonb;serializer:json" json:"snacks,omitempty"`
	Dinner    *domain.MealEntry `gorm:"type:jsonb;serializer:json" json:"dinner,omitempty"`

	Calories float64 `gorm:"not null" json:"calories"`
	Carbs    float64 `gorm:"not null" json:"carbs"`
	Protein  float64 `gorm:"not null" json:"protein"`
	Fat      float64 `gorm:"not null" json:"fat"`
	Fiber    float64 `gorm:"not null" json:"fiber"`

	Timestamp
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *DailyLog) Macros() domain.Macros {
	return domain.Macros{
		Calories: d.Calories,
		Carbs:    d.Carbs,
		Protein:  d.Protein,
		Fat:      d.Fat,
		Fiber:    d.Fiber,
	}
}

func (d *DailyLog) SetMacros(m domain.Macros) {
	d.Calories = m.Calories
	d.Carbs = m.Carbs
	d.Protein = m.Protein
	d.Fat = m.Fat
	d.Fiber = m.Fiber
}

func (d *DailyLog) Meal(slot domain.MealSlot) *domain.MealEntry {
	switch slot {
	case domain.SlotBreakfast:
		return d.Breakfast
	case domain.SlotLunch:
		return d.Lunch
	case domain.SlotSnacks:
		return d.Snacks
	case domain.SlotDinner:
		return d.Dinner
	}
	return nil
}

func (d *DailyLog) SetMeal(slot domain.MealSlot, entry *domain.MealEntry) {
	switch slot {
	case domain.SlotBreakfast:
		d.Breakfast = entry
	case domain.SlotLunch:
		d.Lunch = entry
	case domain.SlotSnacks:
		d.Snacks = entry
	case domain.SlotDinner:
		d.Dinner = entry
	}
}
