package dailylog

import (
	"Health-Tracker-Backend/domain"
	"Health-Tracker-Backend/entities"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// DailyLogRepository owns the per-user per-day record.
	DailyLogRepository interface {
		// UpsertField creates the (user, date) record if it is missing and
		// sets only the addressed field, then returns the full record.
		UpsertField(ctx context.Context, userID uuid.UUID, date string, field domain.FieldPath, value any) (*entities.DailyLog, error)
		GetByDate(ctx context.Context, userID uuid.UUID, date string) (*entities.DailyLog, error)
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.DailyLog, error)
	}

	dailyLogRepository struct {
		db *gorm.DB
	}
)

var conflictColumns = []clause.Column{{Name: "user_id"}, {Name: "date"}}

func NewDailyLogRepository(db *gorm.DB) DailyLogRepository {
	return &dailyLogRepository{db: db}
}

func (r *dailyLogRepository) UpsertField(ctx context.Context, userID uuid.UUID, date string, field domain.FieldPath, value any) (*entities.DailyLog, error) {
	row := &entities.DailyLog{UserID: userID, Date: date}
	columns, err := assignField(row, field, value)
	if err != nil {
		return nil, err
	}
	columns = append(columns, "updated_at")

	var out entities.DailyLog
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   conflictColumns,
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(row).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND date = ?", userID, date).First(&out).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return &out, nil
}

// assignField writes value into row and returns the columns it owns.
func assignField(row *entities.DailyLog, field domain.FieldPath, value any) ([]string, error) {
	switch field {
	case domain.FieldWeight:
		w, ok := value.(domain.Weight)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects domain.Weight, got %T", domain.ErrInvalidFieldValue, field, value)
		}
		row.Weight = &w
		return []string{"weight"}, nil

	case domain.FieldActivity:
		a, ok := value.(domain.Activity)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects domain.Activity, got %T", domain.ErrInvalidFieldValue, field, value)
		}
		row.Activity = &a
		return []string{"activity"}, nil

	case domain.FieldMacros:
		m, ok := value.(domain.Macros)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects domain.Macros, got %T", domain.ErrInvalidFieldValue, field, value)
		}
		if !m.Finite() {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFieldValue, field, domain.ErrNonFiniteMacro)
		}
		row.SetMacros(m.NonNegative())
		return []string{"calories", "carbs", "protein", "fat", "fiber"}, nil
	}

	for _, slot := range domain.MealSlots {
		if field != domain.MealField(slot) {
			continue
		}
		entry, ok := value.(domain.MealEntry)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects domain.MealEntry, got %T", domain.ErrInvalidFieldValue, field, value)
		}
		if entry.Macros != nil && !entry.Macros.Finite() {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFieldValue, field, domain.ErrNonFiniteMacro)
		}
		row.SetMeal(slot, &entry)
		return []string{string(slot)}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
}

func (r *dailyLogRepository) GetByDate(ctx context.Context, userID uuid.UUID, date string) (*entities.DailyLog, error) {
	var log entities.DailyLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDailyLogNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return &log, nil
}

func (r *dailyLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.DailyLog, error) {
	var logs []*entities.DailyLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date asc").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return logs, nil
}
