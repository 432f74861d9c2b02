package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	FindForYear(ctx context.Context, year int) ([]Holiday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// FindForYear returns every recurring holiday plus the one-off holidays
// dated within year.
func (r *repository) FindForYear(ctx context.Context, year int) ([]Holiday, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Where("recurring = ? OR (date >= ? AND date < ?)", true, start, end).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}
