package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday is a non working day. Recurring holidays repeat on the same month
// and day every year.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date"`
	Name      string    `gorm:"not null"`
	Recurring bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Holiday) TableName() string {
	return "holidays"
}

// OnYear projects the holiday onto year. A one-off holiday of another year
// yields false.
func (h Holiday) OnYear(year int) (time.Time, bool) {
	d := h.Date.UTC()
	if h.Recurring {
		return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	}
	if d.Year() != year {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
}
