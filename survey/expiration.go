package survey

import (
	"time"

	"github.com/mbolis/survey-api/model"
)

// ExpiresAt derives an absolute expiry instant from a relative duration.
// It returns nil unless unit is one of minutes/hours/days and value is a
// positive integer: unit "none", a missing value, a non-positive value or
// an unknown unit string all mean "no expiry". Days use calendar
// arithmetic, so adding 30 days crosses month and year boundaries.
func ExpiresAt(value *int, unit string, now time.Time) *time.Time {
	if value == nil || *value <= 0 {
		return nil
	}

	var expires time.Time
	switch unit {
	case model.DurationMinutes:
		expires = now.Add(time.Duration(*value) * time.Minute)
	case model.DurationHours:
		expires = now.Add(time.Duration(*value) * time.Hour)
	case model.DurationDays:
		expires = now.AddDate(0, 0, *value)
	default:
		return nil
	}
	return &expires
}
