package models

import (
	"fmt"
	"time"
)

// Schedule is a recurring weekly class slot at a location. The pair
// dayOfWeek + startTime describes when the class repeats; a Booking
// pins it to a concrete calendar date.
type Schedule struct {
	ID         string    `bson:"id" json:"id"`
	DayOfWeek  int       `bson:"dayOfWeek" json:"dayOfWeek"` // 1 (Monday) .. 7 (Sunday)
	StartTime  string    `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime    string    `bson:"endTime" json:"endTime"`     // "HH:MM"
	Capacity   int       `bson:"capacity" json:"capacity"`
	LocationID string    `bson:"locationId" json:"locationId"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleDetail is a schedule with its location resolved for display.
type ScheduleDetail struct {
	Schedule `bson:",inline"`
	Location *Location `bson:"location,omitempty" json:"location,omitempty"`
}

// WindowOn resolves the slot's HH:MM times against a concrete calendar
// day, returning the absolute start and end instants in day's location.
func (s Schedule) WindowOn(day time.Time) (start, end time.Time, err error) {
	start, err = clockOn(day, s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startTime %q: %w", s.StartTime, err)
	}
	end, err = clockOn(day, s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endTime %q: %w", s.EndTime, err)
	}
	return start, end, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
