package schedule

import (
	"context"
	"fmt"
	"time"

	scheduleRepo "fitgate/database/repository/schedule"
	"fitgate/models"

	"github.com/google/uuid"
)

// Error is a business-rule violation surfaced to the API layer.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidTimes rejects slot times that are not HH:MM or reversed.
	ErrInvalidTimes = &Error{Code: "invalidTimes", Message: "startTime and endTime must be HH:MM with startTime before endTime"}
)

// SlotInput carries the admin-editable fields of a weekly slot.
type SlotInput struct {
	DayOfWeek  int    `json:"dayOfWeek" binding:"required,min=1,max=7"`
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required,min=1"`
	LocationID string `json:"locationId" binding:"required"`
}

// ScheduleService manages the weekly slot catalog. The booking engine
// only reads it; mutation is admin CRUD.
type ScheduleService interface {
	Create(ctx context.Context, in SlotInput) (*models.Schedule, error)
	Get(ctx context.Context, id string) (*models.Schedule, error)
	// List returns the weekly grid with locations resolved, sorted by
	// (dayOfWeek, startTime).
	List(ctx context.Context) ([]models.ScheduleDetail, error)
	Update(ctx context.Context, id string, in SlotInput) (*models.Schedule, error)
	Remove(ctx context.Context, id string) error
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Schedules scheduleRepo.ScheduleRepository
}

func validateTimes(start, end string) error {
	st, err := time.Parse("15:04", start)
	if err != nil {
		return ErrInvalidTimes
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return ErrInvalidTimes
	}
	if !st.Before(et) {
		return ErrInvalidTimes
	}
	return nil
}

func (s *DefaultScheduleService) Create(ctx context.Context, in SlotInput) (*models.Schedule, error) {
	if err := validateTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	sched := &models.Schedule{
		ID:         uuid.New().String(),
		DayOfWeek:  in.DayOfWeek,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Capacity:   in.Capacity,
		LocationID: in.LocationID,
	}
	if err := s.Schedules.Create(sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return sched, nil
}

func (s *DefaultScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	return s.Schedules.GetByID(id)
}

func (s *DefaultScheduleService) List(ctx context.Context) ([]models.ScheduleDetail, error) {
	return s.Schedules.GetAllDetailed()
}

func (s *DefaultScheduleService) Update(ctx context.Context, id string, in SlotInput) (*models.Schedule, error) {
	if err := validateTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	sched, err := s.Schedules.GetByID(id)
	if err != nil {
		return nil, err
	}
	sched.DayOfWeek = in.DayOfWeek
	sched.StartTime = in.StartTime
	sched.EndTime = in.EndTime
	sched.Capacity = in.Capacity
	sched.LocationID = in.LocationID

	if err := s.Schedules.Update(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *DefaultScheduleService) Remove(ctx context.Context, id string) error {
	return s.Schedules.Delete(id)
}
