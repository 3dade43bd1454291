package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "fitgate/database/repository/booking"
	scheduleRepo "fitgate/database/repository/schedule"
	subscriptionRepo "fitgate/database/repository/subscription"
	"fitgate/models"
	"fitgate/services/notification"
	"fitgate/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts   = 10
	lockRetryDelay = 50 * time.Millisecond
)

// DefaultBookingService is the production implementation of BookingService.
type DefaultBookingService struct {
	Bookings      bookingRepo.BookingRepository
	Subscriptions subscriptionRepo.SubscriptionRepository
	Schedules     scheduleRepo.ScheduleRepository
	Locker        SlotLocker
	Notifier      notification.NotificationService
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create runs the admission chain: active membership, positive balance,
// slot existence, capacity, and no duplicate. The count and insert are
// serialized by a per-(schedule,date) lock; the insert and the class
// debit commit together in the repository.
func (s *DefaultBookingService) Create(ctx context.Context, userID, scheduleID, bookingDate string) (*models.Booking, error) {
	logger := utils.GetLogger()

	date, err := time.Parse(models.DateLayout, bookingDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	sub, err := s.Subscriptions.FindActiveForUser(userID, date)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoActiveMembership
	}
	if sub.ClassesRemaining <= 0 {
		return nil, ErrNoCreditsRemaining
	}

	schedule, err := s.Schedules.GetByID(scheduleID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	lockKey := scheduleID + ":" + bookingDate
	if err := s.acquireSlotLock(ctx, lockKey); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Locker.Release(ctx, lockKey); err != nil {
			logger.Warn("failed to release slot lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	count, err := s.Bookings.CountConfirmed(scheduleID, bookingDate)
	if err != nil {
		return nil, err
	}
	if count >= int64(schedule.Capacity) {
		return nil, ErrSlotFull
	}

	booked, err := s.Bookings.HasConfirmed(userID, scheduleID, bookingDate)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrDuplicateBooking
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		ScheduleID:  scheduleID,
		UserID:      userID,
		BookingDate: bookingDate,
		Status:      models.BookingConfirmed,
	}

	if err := s.Bookings.CreateWithDebit(ctx, booking, sub.ID); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrInsufficientCredits):
			return nil, ErrNoCreditsRemaining
		case errors.Is(err, bookingRepo.ErrDuplicateBooking):
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("userId", userID),
		zap.String("scheduleId", scheduleID),
		zap.String("date", bookingDate),
	)

	if s.Notifier != nil {
		go s.Notifier.SendUserPush(context.Background(), userID,
			"Class booked",
			"Your class on "+bookingDate+" ("+schedule.StartTime+"-"+schedule.EndTime+") is confirmed.",
			map[string]string{"bookingId": booking.ID},
		)
	}

	return booking, nil
}

func (s *DefaultBookingService) acquireSlotLock(ctx context.Context, key string) error {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := s.Locker.Acquire(ctx, key, utils.SlotLockTTL)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return ErrSlotBusy
}

// Cancel marks the booking CANCELLED and credits the class back to the
// user's currently active subscription. When none exists the credit is
// skipped and the class is forfeited.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, userID string) (string, error) {
	logger := utils.GetLogger()

	b, err := s.Bookings.GetByIDForUser(bookingID, userID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if b.Status == models.BookingCancelled {
		return "", ErrAlreadyCancelled
	}

	sub, err := s.Subscriptions.FindActiveForUser(userID, s.now())
	if err != nil {
		return "", err
	}
	if sub == nil {
		if err := s.Bookings.SetStatus(bookingID, models.BookingCancelled); err != nil {
			return "", err
		}
		logger.Warn("cancelled booking without active membership, class forfeited",
			zap.String("bookingId", bookingID),
			zap.String("userId", userID),
		)
		return "Booking cancelled.", nil
	}

	// Status flip and credit commit together so a failed credit can
	// never strand a CANCELLED booking without its refund.
	if err := s.Bookings.CancelWithCredit(ctx, bookingID, sub.ID); err != nil {
		return "", err
	}

	logger.Info("booking cancelled",
		zap.String("bookingId", bookingID),
		zap.String("userId", userID),
		zap.String("subscriptionId", sub.ID),
	)
	return "Booking cancelled and class returned to your membership.", nil
}

// FindUserBookings returns the user's upcoming CONFIRMED bookings.
func (s *DefaultBookingService) FindUserBookings(ctx context.Context, userID string) ([]models.BookingDetail, error) {
	return s.Bookings.FindConfirmedByUser(userID)
}
