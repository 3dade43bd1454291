package checkin

import (
	"context"
	"time"

	bookingRepo "fitgate/database/repository/booking"
	checkinRepo "fitgate/database/repository/checkin"
	userRepo "fitgate/database/repository/user"
	"fitgate/models"
	"fitgate/services/notification"
	"fitgate/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckInService handles the QR scan toggle and the admin history view.
type CheckInService interface {
	// HandleScan opens an attendance session for the scanned user, or
	// closes the one already open. One endpoint, two outcomes.
	HandleScan(ctx context.Context, userID, locationID string) (*models.ScanResult, error)
	// History returns all attendance sessions newest-first (admin).
	History(ctx context.Context) ([]models.CheckInHistoryEntry, error)
}

// DefaultCheckInService is the production implementation of CheckInService.
type DefaultCheckInService struct {
	CheckIns     checkinRepo.CheckInRepository
	Bookings     bookingRepo.BookingRepository
	Users        userRepo.UserRepository
	Notifier     notification.NotificationService
	RewardPoints int
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultCheckInService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// HandleScan decides between check-in and check-out based on whether
// the user already holds an open session.
func (s *DefaultCheckInService) HandleScan(ctx context.Context, userID, locationID string) (*models.ScanResult, error) {
	open, err := s.CheckIns.FindOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return s.checkOut(open)
	}
	return s.checkIn(ctx, userID, locationID)
}

func (s *DefaultCheckInService) checkOut(open *models.CheckIn) (*models.ScanResult, error) {
	closed, err := s.CheckIns.Close(open.ID, s.now())
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("member checked out",
		zap.String("userId", closed.UserID),
		zap.String("checkInId", closed.ID),
	)
	return &models.ScanResult{
		Type:    models.ScanCheckOut,
		Message: "Check-out recorded. See you next time!",
		CheckIn: closed,
	}, nil
}

func (s *DefaultCheckInService) checkIn(ctx context.Context, userID, locationID string) (*models.ScanResult, error) {
	logger := utils.GetLogger()
	now := s.now()

	booking, err := s.findValidBooking(userID, now)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrNoValidBookingWindow
	}

	loc := locationID
	if loc == "" && booking.Schedule != nil {
		loc = booking.Schedule.LocationID
	}

	ci := &models.CheckIn{
		ID:          uuid.New().String(),
		UserID:      userID,
		BookingID:   booking.ID,
		LocationID:  loc,
		CheckInTime: now,
		Status:      models.CheckedIn,
	}
	if err := s.CheckIns.Create(ci); err != nil {
		return nil, err
	}

	// Loyalty reward is a side effect on the member's profile; a failed
	// increment must not undo the attendance record.
	if err := s.Users.IncrementPoints(userID, s.RewardPoints); err != nil {
		logger.Warn("failed to award check-in points",
			zap.String("userId", userID), zap.Error(err))
	}

	logger.Info("member checked in",
		zap.String("userId", userID),
		zap.String("bookingId", booking.ID),
		zap.String("locationId", loc),
	)

	if s.Notifier != nil {
		go s.Notifier.SendUserPush(context.Background(), userID,
			"Welcome in!",
			"Enjoy your class. You earned loyalty points for showing up.",
			map[string]string{"checkInId": ci.ID},
		)
	}

	return &models.ScanResult{
		Type:    models.ScanCheckIn,
		Message: "Check-in recorded. Enjoy your class!",
		CheckIn: ci,
	}, nil
}

// findValidBooking picks the earliest-starting CONFIRMED booking for
// today whose window admits now: at most CheckInEarlyWindow before the
// class starts, and before it ends.
func (s *DefaultCheckInService) findValidBooking(userID string, now time.Time) (*models.BookingDetail, error) {
	today := now.Format(models.DateLayout)

	bookings, err := s.Bookings.FindConfirmedForUserOnDate(userID, today)
	if err != nil {
		return nil, err
	}

	var best *models.BookingDetail
	var bestStart time.Time
	for i := range bookings {
		b := &bookings[i]
		if b.Schedule == nil {
			continue
		}
		start, end, err := b.Schedule.WindowOn(now)
		if err != nil {
			utils.GetLogger().Warn("skipping booking with malformed slot times",
				zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		windowStart := start.Add(-utils.CheckInEarlyWindow)
		if now.Before(windowStart) || now.After(end) {
			continue
		}
		if best == nil || start.Before(bestStart) {
			best = b
			bestStart = start
		}
	}
	return best, nil
}

// History returns all attendance sessions for the admin view.
func (s *DefaultCheckInService) History(ctx context.Context) ([]models.CheckInHistoryEntry, error) {
	return s.CheckIns.History()
}
