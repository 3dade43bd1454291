package checkin

import (
	"context"
	"testing"
	"time"

	bookingRepo "fitgate/database/repository/booking"
	"fitgate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
)

type MockCheckInRepository struct {
	mock.Mock
}

func (m *MockCheckInRepository) FindOpenByUser(userID string) (*models.CheckIn, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckIn), args.Error(1)
}

func (m *MockCheckInRepository) Create(ci *models.CheckIn) error {
	args := m.Called(ci)
	return args.Error(0)
}

func (m *MockCheckInRepository) Close(id string, at time.Time) (*models.CheckIn, error) {
	args := m.Called(id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckIn), args.Error(1)
}

func (m *MockCheckInRepository) History() ([]models.CheckInHistoryEntry, error) {
	args := m.Called()
	return args.Get(0).([]models.CheckInHistoryEntry), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountConfirmed(scheduleID, bookingDate string) (int64, error) {
	args := m.Called(scheduleID, bookingDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) HasConfirmed(userID, scheduleID, bookingDate string) (bool, error) {
	args := m.Called(userID, scheduleID, bookingDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUser(bookingID, userID string) (*models.Booking, error) {
	args := m.Called(bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CreateWithDebit(ctx context.Context, booking *models.Booking, subscriptionID string) error {
	args := m.Called(ctx, booking, subscriptionID)
	return args.Error(0)
}

func (m *MockBookingRepository) SetStatus(bookingID, status string) error {
	args := m.Called(bookingID, status)
	return args.Error(0)
}

func (m *MockBookingRepository) CancelWithCredit(ctx context.Context, bookingID, subscriptionID string) error {
	args := m.Called(ctx, bookingID, subscriptionID)
	return args.Error(0)
}

func (m *MockBookingRepository) FindConfirmedByUser(userID string) ([]models.BookingDetail, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.BookingDetail), args.Error(1)
}

func (m *MockBookingRepository) FindConfirmedForUserOnDate(userID, bookingDate string) ([]models.BookingDetail, error) {
	args := m.Called(userID, bookingDate)
	return args.Get(0).([]models.BookingDetail), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementPoints(id string, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	args := m.Called(id, projection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func detailFor(id, scheduleID, start, end, date string) models.BookingDetail {
	return models.BookingDetail{
		Booking: models.Booking{
			ID:          id,
			ScheduleID:  scheduleID,
			UserID:      "user-1",
			BookingDate: date,
			Status:      models.BookingConfirmed,
		},
		Schedule: &models.Schedule{
			ID:         scheduleID,
			StartTime:  start,
			EndTime:    end,
			LocationID: "loc-1",
		},
	}
}

func fixedClock(hhmm string) func() time.Time {
	t, _ := time.Parse("2006-01-02 15:04", "2026-09-01 "+hhmm)
	return func() time.Time { return t }
}

func newCheckInService(ci *MockCheckInRepository, b *MockBookingRepository, u *MockUserRepository, at string) *DefaultCheckInService {
	return &DefaultCheckInService{
		CheckIns:     ci,
		Bookings:     b,
		Users:        u,
		RewardPoints: 10,
		Now:          fixedClock(at),
	}
}

func TestCheckInService_Scan_OpensSessionAndAwardsPoints(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := newCheckInService(checkins, bookings, users, "09:05")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)
	checkins.On("Create", mock.Anything).Return(nil)
	users.On("IncrementPoints", "user-1", 10).Return(nil)

	res, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, res.Type)
	assert.Equal(t, models.CheckedIn, res.CheckIn.Status)
	assert.Equal(t, "bk-1", res.CheckIn.BookingID)
	users.AssertCalled(t, "IncrementPoints", "user-1", 10)
}

func TestCheckInService_Scan_ClosesOpenSession(t *testing.T) {
	checkins := &MockCheckInRepository{}
	svc := newCheckInService(checkins, &MockBookingRepository{}, &MockUserRepository{}, "10:30")

	open := &models.CheckIn{ID: "ci-1", UserID: "user-1", Status: models.CheckedIn}
	out := fixedClock("10:30")()
	closed := &models.CheckIn{ID: "ci-1", UserID: "user-1", Status: models.CheckedOut, CheckOutTime: &out}

	checkins.On("FindOpenByUser", "user-1").Return(open, nil)
	checkins.On("Close", "ci-1", out).Return(closed, nil)

	res, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckOut, res.Type)
	assert.Equal(t, models.CheckedOut, res.CheckIn.Status)
}

func TestCheckInService_Scan_EarlyWindowAdmits(t *testing.T) {
	// 08:45 scan for a 09:00 class falls inside the 30 minute grace.
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := newCheckInService(checkins, bookings, users, "08:45")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)
	checkins.On("Create", mock.Anything).Return(nil)
	users.On("IncrementPoints", "user-1", 10).Return(nil)

	res, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, res.Type)
}

func TestCheckInService_Scan_TooEarlyRejected(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	svc := newCheckInService(checkins, bookings, &MockUserRepository{}, "08:15")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)

	_, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.ErrorIs(t, err, ErrNoValidBookingWindow)
	checkins.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckInService_Scan_AfterClassEndsRejected(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	svc := newCheckInService(checkins, bookings, &MockUserRepository{}, "10:01")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)

	_, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.ErrorIs(t, err, ErrNoValidBookingWindow)
}

func TestCheckInService_Scan_NoBookingsRejected(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	svc := newCheckInService(checkins, bookings, &MockUserRepository{}, "09:05")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{}, nil)

	_, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.ErrorIs(t, err, ErrNoValidBookingWindow)
}

func TestCheckInService_Scan_PicksEarliestStartingBooking(t *testing.T) {
	// Two overlapping valid windows; the earlier class wins so the
	// attendance record matches what the member most plausibly came for.
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := newCheckInService(checkins, bookings, users, "09:50")

	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-late", "sched-2", "10:00", "11:00", "2026-09-01"),
		detailFor("bk-early", "sched-1", "09:30", "10:30", "2026-09-01"),
	}, nil)
	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	checkins.On("Create", mock.MatchedBy(func(ci *models.CheckIn) bool {
		return ci.BookingID == "bk-early"
	})).Return(nil)
	users.On("IncrementPoints", "user-1", 10).Return(nil)

	res, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.NoError(t, err)
	assert.Equal(t, "bk-early", res.CheckIn.BookingID)
}

func TestCheckInService_Scan_PointsFailureDoesNotBlockCheckIn(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := newCheckInService(checkins, bookings, users, "09:05")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)
	checkins.On("Create", mock.Anything).Return(nil)
	users.On("IncrementPoints", "user-1", 10).Return(assert.AnError)

	res, err := svc.HandleScan(context.Background(), "user-1", "loc-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, res.Type)
}

func TestCheckInService_Scan_FallsBackToScheduleLocation(t *testing.T) {
	checkins := &MockCheckInRepository{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := newCheckInService(checkins, bookings, users, "09:05")

	checkins.On("FindOpenByUser", "user-1").Return(nil, nil)
	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)
	checkins.On("Create", mock.MatchedBy(func(ci *models.CheckIn) bool {
		return ci.LocationID == "loc-1"
	})).Return(nil)
	users.On("IncrementPoints", "user-1", 10).Return(nil)

	res, err := svc.HandleScan(context.Background(), "user-1", "")

	assert.NoError(t, err)
	assert.Equal(t, "loc-1", res.CheckIn.LocationID)
}

// memCheckInRepo keeps sessions in memory so consecutive scans against
// one service instance observe each other's state.
type memCheckInRepo struct {
	sessions []*models.CheckIn
}

func (r *memCheckInRepo) FindOpenByUser(userID string) (*models.CheckIn, error) {
	for _, ci := range r.sessions {
		if ci.UserID == userID && ci.Status == models.CheckedIn {
			return ci, nil
		}
	}
	return nil, nil
}

func (r *memCheckInRepo) Create(ci *models.CheckIn) error {
	r.sessions = append(r.sessions, ci)
	return nil
}

func (r *memCheckInRepo) Close(id string, at time.Time) (*models.CheckIn, error) {
	for _, ci := range r.sessions {
		if ci.ID == id {
			ci.Status = models.CheckedOut
			ci.CheckOutTime = &at
			return ci, nil
		}
	}
	return nil, nil
}

func (r *memCheckInRepo) History() ([]models.CheckInHistoryEntry, error) {
	return nil, nil
}

func TestCheckInService_Scan_ToggleCycle(t *testing.T) {
	// Three scans in a row: open a session, close it, open a fresh one.
	// The second check-in must be a new record, not a reopened one.
	checkins := &memCheckInRepo{}
	bookings := &MockBookingRepository{}
	users := &MockUserRepository{}
	svc := &DefaultCheckInService{
		CheckIns:     checkins,
		Bookings:     bookings,
		Users:        users,
		RewardPoints: 10,
		Now:          fixedClock("09:05"),
	}

	bookings.On("FindConfirmedForUserOnDate", "user-1", "2026-09-01").Return([]models.BookingDetail{
		detailFor("bk-1", "sched-1", "09:00", "10:00", "2026-09-01"),
	}, nil)
	users.On("IncrementPoints", "user-1", 10).Return(nil)

	first, err := svc.HandleScan(context.Background(), "user-1", "loc-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, first.Type)
	assert.Equal(t, models.CheckedIn, first.CheckIn.Status)

	second, err := svc.HandleScan(context.Background(), "user-1", "loc-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckOut, second.Type)
	assert.Equal(t, models.CheckedOut, second.CheckIn.Status)
	assert.Equal(t, first.CheckIn.ID, second.CheckIn.ID)
	assert.NotNil(t, second.CheckIn.CheckOutTime)

	third, err := svc.HandleScan(context.Background(), "user-1", "loc-1")
	assert.NoError(t, err)
	assert.Equal(t, models.ScanCheckIn, third.Type)
	assert.NotEqual(t, first.CheckIn.ID, third.CheckIn.ID)
	assert.Len(t, checkins.sessions, 2)
}

var _ bookingRepo.BookingRepository = (*MockBookingRepository)(nil)
