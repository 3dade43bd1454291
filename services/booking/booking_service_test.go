package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "fitgate/database/repository/booking"
	scheduleRepo "fitgate/database/repository/schedule"
	"fitgate/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(sub *models.Subscription) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByID(id string) (*models.Subscription, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveForUser(userID string, onDate time.Time) (*models.Subscription, error) {
	args := m.Called(userID, onDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByUser(userID string) ([]models.SubscriptionDetail, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.SubscriptionDetail), args.Error(1)
}

func (m *MockSubscriptionRepository) GetAll() ([]models.SubscriptionDetail, error) {
	args := m.Called()
	return args.Get(0).([]models.SubscriptionDetail), args.Error(1)
}

func (m *MockSubscriptionRepository) DebitClass(id string) (*models.Subscription, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CreditClass(id string) (*models.Subscription, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ExpireBefore(deadline time.Time) (int64, error) {
	args := m.Called(deadline)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(s *models.Schedule) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByID(id string) (*models.Schedule, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) GetAllDetailed() ([]models.ScheduleDetail, error) {
	args := m.Called()
	return args.Get(0).([]models.ScheduleDetail), args.Error(1)
}

func (m *MockScheduleRepository) Update(s *models.Schedule) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockScheduleRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockSlotLocker struct {
	mock.Mock
}

func (m *MockSlotLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSlotLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func activeSub(classes int) *models.Subscription {
	return &models.Subscription{
		ID:               "sub-1",
		UserID:           "user-1",
		PlanID:           "plan-1",
		StartDate:        time.Now().AddDate(0, 0, -10),
		EndDate:          time.Now().AddDate(0, 0, 20),
		ClassesRemaining: classes,
		Status:           models.SubscriptionActive,
	}
}

func testSchedule(capacity int) *models.Schedule {
	return &models.Schedule{
		ID:         "sched-1",
		DayOfWeek:  1,
		StartTime:  "09:00",
		EndTime:    "10:00",
		Capacity:   capacity,
		LocationID: "loc-1",
	}
}

func newService(b *MockBookingRepository, s *MockSubscriptionRepository, sc *MockScheduleRepository, l *MockSlotLocker) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:      b,
		Subscriptions: s,
		Schedules:     sc,
		Locker:        l,
	}
}

func TestBookingService_Create_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	locker := &MockSlotLocker{}
	svc := newService(bookings, subs, schedules, locker)

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(5), nil)
	schedules.On("GetByID", "sched-1").Return(testSchedule(10), nil)
	locker.On("Acquire", mock.Anything, "sched-1:2026-09-01", mock.Anything).Return(true, nil)
	locker.On("Release", mock.Anything, "sched-1:2026-09-01").Return(nil)
	bookings.On("CountConfirmed", "sched-1", "2026-09-01").Return(int64(3), nil)
	bookings.On("HasConfirmed", "user-1", "sched-1", "2026-09-01").Return(false, nil)
	bookings.On("CreateWithDebit", mock.Anything, mock.Anything, "sub-1").Return(nil)

	b, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.NoError(t, err)
	assert.NotNil(t, b)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, "2026-09-01", b.BookingDate)
	bookings.AssertExpectations(t)
	locker.AssertExpectations(t)
}

func TestBookingService_Create_InvalidDate(t *testing.T) {
	svc := newService(&MockBookingRepository{}, &MockSubscriptionRepository{}, &MockScheduleRepository{}, &MockSlotLocker{})

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "01-09-2026")

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBookingService_Create_NoActiveMembership(t *testing.T) {
	subs := &MockSubscriptionRepository{}
	svc := newService(&MockBookingRepository{}, subs, &MockScheduleRepository{}, &MockSlotLocker{})

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(nil, nil)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrNoActiveMembership)
}

func TestBookingService_Create_NoCredits(t *testing.T) {
	subs := &MockSubscriptionRepository{}
	svc := newService(&MockBookingRepository{}, subs, &MockScheduleRepository{}, &MockSlotLocker{})

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(0), nil)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrNoCreditsRemaining)
}

func TestBookingService_Create_SlotNotFound(t *testing.T) {
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	svc := newService(&MockBookingRepository{}, subs, schedules, &MockSlotLocker{})

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(5), nil)
	schedules.On("GetByID", "missing").Return(nil, scheduleRepo.ErrScheduleNotFound)

	_, err := svc.Create(context.Background(), "user-1", "missing", "2026-09-01")

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookingService_Create_SlotFull(t *testing.T) {
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	locker := &MockSlotLocker{}
	svc := newService(bookings, subs, schedules, locker)

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(5), nil)
	schedules.On("GetByID", "sched-1").Return(testSchedule(10), nil)
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	bookings.On("CountConfirmed", "sched-1", "2026-09-01").Return(int64(10), nil)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrSlotFull)
	bookings.AssertNotCalled(t, "CreateWithDebit", mock.Anything, mock.Anything, mock.Anything)
	locker.AssertCalled(t, "Release", mock.Anything, "sched-1:2026-09-01")
}

func TestBookingService_Create_Duplicate(t *testing.T) {
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	locker := &MockSlotLocker{}
	svc := newService(bookings, subs, schedules, locker)

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(5), nil)
	schedules.On("GetByID", "sched-1").Return(testSchedule(10), nil)
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	bookings.On("CountConfirmed", "sched-1", "2026-09-01").Return(int64(3), nil)
	bookings.On("HasConfirmed", "user-1", "sched-1", "2026-09-01").Return(true, nil)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestBookingService_Create_DebitGuardLost(t *testing.T) {
	// The pre-check saw a positive balance but the guarded debit found
	// it drained by a concurrent booking.
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	locker := &MockSlotLocker{}
	svc := newService(bookings, subs, schedules, locker)

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(1), nil)
	schedules.On("GetByID", "sched-1").Return(testSchedule(10), nil)
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	bookings.On("CountConfirmed", "sched-1", "2026-09-01").Return(int64(0), nil)
	bookings.On("HasConfirmed", "user-1", "sched-1", "2026-09-01").Return(false, nil)
	bookings.On("CreateWithDebit", mock.Anything, mock.Anything, "sub-1").Return(bookingRepo.ErrInsufficientCredits)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrNoCreditsRemaining)
}

func TestBookingService_Create_SlotBusy(t *testing.T) {
	subs := &MockSubscriptionRepository{}
	schedules := &MockScheduleRepository{}
	locker := &MockSlotLocker{}
	svc := newService(&MockBookingRepository{}, subs, schedules, locker)

	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(5), nil)
	schedules.On("GetByID", "sched-1").Return(testSchedule(10), nil)
	locker.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.Create(context.Background(), "user-1", "sched-1", "2026-09-01")

	assert.ErrorIs(t, err, ErrSlotBusy)
}

func TestBookingService_Cancel_CreditsActiveMembership(t *testing.T) {
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	svc := newService(bookings, subs, &MockScheduleRepository{}, &MockSlotLocker{})

	bookings.On("GetByIDForUser", "bk-1", "user-1").Return(&models.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Status: models.BookingConfirmed,
	}, nil)
	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(2), nil)
	bookings.On("CancelWithCredit", mock.Anything, "bk-1", "sub-1").Return(nil)

	msg, err := svc.Cancel(context.Background(), "bk-1", "user-1")

	assert.NoError(t, err)
	assert.Contains(t, msg, "returned")
	bookings.AssertCalled(t, "CancelWithCredit", mock.Anything, "bk-1", "sub-1")
	bookings.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
}

func TestBookingService_Cancel_CreditFailureLeavesNoPartialWrite(t *testing.T) {
	// A failed atomic cancel+credit must surface the error without an
	// extra status write that could strand a CANCELLED booking with no
	// refund.
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	svc := newService(bookings, subs, &MockScheduleRepository{}, &MockSlotLocker{})

	bookings.On("GetByIDForUser", "bk-1", "user-1").Return(&models.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Status: models.BookingConfirmed,
	}, nil)
	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(activeSub(2), nil)
	bookings.On("CancelWithCredit", mock.Anything, "bk-1", "sub-1").Return(assert.AnError)

	_, err := svc.Cancel(context.Background(), "bk-1", "user-1")

	assert.Error(t, err)
	bookings.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
	subs.AssertNotCalled(t, "CreditClass", mock.Anything)
}

func TestBookingService_Cancel_NoActiveMembershipForfeitsClass(t *testing.T) {
	bookings := &MockBookingRepository{}
	subs := &MockSubscriptionRepository{}
	svc := newService(bookings, subs, &MockScheduleRepository{}, &MockSlotLocker{})

	bookings.On("GetByIDForUser", "bk-1", "user-1").Return(&models.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Status: models.BookingConfirmed,
	}, nil)
	bookings.On("SetStatus", "bk-1", models.BookingCancelled).Return(nil)
	subs.On("FindActiveForUser", "user-1", mock.Anything).Return(nil, nil)

	msg, err := svc.Cancel(context.Background(), "bk-1", "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "Booking cancelled.", msg)
	subs.AssertNotCalled(t, "CreditClass", mock.Anything)
	bookings.AssertNotCalled(t, "CancelWithCredit", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Cancel_AlreadyCancelled(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockSubscriptionRepository{}, &MockScheduleRepository{}, &MockSlotLocker{})

	bookings.On("GetByIDForUser", "bk-1", "user-1").Return(&models.Booking{
		ID:     "bk-1",
		UserID: "user-1",
		Status: models.BookingCancelled,
	}, nil)

	_, err := svc.Cancel(context.Background(), "bk-1", "user-1")

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	bookings.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	bookings := &MockBookingRepository{}
	svc := newService(bookings, &MockSubscriptionRepository{}, &MockScheduleRepository{}, &MockSlotLocker{})

	bookings.On("GetByIDForUser", "bk-missing", "user-1").Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := svc.Cancel(context.Background(), "bk-missing", "user-1")

	assert.ErrorIs(t, err, ErrNotFound)
}

// In-memory fakes for the contention test. The booking repo keeps
// confirmed bookings and the subscription balance behind one mutex,
// mimicking the transactional insert+debit.

type memLocker struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]bool)}
}

func (l *memLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks[key] {
		return false, nil
	}
	l.locks[key] = true
	return true, nil
}

func (l *memLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}

type memBookingRepo struct {
	mu        sync.Mutex
	confirmed []*models.Booking
	balance   int
}

func (r *memBookingRepo) CountConfirmed(scheduleID, bookingDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.confirmed {
		if b.ScheduleID == scheduleID && b.BookingDate == bookingDate && b.Status == models.BookingConfirmed {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) HasConfirmed(userID, scheduleID, bookingDate string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.confirmed {
		if b.UserID == userID && b.ScheduleID == scheduleID && b.BookingDate == bookingDate && b.Status == models.BookingConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) GetByIDForUser(bookingID, userID string) (*models.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *memBookingRepo) CreateWithDebit(ctx context.Context, booking *models.Booking, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.balance <= 0 {
		return bookingRepo.ErrInsufficientCredits
	}
	r.balance--
	r.confirmed = append(r.confirmed, booking)
	return nil
}

func (r *memBookingRepo) SetStatus(bookingID, status string) error { return nil }

func (r *memBookingRepo) CancelWithCredit(ctx context.Context, bookingID, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.confirmed {
		if b.ID == bookingID {
			b.Status = models.BookingCancelled
			r.balance++
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

func (r *memBookingRepo) FindConfirmedByUser(userID string) ([]models.BookingDetail, error) {
	return nil, nil
}

func (r *memBookingRepo) FindConfirmedForUserOnDate(userID, bookingDate string) ([]models.BookingDetail, error) {
	return nil, nil
}

type memSubscriptionRepo struct {
	sub *models.Subscription
}

func (r *memSubscriptionRepo) Create(sub *models.Subscription) error          { return nil }
func (r *memSubscriptionRepo) GetByID(id string) (*models.Subscription, error) { return r.sub, nil }
func (r *memSubscriptionRepo) FindActiveForUser(userID string, onDate time.Time) (*models.Subscription, error) {
	return r.sub, nil
}
func (r *memSubscriptionRepo) FindByUser(userID string) ([]models.SubscriptionDetail, error) {
	return nil, nil
}
func (r *memSubscriptionRepo) GetAll() ([]models.SubscriptionDetail, error) { return nil, nil }
func (r *memSubscriptionRepo) DebitClass(id string) (*models.Subscription, error) {
	return r.sub, nil
}
func (r *memSubscriptionRepo) CreditClass(id string) (*models.Subscription, error) {
	return r.sub, nil
}
func (r *memSubscriptionRepo) Revoke(id string) error                       { return nil }
func (r *memSubscriptionRepo) ExpireBefore(deadline time.Time) (int64, error) { return 0, nil }
func (r *memSubscriptionRepo) Delete(id string) error                       { return nil }

type memScheduleRepo struct {
	schedule *models.Schedule
}

func (r *memScheduleRepo) Create(s *models.Schedule) error { return nil }
func (r *memScheduleRepo) GetByID(id string) (*models.Schedule, error) {
	return r.schedule, nil
}
func (r *memScheduleRepo) GetAllDetailed() ([]models.ScheduleDetail, error) { return nil, nil }
func (r *memScheduleRepo) Update(s *models.Schedule) error                  { return nil }
func (r *memScheduleRepo) Delete(id string) error                           { return nil }

// TestBookingService_Create_LastSeatContention floods a slot with one
// remaining seat. Exactly one booking may win; everyone else must see
// the slot as full and the shared balance must drop by exactly one.
func TestBookingService_Create_LastSeatContention(t *testing.T) {
	const contenders = 16

	schedule := testSchedule(5)
	repo := &memBookingRepo{balance: 100}
	for i := 0; i < 4; i++ {
		repo.confirmed = append(repo.confirmed, &models.Booking{
			ID:          "seed",
			ScheduleID:  schedule.ID,
			UserID:      "seed-user",
			BookingDate: "2026-09-01",
			Status:      models.BookingConfirmed,
		})
	}

	svc := &DefaultBookingService{
		Bookings:      repo,
		Subscriptions: &memSubscriptionRepo{sub: activeSub(100)},
		Schedules:     &memScheduleRepo{schedule: schedule},
		Locker:        newMemLocker(),
	}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := "user-" + string(rune('a'+n))
			_, err := svc.Create(context.Background(), userID, schedule.ID, "2026-09-01")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, full, busy int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case err == ErrSlotFull:
			full++
		case err == ErrSlotBusy:
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one contender should take the last seat")
	assert.Equal(t, contenders-1, full+busy)

	count, _ := repo.CountConfirmed(schedule.ID, "2026-09-01")
	assert.Equal(t, int64(5), count)
	assert.Equal(t, 99, repo.balance, "exactly one class should be debited")
}
