package handlers

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Auth          *AuthHandler
	Bookings      *BookingHandler
	CheckIns      *CheckInHandler
	Subscriptions *SubscriptionHandler
	Plans         *MembershipHandler
	Schedules     *ScheduleHandler
	Locations     *LocationHandler
	Payments      *PaymentHandler
}
