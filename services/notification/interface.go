package notification

import "context"

// NotificationService defines methods for sending FCM pushes. Delivery
// is best-effort; callers fire and forget.
type NotificationService interface {
	SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error
}
