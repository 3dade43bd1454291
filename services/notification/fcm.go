package notification

import (
	"context"
	"fmt"

	userRepo "fitgate/database/repository/user"
	"fitgate/utils"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultNotificationService sends pushes through Firebase Cloud Messaging.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

// SendUserPush looks up the user's FCM token and sends a push. When the
// FCM client is not configured the push is logged and dropped.
func (s *DefaultNotificationService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	logger := utils.GetLogger()

	if utils.FCMClient == nil {
		logger.Debug("push skipped, FCM not configured",
			zap.String("userId", userID), zap.String("title", title))
		return nil
	}

	u, err := s.Users.GetByIDWithProjection(userID, bson.M{"id": 1, "fcmToken": 1})
	if err != nil {
		return fmt.Errorf("SendUserPush: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return fmt.Errorf("SendUserPush: user %s has no FCM token", userID)
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("push delivery failed", zap.String("userId", userID), zap.Error(err))
		return fmt.Errorf("SendUserPush: send failed for user %s: %w", userID, err)
	}
	return nil
}
