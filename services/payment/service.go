package payment

import (
	"context"
	"fmt"
	"math"

	planRepo "fitgate/database/repository/plan"
	"fitgate/models"
	"fitgate/services/subscription"
	"fitgate/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
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
	// ErrPlanNotFound means the plan being purchased does not exist.
	ErrPlanNotFound = &Error{Code: "planNotFound", Message: "membership plan not found"}
	// ErrPaymentNotCompleted means the payment intent has not succeeded.
	ErrPaymentNotCompleted = &Error{Code: "paymentNotCompleted", Message: "payment has not completed"}
)

// OrderResult is returned to the client to drive the payment sheet.
type OrderResult struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// PaymentService is the narrow payment-capture surface: it creates an
// order for a plan and, once the gateway confirms it, produces the
// membership ledger entry.
type PaymentService interface {
	// CreateOrder opens a payment intent for the plan's price with the
	// plan id attached as metadata.
	CreateOrder(ctx context.Context, planID string) (*OrderResult, error)
	// CaptureOrder verifies the intent succeeded and activates the
	// membership for the paying user.
	CaptureOrder(ctx context.Context, intentID, userID string) (*models.Subscription, error)
}

// StripePaymentService implements PaymentService on Stripe payment intents.
type StripePaymentService struct {
	Plans         planRepo.PlanRepository
	Subscriptions subscription.SubscriptionService
}

func (s *StripePaymentService) CreateOrder(ctx context.Context, planID string) (*OrderResult, error) {
	plan, err := s.Plans.GetByID(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(plan.Price * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("planId", plan.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	utils.GetLogger().Info("payment intent created",
		zap.String("intentId", pi.ID),
		zap.String("planId", plan.ID),
	)
	return &OrderResult{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *StripePaymentService) CaptureOrder(ctx context.Context, intentID, userID string) (*models.Subscription, error) {
	pi, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, ErrPaymentNotCompleted
	}

	planID := pi.Metadata["planId"]
	if planID == "" {
		return nil, fmt.Errorf("payment intent %s missing plan metadata", intentID)
	}

	sub, err := s.Subscriptions.Assign(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("payment captured, membership activated",
		zap.String("intentId", intentID),
		zap.String("userId", userID),
		zap.String("subscriptionId", sub.ID),
	)
	return sub, nil
}
