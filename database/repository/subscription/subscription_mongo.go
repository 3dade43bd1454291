package subscriptionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitgate/database"
	"fitgate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoCredits is returned by DebitClass when the subscription has no
// classes left to spend.
var ErrNoCredits = errors.New("no classes remaining on subscription")

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo creates a new SubscriptionRepository backed by MongoDB.
func NewMongoSubscriptionRepo() SubscriptionRepository {
	coll := database.Collection("subscriptions")
	repo := &MongoSubscriptionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSubscriptionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "endDate", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new subscription document.
func (r *MongoSubscriptionRepo) Create(sub *models.Subscription) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetByID retrieves a subscription by its unique ID.
func (r *MongoSubscriptionRepo) GetByID(id string) (*models.Subscription, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var sub models.Subscription
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub); err != nil {
		return nil, fmt.Errorf("failed to fetch subscription with id %s: %w", id, err)
	}
	return &sub, nil
}

// FindActiveForUser selects the ACTIVE subscription covering onDate.
// When the user holds several, the one expiring last wins.
func (r *MongoSubscriptionRepo) FindActiveForUser(userID string, onDate time.Time) (*models.Subscription, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"userId":  userID,
		"status":  models.SubscriptionActive,
		"endDate": bson.M{"$gte": onDate},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "endDate", Value: -1}})

	var sub models.Subscription
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query active subscription for user %s: %w", userID, err)
	}
	return &sub, nil
}

// planLookup joins the membership plan document onto each subscription.
var planLookup = mongo.Pipeline{
	{{Key: "$lookup", Value: bson.M{
		"from":         "plans",
		"localField":   "planId",
		"foreignField": "id",
		"as":           "plan",
	}}},
	{{Key: "$unwind", Value: bson.M{"path": "$plan", "preserveNullAndEmptyArrays": true}}},
}

// FindByUser retrieves a user's subscriptions with plan detail,
// active entries first, most recent expiry first within a status.
func (r *MongoSubscriptionRepo) FindByUser(userID string) ([]models.SubscriptionDetail, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
	}
	pipeline = append(pipeline, planLookup...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
		{Key: "status", Value: 1},
		{Key: "endDate", Value: -1},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subscriptions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.SubscriptionDetail
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

// GetAll retrieves every subscription with plan detail (admin view).
func (r *MongoSubscriptionRepo) GetAll() ([]models.SubscriptionDetail, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{}
	pipeline = append(pipeline, planLookup...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.SubscriptionDetail
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

// DebitClass decrements classesRemaining by one. The filter requires a
// positive balance so two concurrent debits can never push it negative.
func (r *MongoSubscriptionRepo) DebitClass(id string) (*models.Subscription, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "classesRemaining": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"classesRemaining": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.Subscription
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoCredits
		}
		return nil, fmt.Errorf("failed to debit class on subscription %s: %w", id, err)
	}
	return &sub, nil
}

// CreditClass increments classesRemaining by one. There is no upper
// clamp; the balance mirrors what was debited and refunded.
func (r *MongoSubscriptionRepo) CreditClass(id string) (*models.Subscription, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"classesRemaining": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sub models.Subscription
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&sub); err != nil {
		return nil, fmt.Errorf("failed to credit class on subscription %s: %w", id, err)
	}
	return &sub, nil
}

// Revoke marks a subscription CANCELLED and zeroes its balance.
func (r *MongoSubscriptionRepo) Revoke(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":           models.SubscriptionCancelled,
		"classesRemaining": 0,
		"updatedAt":        time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to revoke subscription %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("subscription with id %s not found", id)
	}
	return nil
}

// ExpireBefore marks overdue ACTIVE subscriptions as EXPIRED.
func (r *MongoSubscriptionRepo) ExpireBefore(deadline time.Time) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":  models.SubscriptionActive,
		"endDate": bson.M{"$lt": deadline},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.SubscriptionExpired,
		"updatedAt": time.Now(),
	}}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return result.ModifiedCount, nil
}

// Delete removes a subscription document by its ID.
func (r *MongoSubscriptionRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("subscription with id %s not found", id)
	}
	return nil
}
