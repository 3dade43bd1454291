package checkinRepo

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

// CheckInRepository defines data access for attendance sessions.
type CheckInRepository interface {
	// FindOpenByUser returns the user's CHECKED_IN session, or nil when
	// the user is not inside.
	FindOpenByUser(userID string) (*models.CheckIn, error)
	// Create inserts a new CHECKED_IN session.
	Create(ci *models.CheckIn) error
	// Close transitions a session to CHECKED_OUT at the given instant
	// and returns the updated document.
	Close(id string, at time.Time) (*models.CheckIn, error)
	// History returns all sessions newest-first with user, location and
	// booking slot details resolved (admin view).
	History() ([]models.CheckInHistoryEntry, error)
}

// MongoCheckInRepo implements CheckInRepository using MongoDB.
type MongoCheckInRepo struct {
	coll *mongo.Collection
}

// NewMongoCheckInRepo creates a new CheckInRepository backed by MongoDB.
func NewMongoCheckInRepo() CheckInRepository {
	coll := database.Collection("checkins")
	repo := &MongoCheckInRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes includes a partial unique index on (userId, CHECKED_IN)
// so a user can never hold two open sessions.
func (r *MongoCheckInRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "checkInTime", Value: -1}}},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.CheckedIn}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// FindOpenByUser returns the user's open session, if any.
func (r *MongoCheckInRepo) FindOpenByUser(userID string) (*models.CheckIn, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var ci models.CheckIn
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "status": models.CheckedIn}).Decode(&ci)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query open check-in for user %s: %w", userID, err)
	}
	return &ci, nil
}

// Create inserts a new CHECKED_IN session.
func (r *MongoCheckInRepo) Create(ci *models.CheckIn) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	ci.CreatedAt = now
	ci.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, ci); err != nil {
		return fmt.Errorf("failed to create check-in: %w", err)
	}
	return nil
}

// Close transitions a session to CHECKED_OUT.
func (r *MongoCheckInRepo) Close(id string, at time.Time) (*models.CheckIn, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":       models.CheckedOut,
		"checkOutTime": at,
		"updatedAt":    time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ci models.CheckIn
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&ci); err != nil {
		return nil, fmt.Errorf("failed to close check-in %s: %w", id, err)
	}
	return &ci, nil
}

// History returns all sessions newest-first with joins for display.
func (r *MongoCheckInRepo) History() ([]models.CheckInHistoryEntry, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "userId",
			"foreignField": "id",
			"as":           "user",
			"pipeline": mongo.Pipeline{
				{{Key: "$project", Value: bson.M{"id": 1, "name": 1, "email": 1}}},
			},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "locations",
			"localField":   "locationId",
			"foreignField": "id",
			"as":           "location",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$location", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "bookings",
			"localField":   "bookingId",
			"foreignField": "id",
			"as":           "booking",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$booking", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "schedules",
			"localField":   "booking.scheduleId",
			"foreignField": "id",
			"as":           "schedule",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$schedule", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$sort", Value: bson.D{{Key: "checkInTime", Value: -1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate check-in history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.CheckInHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode check-in history: %w", err)
	}
	return entries, nil
}
