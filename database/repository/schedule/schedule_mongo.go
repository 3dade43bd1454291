package scheduleRepo

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

// ErrScheduleNotFound is returned when no schedule matches the given ID.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepository defines data access for the weekly slot catalog.
type ScheduleRepository interface {
	Create(s *models.Schedule) error
	// GetByID retrieves a slot definition; returns ErrScheduleNotFound
	// when absent.
	GetByID(id string) (*models.Schedule, error)
	// GetAllDetailed returns the weekly grid with locations resolved,
	// sorted by (dayOfWeek, startTime).
	GetAllDetailed() ([]models.ScheduleDetail, error)
	Update(s *models.Schedule) error
	Delete(id string) error
}

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo creates a new ScheduleRepository backed by MongoDB.
func NewMongoScheduleRepo() ScheduleRepository {
	coll := database.Collection("schedules")
	repo := &MongoScheduleRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new schedule document.
func (r *MongoScheduleRepo) Create(s *models.Schedule) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a slot definition by its unique ID.
func (r *MongoScheduleRepo) GetByID(id string) (*models.Schedule, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var s models.Schedule
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to fetch schedule with id %s: %w", id, err)
	}
	return &s, nil
}

// GetAllDetailed returns the weekly grid with locations resolved.
func (r *MongoScheduleRepo) GetAllDetailed() ([]models.ScheduleDetail, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "locations",
			"localField":   "locationId",
			"foreignField": "id",
			"as":           "location",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$location", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "dayOfWeek", Value: 1},
			{Key: "startTime", Value: 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.ScheduleDetail
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

// Update modifies an existing schedule document.
func (r *MongoScheduleRepo) Update(s *models.Schedule) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": s.ID}, bson.M{"$set": s})
	if err != nil {
		return fmt.Errorf("failed to update schedule with id %s: %w", s.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Delete removes a schedule document by its ID.
func (r *MongoScheduleRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete schedule with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
