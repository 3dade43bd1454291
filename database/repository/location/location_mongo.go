package locationRepo

import (
	"context"
	"fmt"
	"time"

	"fitgate/database"
	"fitgate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepository defines data access for gym branches.
type LocationRepository interface {
	Create(loc *models.Location) error
	GetByID(id string) (*models.Location, error)
	GetAll() ([]models.Location, error)
	Update(loc *models.Location) error
	Delete(id string) error
}

// MongoLocationRepo implements LocationRepository using MongoDB.
type MongoLocationRepo struct {
	coll *mongo.Collection
}

// NewMongoLocationRepo creates a new LocationRepository backed by MongoDB.
func NewMongoLocationRepo() LocationRepository {
	coll := database.Collection("locations")
	repo := &MongoLocationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoLocationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new location document.
func (r *MongoLocationRepo) Create(loc *models.Location) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, loc); err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// GetByID retrieves a location by its unique ID.
func (r *MongoLocationRepo) GetByID(id string) (*models.Location, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var loc models.Location
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&loc); err != nil {
		return nil, fmt.Errorf("failed to fetch location with id %s: %w", id, err)
	}
	return &loc, nil
}

// GetAll retrieves every gym branch.
func (r *MongoLocationRepo) GetAll() ([]models.Location, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locs []models.Location
	if err := cursor.All(ctx, &locs); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locs, nil
}

// Update modifies an existing location document.
func (r *MongoLocationRepo) Update(loc *models.Location) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	loc.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": loc.ID}, bson.M{"$set": loc})
	if err != nil {
		return fmt.Errorf("failed to update location with id %s: %w", loc.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("location with id %s not found", loc.ID)
	}
	return nil
}

// Delete removes a location document by its ID.
func (r *MongoLocationRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete location with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("location with id %s not found", id)
	}
	return nil
}
