package planRepo

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

// PlanRepository defines data access for the membership plan catalog.
type PlanRepository interface {
	Create(plan *models.MembershipPlan) error
	GetByID(id string) (*models.MembershipPlan, error)
	GetAll() ([]models.MembershipPlan, error)
	Update(plan *models.MembershipPlan) error
	Delete(id string) error
}

// MongoPlanRepo implements PlanRepository using MongoDB.
type MongoPlanRepo struct {
	coll *mongo.Collection
}

// NewMongoPlanRepo creates a new PlanRepository backed by MongoDB.
func NewMongoPlanRepo() PlanRepository {
	coll := database.Collection("plans")
	repo := &MongoPlanRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPlanRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new plan document.
func (r *MongoPlanRepo) Create(plan *models.MembershipPlan) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by its unique ID.
func (r *MongoPlanRepo) GetByID(id string) (*models.MembershipPlan, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var plan models.MembershipPlan
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to fetch plan with id %s: %w", id, err)
	}
	return &plan, nil
}

// GetAll retrieves every plan in the catalog.
func (r *MongoPlanRepo) GetAll() ([]models.MembershipPlan, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []models.MembershipPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}

// Update modifies an existing plan document.
func (r *MongoPlanRepo) Update(plan *models.MembershipPlan) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	plan.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": plan.ID}, bson.M{"$set": plan})
	if err != nil {
		return fmt.Errorf("failed to update plan with id %s: %w", plan.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("plan with id %s not found", plan.ID)
	}
	return nil
}

// Delete removes a plan document by its ID.
func (r *MongoPlanRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete plan with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("plan with id %s not found", id)
	}
	return nil
}
