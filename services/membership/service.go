package membership

import (
	"context"
	"fmt"

	planRepo "fitgate/database/repository/plan"
	"fitgate/models"

	"github.com/google/uuid"
)

// PlanInput carries the admin-editable fields of a membership plan.
type PlanInput struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" binding:"required"`
	DurationDays   int     `json:"durationDays" binding:"required,min=1"`
	ClassesPerWeek int     `json:"classesPerWeek" binding:"min=0"`
	TotalClasses   int     `json:"totalClasses" binding:"required,min=1"`
	Points         int     `json:"points" binding:"min=0"`
}

// MembershipService manages the plan catalog (admin CRUD + public list).
type MembershipService interface {
	Create(ctx context.Context, in PlanInput) (*models.MembershipPlan, error)
	Get(ctx context.Context, id string) (*models.MembershipPlan, error)
	List(ctx context.Context) ([]models.MembershipPlan, error)
	Update(ctx context.Context, id string, in PlanInput) (*models.MembershipPlan, error)
	Remove(ctx context.Context, id string) error
}

// DefaultMembershipService is the production implementation.
type DefaultMembershipService struct {
	Plans planRepo.PlanRepository
}

func (s *DefaultMembershipService) Create(ctx context.Context, in PlanInput) (*models.MembershipPlan, error) {
	plan := &models.MembershipPlan{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		DurationDays:   in.DurationDays,
		ClassesPerWeek: in.ClassesPerWeek,
		TotalClasses:   in.TotalClasses,
		Points:         in.Points,
	}
	if err := s.Plans.Create(plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *DefaultMembershipService) Get(ctx context.Context, id string) (*models.MembershipPlan, error) {
	return s.Plans.GetByID(id)
}

func (s *DefaultMembershipService) List(ctx context.Context) ([]models.MembershipPlan, error) {
	return s.Plans.GetAll()
}

func (s *DefaultMembershipService) Update(ctx context.Context, id string, in PlanInput) (*models.MembershipPlan, error) {
	plan, err := s.Plans.GetByID(id)
	if err != nil {
		return nil, err
	}
	plan.Name = in.Name
	plan.Description = in.Description
	plan.Price = in.Price
	plan.DurationDays = in.DurationDays
	plan.ClassesPerWeek = in.ClassesPerWeek
	plan.TotalClasses = in.TotalClasses
	plan.Points = in.Points

	if err := s.Plans.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *DefaultMembershipService) Remove(ctx context.Context, id string) error {
	return s.Plans.Delete(id)
}
