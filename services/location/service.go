package location

import (
	"context"
	"fmt"

	locationRepo "fitgate/database/repository/location"
	"fitgate/models"

	"github.com/google/uuid"
)

// LocationInput carries the admin-editable fields of a gym branch.
type LocationInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// LocationService manages the branch directory.
type LocationService interface {
	Create(ctx context.Context, in LocationInput) (*models.Location, error)
	Get(ctx context.Context, id string) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	Update(ctx context.Context, id string, in LocationInput) (*models.Location, error)
	Remove(ctx context.Context, id string) error
}

// DefaultLocationService is the production implementation.
type DefaultLocationService struct {
	Locations locationRepo.LocationRepository
}

func (s *DefaultLocationService) Create(ctx context.Context, in LocationInput) (*models.Location, error) {
	loc := &models.Location{
		ID:      uuid.New().String(),
		Name:    in.Name,
		Address: in.Address,
	}
	if err := s.Locations.Create(loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return loc, nil
}

func (s *DefaultLocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	return s.Locations.GetByID(id)
}

func (s *DefaultLocationService) List(ctx context.Context) ([]models.Location, error) {
	return s.Locations.GetAll()
}

func (s *DefaultLocationService) Update(ctx context.Context, id string, in LocationInput) (*models.Location, error) {
	loc, err := s.Locations.GetByID(id)
	if err != nil {
		return nil, err
	}
	loc.Name = in.Name
	loc.Address = in.Address

	if err := s.Locations.Update(loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *DefaultLocationService) Remove(ctx context.Context, id string) error {
	return s.Locations.Delete(id)
}
