package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"transport-editor/internal/models"
)

// ErrNoCandidates is returned when an address search yields no place.
var ErrNoCandidates = errors.New("service: no place matches the address")

// PlaceService contains the geocoding logic behind address autocomplete and resolution
type PlaceService struct {
	repo  PlaceRepository
	limit int
}

// PlaceRepository interface for dependency injection
type PlaceRepository interface {
	SearchPlacesByText(ctx context.Context, query string, limit int) ([]models.Place, error)
	FindPlaceByID(ctx context.Context, id int64) (*models.Place, error)
}

// NewPlaceService creates a new place service returning at most limit suggestions
func NewPlaceService(repo PlaceRepository, limit int) *PlaceService {
	if limit <= 0 {
		limit = 5
	}
	return &PlaceService{repo: repo, limit: limit}
}

// Suggest searches for places matching the address text, best match first
func (s *PlaceService) Suggest(ctx context.Context, address string) ([]models.Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("service: address cannot be empty")
	}

	places, err := s.repo.SearchPlacesByText(ctx, address, s.limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search places: %w", err)
	}

	return places, nil
}

// Resolve turns a suggested place into the coordinates stored for it
func (s *PlaceService) Resolve(ctx context.Context, place models.Place) (models.Coordinates, error) {
	found, err := s.repo.FindPlaceByID(ctx, place.ID)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("service: failed to resolve place %d: %w", place.ID, err)
	}
	if found == nil {
		return models.Coordinates{}, fmt.Errorf("service: place %d: %w", place.ID, ErrNoCandidates)
	}

	coords := models.Coordinates{Latitude: found.Latitude, Longitude: found.Longitude}
	if !coords.Valid() {
		return models.Coordinates{}, fmt.Errorf("service: place %d has invalid coordinates: %f, %f", place.ID, coords.Latitude, coords.Longitude)
	}

	return coords, nil
}
