package service

import (
	"context"
	"testing"

	"transport-editor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPlaceRepository is a mock implementation of the PlaceRepository interface
type MockPlaceRepository struct {
	mock.Mock
}

// SearchPlacesByText implements PlaceRepository.
func (m *MockPlaceRepository) SearchPlacesByText(ctx context.Context, query string, limit int) ([]models.Place, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.Place), args.Error(1)
}

// FindPlaceByID implements PlaceRepository.
func (m *MockPlaceRepository) FindPlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Place), args.Error(1)
}

var amphitheatre = models.Place{
	ID:        7,
	Address:   "1600 Amphitheatre Pkwy",
	Locality:  "Mountain View",
	Region:    "CA",
	Country:   "US",
	Latitude:  37.422,
	Longitude: -122.084,
}

func TestPlaceService_Suggest(t *testing.T) {
	tests := []struct {
		name        string
		address     string
		query       string
		mockPlaces  []models.Place
		mockError   error
		expected    []models.Place
		expectError bool
	}{
		{
			name:        "empty address",
			address:     "",
			expectError: true,
		},
		{
			name:        "blank address",
			address:     "   ",
			expectError: true,
		},
		{
			name:       "successful search with results",
			address:    " 1600 Amphitheatre Pkwy ",
			query:      "1600 Amphitheatre Pkwy",
			mockPlaces: []models.Place{amphitheatre},
			expected:   []models.Place{amphitheatre},
		},
		{
			name:       "successful search with no results",
			address:    "nonexistent address",
			query:      "nonexistent address",
			mockPlaces: []models.Place{},
			expected:   []models.Place{},
		},
		{
			name:        "repository error",
			address:     "1600 Amphitheatre Pkwy",
			query:       "1600 Amphitheatre Pkwy",
			mockPlaces:  nil,
			mockError:   assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockPlaceRepository)
			service := NewPlaceService(mockRepo, 3)

			if tt.query != "" {
				mockRepo.On("SearchPlacesByText", mock.Anything, tt.query, 3).Return(tt.mockPlaces, tt.mockError)
			}

			// Execute
			result, err := service.Suggest(context.Background(), tt.address)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestPlaceService_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		mockPlace   *models.Place
		mockError   error
		expected    models.Coordinates
		expectError bool
		errorIs     error
	}{
		{
			name:      "resolved",
			mockPlace: &amphitheatre,
			expected:  models.Coordinates{Latitude: 37.422, Longitude: -122.084},
		},
		{
			name:        "place disappeared",
			mockPlace:   nil,
			expectError: true,
			errorIs:     ErrNoCandidates,
		},
		{
			name:        "out of range coordinates",
			mockPlace:   &models.Place{ID: 7, Latitude: 91, Longitude: 0},
			expectError: true,
		},
		{
			name:        "repository error",
			mockPlace:   nil,
			mockError:   assert.AnError,
			expectError: true,
			errorIs:     assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockPlaceRepository)
			service := NewPlaceService(mockRepo, 0)
			mockRepo.On("FindPlaceByID", mock.Anything, int64(7)).Return(tt.mockPlace, tt.mockError)

			// Execute
			result, err := service.Resolve(context.Background(), amphitheatre)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
				if tt.errorIs != nil {
					assert.ErrorIs(t, err, tt.errorIs)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
