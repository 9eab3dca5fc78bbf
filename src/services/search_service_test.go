package services

import (
	"context"
	"errors"
	"testing"

	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMedicineRepository is a mock type for the MedicineRepository interface
type MockMedicineRepository struct {
	mock.Mock
}

func (m *MockMedicineRepository) Search(query string) ([]models.Medicine, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) GetByID(id string) (*models.Medicine, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Medicine), args.Error(1)
}

func (m *MockMedicineRepository) Create(medicine *models.Medicine) error {
	args := m.Called(medicine)
	return args.Error(0)
}

// MockPharmacyRepository is a mock type for the PharmacyRepository interface
type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) Search(query string, near *repository.Location) ([]models.Pharmacy, error) {
	args := m.Called(query, near)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) GetByID(id string) (*models.Pharmacy, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pharmacy), args.Error(1)
}

func (m *MockPharmacyRepository) Create(pharmacy *models.Pharmacy) error {
	args := m.Called(pharmacy)
	return args.Error(0)
}

// MockSearchRepository is a mock type for the SearchRepository interface
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) Create(search *models.UserSearch) error {
	args := m.Called(search)
	return args.Error(0)
}

func (m *MockSearchRepository) List(userID, sessionID string, limit int) ([]models.UserSearch, error) {
	args := m.Called(userID, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserSearch), args.Error(1)
}

func TestSearchService_Search(t *testing.T) {
	anon := Identity{Kind: IdentityAnonymous, ID: "session-1"}
	ctx := context.Background()

	t.Run("Blank query is rejected before any lookup", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		svc := NewSearchService(medicines, pharmacies, history)

		_, err := svc.Search(ctx, anon, "   ", nil)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		medicines.AssertNotCalled(t, "Search", mock.Anything)
		pharmacies.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("Both matchers run and their results are merged", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		medicines.On("Search", "aspirin").Return([]models.Medicine{{Name: "Aspirin"}}, nil)
		pharmacies.On("Search", "aspirin", (*repository.Location)(nil)).Return([]models.Pharmacy{{Name: "Aspirin Corner Pharmacy"}}, nil)
		history.On("Create", mock.MatchedBy(func(s *models.UserSearch) bool {
			return s.SessionID == "session-1" && s.Query == "aspirin"
		})).Return(nil)
		svc := NewSearchService(medicines, pharmacies, history)

		resp, err := svc.Search(ctx, anon, "  aspirin ", nil)
		assert.NoError(t, err)
		assert.Len(t, resp.Medicines, 1)
		assert.Len(t, resp.Pharmacies, 1)
		medicines.AssertExpectations(t)
		pharmacies.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("Location is forwarded to the pharmacy matcher", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		near := &repository.Location{Latitude: 40.7128, Longitude: -74.0060}
		medicines.On("Search", "pharmacy").Return([]models.Medicine{}, nil)
		pharmacies.On("Search", "pharmacy", near).Return([]models.Pharmacy{}, nil)
		history.On("Create", mock.Anything).Return(nil)
		svc := NewSearchService(medicines, pharmacies, history)

		_, err := svc.Search(ctx, anon, "pharmacy", near)
		assert.NoError(t, err)
		pharmacies.AssertExpectations(t)
	})

	t.Run("A matcher failure fails the whole search", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		medicines.On("Search", "aspirin").Return(nil, errors.New("db down"))
		pharmacies.On("Search", "aspirin", (*repository.Location)(nil)).Return([]models.Pharmacy{}, nil)
		svc := NewSearchService(medicines, pharmacies, history)

		_, err := svc.Search(ctx, anon, "aspirin", nil)
		assert.Error(t, err)
		history.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("History write failure does not fail the search", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		medicines.On("Search", "aspirin").Return([]models.Medicine{}, nil)
		pharmacies.On("Search", "aspirin", (*repository.Location)(nil)).Return([]models.Pharmacy{}, nil)
		history.On("Create", mock.Anything).Return(errors.New("db down"))
		svc := NewSearchService(medicines, pharmacies, history)

		resp, err := svc.Search(ctx, anon, "aspirin", nil)
		assert.NoError(t, err)
		assert.NotNil(t, resp)
	})

	t.Run("Nil matcher slices come back as empty arrays", func(t *testing.T) {
		medicines := new(MockMedicineRepository)
		pharmacies := new(MockPharmacyRepository)
		history := new(MockSearchRepository)
		medicines.On("Search", "zzz").Return([]models.Medicine(nil), nil)
		pharmacies.On("Search", "zzz", (*repository.Location)(nil)).Return([]models.Pharmacy(nil), nil)
		history.On("Create", mock.Anything).Return(nil)
		svc := NewSearchService(medicines, pharmacies, history)

		resp, err := svc.Search(ctx, anon, "zzz", nil)
		assert.NoError(t, err)
		assert.NotNil(t, resp.Medicines)
		assert.NotNil(t, resp.Pharmacies)
		assert.Empty(t, resp.Medicines)
		assert.Empty(t, resp.Pharmacies)
	})
}
