package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
)

func sampleAddresses(userID uuid.UUID, cities ...string) []model.Address {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Address, 0, len(cities))
	for i, city := range cities {
		out = append(out, model.Address{
			ID:           uuid.New(),
			UserID:       userID,
			BuildingName: "Block " + city,
			Colony:       "Colony",
			City:         city,
			State:        "State",
			Pincode:      "560001",
			CreatedAt:    base.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return out
}

func validAddressInput() AddressInput {
	return AddressInput{BuildingName: "12B", Colony: "Green Park", City: "Pune", State: "MH", Pincode: "411001"}
}

func TestAddressService_DeleteAtShiftsLaterEntries(t *testing.T) {
	userID := uuid.New()
	all := sampleAddresses(userID, "A", "B", "C")

	mockRepo := new(MockAddressRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return(all, nil).Once()
	mockRepo.On("Delete", mock.Anything, userID, all[0].ID).Return(nil)
	mockRepo.On("ListByUser", mock.Anything, userID).Return(all[1:], nil).Once()

	service := NewAddressService(mockRepo)
	remaining, err := service.DeleteAt(context.Background(), userID, 0)

	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "B", remaining[0].City)
	assert.Equal(t, "C", remaining[1].City)
	mockRepo.AssertExpectations(t)
}

func TestAddressService_IndexOutOfRange(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"past end", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAddressRepository)
			mockRepo.On("ListByUser", mock.Anything, userID).Return(sampleAddresses(userID, "A", "B"), nil)

			service := NewAddressService(mockRepo)
			_, err := service.DeleteAt(context.Background(), userID, tt.index)
			assert.ErrorIs(t, err, apperrors.ErrAddressNotFound)

			_, err = service.UpdateAt(context.Background(), userID, tt.index, validAddressInput())
			assert.ErrorIs(t, err, apperrors.ErrAddressNotFound)

			mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAddressService_UpdateAtTargetsResolvedID(t *testing.T) {
	userID := uuid.New()
	all := sampleAddresses(userID, "A", "B")

	mockRepo := new(MockAddressRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return(all, nil)
	mockRepo.On("Update", mock.Anything, userID, mock.MatchedBy(func(a *model.Address) bool {
		return a.ID == all[1].ID && a.City == "Pune"
	})).Return(nil)

	service := NewAddressService(mockRepo)
	_, err := service.UpdateAt(context.Background(), userID, 1, validAddressInput())

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAddressService_Add(t *testing.T) {
	tests := []struct {
		name          string
		input         AddressInput
		expectedError error
	}{
		{name: "all fields", input: validAddressInput()},
		{
			name:          "missing pincode",
			input:         AddressInput{BuildingName: "12B", Colony: "Green Park", City: "Pune", State: "MH", Pincode: "  "},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			mockRepo := new(MockAddressRepository)
			if tt.expectedError == nil {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Address")).Return(nil)
				mockRepo.On("ListByUser", mock.Anything, userID).Return(sampleAddresses(userID, "Pune"), nil)
			}

			service := NewAddressService(mockRepo)
			list, err := service.Add(context.Background(), userID, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, 1)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAddressService_UpdateByIDUnknown(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockAddressRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return(sampleAddresses(userID, "A"), nil)

	service := NewAddressService(mockRepo)
	_, err := service.Update(context.Background(), userID, uuid.New(), validAddressInput())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddressService_DeleteByIDUnknown(t *testing.T) {
	userID, id := uuid.New(), uuid.New()
	mockRepo := new(MockAddressRepository)
	mockRepo.On("Delete", mock.Anything, userID, id).Return(gorm.ErrRecordNotFound)

	service := NewAddressService(mockRepo)
	_, err := service.Delete(context.Background(), userID, id)

	assert.ErrorIs(t, err, apperrors.ErrAddressNotFound)
}

func TestAddressService_ListNeverNil(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockAddressRepository)
	mockRepo.On("ListByUser", mock.Anything, userID).Return([]model.Address(nil), nil)

	list, err := NewAddressService(mockRepo).List(context.Background(), userID)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
