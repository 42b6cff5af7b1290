package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
)

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         ProductInput
		repoErr       error
		expectedError error
	}{
		{
			name:  "valid product",
			input: ProductInput{Name: " Desk Lamp ", Price: decimal.NewFromInt(40), CategoryKey: "lighting"},
		},
		{
			name:          "duplicate name",
			input:         ProductInput{Name: "Desk Lamp", Price: decimal.NewFromInt(40), CategoryKey: "lighting"},
			repoErr:       gorm.ErrDuplicatedKey,
			expectedError: apperrors.ErrProductAlreadyExists,
		},
		{
			name:          "negative price",
			input:         ProductInput{Name: "Desk Lamp", Price: decimal.NewFromInt(-1), CategoryKey: "lighting"},
			expectedError: apperrors.ErrInvalidInput,
		},
		{
			name:          "missing category",
			input:         ProductInput{Name: "Desk Lamp", Price: decimal.NewFromInt(1)},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			if tt.repoErr != nil || tt.expectedError == nil {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(tt.repoErr)
			}

			product, err := NewProductService(mockRepo, nil, 0).Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, product)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Desk Lamp", product.Name)
				assert.NotEqual(t, uuid.Nil, product.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_GetUsesCache(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockProductRepository)
	mockRepo.On("FindByIDWithReviews", mock.Anything, id).
		Return(&model.Product{ID: id, Name: "Mug", Price: decimal.NewFromInt(12)}, nil).Once()

	cache := newMemoryCache()
	service := NewProductService(mockRepo, cache, 0)

	first, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, first.Reviews)

	second, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Mug", second.Name)
	assert.True(t, second.Price.Equal(decimal.NewFromInt(12)))

	mockRepo.AssertNumberOfCalls(t, "FindByIDWithReviews", 1)
}

func TestProductService_GetNotFound(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockProductRepository)
	mockRepo.On("FindByIDWithReviews", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewProductService(mockRepo, nil, 0).Get(context.Background(), id)

	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestProductService_UpdateIsPartialAndInvalidates(t *testing.T) {
	id := uuid.New()
	rating := 4.5
	existing := &model.Product{ID: id, Name: "Mug", Description: "Ceramic", Price: decimal.NewFromInt(12), CategoryKey: "kitchen", Rating: &rating}

	mockRepo := new(MockProductRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)

	cache := newMemoryCache()
	cache.data[productCacheKey(id)] = []byte(`{"name":"stale"}`)

	newPrice := decimal.NewFromInt(15)
	updated, err := NewProductService(mockRepo, cache, 0).Update(context.Background(), id, ProductPatch{Price: &newPrice})

	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Ceramic", updated.Description)
	assert.Equal(t, &rating, updated.Rating)
	assert.NotContains(t, cache.data, productCacheKey(id))
}

func TestProductService_ListNormalizesFilter(t *testing.T) {
	featured := true
	mockRepo := new(MockProductRepository)
	mockRepo.On("List", mock.Anything, model.ProductFilter{CategoryKey: "kitchen", Featured: &featured, Page: 1, Limit: 20}).
		Return([]model.Product{{Name: "Mug"}}, nil)

	products, err := NewProductService(mockRepo, nil, 0).List(context.Background(), model.ProductFilter{CategoryKey: " kitchen ", Featured: &featured})

	require.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchIndex(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockProductRepository)
	mockRepo.On("ListAll", mock.Anything).Return([]model.Product{
		{ID: id, Name: "Mug", Price: decimal.NewFromInt(12), CategoryKey: "kitchen", Image: "mug.png", Description: "long text"},
	}, nil)

	entries, err := NewProductService(mockRepo, nil, 0).SearchIndex(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SearchEntry{ID: id, Name: "Mug", Price: decimal.NewFromInt(12), Image: "mug.png", Category: "kitchen"}, entries[0])
}

func TestProductService_ImportUpsertsByName(t *testing.T) {
	existingID := uuid.New()
	mockRepo := new(MockProductRepository)
	mockRepo.On("FindByName", mock.Anything, "Mug").Return(&model.Product{ID: existingID, Name: "Mug"}, nil)
	mockRepo.On("FindByName", mock.Anything, "Lamp").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == existingID && p.Price.Equal(decimal.NewFromInt(14))
	})).Return(nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool { return p.Name == "Lamp" })).Return(nil)

	result, err := NewProductService(mockRepo, nil, 0).Import(context.Background(), []ProductInput{
		{Name: "Mug", Price: decimal.NewFromInt(14), CategoryKey: "kitchen"},
		{Name: "Lamp", Price: decimal.NewFromInt(40), CategoryKey: "lighting"},
	})

	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Created: 1, Updated: 1}, result)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ImportRejectsInvalidBeforeWriting(t *testing.T) {
	mockRepo := new(MockProductRepository)

	_, err := NewProductService(mockRepo, nil, 0).Import(context.Background(), []ProductInput{
		{Name: "Mug", Price: decimal.NewFromInt(14), CategoryKey: "kitchen"},
		{Name: "", Price: decimal.NewFromInt(1), CategoryKey: "kitchen"},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}
