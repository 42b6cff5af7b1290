package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
)

func validReview() ReviewInput {
	return ReviewInput{Rating: 4, Title: "Solid", Comment: "Does the job"}
}

func TestReviewService_Create(t *testing.T) {
	userID, productID := uuid.New(), uuid.New()

	tests := []struct {
		name          string
		input         ReviewInput
		setupMock     func(*MockReviewRepository, *MockProductRepository)
		expectedError error
	}{
		{
			name:  "first review",
			input: validReview(),
			setupMock: func(r *MockReviewRepository, p *MockProductRepository) {
				p.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
				r.On("FindByProductAndUser", mock.Anything, productID, userID).Return(nil, gorm.ErrRecordNotFound)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
		},
		{
			name:  "second review by same user",
			input: validReview(),
			setupMock: func(r *MockReviewRepository, p *MockProductRepository) {
				p.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
				r.On("FindByProductAndUser", mock.Anything, productID, userID).Return(&model.Review{ID: uuid.New()}, nil)
			},
			expectedError: apperrors.ErrReviewAlreadyExists,
		},
		{
			name:  "concurrent duplicate caught by index",
			input: validReview(),
			setupMock: func(r *MockReviewRepository, p *MockProductRepository) {
				p.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
				r.On("FindByProductAndUser", mock.Anything, productID, userID).Return(nil, gorm.ErrRecordNotFound)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrConflict,
		},
		{
			name:  "unknown product",
			input: validReview(),
			setupMock: func(r *MockReviewRepository, p *MockProductRepository) {
				p.On("FindByID", mock.Anything, productID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrProductNotFound,
		},
		{
			name:          "rating out of range",
			input:         ReviewInput{Rating: 6, Title: "Great", Comment: "Really"},
			setupMock:     func(*MockReviewRepository, *MockProductRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			products := new(MockProductRepository)
			tt.setupMock(reviews, products)
			cache := newMemoryCache()
			cache.data[productCacheKey(productID)] = []byte(`{}`)
			catalog := NewProductService(products, cache, 0)

			service := NewReviewService(reviews, products, catalog)
			review, err := service.Create(context.Background(), userID, productID, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, review)
				if tt.name == "second review by same user" {
					reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, review.UserID)
				assert.NotContains(t, cache.data, productCacheKey(productID))
			}
			reviews.AssertExpectations(t)
			products.AssertExpectations(t)
		})
	}
}

func TestReviewService_AuthorOnly(t *testing.T) {
	author, other := uuid.New(), uuid.New()
	review := &model.Review{ID: uuid.New(), ProductID: uuid.New(), UserID: author, Rating: 3, Title: "ok", Comment: "fine"}

	reviews := new(MockReviewRepository)
	reviews.On("FindByID", mock.Anything, review.ID).Return(review, nil)

	service := NewReviewService(reviews, new(MockProductRepository), nil)

	_, err := service.Update(context.Background(), other, review.ID, validReview())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = service.Delete(context.Background(), other, review.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotReviewAuthor)

	reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestReviewService_UpdateByAuthor(t *testing.T) {
	author := uuid.New()
	review := &model.Review{ID: uuid.New(), ProductID: uuid.New(), UserID: author, Rating: 3, Title: "ok", Comment: "fine"}

	reviews := new(MockReviewRepository)
	reviews.On("FindByID", mock.Anything, review.ID).Return(review, nil)
	reviews.On("Update", mock.Anything, review).Return(nil)

	updated, err := NewReviewService(reviews, new(MockProductRepository), nil).
		Update(context.Background(), author, review.ID, ReviewInput{Rating: 5, Title: "Great", Comment: "Changed my mind"})

	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Great", updated.Title)
	reviews.AssertExpectations(t)
}

func TestReviewService_ListFiltersByProduct(t *testing.T) {
	productID := uuid.New()
	reviews := new(MockReviewRepository)
	reviews.On("List", mock.Anything, &productID, 2, 10).Return([]model.Review{{ID: uuid.New(), UserName: "alice"}}, nil)

	list, err := NewReviewService(reviews, new(MockProductRepository), nil).List(context.Background(), &productID, 2, 10)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].UserName)
}
