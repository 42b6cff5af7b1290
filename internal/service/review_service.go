package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
	"cartify/internal/repository"
)

// ReviewInput carries the author-editable review fields.
type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

func (in ReviewInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Comment) == "" {
		return fmt.Errorf("%w: title and comment are required", apperrors.ErrInvalidInput)
	}
	return nil
}

// ReviewService manages product reviews. A user reviews a product at most once.
type ReviewService interface {
	Create(ctx context.Context, userID, productID uuid.UUID, in ReviewInput) (*model.Review, error)
	List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.Review, error)
	Update(ctx context.Context, userID, id uuid.UUID, in ReviewInput) (*model.Review, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type reviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	catalog  ProductService
}

// NewReviewService creates a review service. The catalog is used to drop
// cached products whose review list changed.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, catalog ProductService) ReviewService {
	return &reviewService{reviews: reviews, products: products, catalog: catalog}
}

func (s *reviewService) Create(ctx context.Context, userID, productID uuid.UUID, in ReviewInput) (*model.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if _, err := s.reviews.FindByProductAndUser(ctx, productID, userID); err == nil {
		return nil, apperrors.ErrReviewAlreadyExists
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find review: %w", err)
	}

	review := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Title:     strings.TrimSpace(in.Title),
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		// The unique index catches a concurrent duplicate.
		if repository.IsDuplicate(err) {
			return nil, apperrors.ErrReviewAlreadyExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.invalidate(ctx, productID)
	return review, nil
}

func (s *reviewService) List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.Review, error) {
	page, limit = normalizePage(page, limit)
	reviews, err := s.reviews.List(ctx, productID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

func (s *reviewService) Update(ctx context.Context, userID, id uuid.UUID, in ReviewInput) (*model.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	review, err := s.authored(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	review.Rating = in.Rating
	review.Title = strings.TrimSpace(in.Title)
	review.Comment = strings.TrimSpace(in.Comment)
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	s.invalidate(ctx, review.ProductID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	review, err := s.authored(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	s.invalidate(ctx, review.ProductID)
	return nil
}

// authored loads a review and checks that userID wrote it.
func (s *reviewService) authored(ctx context.Context, userID, id uuid.UUID) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review.UserID != userID {
		return nil, apperrors.ErrNotReviewAuthor
	}
	return review, nil
}

func (s *reviewService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.catalog != nil {
		s.catalog.Invalidate(ctx, productID)
	}
}
