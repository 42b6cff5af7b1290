package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cartify/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*model.Review, error)
	List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// withAuthor joins the reviewer's username into the read-only UserName field.
func (r *reviewRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Review{}).
		Select("reviews.*, users.username AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id")
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Model(review).Updates(map[string]interface{}{
		"rating":  review.Rating,
		"title":   review.Title,
		"comment": review.Comment,
	}).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.withAuthor(ctx).Where("reviews.id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, productID *uuid.UUID, page, limit int) ([]model.Review, error) {
	q := r.withAuthor(ctx)
	if productID != nil {
		q = q.Where("reviews.product_id = ?", *productID)
	}
	var reviews []model.Review
	if err := q.Order("reviews.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}
