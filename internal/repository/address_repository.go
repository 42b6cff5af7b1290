package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cartify/internal/model"
)

// AddressRepository defines address persistence operations. Every query is
// scoped to the owning user.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Update(ctx context.Context, userID uuid.UUID, address *model.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates a new address repository.
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// ListByUser returns the user's addresses in creation order.
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	var addresses []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Update rewrites the address fields. MySQL reports zero affected rows for
// no-op updates, so existence is the caller's concern.
func (r *addressRepository) Update(ctx context.Context, userID uuid.UUID, address *model.Address) error {
	return r.db.WithContext(ctx).Model(&model.Address{}).
		Where("id = ? AND user_id = ?", address.ID, userID).
		Updates(map[string]interface{}{
			"building_name": address.BuildingName,
			"colony":        address.Colony,
			"city":          address.City,
			"state":         address.State,
			"pincode":       address.Pincode,
		}).Error
}

func (r *addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
