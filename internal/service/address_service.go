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

// AddressInput carries the editable address fields.
type AddressInput struct {
	BuildingName string
	Colony       string
	City         string
	State        string
	Pincode      string
}

func (in AddressInput) validate() error {
	for _, v := range []string{in.BuildingName, in.Colony, in.City, in.State, in.Pincode} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: all address fields are required", apperrors.ErrInvalidInput)
		}
	}
	return nil
}

// AddressService manages a user's addresses. Addresses have stable ids; the
// index based methods resolve a position against a fresh read and then act
// on the id found there. Every mutation returns the updated list.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Add(ctx context.Context, userID uuid.UUID, in AddressInput) ([]model.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, in AddressInput) ([]model.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) ([]model.Address, error)
	UpdateAt(ctx context.Context, userID uuid.UUID, index int, in AddressInput) ([]model.Address, error)
	DeleteAt(ctx context.Context, userID uuid.UUID, index int) ([]model.Address, error)
}

type addressService struct {
	repo repository.AddressRepository
}

// NewAddressService creates an address service.
func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	return addresses, nil
}

func (s *addressService) Add(ctx context.Context, userID uuid.UUID, in AddressInput) ([]model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	address := toAddress(userID, in)
	address.ID = uuid.New()
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return s.List(ctx, userID)
}

func (s *addressService) Update(ctx context.Context, userID, id uuid.UUID, in AddressInput) ([]model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	addresses, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !containsAddress(addresses, id) {
		return nil, apperrors.ErrAddressNotFound
	}
	return s.update(ctx, userID, id, in)
}

func (s *addressService) Delete(ctx context.Context, userID, id uuid.UUID) ([]model.Address, error) {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrAddressNotFound
		}
		return nil, fmt.Errorf("delete address: %w", err)
	}
	return s.List(ctx, userID)
}

func (s *addressService) UpdateAt(ctx context.Context, userID uuid.UUID, index int, in AddressInput) ([]model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := s.resolveIndex(ctx, userID, index)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, id, in)
}

func (s *addressService) DeleteAt(ctx context.Context, userID uuid.UUID, index int) ([]model.Address, error) {
	id, err := s.resolveIndex(ctx, userID, index)
	if err != nil {
		return nil, err
	}
	return s.Delete(ctx, userID, id)
}

func (s *addressService) update(ctx context.Context, userID, id uuid.UUID, in AddressInput) ([]model.Address, error) {
	address := toAddress(userID, in)
	address.ID = id
	if err := s.repo.Update(ctx, userID, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return s.List(ctx, userID)
}

func (s *addressService) resolveIndex(ctx context.Context, userID uuid.UUID, index int) (uuid.UUID, error) {
	addresses, err := s.List(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	if index < 0 || index >= len(addresses) {
		return uuid.Nil, apperrors.ErrAddressNotFound
	}
	return addresses[index].ID, nil
}

func containsAddress(addresses []model.Address, id uuid.UUID) bool {
	for _, a := range addresses {
		if a.ID == id {
			return true
		}
	}
	return false
}

func toAddress(userID uuid.UUID, in AddressInput) *model.Address {
	return &model.Address{
		UserID:       userID,
		BuildingName: strings.TrimSpace(in.BuildingName),
		Colony:       strings.TrimSpace(in.Colony),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Pincode:      strings.TrimSpace(in.Pincode),
	}
}
