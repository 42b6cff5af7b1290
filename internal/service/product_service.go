package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
	"cartify/internal/repository"
)

// Cache is the subset of the Redis wrapper the catalog needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProductInput is a full product definition used by create and import.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryKey string
	Type        string
	Featured    bool
	Image       string
	Rating      *float64
}

// ProductPatch is a partial update; nil fields are left unchanged. Rating is
// not editable through this path.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryKey *string
	Type        *string
	Featured    *bool
	Image       *string
}

// SearchEntry is the minimal projection served by the search index.
type SearchEntry struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Rating   *float64        `json:"rating"`
}

// ImportResult reports how a bulk import was applied.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ProductService manages the catalog.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Product, error)
	SearchIndex(ctx context.Context) ([]SearchEntry, error)
	Import(ctx context.Context, items []ProductInput) (*ImportResult, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type productService struct {
	repo     repository.ProductRepository
	cache    Cache
	cacheTTL time.Duration
}

// NewProductService creates a catalog service. A nil cache disables caching.
func NewProductService(repo repository.ProductRepository, cache Cache, cacheTTL time.Duration) ProductService {
	return &productService{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.CategoryKey) == "" {
		return fmt.Errorf("%w: category key is required", apperrors.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product := &model.Product{ID: uuid.New()}
	applyInput(product, in)
	if err := s.repo.Create(ctx, product); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperrors.ErrProductAlreadyExists
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Get reads a product with its reviews, through the cache when available.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	key := productCacheKey(id)
	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached model.Product
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	product, err := s.repo.FindByIDWithReviews(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product.Reviews == nil {
		product.Reviews = []model.Review{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(product); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.CategoryKey = strings.TrimSpace(filter.CategoryKey)
	filter.Type = strings.TrimSpace(filter.Type)
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.CategoryKey != nil {
		product.CategoryKey = strings.TrimSpace(*patch.CategoryKey)
	}
	if patch.Type != nil {
		product.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	if patch.Image != nil {
		product.Image = *patch.Image
	}
	if err := (ProductInput{Name: product.Name, CategoryKey: product.CategoryKey, Price: product.Price}).validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperrors.ErrProductAlreadyExists
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.Invalidate(ctx, id)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	s.Invalidate(ctx, id)
	return product, nil
}

func (s *productService) SearchIndex(ctx context.Context) ([]SearchEntry, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	entries := make([]SearchEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, SearchEntry{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Image:    p.Image,
			Category: p.CategoryKey,
			Rating:   p.Rating,
		})
	}
	return entries, nil
}

// Import upserts products by name. Invalid entries abort the import before
// anything is written.
func (s *productService) Import(ctx context.Context, items []ProductInput) (*ImportResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no products to import", apperrors.ErrInvalidInput)
	}
	for i, in := range items {
		if err := in.validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}

	result := &ImportResult{}
	for _, in := range items {
		existing, err := s.repo.FindByName(ctx, strings.TrimSpace(in.Name))
		switch {
		case err == nil:
			applyInput(existing, in)
			if err := s.repo.Update(ctx, existing); err != nil {
				return result, fmt.Errorf("update product %q: %w", in.Name, err)
			}
			s.Invalidate(ctx, existing.ID)
			result.Updated++
		case repository.IsNotFound(err):
			product := &model.Product{ID: uuid.New()}
			applyInput(product, in)
			if err := s.repo.Create(ctx, product); err != nil {
				return result, fmt.Errorf("create product %q: %w", in.Name, err)
			}
			result.Created++
		default:
			return result, fmt.Errorf("find product %q: %w", in.Name, err)
		}
	}
	slog.Info("product import applied", "created", result.Created, "updated", result.Updated)
	return result, nil
}

// Invalidate drops the cached copy of a product.
func (s *productService) Invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, productCacheKey(id))
	}
}

func applyInput(p *model.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryKey = strings.TrimSpace(in.CategoryKey)
	p.Type = strings.TrimSpace(in.Type)
	p.Featured = in.Featured
	p.Image = in.Image
	if in.Rating != nil {
		p.Rating = in.Rating
	}
}
