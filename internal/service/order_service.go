package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "cartify/internal/errors"
	"cartify/internal/events"
	"cartify/internal/metrics"
	"cartify/internal/model"
	"cartify/internal/repository"
)

// OrderItemInput is one line of a submitted cart.
type OrderItemInput struct {
	ProductID *uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     string
}

// OrderInput is a submitted cart. Any total sent by the client is ignored.
type OrderInput struct {
	Name  string
	Items []OrderItemInput
}

// OrderService places and manages orders.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, in OrderInput) (*model.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Order, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Cancel(ctx context.Context, userID, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	repo      repository.OrderRepository
	publisher events.Publisher
	logger    *slog.Logger
}

// NewOrderService creates an order service. A nil publisher drops events.
func NewOrderService(repo repository.OrderRepository, publisher events.Publisher, logger *slog.Logger) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{repo: repo, publisher: publisher, logger: logger}
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, in OrderInput) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order items are required", apperrors.ErrInvalidInput)
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", apperrors.ErrInvalidInput, i)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d has a negative price", apperrors.ErrInvalidInput, i)
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: item %d has a negative quantity", apperrors.ErrInvalidInput, i)
		}
		item := model.OrderItem{
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.Price,
			Quantity:  qty,
			Image:     it.Image,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		if len(items) == 1 {
			name = items[0].Name
		} else {
			name = fmt.Sprintf("Cart Order (%d items)", len(items))
		}
	}

	order := &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Items:  items,
		Total:  total,
		Status: model.OrderStatusOrdered,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrderPlaced()

	if err := s.publisher.PublishOrderPlaced(ctx, orderPlacedEvent(order)); err != nil {
		s.logger.Warn("order event not published", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, error) {
	page, limit = normalizePage(page, limit)
	orders, err := s.repo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Order, error) {
	order, err := s.repo.FindForUser(ctx, userID, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteForUser(ctx, userID, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// Cancel moves an own order to cancelled, only from ordered or pending.
func (s *orderService) Cancel(ctx context.Context, userID, id uuid.UUID) (*model.Order, error) {
	from := []model.OrderStatus{model.OrderStatusOrdered, model.OrderStatusPending}
	ok, err := s.repo.TransitionStatus(ctx, userID, id, from, model.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if !ok {
		// Either the order is not ours or it already moved past pending.
		if _, err := s.Get(ctx, userID, id); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrOrderNotCancellable
	}
	return s.Get(ctx, userID, id)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", apperrors.ErrInvalidInput, status)
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	return order, nil
}

func orderPlacedEvent(order *model.Order) events.OrderPlaced {
	ev := events.OrderPlaced{
		OrderID:  order.ID.String(),
		UserID:   order.UserID.String(),
		Name:     order.Name,
		Total:    order.Total.StringFixed(2),
		Status:   string(order.Status),
		Items:    make([]events.OrderPlacedItem, 0, len(order.Items)),
		PlacedAt: order.CreatedAt,
	}
	for _, it := range order.Items {
		item := events.OrderPlacedItem{
			Name:     it.Name,
			Price:    it.Price.StringFixed(2),
			Quantity: it.Quantity,
		}
		if it.ProductID != nil {
			item.ProductID = it.ProductID.String()
		}
		ev.Items = append(ev.Items, item)
	}
	return ev
}
