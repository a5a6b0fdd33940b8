package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"zencart/internal/events"
	"zencart/internal/models"
	"zencart/internal/pricing"
	"zencart/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// OrderItemInput is one line of an order request.
type OrderItemInput struct {
	ProductID string `json:"productId" validate:"notblank"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// OrderRequest is the body of a create-order request.
type OrderRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   events.Publisher
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService. A nil publisher disables
// order events.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		validate:    newValidator(),
	}
}

// GetAllOrders retrieves the user's orders.
func (s *OrderService) GetAllOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, &InternalError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// GetOrderByID retrieves one of the user's orders.
func (s *OrderService) GetOrderByID(ctx context.Context, userID, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, &InternalError{Op: "get order", Err: err}
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return order, nil
}

// CreateOrder prices every line at the current sale price and stores the
// order as pending.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req OrderRequest) (*models.Order, error) {
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
	}
	total, saved := decimal.Zero, decimal.Zero
	for _, item := range req.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			return nil, &InternalError{Op: "create order", Err: err}
		}

		unit, lineTotal, lineSaved := pricing.QuoteFor(product.Price).Line(item.Quantity)
		total = total.Add(lineTotal)
		saved = saved.Add(lineSaved)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   item.Quantity,
			Price:      product.Price,
			FinalPrice: unit.InexactFloat64(),
		})
		if order.OrderName == "" {
			order.OrderName = product.Name
			order.OrderImage = product.Image
		}
	}
	order.TotalPrice = total.InexactFloat64()
	order.SavedPrice = saved.InexactFloat64()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, &InternalError{Op: "create order", Err: err}
	}

	evt := events.New(events.OrderCreated, map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalPrice,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	}
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	if !validStatuses[status] {
		return &ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("invalid order status: %s", status),
		}}
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return &InternalError{Op: "update order status", Err: err}
	}
	return nil
}
