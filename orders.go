package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCart signals checkout on a cart with no items.
var ErrEmptyCart = errors.New("no items in cart")

// OrderService converts carts into immutable order records.
type OrderService struct {
	products ProductRepository
	carts    CartRepository
	orders   OrderRepository
	log      logrus.FieldLogger
}

func NewOrderService(products ProductRepository, carts CartRepository, orders OrderRepository, log logrus.FieldLogger) *OrderService {
	return &OrderService{products: products, carts: carts, orders: orders, log: log}
}

// Create snapshots the session's cart into a pending order and clears the
// cart. Lines whose product has been deleted are skipped. Prices are
// captured as price_at_time and never change afterwards, even if the
// catalog does.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (Order, error) {
	items, err := s.carts.FindBySession(ctx, in.SessionID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	snapshots := []OrderItem{}
	subtotal := decimal.Zero
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return Order{}, err
		}
		snapshots = append(snapshots, OrderItem{
			ID:            item.ID,
			SessionID:     item.SessionID,
			ProductID:     item.ProductID,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
			Quantity:      item.Quantity,
			AddedAt:       item.AddedAt,
			Product:       product,
			PriceAtTime:   product.Price,
		})
		subtotal = subtotal.Add(lineTotal(product.Price, item.Quantity))
	}

	_, shipping, total := cartTotals(subtotal)
	order := Order{
		ID:           uuid.NewString(),
		SessionID:    in.SessionID,
		Items:        snapshots,
		TotalAmount:  total,
		ShippingCost: shipping,
		CustomerInfo: in.CustomerInfo,
		Status:       OrderStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return Order{}, err
	}

	// Best-effort: the order stands even if the clear fails, leaving stale
	// items behind. No compensating rollback.
	if _, err := s.carts.Clear(ctx, in.SessionID); err != nil {
		s.log.WithError(err).WithField("session_id", in.SessionID).
			Warn("order created but cart clear failed")
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// BySession lists a session's orders, most recent first.
func (s *OrderService) BySession(ctx context.Context, sessionID string) ([]Order, error) {
	orders, err := s.orders.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// ----- handlers -----

func (s *server) createOrder(c *gin.Context) {
	var in OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid order payload")
		return
	}

	order, err := s.orders.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Error creating order")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"order": order},
		Message: "Order created successfully",
	})
}

func (s *server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		s.fail(c, err, "Error retrieving order")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{"order": order}})
}

func (s *server) getOrdersBySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		abortDetail(c, http.StatusUnprocessableEntity, "session_id query parameter is required")
		return
	}

	orders, err := s.orders.BySession(c.Request.Context(), sessionID)
	if err != nil {
		s.fail(c, err, "Error retrieving orders")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"orders": orders},
		Total:   intPtr(len(orders)),
	})
}
