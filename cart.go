package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService owns per-session line items. A session is any client-supplied
// string; unknown sessions are simply empty carts.
type CartService struct {
	products ProductRepository
	carts    CartRepository
}

func NewCartService(products ProductRepository, carts CartRepository) *CartService {
	return &CartService{products: products, carts: carts}
}

// AddItem validates the product and either merges into an existing line for
// the same (product, size, color) selection or inserts a new one. Returns
// the resulting item and whether it was merged.
func (s *CartService) AddItem(ctx context.Context, in CartItemInput) (CartItem, bool, error) {
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		return CartItem{}, false, err
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	existing, err := s.carts.FindSelection(ctx, in.SessionID, in.ProductID, in.SelectedSize, in.SelectedColor)
	switch {
	case err == nil:
		// Read-then-write merge: concurrent adds for the same selection can
		// lose an update. No atomic increment, matching the stored contract.
		merged := existing.Quantity + quantity
		if err := s.carts.SetQuantity(ctx, existing.ID, merged); err != nil {
			return CartItem{}, false, err
		}
		existing.Quantity = merged
		return existing, true, nil
	case errors.Is(err, ErrCartItemNotFound):
		item := CartItem{
			ID:            uuid.NewString(),
			SessionID:     in.SessionID,
			ProductID:     in.ProductID,
			SelectedSize:  in.SelectedSize,
			SelectedColor: in.SelectedColor,
			Quantity:      quantity,
			AddedAt:       time.Now().UTC(),
		}
		if err := s.carts.Insert(ctx, item); err != nil {
			return CartItem{}, false, err
		}
		return item, false, nil
	default:
		return CartItem{}, false, err
	}
}

// GetCart joins each line with its live product and totals the cart at
// current prices. Lines whose product no longer exists are skipped.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (CartView, error) {
	items, err := s.carts.FindBySession(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	lines := []CartLine{}
	subtotal := decimal.Zero
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return CartView{}, err
		}
		lines = append(lines, CartLine{CartItem: item, Product: product})
		subtotal = subtotal.Add(lineTotal(product.Price, item.Quantity))
	}

	sub, shipping, total := cartTotals(subtotal)
	return CartView{Items: lines, Subtotal: sub, Shipping: shipping, Total: total}, nil
}

// UpdateQuantity overwrites a line's quantity. Zero or negative quantity is
// a deletion signal. Reports whether the line was removed.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (CartItem, bool, error) {
	item, err := s.carts.FindItem(ctx, sessionID, itemID)
	if err != nil {
		return CartItem{}, false, err
	}

	if quantity <= 0 {
		if err := s.carts.Remove(ctx, sessionID, itemID); err != nil {
			return CartItem{}, false, err
		}
		return CartItem{}, true, nil
	}

	if err := s.carts.SetQuantity(ctx, itemID, quantity); err != nil {
		return CartItem{}, false, err
	}
	item.Quantity = quantity
	return item, false, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	return s.carts.Remove(ctx, sessionID, itemID)
}

// ClearCart deletes every line for the session. Clearing an empty cart is
// not an error.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (int64, error) {
	return s.carts.Clear(ctx, sessionID)
}

// ----- handlers -----

func (s *server) addToCart(c *gin.Context) {
	var in CartItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid cart item payload")
		return
	}

	item, merged, err := s.cart.AddItem(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Error adding item to cart")
		return
	}

	message := "Item added to cart successfully"
	if merged {
		message = "Cart item quantity updated"
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"cart_item": item},
		Message: message,
	})
}

func (s *server) getCart(c *gin.Context) {
	view, err := s.cart.GetCart(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		s.fail(c, err, "Error retrieving cart")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"cart_items": view.Items,
			"subtotal":   view.Subtotal,
			"shipping":   view.Shipping,
			"total":      view.Total,
		},
		Total: intPtr(len(view.Items)),
	})
}

func (s *server) updateCartItem(c *gin.Context) {
	var in CartItemUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid quantity payload")
		return
	}

	item, removed, err := s.cart.UpdateQuantity(c.Request.Context(), c.Param("sessionId"), c.Param("itemId"), *in.Quantity)
	if err != nil {
		s.fail(c, err, "Error updating cart item")
		return
	}

	if removed {
		c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"cart_item": item},
		Message: "Cart item updated successfully",
	})
}

func (s *server) removeCartItem(c *gin.Context) {
	if err := s.cart.RemoveItem(c.Request.Context(), c.Param("sessionId"), c.Param("itemId")); err != nil {
		s.fail(c, err, "Error removing cart item")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Item removed from cart successfully"})
}

func (s *server) clearCart(c *gin.Context) {
	removed, err := s.cart.ClearCart(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		s.fail(c, err, "Error clearing cart")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: fmt.Sprintf("Removed %d items from cart", removed),
	})
}
