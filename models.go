package main

import (
	"time"

	"github.com/google/uuid"
)

// Order status values. The backend only ever assigns "pending"; the
// remaining states are advanced by back-office tooling.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

type Product struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Price         float64   `bson:"price" json:"price"`
	OriginalPrice *float64  `bson:"original_price,omitempty" json:"original_price,omitempty"`
	Description   string    `bson:"description" json:"description"`
	Image         string    `bson:"image" json:"image"`
	Category      string    `bson:"category" json:"category"`
	IsOnSale      bool      `bson:"is_on_sale" json:"is_on_sale"`
	Sizes         []string  `bson:"sizes" json:"sizes"`
	Colors        []string  `bson:"colors" json:"colors"`
	Stock         int       `bson:"stock" json:"stock"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price" binding:"gt=0"`
	OriginalPrice *float64 `json:"original_price" binding:"omitempty,gt=0"`
	Description   string   `json:"description" binding:"required"`
	Image         string   `json:"image" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	IsOnSale      bool     `json:"is_on_sale"`
	Sizes         []string `json:"sizes" binding:"required"`
	Colors        []string `json:"colors" binding:"required"`
	Stock         *int     `json:"stock" binding:"omitempty,gte=0"`
}

func newProduct(in ProductInput) Product {
	now := time.Now().UTC()
	stock := 100
	if in.Stock != nil {
		stock = *in.Stock
	}
	return Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Description:   in.Description,
		Image:         in.Image,
		Category:      in.Category,
		IsOnSale:      in.IsOnSale,
		Sizes:         in.Sizes,
		Colors:        in.Colors,
		Stock:         stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type Category struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
	Icon string `bson:"icon" json:"icon"`
}

func newCategory(name, slug, icon string) Category {
	return Category{ID: uuid.NewString(), Name: name, Slug: slug, Icon: icon}
}

type CartItem struct {
	ID            string    `bson:"id" json:"id"`
	SessionID     string    `bson:"session_id" json:"session_id"`
	ProductID     string    `bson:"product_id" json:"product_id"`
	SelectedSize  string    `bson:"selected_size" json:"selected_size"`
	SelectedColor string    `bson:"selected_color" json:"selected_color"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
}

type CartItemInput struct {
	SessionID     string `json:"session_id" binding:"required"`
	ProductID     string `json:"product_id" binding:"required"`
	SelectedSize  string `json:"selected_size" binding:"required"`
	SelectedColor string `json:"selected_color" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,gt=0"`
}

type CartItemUpdate struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartLine is a cart item joined with its live product for display.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// CartView is the enriched cart with totals at current catalog prices.
type CartView struct {
	Items    []CartLine `json:"cart_items"`
	Subtotal float64    `json:"subtotal"`
	Shipping float64    `json:"shipping"`
	Total    float64    `json:"total"`
}

type CustomerInfo struct {
	Name    string `bson:"name" json:"name" binding:"required"`
	Email   string `bson:"email" json:"email" binding:"required,email"`
	Address string `bson:"address" json:"address" binding:"required"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// OrderItem is an immutable line-item snapshot. Product and PriceAtTime
// are captured at checkout and never updated afterwards.
type OrderItem struct {
	ID            string    `bson:"id" json:"id"`
	SessionID     string    `bson:"session_id" json:"session_id"`
	ProductID     string    `bson:"product_id" json:"product_id"`
	SelectedSize  string    `bson:"selected_size" json:"selected_size"`
	SelectedColor string    `bson:"selected_color" json:"selected_color"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
	Product       Product   `bson:"product" json:"product"`
	PriceAtTime   float64   `bson:"price_at_time" json:"price_at_time"`
}

type Order struct {
	ID           string       `bson:"id" json:"id"`
	SessionID    string       `bson:"session_id" json:"session_id"`
	Items        []OrderItem  `bson:"items" json:"items"`
	TotalAmount  float64      `bson:"total_amount" json:"total_amount"`
	ShippingCost float64      `bson:"shipping_cost" json:"shipping_cost"`
	CustomerInfo CustomerInfo `bson:"customer_info" json:"customer_info"`
	Status       string       `bson:"status" json:"status"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
}

type OrderInput struct {
	SessionID    string       `json:"session_id" binding:"required"`
	CustomerInfo CustomerInfo `json:"customer_info" binding:"required"`
}

type Suggestion struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// APIResponse is the uniform success envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Total   *int        `json:"total,omitempty"`
}

func intPtr(n int) *int { return &n }
