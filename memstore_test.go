package main

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// In-memory repositories backing the service tests.

type memProducts struct {
	products []Product
}

func (m *memProducts) Insert(_ context.Context, p Product) error {
	m.products = append(m.products, p)
	return nil
}

func (m *memProducts) FindByID(_ context.Context, id string) (Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (m *memProducts) FindByName(_ context.Context, name string) (Product, error) {
	for _, p := range m.products {
		if p.Name == name {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesQuery(p Product, q ProductQuery) bool {
	if q.Text != "" {
		ok := containsFold(p.Name, q.Text) ||
			containsFold(p.Description, q.Text) ||
			containsFold(p.Category, q.Text)
		for _, color := range p.Colors {
			ok = ok || containsFold(color, q.Text)
		}
		if !ok {
			return false
		}
	}
	if q.Name != "" && !containsFold(p.Name, q.Name) {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.SaleOnly && !p.IsOnSale {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

func (m *memProducts) Find(_ context.Context, q ProductQuery) ([]Product, int64, error) {
	var matched []Product
	for _, p := range m.products {
		if matchesQuery(p, q) {
			matched = append(matched, p)
		}
	}
	total := int64(len(matched))
	if q.Offset >= total {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (m *memProducts) Suggest(_ context.Context, query string, limit int64) ([]Product, error) {
	var matched []Product
	for _, p := range m.products {
		if containsFold(p.Name, query) || containsFold(p.Category, query) {
			matched = append(matched, p)
		}
		if int64(len(matched)) >= limit {
			break
		}
	}
	return matched, nil
}

func (m *memProducts) Update(_ context.Context, id string, in ProductInput) (Product, error) {
	for i, p := range m.products {
		if p.ID != id {
			continue
		}
		stock := 100
		if in.Stock != nil {
			stock = *in.Stock
		}
		p.Name = in.Name
		p.Price = in.Price
		p.OriginalPrice = in.OriginalPrice
		p.Description = in.Description
		p.Image = in.Image
		p.Category = in.Category
		p.IsOnSale = in.IsOnSale
		p.Sizes = in.Sizes
		p.Colors = in.Colors
		p.Stock = stock
		p.UpdatedAt = time.Now().UTC()
		m.products[i] = p
		return p, nil
	}
	return Product{}, ErrProductNotFound
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (m *memProducts) Count(_ context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

type memCategories struct {
	categories []Category
}

func (m *memCategories) InsertMany(_ context.Context, categories []Category) error {
	m.categories = append(m.categories, categories...)
	return nil
}

func (m *memCategories) FindAll(_ context.Context) ([]Category, error) {
	return m.categories, nil
}

func (m *memCategories) Count(_ context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

type memCarts struct {
	items     []CartItem
	failClear bool
}

func (m *memCarts) Insert(_ context.Context, item CartItem) error {
	m.items = append(m.items, item)
	return nil
}

func (m *memCarts) FindBySession(_ context.Context, sessionID string) ([]CartItem, error) {
	var items []CartItem
	for _, item := range m.items {
		if item.SessionID == sessionID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *memCarts) FindSelection(_ context.Context, sessionID, productID, size, color string) (CartItem, error) {
	for _, item := range m.items {
		if item.SessionID == sessionID && item.ProductID == productID &&
			item.SelectedSize == size && item.SelectedColor == color {
			return item, nil
		}
	}
	return CartItem{}, ErrCartItemNotFound
}

func (m *memCarts) FindItem(_ context.Context, sessionID, itemID string) (CartItem, error) {
	for _, item := range m.items {
		if item.ID == itemID && item.SessionID == sessionID {
			return item, nil
		}
	}
	return CartItem{}, ErrCartItemNotFound
}

func (m *memCarts) SetQuantity(_ context.Context, itemID string, quantity int) error {
	for i, item := range m.items {
		if item.ID == itemID {
			m.items[i].Quantity = quantity
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (m *memCarts) Remove(_ context.Context, sessionID, itemID string) error {
	for i, item := range m.items {
		if item.ID == itemID && item.SessionID == sessionID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (m *memCarts) Clear(_ context.Context, sessionID string) (int64, error) {
	if m.failClear {
		return 0, errors.New("store unavailable")
	}
	var kept []CartItem
	var removed int64
	for _, item := range m.items {
		if item.SessionID == sessionID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return removed, nil
}

type memOrders struct {
	orders []Order
}

func (m *memOrders) Insert(_ context.Context, o Order) error {
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

func (m *memOrders) FindBySession(_ context.Context, sessionID string) ([]Order, error) {
	var orders []Order
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			orders = append(orders, o)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// testProduct builds a catalog fixture with sane defaults.
func testProduct(name string, price float64, category string, colors ...string) Product {
	if len(colors) == 0 {
		colors = []string{"Schwarz"}
	}
	now := time.Now().UTC()
	return Product{
		ID:          uuid.NewString(),
		Name:        name,
		Price:       price,
		Description: name + " description",
		Image:       "https://example.com/" + uuid.NewString() + ".jpg",
		Category:    category,
		Sizes:       []string{"S", "M", "L"},
		Colors:      colors,
		Stock:       10,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
