package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderSetup(t *testing.T) (*OrderService, *CartService, *memProducts, *memCarts, *memOrders) {
	t.Helper()
	products := &memProducts{}
	carts := &memCarts{}
	orders := &memOrders{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewOrderService(products, carts, orders, log),
		NewCartService(products, carts), products, carts, orders
}

func testCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Anna Schmidt",
		Email:   "anna@example.com",
		Address: "Musterstraße 1, 10115 Berlin",
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, _, _, _, _ := orderSetup(t)

	_, err := svc.Create(context.Background(), OrderInput{
		SessionID:    "sess-1",
		CustomerInfo: testCustomer(),
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderSnapshotsPricesAndClearsCart(t *testing.T) {
	svc, cart, products, _, _ := orderSetup(t)
	ctx := context.Background()

	dress := testProduct("Elegantes Sommerkleid", 89.99, "damen")
	require.NoError(t, products.Insert(ctx, dress))

	_, _, err := cart.AddItem(ctx, CartItemInput{
		SessionID: "sess-1", ProductID: dress.ID,
		SelectedSize: "M", SelectedColor: "Schwarz", Quantity: 1,
	})
	require.NoError(t, err)

	order, err := svc.Create(ctx, OrderInput{SessionID: "sess-1", CustomerInfo: testCustomer()})
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 89.99, order.Items[0].PriceAtTime)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 89.99, order.TotalAmount)

	// Cart is empty after checkout.
	view, err := cart.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	// A later price change must not affect the stored snapshot.
	in := ProductInput{
		Name: dress.Name, Price: 129.99, Description: dress.Description,
		Image: dress.Image, Category: dress.Category,
		Sizes: dress.Sizes, Colors: dress.Colors, Stock: intPtr(dress.Stock),
	}
	_, err = products.Update(ctx, dress.ID, in)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 89.99, stored.Items[0].PriceAtTime)
	assert.Equal(t, 89.99, stored.Items[0].Product.Price)
	assert.Equal(t, 89.99, stored.TotalAmount)
}

func TestCreateOrderAppliesShippingBelowThreshold(t *testing.T) {
	svc, cart, products, _, _ := orderSetup(t)
	ctx := context.Background()

	socks := testProduct("Sportsocken", 19.99, "herren")
	require.NoError(t, products.Insert(ctx, socks))

	_, _, err := cart.AddItem(ctx, CartItemInput{
		SessionID: "sess-1", ProductID: socks.ID,
		SelectedSize: "M", SelectedColor: "Schwarz", Quantity: 1,
	})
	require.NoError(t, err)

	order, err := svc.Create(ctx, OrderInput{SessionID: "sess-1", CustomerInfo: testCustomer()})
	require.NoError(t, err)
	assert.Equal(t, 4.99, order.ShippingCost)
	assert.Equal(t, 24.98, order.TotalAmount)
}

func TestCreateOrderSkipsOrphanedItems(t *testing.T) {
	svc, cart, products, _, _ := orderSetup(t)
	ctx := context.Background()

	dress := testProduct("Elegantes Sommerkleid", 89.99, "damen")
	shirt := testProduct("Herren Business Hemd", 65.99, "herren")
	require.NoError(t, products.Insert(ctx, dress))
	require.NoError(t, products.Insert(ctx, shirt))

	for _, p := range []Product{dress, shirt} {
		_, _, err := cart.AddItem(ctx, CartItemInput{
			SessionID: "sess-1", ProductID: p.ID,
			SelectedSize: "M", SelectedColor: "Schwarz", Quantity: 1,
		})
		require.NoError(t, err)
	}

	require.NoError(t, products.Delete(ctx, shirt.ID))

	order, err := svc.Create(ctx, OrderInput{SessionID: "sess-1", CustomerInfo: testCustomer()})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, dress.ID, order.Items[0].ProductID)
	assert.Equal(t, 89.99, order.TotalAmount)
}

func TestCreateOrderSurvivesCartClearFailure(t *testing.T) {
	svc, cart, products, carts, orders := orderSetup(t)
	ctx := context.Background()

	dress := testProduct("Elegantes Sommerkleid", 89.99, "damen")
	require.NoError(t, products.Insert(ctx, dress))

	_, _, err := cart.AddItem(ctx, CartItemInput{
		SessionID: "sess-1", ProductID: dress.ID,
		SelectedSize: "M", SelectedColor: "Schwarz", Quantity: 1,
	})
	require.NoError(t, err)

	carts.failClear = true

	order, err := svc.Create(ctx, OrderInput{SessionID: "sess-1", CustomerInfo: testCustomer()})
	require.NoError(t, err)
	assert.Len(t, orders.orders, 1)
	assert.Equal(t, order.ID, orders.orders[0].ID)

	// Stale items remain; no rollback is attempted.
	assert.Len(t, carts.items, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _, _, _ := orderSetup(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrdersBySessionNewestFirst(t *testing.T) {
	svc, _, _, _, orders := orderSetup(t)
	ctx := context.Background()

	base := time.Now().UTC()
	older := Order{ID: uuid.NewString(), SessionID: "sess-1", Status: OrderStatusPending, CreatedAt: base.Add(-time.Hour)}
	newer := Order{ID: uuid.NewString(), SessionID: "sess-1", Status: OrderStatusPending, CreatedAt: base}
	other := Order{ID: uuid.NewString(), SessionID: "sess-2", Status: OrderStatusPending, CreatedAt: base}
	for _, o := range []Order{older, newer, other} {
		require.NoError(t, orders.Insert(ctx, o))
	}

	got, err := svc.BySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestOrdersBySessionEmpty(t *testing.T) {
	svc, _, _, _, _ := orderSetup(t)

	got, err := svc.BySession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
