package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const apiVersion = "1.0.0"

// maxOffset is an upper sanity bound for pagination offsets.
const maxOffset = 1 << 30

type server struct {
	cfg     Config
	log     *logrus.Logger
	catalog *CatalogService
	cart    *CartService
	orders  *OrderService
	search  *SearchService
	ping    func(ctx context.Context) error
}

func newServer(cfg Config, log *logrus.Logger, store *Store, ping func(context.Context) error) *server {
	return &server{
		cfg:     cfg,
		log:     log,
		catalog: NewCatalogService(store.Products, store.Categories),
		cart:    NewCartService(store.Products, store.Carts),
		orders:  NewOrderService(store.Products, store.Carts, store.Orders, log),
		search:  NewSearchService(store.Products),
		ping:    ping,
	}
}

func (s *server) router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.GET("/", s.root)
	api.GET("/health", s.health)

	api.GET("/products", s.listProducts)
	api.GET("/products/:productId", s.getProduct)
	api.GET("/categories", s.getCategories)

	admin := api.Group("", s.adminRequired)
	admin.POST("/products", s.createProduct)
	admin.PUT("/products/:productId", s.updateProduct)
	admin.DELETE("/products/:productId", s.deleteProduct)

	api.POST("/cart", s.addToCart)
	api.GET("/cart/:sessionId", s.getCart)
	api.PUT("/cart/:sessionId/item/:itemId", s.updateCartItem)
	api.DELETE("/cart/:sessionId/item/:itemId", s.removeCartItem)
	api.DELETE("/cart/:sessionId", s.clearCart)

	api.POST("/orders", s.createOrder)
	api.GET("/orders", s.getOrdersBySession)
	api.GET("/orders/:orderId", s.getOrder)

	api.GET("/search", s.searchProducts)
	api.GET("/search/suggestions", s.searchSuggestions)

	api.POST("/admin/login", s.adminLogin)

	return r
}

func (s *server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "StyleHub API is running", "version": apiVersion})
}

func (s *server) health(c *gin.Context) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status":   "error",
				"database": "disconnected",
				"message":  "Database error: " + err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
		"message":  "API and database are running",
	})
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// fail maps service errors onto HTTP outcomes. Expected outcomes (not
// found, empty cart, duplicates) surface with their specific message and
// are never logged; anything else is logged and hidden behind the generic
// detail.
func (s *server) fail(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		abortDetail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrCartItemNotFound):
		abortDetail(c, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, ErrOrderNotFound):
		abortDetail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrEmptyCart):
		abortDetail(c, http.StatusBadRequest, "No items in cart")
	case errors.Is(err, ErrDuplicateProduct):
		abortDetail(c, http.StatusBadRequest, "Product with this name already exists")
	default:
		s.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error(generic)
		abortDetail(c, http.StatusInternalServerError, generic)
	}
}

func queryInt(c *gin.Context, name string, def, min, max int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < min || v > max {
		abortDetail(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("Parameter %q must be an integer between %d and %d", name, min, max))
		return 0, false
	}
	return v, true
}

func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		abortDetail(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("Parameter %q must be a boolean", name))
		return false, false
	}
	return v, true
}

func queryPrice(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		abortDetail(c, http.StatusUnprocessableEntity,
			fmt.Sprintf("Parameter %q must be a non-negative number", name))
		return nil, false
	}
	return &v, true
}
