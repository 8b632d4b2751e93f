package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogService fronts the product and category collections. Products and
// categories are administrative data; carts and orders only read them.
type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
}

func NewCatalogService(products ProductRepository, categories CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) List(ctx context.Context, q ProductQuery) ([]Product, int64, error) {
	products, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, total, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create rejects duplicate product names.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (Product, error) {
	_, err := s.products.FindByName(ctx, in.Name)
	if err == nil {
		return Product{}, ErrDuplicateProduct
	}
	if !errors.Is(err, ErrProductNotFound) {
		return Product{}, err
	}

	product := newProduct(in)
	if err := s.products.Insert(ctx, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

// Update replaces the mutable fields and refreshes updated_at; id and
// created_at are preserved.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	return s.products.Update(ctx, id, in)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// ----- handlers -----

func (s *server) listProducts(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50, 1, 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0, 0, maxOffset)
	if !ok {
		return
	}
	saleOnly, ok := queryBool(c, "sale")
	if !ok {
		return
	}

	q := ProductQuery{
		Category: c.Query("category"),
		SaleOnly: saleOnly,
		Name:     c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	}
	products, total, err := s.catalog.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err, "Error retrieving products")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"products": products},
		Total:   intPtr(int(total)),
	})
}

func (s *server) getProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		s.fail(c, err, "Error retrieving product")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{"product": product}})
}

func (s *server) createProduct(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid product payload")
		return
	}

	product, err := s.catalog.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, "Error creating product")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"product": product},
		Message: "Product created successfully",
	})
}

func (s *server) updateProduct(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Invalid product payload")
		return
	}

	product, err := s.catalog.Update(c.Request.Context(), c.Param("productId"), in)
	if err != nil {
		s.fail(c, err, "Error updating product")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"product": product},
		Message: "Product updated successfully",
	})
}

func (s *server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Request.Context(), c.Param("productId")); err != nil {
		s.fail(c, err, "Error deleting product")
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Product deleted successfully"})
}

func (s *server) getCategories(c *gin.Context) {
	categories, err := s.catalog.Categories(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Error retrieving categories")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"categories": categories},
		Total:   intPtr(len(categories)),
	})
}
