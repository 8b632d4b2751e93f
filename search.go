package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchService runs multi-field filtered lookups over the catalog.
type SearchService struct {
	products ProductRepository
}

func NewSearchService(products ProductRepository) *SearchService {
	return &SearchService{products: products}
}

type SearchRequest struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Limit    int64
	Offset   int64
}

// Search matches the query as a case-insensitive substring against name,
// description, category and color labels, intersected with the optional
// category and price filters.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]Product, int64, error) {
	q := ProductQuery{
		Text:     req.Query,
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	products, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, total, nil
}

// Suggest gathers up to 2×limit name-or-category matches and de-duplicates
// them by exact name text until limit unique suggestions are collected.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int64) ([]Suggestion, error) {
	candidates, err := s.products.Suggest(ctx, query, limit*2)
	if err != nil {
		return nil, err
	}

	suggestions := []Suggestion{}
	seen := map[string]bool{}
	for _, p := range candidates {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		suggestions = append(suggestions, Suggestion{
			Text:     p.Name,
			Type:     "product",
			Category: p.Category,
		})
		if int64(len(suggestions)) >= limit {
			break
		}
	}
	return suggestions, nil
}

// ----- handlers -----

func (s *server) searchProducts(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		abortDetail(c, http.StatusUnprocessableEntity, "Search query must not be empty")
		return
	}
	limit, ok := queryInt(c, "limit", 20, 1, 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0, 0, maxOffset)
	if !ok {
		return
	}
	minPrice, ok := queryPrice(c, "min_price")
	if !ok {
		return
	}
	maxPrice, ok := queryPrice(c, "max_price")
	if !ok {
		return
	}

	req := SearchRequest{
		Query:    query,
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Limit:    limit,
		Offset:   offset,
	}
	products, total, err := s.search.Search(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Error performing search")
		return
	}

	var category interface{}
	if req.Category != "" {
		category = req.Category
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"products": products,
			"query":    query,
			"filters": gin.H{
				"category":  category,
				"min_price": minPrice,
				"max_price": maxPrice,
			},
		},
		Total: intPtr(int(total)),
	})
}

func (s *server) searchSuggestions(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		abortDetail(c, http.StatusUnprocessableEntity, "Search query must not be empty")
		return
	}
	limit, ok := queryInt(c, "limit", 5, 1, 10)
	if !ok {
		return
	}

	suggestions, err := s.search.Suggest(c.Request.Context(), query, limit)
	if err != nil {
		s.fail(c, err, "Error getting search suggestions")
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"suggestions": suggestions},
		Total:   intPtr(len(suggestions)),
	})
}
