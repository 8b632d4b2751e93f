package main

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateProduct = errors.New("product with this name already exists")
)

// readLimit caps unpaginated collection reads (carts, per-session orders,
// categories).
const readLimit = 100

// ProductQuery is the filter surface the catalog and search engines need.
// All text predicates are case-insensitive substring matches; price bounds
// are inclusive.
type ProductQuery struct {
	Category string   // exact category slug
	SaleOnly bool     // only products flagged on sale
	Name     string   // substring match against the name
	Text     string   // disjunction over name, description, category, colors
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
	Limit    int64
	Offset   int64
}

type ProductRepository interface {
	Insert(ctx context.Context, p Product) error
	FindByID(ctx context.Context, id string) (Product, error)
	FindByName(ctx context.Context, name string) (Product, error)
	Find(ctx context.Context, q ProductQuery) ([]Product, int64, error)
	Suggest(ctx context.Context, query string, limit int64) ([]Product, error)
	Update(ctx context.Context, id string, in ProductInput) (Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	InsertMany(ctx context.Context, categories []Category) error
	FindAll(ctx context.Context) ([]Category, error)
	Count(ctx context.Context) (int64, error)
}

type CartRepository interface {
	Insert(ctx context.Context, item CartItem) error
	FindBySession(ctx context.Context, sessionID string) ([]CartItem, error)
	FindSelection(ctx context.Context, sessionID, productID, size, color string) (CartItem, error)
	FindItem(ctx context.Context, sessionID, itemID string) (CartItem, error)
	SetQuantity(ctx context.Context, itemID string, quantity int) error
	Remove(ctx context.Context, sessionID, itemID string) error
	Clear(ctx context.Context, sessionID string) (int64, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, o Order) error
	FindByID(ctx context.Context, id string) (Order, error)
	FindBySession(ctx context.Context, sessionID string) ([]Order, error)
}

// Store bundles the per-collection repositories handed to the services.
type Store struct {
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Products:   &productStore{coll: db.Collection("products")},
		Categories: &categoryStore{coll: db.Collection("categories")},
		Carts:      &cartStore{coll: db.Collection("cart_items")},
		Orders:     &orderStore{coll: db.Collection("orders")},
	}
}

// containsRegex builds a case-insensitive substring matcher. User input is
// quoted so it can never act as a regex of its own.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func prefixRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s), Options: "i"}
}

func (q ProductQuery) filter() bson.M {
	var conds []bson.M
	if q.Text != "" {
		rx := containsRegex(q.Text)
		conds = append(conds, bson.M{"$or": []bson.M{
			{"name": rx},
			{"description": rx},
			{"category": rx},
			{"colors": rx},
		}})
	}
	if q.Name != "" {
		conds = append(conds, bson.M{"name": containsRegex(q.Name)})
	}
	if q.Category != "" {
		conds = append(conds, bson.M{"category": q.Category})
	}
	if q.SaleOnly {
		conds = append(conds, bson.M{"is_on_sale": true})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		conds = append(conds, bson.M{"price": price})
	}
	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		return bson.M{"$and": conds}
	}
}

// ----- products -----

type productStore struct {
	coll *mongo.Collection
}

func (s *productStore) Insert(ctx context.Context, p Product) error {
	_, err := s.coll.InsertOne(ctx, p)
	return errors.Wrap(err, "insert product")
}

func (s *productStore) FindByID(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, errors.Wrap(err, "find product")
	}
	return p, nil
}

func (s *productStore) FindByName(ctx context.Context, name string) (Product, error) {
	var p Product
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, errors.Wrap(err, "find product by name")
	}
	return p, nil
}

func (s *productStore) Find(ctx context.Context, q ProductQuery) ([]Product, int64, error) {
	filter := q.filter()

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	opts := options.Find().SetSkip(q.Offset).SetLimit(q.Limit)
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errors.Wrap(err, "find products")
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, errors.Wrap(err, "decode products")
	}
	return products, total, nil
}

func (s *productStore) Suggest(ctx context.Context, query string, limit int64) ([]Product, error) {
	filter := bson.M{"$or": []bson.M{
		{"name": prefixRegex(query)},
		{"name": containsRegex(query)},
		{"category": containsRegex(query)},
	}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "find suggestions")
	}
	var products []Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode suggestions")
	}
	return products, nil
}

func (s *productStore) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	stock := 100
	if in.Stock != nil {
		stock = *in.Stock
	}
	patch := bson.M{
		"name":           in.Name,
		"price":          in.Price,
		"original_price": in.OriginalPrice,
		"description":    in.Description,
		"image":          in.Image,
		"category":       in.Category,
		"is_on_sale":     in.IsOnSale,
		"sizes":          in.Sizes,
		"colors":         in.Colors,
		"stock":          stock,
		"updated_at":     time.Now().UTC(),
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": patch})
	if err != nil {
		return Product{}, errors.Wrap(err, "update product")
	}
	if res.MatchedCount == 0 {
		return Product{}, ErrProductNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *productStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count products")
}

// ----- categories -----

type categoryStore struct {
	coll *mongo.Collection
}

func (s *categoryStore) InsertMany(ctx context.Context, categories []Category) error {
	docs := make([]interface{}, len(categories))
	for i, c := range categories {
		docs[i] = c
	}
	_, err := s.coll.InsertMany(ctx, docs)
	return errors.Wrap(err, "insert categories")
}

func (s *categoryStore) FindAll(ctx context.Context) ([]Category, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetLimit(readLimit))
	if err != nil {
		return nil, errors.Wrap(err, "find categories")
	}
	var categories []Category
	if err := cur.All(ctx, &categories); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

func (s *categoryStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count categories")
}

// ----- cart items -----

type cartStore struct {
	coll *mongo.Collection
}

func (s *cartStore) Insert(ctx context.Context, item CartItem) error {
	_, err := s.coll.InsertOne(ctx, item)
	return errors.Wrap(err, "insert cart item")
}

func (s *cartStore) FindBySession(ctx context.Context, sessionID string) ([]CartItem, error) {
	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID}, options.Find().SetLimit(readLimit))
	if err != nil {
		return nil, errors.Wrap(err, "find cart items")
	}
	var items []CartItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode cart items")
	}
	return items, nil
}

func (s *cartStore) FindSelection(ctx context.Context, sessionID, productID, size, color string) (CartItem, error) {
	var item CartItem
	err := s.coll.FindOne(ctx, bson.M{
		"session_id":     sessionID,
		"product_id":     productID,
		"selected_size":  size,
		"selected_color": color,
	}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return CartItem{}, ErrCartItemNotFound
	}
	if err != nil {
		return CartItem{}, errors.Wrap(err, "find cart selection")
	}
	return item, nil
}

func (s *cartStore) FindItem(ctx context.Context, sessionID, itemID string) (CartItem, error) {
	var item CartItem
	err := s.coll.FindOne(ctx, bson.M{"id": itemID, "session_id": sessionID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return CartItem{}, ErrCartItemNotFound
	}
	if err != nil {
		return CartItem{}, errors.Wrap(err, "find cart item")
	}
	return item, nil
}

func (s *cartStore) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": itemID}, bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return errors.Wrap(err, "update cart quantity")
	}
	if res.MatchedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *cartStore) Remove(ctx context.Context, sessionID, itemID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": itemID, "session_id": sessionID})
	if err != nil {
		return errors.Wrap(err, "delete cart item")
	}
	if res.DeletedCount == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *cartStore) Clear(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, errors.Wrap(err, "clear cart")
	}
	return res.DeletedCount, nil
}

// ----- orders -----

type orderStore struct {
	coll *mongo.Collection
}

func (s *orderStore) Insert(ctx context.Context, o Order) error {
	_, err := s.coll.InsertOne(ctx, o)
	return errors.Wrap(err, "insert order")
}

func (s *orderStore) FindByID(ctx context.Context, id string) (Order, error) {
	var o Order
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, errors.Wrap(err, "find order")
	}
	return o, nil
}

func (s *orderStore) FindBySession(ctx context.Context, sessionID string) ([]Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(readLimit)
	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	var orders []Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}
