package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/cache"
	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/logger"
)

const (
	productCacheAll      = "products:all"
	productCacheCategory = "products:category:"
	productCachePattern  = "products:*"
)

type ProductService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	cache    *cache.Cache
	events   *event.Dispatcher
	ttl      time.Duration
}

func NewProductService(store *repositories.Store, c *cache.Cache, events *event.Dispatcher, ttl time.Duration) *ProductService {
	return &ProductService{
		users:    store.Users,
		products: store.Products,
		cache:    c,
		events:   events,
		ttl:      ttl,
	}
}

// Create stamps the product with the seller's current verified flag (false
// when the seller is unknown) and inserts it.
func (s *ProductService) Create(ctx context.Context, product *models.Product) (models.InsertResult, error) {
	seller, err := s.users.FindByEmail(ctx, product.SellerEmail)
	switch {
	case err == nil:
		product.Verified = seller.Verified
	case errors.Is(err, repositories.ErrNotFound):
		product.Verified = false
	default:
		return models.InsertResult{}, storeErr("find seller", err)
	}

	product.ID = primitive.NilObjectID
	res, err := s.products.Create(ctx, product)
	if err != nil {
		return models.InsertResult{}, storeErr("insert product", err)
	}

	logger.WithCtx(ctx).Info("product created",
		"product_id", product.ID.Hex(),
		"seller", product.SellerEmail,
		"verified", product.Verified,
	)
	s.events.Fire(ctx, event.ProductCreated, *product)
	return res, nil
}

// List returns all products, or those whose category equals category.
func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	key := productCacheAll
	if category != "" {
		key = productCacheCategory + category
	}

	var products []models.Product
	if s.cache.Get(ctx, key, &products) {
		return products, nil
	}

	products, err := s.products.List(ctx, category)
	if err != nil {
		return nil, storeErr("list products", err)
	}

	if err := s.cache.Set(ctx, key, products, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("product cache write failed", "key", key, "error", err)
	}
	return products, nil
}

// InvalidateListings drops every cached product listing.
func (s *ProductService) InvalidateListings(ctx context.Context) {
	if err := s.cache.DelPattern(ctx, productCachePattern); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed", "error", err)
	}
}
