package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/pkg/metrics"
)

// ProductRepository handles the Products collection.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (models.InsertResult, error)
	// List returns every product, or only the given category when set.
	List(ctx context.Context, category string) ([]models.Product, error)
	// MarkSellerVerified sets verified=true on every product of sellerEmail.
	MarkSellerVerified(ctx context.Context, sellerEmail string) (models.UpdateResult, error)
}

type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(col *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{col: col}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) (models.InsertResult, error) {
	defer metrics.ObserveStoreOp("products.insert", time.Now())

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return models.InsertResult{}, translate(err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: product.ID}, nil
}

func (r *MongoProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("products.find", time.Now())

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) MarkSellerVerified(ctx context.Context, sellerEmail string) (models.UpdateResult, error) {
	defer metrics.ObserveStoreOp("products.update_many", time.Now())

	res, err := r.col.UpdateMany(ctx,
		bson.M{"sellerEmail": sellerEmail},
		bson.M{"$set": bson.M{"verified": true}},
	)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return updateResult(res), nil
}
