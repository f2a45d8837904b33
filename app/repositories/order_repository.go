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

// OrderRepository handles the Orders collection.
type OrderRepository interface {
	FindByBuyerAndProduct(ctx context.Context, buyerEmail, productName string) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	Create(ctx context.Context, order *models.Order) (models.InsertResult, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(col *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{col: col}
}

func (r *MongoOrderRepository) FindByBuyerAndProduct(ctx context.Context, buyerEmail, productName string) (models.Order, error) {
	defer metrics.ObserveStoreOp("orders.find_one", time.Now())

	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"buyerEmail": buyerEmail, "productName": productName}).Decode(&order)
	return order, translate(err)
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	defer metrics.ObserveStoreOp("orders.find_one", time.Now())

	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	return order, translate(err)
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) (models.InsertResult, error) {
	defer metrics.ObserveStoreOp("orders.insert", time.Now())

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, order); err != nil {
		return models.InsertResult{}, translate(err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: order.ID}, nil
}

func (r *MongoOrderRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"buyerEmail": buyerEmail})
}

func (r *MongoOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	defer metrics.ObserveStoreOp("orders.find", time.Now())

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	defer metrics.ObserveStoreOp("orders.update", time.Now())

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.OrderPaid, "transactionId": transactionID}},
	)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	defer metrics.ObserveStoreOp("orders.delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
