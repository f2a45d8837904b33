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

// UserRepository handles the Users collection.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	// List returns every user, or only those with the given email when set.
	List(ctx context.Context, email string) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (models.InsertResult, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error)
	SetVerified(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveStoreOp("users.find_one", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, translate(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	defer metrics.ObserveStoreOp("users.find_one", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, translate(err)
}

func (r *MongoUserRepository) List(ctx context.Context, email string) ([]models.User, error) {
	defer metrics.ObserveStoreOp("users.find", time.Now())

	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (models.InsertResult, error) {
	defer metrics.ObserveStoreOp("users.insert", time.Now())

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return models.InsertResult{}, translate(err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	return r.set(ctx, id, bson.M{"role": role})
}

func (r *MongoUserRepository) SetVerified(ctx context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	return r.set(ctx, id, bson.M{"verified": true})
}

func (r *MongoUserRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error) {
	defer metrics.ObserveStoreOp("users.update", time.Now())

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return models.UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	defer metrics.ObserveStoreOp("users.delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, err
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}
