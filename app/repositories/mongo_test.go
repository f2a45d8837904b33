package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/resellbd/resell-api/app/models"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by email decodes document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "s@resell.bd"},
			{Key: "verified", Value: true},
		}))

		user, err := NewMongoUserRepository(mt.Coll).FindByEmail(context.Background(), "s@resell.bd")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.True(t, user.Verified)
	})

	mt.Run("missing user maps to ErrNotFound", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewMongoUserRepository(mt.Coll).FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("duplicate email maps to ErrDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := NewMongoUserRepository(mt.Coll).Create(context.Background(), &models.User{Email: "dup@resell.bd"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	mt.Run("insert assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &models.User{Email: "new@resell.bd"}
		res, err := NewMongoUserRepository(mt.Coll).Create(context.Background(), u)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.False(t, u.ID.IsZero())
		assert.Equal(t, u.ID, res.InsertedID)
	})
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mark seller verified reports counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))

		res, err := NewMongoProductRepository(mt.Coll).MarkSellerVerified(context.Background(), "s@resell.bd")
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.MatchedCount)
		assert.Equal(t, int64(3), res.ModifiedCount)
	})

	mt.Run("list by category", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "sofa"}, {Key: "category", Value: "furniture"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "desk"}, {Key: "category", Value: "furniture"}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		products, err := NewMongoProductRepository(mt.Coll).List(context.Background(), "furniture")
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "desk", products[1].Name)
	})
}

func TestMongoOrderRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mark paid", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := NewMongoOrderRepository(mt.Coll).MarkPaid(context.Background(), primitive.NewObjectID(), "pi_1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		res, err := NewMongoOrderRepository(mt.Coll).Delete(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.Equal(t, int64(1), res.DeletedCount)
	})

	mt.Run("empty buyer list is not nil", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		orders, err := NewMongoOrderRepository(mt.Coll).ListByBuyer(context.Background(), "b@resell.bd")
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})
}
