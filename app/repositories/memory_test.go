package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
)

func TestMemoryUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	res, err := repo.Create(ctx, &models.User{Email: "a@resell.bd"})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	_, err = repo.Create(ctx, &models.User{Email: "a@resell.bd"})
	assert.ErrorIs(t, err, ErrDuplicate)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryUsers_UpdateCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	u := &models.User{Email: "s@resell.bd"}
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	res, _ := repo.SetVerified(ctx, u.ID)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)

	res, _ = repo.SetVerified(ctx, u.ID)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount)

	res, _ = repo.SetRole(ctx, primitive.NewObjectID(), models.RoleAdmin)
	assert.Equal(t, int64(0), res.MatchedCount)

	del, _ := repo.Delete(ctx, u.ID)
	assert.Equal(t, int64(1), del.DeletedCount)
	_, err = repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProducts_CategoryAndSellerVerification(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	for _, p := range []models.Product{
		{Name: "fridge", Category: "appliance", SellerEmail: "s@resell.bd"},
		{Name: "sofa", Category: "furniture", SellerEmail: "s@resell.bd", Verified: true},
		{Name: "bike", Category: "vehicle", SellerEmail: "other@resell.bd"},
	} {
		p := p
		_, err := repo.Create(ctx, &p)
		require.NoError(t, err)
	}

	furniture, _ := repo.List(ctx, "furniture")
	require.Len(t, furniture, 1)
	assert.Equal(t, "sofa", furniture[0].Name)

	res, err := repo.MarkSellerVerified(ctx, "s@resell.bd")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)

	all, _ := repo.List(ctx, "")
	assert.True(t, all[0].Verified)
	assert.False(t, all[2].Verified)
}

func TestMemoryOrders_PairUniquenessAndPaid(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrderRepository()

	o := &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa", Status: models.OrderPending, CreatedAt: time.Now()}
	_, err := repo.Create(ctx, o)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.Create(ctx, &models.Order{BuyerEmail: "c@resell.bd", ProductName: "sofa"})
	assert.NoError(t, err)

	mine, _ := repo.ListByBuyer(ctx, "b@resell.bd")
	assert.Len(t, mine, 1)
	all, _ := repo.ListAll(ctx)
	assert.Len(t, all, 2)

	res, _ := repo.MarkPaid(ctx, o.ID, "pi_123")
	assert.Equal(t, int64(1), res.ModifiedCount)
	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, got.Status)
	assert.Equal(t, "pi_123", got.TransactionID)
}
