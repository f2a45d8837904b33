package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/apperr"
	"github.com/resellbd/resell-api/pkg/cache"
	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/payment"
)

type fakeProvider struct {
	mu   sync.Mutex
	reqs []payment.IntentRequest
	err  error
}

func (f *fakeProvider) CreateIntent(_ context.Context, req payment.IntentRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return "pi_test_secret_123", nil
}

type fixture struct {
	store    *repositories.Store
	events   *event.Dispatcher
	products *ProductService
	orders   *OrderService
	users    *UserService
}

func newFixture(t *testing.T, c *cache.Cache) fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	d := event.NewDispatcher(2)
	t.Cleanup(d.Close)
	if c == nil {
		c = cache.New(nil, "")
	}
	f := fixture{
		store:    store,
		events:   d,
		products: NewProductService(store, c, d, time.Minute),
		orders:   NewOrderService(store, d),
		users:    NewUserService(store, d),
	}
	RegisterListeners(d, f.products)
	return f
}

func (f fixture) seedUser(t *testing.T, email string, verified bool) primitive.ObjectID {
	t.Helper()
	u := &models.User{Email: email, Verified: verified}
	_, err := f.store.Users.Create(context.Background(), u)
	require.NoError(t, err)
	return u.ID
}

func TestProductCreate_StampsSellerVerification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedUser(t, "verified@resell.bd", true)
	f.seedUser(t, "plain@resell.bd", false)

	cases := []struct {
		seller string
		want   bool
	}{
		{"verified@resell.bd", true},
		{"plain@resell.bd", false},
		{"ghost@resell.bd", false},
	}
	for _, tc := range cases {
		p := &models.Product{Name: "lamp", SellerEmail: tc.seller, Verified: !tc.want}
		res, err := f.products.Create(ctx, p)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.Equal(t, tc.want, p.Verified, tc.seller)
	}
}

func TestProductList_CacheInvalidatedOnCreateAndVerify(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c, err := cache.Connect(ctx, mr.Addr(), "", "")
	require.NoError(t, err)
	f := newFixture(t, c)
	sellerID := f.seedUser(t, "s@resell.bd", false)

	_, err = f.products.Create(ctx, &models.Product{Name: "sofa", Category: "furniture", SellerEmail: "s@resell.bd"})
	require.NoError(t, err)

	list, err := f.products.List(ctx, "furniture")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Verified)
	assert.True(t, mr.Exists(productCacheCategory+"furniture"))

	_, err = f.users.Verify(ctx, sellerID.Hex())
	require.NoError(t, err)
	assert.False(t, mr.Exists(productCacheCategory+"furniture"))

	list, err = f.products.List(ctx, "furniture")
	require.NoError(t, err)
	assert.True(t, list[0].Verified)

	_, err = f.products.Create(ctx, &models.Product{Name: "desk", Category: "furniture", SellerEmail: "s@resell.bd"})
	require.NoError(t, err)
	list, _ = f.products.List(ctx, "furniture")
	assert.Len(t, list, 2)
}

func TestOrderCreate_DuplicatePairIsSoftFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.orders.Create(ctx, &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa"})
	require.NoError(t, err)
	require.Nil(t, first.Skipped)

	second, err := f.orders.Create(ctx, &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa"})
	require.NoError(t, err)
	require.NotNil(t, second.Skipped)
	assert.False(t, second.Skipped.Acknowledged)
	assert.Equal(t, "Already ordered this product!", second.Skipped.Message)

	other, err := f.orders.Create(ctx, &models.Order{BuyerEmail: "c@resell.bd", ProductName: "sofa"})
	require.NoError(t, err)
	assert.Nil(t, other.Skipped)

	all, _ := f.orders.ListAll(ctx)
	assert.Len(t, all, 2)
}

// raceOrders reports "not found" on every lookup, so two identical creates
// both reach the insert and the unique key decides.
type raceOrders struct{ repositories.OrderRepository }

func (raceOrders) FindByBuyerAndProduct(context.Context, string, string) (models.Order, error) {
	return models.Order{}, repositories.ErrNotFound
}

func TestOrderCreate_UniqueKeyRaceIsSoftFailure(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	store.Orders = raceOrders{store.Orders}
	svc := NewOrderService(store, nil)

	_, err := svc.Create(ctx, &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa"})
	require.NoError(t, err)
	out, err := svc.Create(ctx, &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa"})
	require.NoError(t, err)
	require.NotNil(t, out.Skipped)
}

func TestOrderLifecycle_PendingThenPaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	f.orders.now = func() time.Time { return fixed }

	o := &models.Order{BuyerEmail: "b@resell.bd", ProductName: "sofa", Status: "Paid", TransactionID: "forged"}
	out, err := f.orders.Create(ctx, o)
	require.NoError(t, err)
	id := out.Inserted.InsertedID.(primitive.ObjectID).Hex()

	got, err := f.orders.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.OrderPending, got.Status)
	assert.Empty(t, got.TransactionID)
	assert.Equal(t, fixed, got.CreatedAt)

	res, err := f.orders.MarkPaid(ctx, id, "pi_3Nabc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	got, _ = f.orders.Get(ctx, id)
	assert.Equal(t, models.OrderPaid, got.Status)
	assert.Equal(t, "pi_3Nabc", got.TransactionID)
}

func TestOrderGet_MissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	got, err := f.orders.Get(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.orders.Get(ctx, "not-an-id")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.orders.ListByBuyer(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, "Email is required", apperr.Message(err))
}

func TestUserCreate_DuplicateAndServerControlledFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	out, err := f.users.Create(ctx, &models.User{Email: "u@resell.bd", Role: "admin", Verified: true})
	require.NoError(t, err)
	require.Nil(t, out.Skipped)

	out, err = f.users.Create(ctx, &models.User{Email: "u@resell.bd"})
	require.NoError(t, err)
	require.NotNil(t, out.Skipped)
	assert.Equal(t, "User already exists", out.Skipped.Message)

	users, _ := f.users.List(ctx, "")
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Role)
	assert.False(t, users[0].Verified)
}

func TestUserVerify_CascadesToAllSellerProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	id := f.seedUser(t, "s@resell.bd", false)
	for _, name := range []string{"a", "b", "c"} {
		_, err := f.products.Create(ctx, &models.Product{Name: name, SellerEmail: "s@resell.bd"})
		require.NoError(t, err)
	}
	_, err := f.products.Create(ctx, &models.Product{Name: "x", SellerEmail: "other@resell.bd"})
	require.NoError(t, err)

	res, err := f.users.Verify(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UserUpdated)
	assert.Equal(t, int64(3), res.ProductsUpdated)

	products, _ := f.products.List(ctx, "")
	for _, p := range products {
		assert.Equal(t, p.SellerEmail == "s@resell.bd", p.Verified, p.Name)
	}

	// A product listed after verification picks up the new snapshot.
	p := &models.Product{Name: "d", SellerEmail: "s@resell.bd"}
	_, err = f.products.Create(ctx, p)
	require.NoError(t, err)
	assert.True(t, p.Verified)
}

type failingProducts struct{ repositories.ProductRepository }

func (failingProducts) MarkSellerVerified(context.Context, string) (models.UpdateResult, error) {
	return models.UpdateResult{}, errors.New("connection reset")
}

func TestUserVerify_SecondWriteFailureLeavesUserVerified(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	store.Products = failingProducts{store.Products}
	svc := NewUserService(store, nil)

	u := &models.User{Email: "s@resell.bd"}
	_, err := store.Users.Create(ctx, u)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, u.ID.Hex())
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	got, err := store.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestUserVerify_UnknownUser(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.users.Verify(context.Background(), primitive.NewObjectID().Hex())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserPromoteAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	id := f.seedUser(t, "u@resell.bd", false)

	res, err := f.users.Promote(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)
	u, _ := f.store.Users.FindByID(ctx, id)
	assert.True(t, u.IsAdmin())

	del, err := f.users.Delete(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)
}

func TestPaymentIntent_MinorUnitsAndCurrency(t *testing.T) {
	p := &fakeProvider{}
	svc := NewPaymentService(p, "bdt")

	intent, err := svc.CreateIntent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret_123", intent.ClientSecret)
	require.Len(t, p.reqs, 1)
	assert.Equal(t, int64(1000), p.reqs[0].Amount)
	assert.Equal(t, "bdt", p.reqs[0].Currency)
}

func TestPaymentIntent_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewPaymentService(&fakeProvider{}, "bdt").CreateIntent(ctx, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = NewPaymentService(&fakeProvider{err: errors.New("card_declined")}, "bdt").CreateIntent(ctx, 5)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	_, err = NewPaymentService(payment.Unconfigured{}, "bdt").CreateIntent(ctx, 5)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, "Payment provider is not configured", apperr.Message(err))
}
