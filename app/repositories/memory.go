package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
)

// The memory drivers keep documents in insertion order and enforce the same
// unique keys as the Mongo indexes. Modified counts follow Mongo: a $set
// that changes nothing matches but does not modify.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository { return &MemoryUserRepository{} }

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return r.users[i], nil
	}
	return models.User{}, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context, email string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		if email == "" || u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) (models.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.InsertResult{}, ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, *user)
	return models.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

func (r *MemoryUserRepository) SetRole(_ context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	return r.update(id, func(u *models.User) bool {
		changed := u.Role != role
		u.Role = role
		return changed
	}), nil
}

func (r *MemoryUserRepository) SetVerified(_ context.Context, id primitive.ObjectID) (models.UpdateResult, error) {
	return r.update(id, func(u *models.User) bool {
		changed := !u.Verified
		u.Verified = true
		return changed
	}), nil
}

func (r *MemoryUserRepository) update(id primitive.ObjectID, apply func(*models.User) bool) models.UpdateResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	if i := r.index(id); i >= 0 {
		res.MatchedCount = 1
		if apply(&r.users[i]) {
			res.ModifiedCount = 1
		}
	}
	return res
}

func (r *MemoryUserRepository) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := models.DeleteResult{Acknowledged: true}
	if i := r.index(id); i >= 0 {
		r.users = append(r.users[:i], r.users[i+1:]...)
		res.DeletedCount = 1
	}
	return res, nil
}

func (r *MemoryUserRepository) index(id primitive.ObjectID) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository { return &MemoryProductRepository{} }

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) (models.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products = append(r.products, *product)
	return models.InsertResult{Acknowledged: true, InsertedID: product.ID}, nil
}

func (r *MemoryProductRepository) List(_ context.Context, category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) MarkSellerVerified(_ context.Context, sellerEmail string) (models.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range r.products {
		if r.products[i].SellerEmail != sellerEmail {
			continue
		}
		res.MatchedCount++
		if !r.products[i].Verified {
			r.products[i].Verified = true
			res.ModifiedCount++
		}
	}
	return res, nil
}

type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository { return &MemoryOrderRepository{} }

func (r *MemoryOrderRepository) FindByBuyerAndProduct(_ context.Context, buyerEmail, productName string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.BuyerEmail == buyerEmail && o.ProductName == productName {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return r.orders[i], nil
	}
	return models.Order{}, ErrNotFound
}

func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) (models.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.BuyerEmail == order.BuyerEmail && o.ProductName == order.ProductName {
			return models.InsertResult{}, ErrDuplicate
		}
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders = append(r.orders, *order)
	return models.InsertResult{Acknowledged: true, InsertedID: order.ID}, nil
}

func (r *MemoryOrderRepository) ListByBuyer(_ context.Context, buyerEmail string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.BuyerEmail == buyerEmail }), nil
}

func (r *MemoryOrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }), nil
}

func (r *MemoryOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (r *MemoryOrderRepository) MarkPaid(_ context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	if i := r.index(id); i >= 0 {
		res.MatchedCount = 1
		o := &r.orders[i]
		if o.Status != models.OrderPaid || o.TransactionID != transactionID {
			o.Status = models.OrderPaid
			o.TransactionID = transactionID
			res.ModifiedCount = 1
		}
	}
	return res, nil
}

func (r *MemoryOrderRepository) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := models.DeleteResult{Acknowledged: true}
	if i := r.index(id); i >= 0 {
		r.orders = append(r.orders[:i], r.orders[i+1:]...)
		res.DeletedCount = 1
	}
	return res, nil
}

func (r *MemoryOrderRepository) index(id primitive.ObjectID) int {
	for i, o := range r.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
