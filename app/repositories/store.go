// Package repositories holds the document-store access layer. Each
// collection has an interface with two drivers: MongoDB for deployments and
// an in-process memory driver for local runs and tests.
package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection    = "Users"
	ProductsCollection = "Products"
	OrdersCollection   = "Orders"
	LogsCollection     = "Logs"
)

var (
	// ErrNotFound is returned by single-document lookups that match nothing.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
)

// Store bundles the three collections handed to services.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
}

// NewMongoStore binds every repository to its collection in db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    NewMongoUserRepository(db.Collection(UsersCollection)),
		Products: NewMongoProductRepository(db.Collection(ProductsCollection)),
		Orders:   NewMongoOrderRepository(db.Collection(OrdersCollection)),
	}
}

// NewMemoryStore returns a fresh, empty in-process store.
func NewMemoryStore() *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Products: NewMemoryProductRepository(),
		Orders:   NewMemoryOrderRepository(),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
