package migrations

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_indexes", UsersIndexes)
	migration.Register("20260101000001_create_products_indexes", ProductsIndexes)
	migration.Register("20260101000002_create_orders_indexes", OrdersIndexes)
}

// -------- 0001: users --------

// UsersIndexes makes email the signup key.
var UsersIndexes = indexSet{
	collection: repositories.UsersCollection,
	models: []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	}},
}

// -------- 0002: products --------

// ProductsIndexes serves the category filter and the seller cascade.
var ProductsIndexes = indexSet{
	collection: repositories.ProductsCollection,
	models: []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
		{
			Keys:    bson.D{{Key: "sellerEmail", Value: 1}},
			Options: options.Index().SetName("seller_email"),
		},
	},
}

// -------- 0003: orders --------

// OrdersIndexes allows one order per buyer and product name.
var OrdersIndexes = indexSet{
	collection: repositories.OrdersCollection,
	models: []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "buyerEmail", Value: 1}, {Key: "productName", Value: 1}},
			Options: options.Index().SetName("buyer_product_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "buyerEmail", Value: 1}},
			Options: options.Index().SetName("buyer_email"),
		},
	},
}
