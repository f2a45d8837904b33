// Package migrations contains the index migrations for the marketplace
// collections. Each file registers itself from init(); blank-import this
// package wherever migration.Runner is used.
package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// indexSet creates and drops a fixed list of named indexes on one collection.
type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func (s indexSet) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.models)
	return err
}

func (s indexSet) Down(ctx context.Context, db *mongo.Database) error {
	view := db.Collection(s.collection).Indexes()
	for _, m := range s.models {
		if _, err := view.DropOne(ctx, *m.Options.Name); err != nil {
			return err
		}
	}
	return nil
}
