package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/logger"
)

// uniqueKey is the natural key a unique index will enforce on a collection.
type uniqueKey struct {
	collection string
	fields     []string
}

var uniqueKeys = []uniqueKey{
	{collection: repositories.UsersCollection, fields: []string{"email"}},
	{collection: repositories.OrdersCollection, fields: []string{"buyerEmail", "productName"}},
}

// DedupeResult reports duplicates found (and removed unless dry-run) in
// one collection.
type DedupeResult struct {
	Collection string
	Groups     int
	Removed    int64
}

// Dedupe keeps the oldest document of every group sharing a unique key and
// deletes the rest, so the unique index migrations can be built over
// legacy data. With dryRun set nothing is deleted.
func Dedupe(ctx context.Context, db *mongo.Database, dryRun bool) ([]DedupeResult, error) {
	out := make([]DedupeResult, 0, len(uniqueKeys))
	for _, k := range uniqueKeys {
		res, err := dedupeOne(ctx, db.Collection(k.collection), k.fields, dryRun)
		if err != nil {
			return out, fmt.Errorf("dedupe %s: %w", k.collection, err)
		}
		res.Collection = k.collection
		out = append(out, res)
	}
	return out, nil
}

func dedupeOne(ctx context.Context, col *mongo.Collection, fields []string, dryRun bool) (DedupeResult, error) {
	key := bson.D{}
	for _, f := range fields {
		key = append(key, bson.E{Key: f, Value: "$" + f})
	}
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: key},
			{Key: "ids", Value: bson.D{{Key: "$push", Value: "$_id"}}},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "n", Value: bson.D{{Key: "$gt", Value: 1}}}}}},
	}

	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return DedupeResult{}, err
	}
	var groups []struct {
		IDs []primitive.ObjectID `bson:"ids"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return DedupeResult{}, err
	}

	res := DedupeResult{Groups: len(groups)}
	var extra []primitive.ObjectID
	for _, g := range groups {
		if len(g.IDs) > 1 {
			extra = append(extra, g.IDs[1:]...)
		}
	}
	if len(extra) == 0 {
		return res, nil
	}
	if dryRun {
		res.Removed = int64(len(extra))
		return res, nil
	}

	del, err := col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": extra}})
	if err != nil {
		return res, err
	}
	res.Removed = del.DeletedCount
	logger.Info("dedupe: removed duplicates", "collection", col.Name(), "groups", res.Groups, "removed", res.Removed)
	return res, nil
}
