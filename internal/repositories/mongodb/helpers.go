package mongodb

import (
	"context"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// pageOptions returns newest-first find options for the requested page.
func pageOptions(page, limit int) *options.FindOptions {
	page, limit = models.NormalizePage(page, limit)
	return options.Find().
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// findPage counts the documents matching filter and decodes the requested page into T.
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, page, limit int) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := coll.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := []*T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
