package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocrud/injector/di"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoArchive 把导入报告写入 MongoDB 集合
type MongoArchive struct {
	di.Component
	collection *mongo.Collection
}

// NewMongoArchive 使用 db 中的 collection 集合
func NewMongoArchive(db *mongo.Database, collection string) (*MongoArchive, error) {
	if db == nil {
		return nil, errors.New("catalog: mongo archive needs a database")
	}
	if collection == "" {
		collection = "imports"
	}
	return &MongoArchive{collection: db.Collection(collection)}, nil
}

func (a *MongoArchive) Record(ctx context.Context, report ImportReport) error {
	if _, err := a.collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("catalog: archive import %s: %w", report.BatchID, err)
	}
	return nil
}

func (a *MongoArchive) Latest(ctx context.Context) (ImportReport, bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var report ImportReport
	err := a.collection.FindOne(ctx, bson.D{}, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ImportReport{}, false, nil
	}
	if err != nil {
		return ImportReport{}, false, fmt.Errorf("catalog: latest import: %w", err)
	}
	return report, true, nil
}
