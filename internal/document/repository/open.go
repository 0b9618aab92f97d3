package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TamerJohn/literate-spoon/internal/config"
	"github.com/TamerJohn/literate-spoon/internal/storage"
)

// Open builds the repository selected by cfg.Data.DocumentStore. The mongo
// client is only consulted for the mongo backend and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, client *mongo.Client) (Repository, error) {
	switch cfg.Data.DocumentStore {
	case config.StoreMongo:
		if client == nil {
			return nil, fmt.Errorf("document store %q needs a MongoDB client", cfg.Data.DocumentStore)
		}
		return NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database).Collection("documents"))
	case config.StoreMinIO:
		objects, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return NewObjectRepo(objects), nil
	case config.StoreFilesystem, "":
		return NewFileRepo(cfg.DataPath())
	}
	return nil, fmt.Errorf("unknown document store %q", cfg.Data.DocumentStore)
}
