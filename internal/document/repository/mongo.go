package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDocument is the stored shape of a document; name is unique.
type mongoDocument struct {
	Name      string    `bson:"name"`
	Content   []byte    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoRepo keeps documents in a MongoDB collection, one record per name.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the unique name index exists and returns the repo.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("ensure documents index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1}).SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []string{}
	for cur.Next(ctx) {
		var d mongoDocument
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.Name)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Exists(ctx context.Context, name string) (bool, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (m *MongoRepo) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	var d mongoDocument
	if err := m.col.FindOne(ctx, bson.M{"name": name}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d.Content, nil
}

func (m *MongoRepo) Write(ctx context.Context, name string, content []byte) error {
	if err := ValidName(name); err != nil {
		return err
	}
	now := time.Now().UTC()
	if content == nil {
		content = []byte{}
	}
	update := bson.M{
		"$set":         bson.M{"content": content, "updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoRepo) Delete(ctx context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
