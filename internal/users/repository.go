package users

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"

	"github.com/TamerJohn/literate-spoon/internal/models"
)

// UserRepository looks up credentials. A missing user is (nil, nil).
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// YAMLRepository reads a flat "username: password" mapping. The file is
// read again on every lookup so edits apply without a restart.
type YAMLRepository struct {
	path string
}

func NewYAMLRepository(path string) *YAMLRepository {
	return &YAMLRepository{path: path}
}

func (r *YAMLRepository) Path() string { return r.path }

func (r *YAMLRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", r.path, err)
	}
	var creds map[string]string
	if err := yaml.Unmarshal(b, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", r.path, err)
	}
	pw, ok := creds[username]
	if !ok {
		return nil, nil
	}
	return &models.User{Username: username, Password: pw}, nil
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
